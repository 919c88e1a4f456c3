package gatekeeper_test

import (
	"testing"

	"github.com/goliatone/go-gatekeeper"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestUserRecordID(t *testing.T) {
	uid := uuid.MustParse("b07e62e8-6a23-4c09-b9a5-7d581e3ba5b5")

	tests := []struct {
		name   string
		record gatekeeper.UserRecord
		want   string
		ok     bool
	}{
		{
			name:   "string id",
			record: gatekeeper.UserRecord{"id": "abc-123"},
			want:   "abc-123",
			ok:     true,
		},
		{
			name:   "integer id",
			record: gatekeeper.UserRecord{"id": 42},
			want:   "42",
			ok:     true,
		},
		{
			name:   "json decoded numeric id",
			record: gatekeeper.UserRecord{"id": float64(42)},
			want:   "42",
			ok:     true,
		},
		{
			name:   "stringer id",
			record: gatekeeper.UserRecord{"id": uid},
			want:   uid.String(),
			ok:     true,
		},
		{
			name:   "missing id",
			record: gatekeeper.UserRecord{"email": "tester@example.com"},
			ok:     false,
		},
		{
			name:   "nil id",
			record: gatekeeper.UserRecord{"id": nil},
			ok:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.record.ID()
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestUserRecordRole(t *testing.T) {
	role, ok := gatekeeper.UserRecord{"role": "admin"}.Role()
	assert.True(t, ok)
	assert.Equal(t, "admin", role)

	_, ok = gatekeeper.UserRecord{}.Role()
	assert.False(t, ok)

	role, ok = gatekeeper.UserRecord{"role": 7}.Role()
	assert.True(t, ok)
	assert.Equal(t, "7", role)
}

func TestUserRecordStoredDigest(t *testing.T) {
	digest, ok := gatekeeper.UserRecord{"password": "$2a$10$abc"}.StoredDigest()
	assert.True(t, ok)
	assert.Equal(t, "$2a$10$abc", digest)

	_, ok = gatekeeper.UserRecord{"password": 1234}.StoredDigest()
	assert.False(t, ok)

	_, ok = gatekeeper.UserRecord{}.StoredDigest()
	assert.False(t, ok)
}

func TestUserRecordClone(t *testing.T) {
	original := gatekeeper.UserRecord{"email": "tester@example.com"}
	clone := original.Clone()

	clone["email"] = "changed@example.com"
	assert.Equal(t, "tester@example.com", original["email"])
}

func TestUserRecordSanitized(t *testing.T) {
	record := gatekeeper.UserRecord{
		"id":       "abc-123",
		"email":    "tester@example.com",
		"password": "$2a$10$digest",
	}

	safe := record.Sanitized()

	assert.NotContains(t, safe, "password")
	assert.Equal(t, "abc-123", safe["id"])
	// original keeps the digest
	assert.Contains(t, record, "password")
}
