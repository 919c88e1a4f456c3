package gatekeeper_test

import (
	"testing"
	"time"

	"github.com/goliatone/go-gatekeeper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenService(t *testing.T) {
	signingKey := []byte("test-signing-key")

	t.Run("creates token service with logger", func(t *testing.T) {
		logger := &MockLogger{}
		service := gatekeeper.NewTokenService(signingKey, time.Minute, "test-issuer", logger)
		assert.NotNil(t, service)
	})

	t.Run("creates token service with nil logger", func(t *testing.T) {
		service := gatekeeper.NewTokenService(signingKey, time.Minute, "test-issuer", nil)
		assert.NotNil(t, service)
	})
}

func TestTokenServiceIssueAndVerify(t *testing.T) {
	signingKey := []byte("test-signing-key")
	service := gatekeeper.NewTokenService(signingKey, time.Minute, "test-issuer", nil)

	t.Run("round trip preserves subject and role", func(t *testing.T) {
		role := "admin"
		claims := &gatekeeper.AccessClaims{Role: &role}
		claims.RegisteredClaims.Subject = "user-42"

		token, err := service.IssueAccessToken(claims)
		require.NoError(t, err)
		require.NotEmpty(t, token)

		parsed, err := service.Verify(token)
		require.NoError(t, err)

		assert.Equal(t, "user-42", parsed.Subject())
		assert.Equal(t, "user-42", parsed.UserID())
		assert.Equal(t, "admin", parsed.RoleString())
		assert.True(t, parsed.HasRole("admin"))
		assert.Equal(t, "test-issuer", parsed.RegisteredClaims.Issuer)
		assert.NotEmpty(t, parsed.RegisteredClaims.ID)
	})

	t.Run("nil role survives the round trip", func(t *testing.T) {
		claims := &gatekeeper.AccessClaims{}
		claims.RegisteredClaims.Subject = "user-42"

		token, err := service.IssueAccessToken(claims)
		require.NoError(t, err)

		parsed, err := service.Verify(token)
		require.NoError(t, err)
		assert.Nil(t, parsed.Role)
		assert.Equal(t, "", parsed.RoleString())
	})

	t.Run("missing subject is rejected at issuance", func(t *testing.T) {
		_, err := service.IssueAccessToken(&gatekeeper.AccessClaims{})
		assert.ErrorIs(t, err, gatekeeper.ErrTokenNoSubject)
	})

	t.Run("nil claims are rejected", func(t *testing.T) {
		_, err := service.IssueAccessToken(nil)
		assert.Error(t, err)
	})

	t.Run("expiration respects the configured TTL", func(t *testing.T) {
		claims := &gatekeeper.AccessClaims{}
		claims.RegisteredClaims.Subject = "user-42"

		before := time.Now()
		token, err := service.IssueAccessToken(claims)
		require.NoError(t, err)

		parsed, err := service.Verify(token)
		require.NoError(t, err)

		assert.WithinDuration(t, before.Add(time.Minute), parsed.Expires(), 5*time.Second)
		assert.WithinDuration(t, before, parsed.IssuedAt(), 5*time.Second)
	})

	t.Run("expired token fails verification", func(t *testing.T) {
		short := gatekeeper.NewTokenService(signingKey, -time.Minute, "test-issuer", nil)

		claims := &gatekeeper.AccessClaims{}
		claims.RegisteredClaims.Subject = "user-42"

		token, err := short.IssueAccessToken(claims)
		require.NoError(t, err)

		_, err = service.Verify(token)
		assert.Error(t, err)
	})

	t.Run("wrong signing key fails verification", func(t *testing.T) {
		other := gatekeeper.NewTokenService([]byte("other-key"), time.Minute, "test-issuer", nil)

		claims := &gatekeeper.AccessClaims{}
		claims.RegisteredClaims.Subject = "user-42"

		token, err := other.IssueAccessToken(claims)
		require.NoError(t, err)

		_, err = service.Verify(token)
		assert.Error(t, err)
	})

	t.Run("wrong issuer fails verification", func(t *testing.T) {
		other := gatekeeper.NewTokenService(signingKey, time.Minute, "other-issuer", nil)

		claims := &gatekeeper.AccessClaims{}
		claims.RegisteredClaims.Subject = "user-42"

		token, err := other.IssueAccessToken(claims)
		require.NoError(t, err)

		_, err = service.Verify(token)
		assert.Error(t, err)
	})

	t.Run("garbage token fails verification", func(t *testing.T) {
		_, err := service.Verify("not.a.token")
		assert.Error(t, err)
	})
}
