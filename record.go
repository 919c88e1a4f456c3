package gatekeeper

import (
	"fmt"
	"strconv"
)

// Canonical field names the engine relies on. Adapters may persist any other
// fields they like; these four are the contract.
const (
	FieldID       = "id"
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldRole     = "role"
)

// UserRecord is the normalized user representation exchanged with storage
// adapters. It is an open field mapping; the engine only interprets the
// canonical fields above.
type UserRecord map[string]any

// ID returns the canonical identifier rendered as a string. String and
// numeric primary keys are both accepted; anything else is stringified the
// way the adapter normalization rule prescribes.
func (r UserRecord) ID() (string, bool) {
	raw, ok := r[FieldID]
	if !ok || raw == nil {
		return "", false
	}
	return stringifyID(raw), true
}

// SetID backfills the canonical id field
func (r UserRecord) SetID(id string) {
	r[FieldID] = id
}

// Role returns the record's role rendered as a string
func (r UserRecord) Role() (string, bool) {
	raw, ok := r[FieldRole]
	if !ok || raw == nil {
		return "", false
	}
	if role, ok := raw.(string); ok {
		return role, true
	}
	return fmt.Sprint(raw), true
}

// StoredDigest returns the persisted password digest. The digest must be a
// string; any other type is a data integrity problem.
func (r UserRecord) StoredDigest() (string, bool) {
	digest, ok := r[FieldPassword].(string)
	return digest, ok
}

// Email returns the record's email field when present
func (r UserRecord) Email() (string, bool) {
	email, ok := r[FieldEmail].(string)
	return email, ok
}

// Clone returns a shallow copy of the record
func (r UserRecord) Clone() UserRecord {
	if r == nil {
		return nil
	}
	clone := make(UserRecord, len(r))
	for k, v := range r {
		clone[k] = v
	}
	return clone
}

// Sanitized returns a copy of the record with the password digest removed.
// Boundaries (controllers, middleware) use it before records leave the
// process; the engine itself keeps the digest internally.
func (r UserRecord) Sanitized() UserRecord {
	if r == nil {
		return nil
	}
	clone := r.Clone()
	delete(clone, FieldPassword)
	return clone
}

func stringifyID(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case uint64:
		return strconv.FormatUint(v, 10)
	case float64:
		// JSON numbers decode as float64
		return strconv.FormatFloat(v, 'f', -1, 64)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
