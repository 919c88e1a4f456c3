package gatekeeper

import (
	"encoding/json"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims are the structured claims carried by issued access tokens.
// Subject is mandatory; Role mirrors the user record's role at issuance time
// and is authoritative over storage when the token is resolved back to an
// identity. A nil Role marshals as JSON null; whether the key appeared at all
// is tracked separately so resolution can tell "role": null apart from a
// token that never carried the claim.
type AccessClaims struct {
	jwt.RegisteredClaims
	Role *string `json:"role"`

	rolePresent bool
}

// UnmarshalJSON records whether the role key was present in the payload
func (c *AccessClaims) UnmarshalJSON(data []byte) error {
	type plain AccessClaims
	if err := json.Unmarshal(data, (*plain)(c)); err != nil {
		return err
	}

	keys := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &keys); err != nil {
		return err
	}
	_, c.rolePresent = keys["role"]

	return nil
}

// RoleClaimPresent reports whether the decoded payload carried a role key,
// even one set to null
func (c *AccessClaims) RoleClaimPresent() bool {
	return c.rolePresent
}

// Subject returns the subject claim
func (c *AccessClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID is an alias for the subject claim
func (c *AccessClaims) UserID() string {
	return c.Subject()
}

// RoleString returns the role claim, empty when absent or null
func (c *AccessClaims) RoleString() string {
	if c.Role == nil {
		return ""
	}
	return *c.Role
}

// HasRole checks the role claim against a candidate
func (c *AccessClaims) HasRole(role string) bool {
	return c.Role != nil && *c.Role == role
}

// Expires returns the expiration time
func (c *AccessClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued at time
func (c *AccessClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}
