package gatekeeper

import (
	"strings"
	"time"

	"github.com/goliatone/go-errors"
)

// AuthMode selects how authenticated identities are transported
type AuthMode string

const (
	// AuthModeToken issues and validates bearer access tokens
	AuthModeToken AuthMode = "token"
	// AuthModeSession expects the host application to manage the session
	AuthModeSession AuthMode = "session"
)

// PasswordRules is the signup password policy. Rules are checked in a fixed
// order: length, numbers, special characters.
type PasswordRules struct {
	MinLength           int  `json:"min_length"`
	RequireNumbers      bool `json:"require_numbers"`
	RequireSpecialChars bool `json:"require_special_chars"`
}

// TokenConfig holds token issuance settings
type TokenConfig struct {
	// AccessTTL is a duration expression, e.g. "15m" or "1h"
	AccessTTL string `json:"access_ttl"`
}

// Config is the merged authentication policy. Construct it once at startup
// via DefaultConfig/Merge; it is read-only afterwards.
type Config struct {
	SignupFields []string      `json:"signup_fields"`
	DefaultRole  string        `json:"default_role"`
	Mode         AuthMode      `json:"auth_mode"`
	Password     PasswordRules `json:"password"`
	Token        TokenConfig   `json:"token"`
}

// DefaultConfig returns the baseline policy
func DefaultConfig() Config {
	return Config{
		SignupFields: []string{"email", "password"},
		DefaultRole:  "user",
		Mode:         AuthModeToken,
		Password: PasswordRules{
			MinLength:           8,
			RequireNumbers:      true,
			RequireSpecialChars: false,
		},
		Token: TokenConfig{
			AccessTTL: "15m",
		},
	}
}

// PasswordRulesOverride is a partial PasswordRules. Nil fields keep the base
// value; set pointers win even when they carry the zero value.
type PasswordRulesOverride struct {
	MinLength           *int
	RequireNumbers      *bool
	RequireSpecialChars *bool
}

// TokenOverride is a partial TokenConfig
type TokenOverride struct {
	AccessTTL *string
}

// ConfigOverride is a partial Config applied on top of the defaults
type ConfigOverride struct {
	SignupFields []string
	DefaultRole  *string
	Mode         *AuthMode
	Password     *PasswordRulesOverride
	Token        *TokenOverride
}

// Merge overlays a partial override on a base config. Top-level fields
// shallow-override; Password and Token merge key by key. The result is a
// copy, the inputs are never mutated, and a nil override yields a copy of
// the base.
func Merge(base Config, override *ConfigOverride) Config {
	merged := base
	merged.SignupFields = append([]string(nil), base.SignupFields...)

	if override == nil {
		return merged
	}

	if override.SignupFields != nil {
		merged.SignupFields = append([]string(nil), override.SignupFields...)
	}

	if override.DefaultRole != nil {
		merged.DefaultRole = *override.DefaultRole
	}

	if override.Mode != nil {
		merged.Mode = *override.Mode
	}

	if rules := override.Password; rules != nil {
		if rules.MinLength != nil {
			merged.Password.MinLength = *rules.MinLength
		}
		if rules.RequireNumbers != nil {
			merged.Password.RequireNumbers = *rules.RequireNumbers
		}
		if rules.RequireSpecialChars != nil {
			merged.Password.RequireSpecialChars = *rules.RequireSpecialChars
		}
	}

	if token := override.Token; token != nil {
		if token.AccessTTL != nil {
			merged.Token.AccessTTL = *token.AccessTTL
		}
	}

	return merged
}

// AccessTokenTTL parses the configured token TTL expression
func (c Config) AccessTokenTTL() (time.Duration, error) {
	ttl, err := time.ParseDuration(c.Token.AccessTTL)
	if err != nil {
		return 0, errors.Wrap(err, errors.CategoryOperation, "invalid access token TTL expression").
			WithMetadata(map[string]any{"expression": c.Token.AccessTTL})
	}
	return ttl, nil
}

// specialChars matches the punctuation set accepted by the
// RequireSpecialChars rule.
const specialChars = `!@#$%^&*(),.?":{}|<>`

// CheckPassword applies the policy rules in order and reports the first
// violation.
func (r PasswordRules) CheckPassword(password string) error {
	if len(password) < r.MinLength {
		return NewPasswordPolicyError("password does not meet minimum length requirement")
	}

	if r.RequireNumbers && !containsDigit(password) {
		return NewPasswordPolicyError("password must contain at least one number")
	}

	if r.RequireSpecialChars && !strings.ContainsAny(password, specialChars) {
		return NewPasswordPolicyError("password must contain at least one special character")
	}

	return nil
}

func containsDigit(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' {
			return true
		}
	}
	return false
}
