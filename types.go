package gatekeeper

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// StorageAdapter is the persistence boundary. Every implementation must
// return records whose "id" field is populated with the value that can be
// used to re-fetch the record, regardless of the backend's primary key name.
//
// Absent records are reported as categorized not-found errors; constraint
// violations (duplicate email) as conflict errors. The engine propagates
// adapter failures verbatim and never retries.
type StorageAdapter interface {
	CreateUser(ctx context.Context, data UserRecord) (UserRecord, error)
	FindUserByEmail(ctx context.Context, email string) (UserRecord, error)
	FindUserByID(ctx context.Context, id string) (UserRecord, error)
	UpdateUser(ctx context.Context, id string, data UserRecord) (UserRecord, error)
}

// PasswordAuthenticator authenticates passwords
type PasswordAuthenticator interface {
	HashPassword(password string) (string, error)
	ComparePasswordAndHash(password, hash string) error
}

// TokenIssuer signs access token claims
type TokenIssuer interface {
	IssueAccessToken(claims *AccessClaims) (string, error)
}

// TokenVerifier validates tokens and extracts claims without tying callers
// to a specific signing implementation.
type TokenVerifier interface {
	Verify(tokenString string) (*AccessClaims, error)
}

// TokenService is the issue/verify capability pair used by the engine
type TokenService interface {
	TokenIssuer
	TokenVerifier
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] GATEKEEPER "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] GATEKEEPER "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] GATEKEEPER "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] GATEKEEPER "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
