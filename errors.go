package gatekeeper

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeMissingField       = "auth_missing_signup_field"
	TextCodePasswordPolicy     = "auth_password_policy"
	TextCodeInvalidCredentials = "auth_invalid_credentials"
	TextCodeStoredCredential   = "auth_stored_credential"
	TextCodeTokenInvalid       = "auth_token_invalid"
	TextCodeTokenNoSubject     = "auth_token_missing_subject"
	TextCodeIdentityNotFound   = "auth_identity_not_found"
	TextCodeSessionMode        = "auth_session_mode_only"
	TextCodeMissingSecret      = "auth_missing_signing_secret"
	TextCodeEmailExists        = "auth_email_exists"
	TextCodeUserNotFound       = "auth_user_not_found"
)

// ErrInvalidCredentials is shared by the unknown-email and wrong-password
// paths. Keeping a single message prevents user enumeration.
var ErrInvalidCredentials = errors.New("invalid credentials", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrStoredCredential is returned when a persisted record carries a digest
// the engine cannot use. A data integrity problem, not a login failure.
var ErrStoredCredential = errors.New("invalid stored password credential", errors.CategoryInternal).
	WithTextCode(TextCodeStoredCredential).
	WithCode(errors.CodeInternal)

// ErrTokenInvalid covers every token verification failure: expired,
// malformed, and bad signature are deliberately not differentiated.
var ErrTokenInvalid = errors.New("invalid access token", errors.CategoryAuth).
	WithTextCode(TextCodeTokenInvalid).
	WithCode(errors.CodeUnauthorized)

// ErrTokenNoSubject is returned for otherwise valid tokens missing the
// subject claim.
var ErrTokenNoSubject = errors.New("token payload missing subject", errors.CategoryAuth).
	WithTextCode(TextCodeTokenNoSubject).
	WithCode(errors.CodeUnauthorized)

// ErrIdentityNotFound is returned when a valid token references a user that
// no longer exists.
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithTextCode(TextCodeIdentityNotFound).
	WithCode(errors.CodeUnauthorized)

// ErrSessionMode is returned when token resolution is invoked while the
// policy is configured for session auth. A programmer error, not user input.
var ErrSessionMode = errors.New("token validation requires token auth mode", errors.CategoryOperation).
	WithTextCode(TextCodeSessionMode).
	WithCode(errors.CodeInternal)

// ErrMissingSigningSecret aborts construction when token mode is configured
// without a signing secret.
var ErrMissingSigningSecret = errors.New("signing secret is required for token auth mode", errors.CategoryOperation).
	WithTextCode(TextCodeMissingSecret).
	WithCode(errors.CodeInternal)

// ErrPasswordNotString is returned when a signup payload carries a password
// that is not a string, such as a JSON number.
var ErrPasswordNotString = errors.New("password must be a string", errors.CategoryValidation).
	WithTextCode(TextCodeMissingField).
	WithCode(errors.CodeBadRequest)

// ErrNoEmptyString rejects empty passwords before hashing
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodePasswordPolicy).
	WithCode(errors.CodeBadRequest)

// ErrMismatchedHashAndPassword is the normalized bcrypt mismatch error
var ErrMismatchedHashAndPassword = errors.New("hash and password mismatch", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// NewMissingFieldError names the first signup field absent from the payload.
func NewMissingFieldError(field string) *errors.Error {
	return errors.New(fmt.Sprintf("missing required signup field: %s", field), errors.CategoryValidation).
		WithTextCode(TextCodeMissingField).
		WithCode(errors.CodeBadRequest).
		WithMetadata(map[string]any{"field": field})
}

// NewPasswordPolicyError reports the first violated password rule.
func NewPasswordPolicyError(message string) *errors.Error {
	return errors.New(message, errors.CategoryValidation).
		WithTextCode(TextCodePasswordPolicy).
		WithCode(errors.CodeBadRequest)
}

// NewDuplicateEmailError is the conflict adapters raise for unique email
// violations.
func NewDuplicateEmailError(email string) *errors.Error {
	return errors.New("email already exists", errors.CategoryConflict).
		WithTextCode(TextCodeEmailExists).
		WithCode(errors.CodeConflict).
		WithMetadata(map[string]any{"email": email})
}

// NewUserNotFoundError is the not-found error adapters raise for absent
// records. Engine code relies on errors.IsNotFound to detect it.
func NewUserNotFoundError(id string) *errors.Error {
	return errors.New("user not found", errors.CategoryNotFound).
		WithTextCode(TextCodeUserNotFound).
		WithCode(errors.CodeNotFound).
		WithMetadata(map[string]any{"id": id})
}

// IsInvalidCredentials reports whether err is a credential failure. Unknown
// email and wrong password are indistinguishable here on purpose.
func IsInvalidCredentials(err error) bool {
	var richErr *errors.Error
	if !errors.As(err, &richErr) {
		return false
	}
	return richErr.TextCode == TextCodeInvalidCredentials
}

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
