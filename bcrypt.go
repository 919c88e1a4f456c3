package gatekeeper

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost balances hashing latency against brute force resistance
const DefaultBcryptCost = 12

// BcryptAuthenticator is the default PasswordAuthenticator
type BcryptAuthenticator struct {
	cost int
}

var _ PasswordAuthenticator = (*BcryptAuthenticator)(nil)

// NewBcryptAuthenticator creates a bcrypt-backed hasher. Costs outside the
// bcrypt range fall back to DefaultBcryptCost.
func NewBcryptAuthenticator(cost int) *BcryptAuthenticator {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &BcryptAuthenticator{cost: cost}
}

// HashPassword will generate a password hash
func (b *BcryptAuthenticator) HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrNoEmptyString
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), b.cost)
	return string(h), err
}

// ComparePasswordAndHash will validate the given cleartext
// password matches the hashed password
func (b *BcryptAuthenticator) ComparePasswordAndHash(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatchedHashAndPassword
		}
		return err
	}
	return nil
}

// HashPassword hashes with the default cost
func HashPassword(password string) (string, error) {
	return NewBcryptAuthenticator(DefaultBcryptCost).HashPassword(password)
}

// ComparePasswordAndHash validates cleartext against a digest using the
// default authenticator
func ComparePasswordAndHash(password, hash string) error {
	return NewBcryptAuthenticator(DefaultBcryptCost).ComparePasswordAndHash(password, hash)
}
