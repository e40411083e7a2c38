// Package auth holds the credential primitives: password hashing and access tokens.
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes and verifies account passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

// BcryptHasher is a PasswordHasher backed by bcrypt. Every digest carries its own random salt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher with the given cost; values outside bcrypt's range fall back to the default.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

func (h *BcryptHasher) Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
