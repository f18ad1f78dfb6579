package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	apperrors "accounts/internal/errors"
)

// DefaultBcryptCost matches the cost the original deployment used.
const DefaultBcryptCost = 10

// PasswordHasher hashes and verifies passwords with bcrypt.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a hasher with the given cost. Costs outside bcrypt's
// supported range fall back to the default.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns the bcrypt hash of plaintext. Failure here means resource
// exhaustion, not bad input.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrHashingFailure, err)
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches the stored hash. A malformed stored
// hash is treated as a mismatch, never an error.
func (h *PasswordHasher) Verify(plaintext, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plaintext)) == nil
}
