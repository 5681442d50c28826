package crypto

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// maxPasswordLength is the number of bytes bcrypt actually consumes.
const maxPasswordLength = 72

// bcryptHasher is the private implementation of [PasswordHasher].
type bcryptHasher struct {
	cost int
}

// NewPasswordHasher constructs a bcrypt-backed [PasswordHasher].
//
// A zero cost selects bcrypt.DefaultCost; other values are clamped to
// [bcrypt.MinCost, bcrypt.MaxCost].
func NewPasswordHasher(cost int) PasswordHasher {
	switch {
	case cost == 0:
		cost = bcrypt.DefaultCost
	case cost < bcrypt.MinCost:
		cost = bcrypt.MinCost
	case cost > bcrypt.MaxCost:
		cost = bcrypt.MaxCost
	}

	return &bcryptHasher{cost: cost}
}

// Hash implements [PasswordHasher]. bcrypt draws a fresh 128-bit salt on
// every call.
func (h *bcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	if len(password) > maxPasswordLength {
		return "", ErrPasswordTooLong
	}

	record, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}

	return string(record), nil
}

// Verify implements [PasswordHasher]. bcrypt compares digests with
// crypto/subtle, and every parse failure of record collapses to false.
func (h *bcryptHasher) Verify(password, record string) bool {
	return bcrypt.CompareHashAndPassword([]byte(record), []byte(password)) == nil
}

// NeedsRehash implements [PasswordHasher]. Unparsable records never need a
// rehash: they cannot be verified in the first place.
func (h *bcryptHasher) NeedsRehash(record string) bool {
	cost, err := bcrypt.Cost([]byte(record))
	if err != nil {
		return false
	}

	return cost != h.cost
}
