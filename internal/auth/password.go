// Package auth provides password hashing, session tokens, the session
// middleware, and the admin authorization policy.
package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// defaultCost is the bcrypt work factor for production hashing. Tests use a
// lower cost via NewPasswordServiceWithCost to stay fast.
const defaultCost = 12

// PasswordService hashes and verifies passwords with bcrypt. bcrypt
// generates a random salt per call and embeds it in the output, so two
// identical passwords produce different stored hashes.
type PasswordService struct {
	cost int
}

// NewPasswordService creates a PasswordService with the default cost.
func NewPasswordService() *PasswordService {
	return &PasswordService{cost: defaultCost}
}

// NewPasswordServiceWithCost creates a PasswordService with a custom bcrypt
// cost. Use bcrypt.MinCost in tests; never in production.
func NewPasswordServiceWithCost(cost int) *PasswordService {
	return &PasswordService{cost: cost}
}

// Hash derives a salted, irreversible digest of plaintext. The returned
// string is self-contained (algorithm, cost, salt, digest) and is what gets
// stored in users.password_hash.
//
// bcrypt silently truncates input beyond 72 bytes; we reject it instead so
// callers aren't surprised.
func (p *PasswordService) Hash(plaintext string) (string, error) {
	if len(plaintext) > 72 {
		return "", fmt.Errorf("auth: password must be 72 bytes or fewer")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		return "", fmt.Errorf("auth: hashing password: %w", err)
	}
	return string(hashed), nil
}

// Verify reports whether plaintext matches the original input to Hash.
// Malformed hashes yield false, never a panic.
func (p *PasswordService) Verify(hash, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
