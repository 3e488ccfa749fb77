package password

import (
	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the default bcrypt cost
	DefaultCost = 12

	// MinLength is the minimum accepted password length
	MinLength = 8
)

// Hash hashes a password using bcrypt. The digest embeds its own salt
// and cost, so it is stored and verified as a single string.
func Hash(plaintext string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(plaintext), DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify compares a password with a stored hash. Comparison goes
// through bcrypt itself; the digest is never recomputed and
// string-compared.
func Verify(plaintext, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	return err == nil
}

// Validate checks if a password meets requirements
func Validate(plaintext string) bool {
	// Minimum 8 characters
	return len(plaintext) >= MinLength
}
