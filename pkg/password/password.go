package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt cost used for new hashes.
const DefaultCost = 12

var errPasswordEmpty = errors.New("password cannot be empty")

// Hash generates a bcrypt hash of the password at DefaultCost.
func Hash(password string) (string, error) {
	if len(password) == 0 {
		return "", errPasswordEmpty
	}

	bytes, err := bcrypt.GenerateFromPassword([]byte(password), DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(bytes), nil
}

// Verify reports whether the password matches the hash.
func Verify(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// NeedsRehash reports whether the hash was produced at a cost below the
// given one and should be regenerated on next successful login.
func NeedsRehash(hash string, cost int) (bool, error) {
	hashCost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		return false, fmt.Errorf("failed to get hash cost: %w", err)
	}

	return hashCost < cost, nil
}
