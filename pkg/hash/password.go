// Package hash wraps bcrypt for the deployment password.
package hash

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	cost              = 12
	minPasswordLength = 8
)

func Hash(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}

	return string(hashed), nil
}

func Compare(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}
