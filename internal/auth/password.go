package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// MaxPasswordLength bounds passwords before hashing; bcrypt ignores bytes past 72.
const MaxPasswordLength = 64

var (
	ErrEmptyPassword   = errors.New("Password should not be empty")
	ErrPasswordTooLong = fmt.Errorf("Password should not exceed %d characters", MaxPasswordLength)
)

// HashPassword hashes a plaintext password with configured cost.
func HashPassword(password string, cost int) (string, error) {
	if err := checkPassword(password); err != nil {
		return "", err
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value.
func ComparePassword(hashed, plain string) error {
	if err := checkPassword(plain); err != nil {
		return err
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}

func checkPassword(password string) error {
	if password == "" {
		return ErrEmptyPassword
	}
	if len(password) > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	return nil
}
