package auth

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/Spok95/pool-tracker/internal/models"
)

const MinPasswordLen = 6

func HashPassword(plain string) (string, error) {
	if len(plain) < MinPasswordLen {
		return "", models.NewValidationError("password", "must be at least 6 characters")
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// CheckPassword — nil при совпадении, ErrInvalidCredentials при несовпадении.
func CheckPassword(hash, plain string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return models.ErrInvalidCredentials
	}
	return err
}
