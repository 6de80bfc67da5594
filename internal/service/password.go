package service

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher is the hashing collaborator used for user credentials.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify reports a mismatch as (false, nil); an error means the
	// primitive itself failed.
	Verify(password, hash string) (bool, error)
}

type BcryptHasher struct {
	Cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	return &BcryptHasher{Cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (h *BcryptHasher) Verify(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
