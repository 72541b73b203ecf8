package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	MinBcryptCost     = 10
	MaxBcryptCost     = 14
	DefaultBcryptCost = 10
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// Passwords hashes and verifies user passwords with bcrypt.
type Passwords struct {
	cost int
}

// NewPasswords clamps cost into [MinBcryptCost, MaxBcryptCost]; zero selects
// the default.
func NewPasswords(cost int) Passwords {
	switch {
	case cost == 0:
		cost = DefaultBcryptCost
	case cost < MinBcryptCost:
		cost = MinBcryptCost
	case cost > MaxBcryptCost:
		cost = MaxBcryptCost
	}
	return Passwords{cost: cost}
}

func (p Passwords) Cost() int { return p.cost }

func (p Passwords) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Verify returns ErrInvalidCredentials when password does not match hash.
func (p Passwords) Verify(hash, password string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrInvalidCredentials
	}
	return fmt.Errorf("verify password: %w", err)
}
