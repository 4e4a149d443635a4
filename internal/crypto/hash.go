package crypto

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmptyPassword = errors.New("password must not be empty")
	ErrInvalidCost   = errors.New("bcrypt cost out of range")
)

// DefaultCost matches the work factor the service has always used in production.
const DefaultCost = 10

// Hasher hashes and verifies passwords with bcrypt at a fixed cost. It holds no
// mutable state and is safe for concurrent use.
type Hasher struct {
	cost  int
	dummy []byte
}

// NewHasher returns a Hasher using cost. A zero cost selects DefaultCost.
func NewHasher(cost int) (*Hasher, error) {
	if cost == 0 {
		cost = DefaultCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("%w: %d", ErrInvalidCost, cost)
	}

	// Compared against when the account does not exist so that both login
	// failure paths spend the same time in bcrypt.
	dummy, err := bcrypt.GenerateFromPassword([]byte("jobtrackr-dummy-password"), cost)
	if err != nil {
		return nil, fmt.Errorf("generating dummy hash: %w", err)
	}

	return &Hasher{cost: cost, dummy: dummy}, nil
}

// Cost returns the configured work factor.
func (h *Hasher) Cost() int { return h.cost }

// HashPassword returns the bcrypt encoding of password.
func (h *Hasher) HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches encodedHash. A mismatch is
// not an error; a malformed hash is.
func (h *Hasher) VerifyPassword(password, encodedHash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}

// BurnCompare performs a comparison against a throwaway hash.
func (h *Hasher) BurnCompare(password string) {
	_ = bcrypt.CompareHashAndPassword(h.dummy, []byte(password))
}
