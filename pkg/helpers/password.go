package helpers

import (
	"errors"

	"github.com/samber/oops"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordCost is the lowest bcrypt work factor the hasher accepts.
const MinPasswordCost = 12

// ErrHashing wraps failures of the underlying hash primitive.
var ErrHashing = errors.New("password hashing failed")

// PasswordHasher hashes and verifies credentials.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	// Verify reports whether plain matches hash. A mismatch is (false, nil);
	// an error means the stored hash itself is unusable.
	Verify(plain, hash string) (bool, error)
}

// BcryptHasher implements PasswordHasher with a salted bcrypt hash.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher with the given cost, raised to MinPasswordCost if lower.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < MinPasswordCost {
		cost = MinPasswordCost
	}
	return &BcryptHasher{cost: cost}
}

// HashPassword hashes the plain text password using bcrypt
func (h *BcryptHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", oops.Code("PASSWORD_HASH_FAILED").With("cost", h.cost).Wrap(errors.Join(ErrHashing, err))
	}
	return string(b), nil
}

// Verify compares a bcrypt hash with a plain password
func (h *BcryptHasher) Verify(plain, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, oops.Code("PASSWORD_HASH_INVALID").Wrap(errors.Join(ErrHashing, err))
	}
}

var _ PasswordHasher = (*BcryptHasher)(nil)
