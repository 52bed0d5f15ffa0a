package repository

import (
	"context"
	"errors"
	"time"

	"github.com/oksasatya/protocol-blackout/internal/domain/entity"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when the email unique index rejects a write.
	ErrDuplicateEmail = errors.New("email already registered")
)

// UserRepository defines the interface for user-related database operations.
type UserRepository interface {
	// Create inserts u and fills ID/CreatedAt/UpdatedAt. Uniqueness of the
	// lowercased email is enforced by the store; a clash yields ErrDuplicateEmail.
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// GetByVerificationTokenHash and GetByResetTokenHash only match unexpired tokens.
	GetByVerificationTokenHash(ctx context.Context, hash string) (*entity.User, error)
	GetByResetTokenHash(ctx context.Context, hash string) (*entity.User, error)
	// Save persists account fields (profile, credentials, token columns).
	// Progress columns are owned by UpdateProgress.
	Save(ctx context.Context, u *entity.User) error
	// SetResetToken stores a fresh reset token without touching any other column.
	// Returns ErrNotFound when the user no longer exists.
	SetResetToken(ctx context.Context, id, hash string, expires time.Time) error
	// ConsumeVerificationToken marks the user verified only while hash is still
	// the live, unexpired token. Returns ErrNotFound if it was already used.
	ConsumeVerificationToken(ctx context.Context, id, hash string) error
	// ConsumeResetToken swaps the password hash under the same guard.
	ConsumeResetToken(ctx context.Context, id, hash, newPasswordHash string) error
	// UpdateProgress runs fn against a row-locked copy of the user and persists
	// xp, level and completed games atomically.
	UpdateProgress(ctx context.Context, id string, fn func(u *entity.User) error) (*entity.User, error)
	Delete(ctx context.Context, id string) (bool, error)
}
