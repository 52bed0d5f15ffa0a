package application

import (
	"errors"
	"sort"
	"strings"

	repo "github.com/oksasatya/protocol-blackout/internal/domain/repository"
)

var (
	ErrValidation            = errors.New("validation failed")
	ErrDuplicateEmail        = repo.ErrDuplicateEmail
	ErrInvalidCredentials    = errors.New("invalid credentials")
	ErrUnverifiedAccount     = errors.New("email not verified")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")
	ErrGameNotFound          = errors.New("game not found")
	ErrNotAuthorized         = errors.New("not authorized")
	ErrUserNotFound          = errors.New("user not found")
)

// ResetRequestedMessage is returned for every reset request, known email or not.
const ResetRequestedMessage = "If an account exists for that email, a password reset link has been sent."

// ValidationError carries per-field messages. It matches ErrValidation.
type ValidationError struct {
	Details map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Details))
	for k := range e.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+" "+e.Details[k])
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// requireFields returns a ValidationError naming each blank field, or nil.
func requireFields(fields ...[2]string) error {
	details := map[string]string{}
	for _, f := range fields {
		if strings.TrimSpace(f[1]) == "" {
			details[f[0]] = "is required"
		}
	}
	if len(details) == 0 {
		return nil
	}
	return &ValidationError{Details: details}
}
