package entity

import (
	"math"
	"slices"
	"strings"
	"time"
)

// User is the aggregate root for user domain
// Passwords are stored as bcrypt hashes in PasswordHash; raw verification and
// reset tokens never are, only their sha256 digests.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string

	IsEmailVerified               bool
	EmailVerificationTokenHash    *string
	EmailVerificationTokenExpires *time.Time
	PasswordResetTokenHash        *string
	PasswordResetTokenExpires     *time.Time

	XP             int
	Level          int
	CompletedGames []string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PublicUser is the projection returned to clients. It never carries credentials.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// NormalizeEmail trims and lowercases an address so uniqueness is case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewUser builds an unverified user with fresh progress.
func NewUser(username, email, passwordHash string) *User {
	return &User{
		Username:       strings.TrimSpace(username),
		Email:          NormalizeEmail(email),
		PasswordHash:   passwordHash,
		XP:             0,
		Level:          LevelForXP(0),
		CompletedGames: []string{},
	}
}

func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Email: u.Email}
}

func (u *User) SetVerificationToken(hash string, expires time.Time) {
	u.EmailVerificationTokenHash = &hash
	u.EmailVerificationTokenExpires = &expires
}

func (u *User) SetResetToken(hash string, expires time.Time) {
	u.PasswordResetTokenHash = &hash
	u.PasswordResetTokenExpires = &expires
}

// MarkEmailVerified flips the account to verified and burns the verification token.
func (u *User) MarkEmailVerified() {
	u.IsEmailVerified = true
	u.EmailVerificationTokenHash = nil
	u.EmailVerificationTokenExpires = nil
}

// ChangePassword stores a new hash and burns any outstanding reset token.
func (u *User) ChangePassword(hash string) {
	u.PasswordHash = hash
	u.PasswordResetTokenHash = nil
	u.PasswordResetTokenExpires = nil
}

// ApplyGameResult accrues xp, recomputes the level and records the game once.
// XP is granted on every call, replays included, and saturates instead of wrapping.
func (u *User) ApplyGameResult(gameID string, score int) {
	if score < 0 {
		score = 0
	}
	if u.XP > math.MaxInt-score {
		u.XP = math.MaxInt
	} else {
		u.XP += score
	}
	u.Level = LevelForXP(u.XP)
	if !slices.Contains(u.CompletedGames, gameID) {
		u.CompletedGames = append(u.CompletedGames, gameID)
	}
}

func (u *User) HasCompleted(gameID string) bool {
	return slices.Contains(u.CompletedGames, gameID)
}
