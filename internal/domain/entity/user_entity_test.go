package entity

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser_Defaults(t *testing.T) {
	u := NewUser("  neo ", "  Neo@Matrix.IO ", "hash")

	assert.Equal(t, "neo", u.Username)
	assert.Equal(t, "neo@matrix.io", u.Email)
	assert.False(t, u.IsEmailVerified)
	assert.Equal(t, 0, u.XP)
	assert.Equal(t, 1, u.Level)
	assert.NotNil(t, u.CompletedGames)
	assert.Empty(t, u.CompletedGames)
	assert.Nil(t, u.EmailVerificationTokenHash)
	assert.Nil(t, u.PasswordResetTokenHash)
}

func TestLevelForXP_Boundaries(t *testing.T) {
	cases := map[int]int{
		0: 1, 99: 1, 100: 2, 299: 2, 300: 3, 599: 3, 600: 4, 10_000: 4,
	}
	for xp, want := range cases {
		assert.Equal(t, want, LevelForXP(xp), "xp=%d", xp)
	}
}

func TestLevelForXP_Monotonic(t *testing.T) {
	prev := LevelForXP(0)
	for xp := 1; xp <= 2000; xp++ {
		cur := LevelForXP(xp)
		require.GreaterOrEqual(t, cur, prev, "level dropped at xp=%d", xp)
		prev = cur
	}
}

func TestNextLevelXP(t *testing.T) {
	next, ok := NextLevelXP(0)
	assert.True(t, ok)
	assert.Equal(t, 100, next)

	next, ok = NextLevelXP(450)
	assert.True(t, ok)
	assert.Equal(t, 600, next)

	_, ok = NextLevelXP(600)
	assert.False(t, ok)
}

func TestApplyGameResult_RepeatPlay(t *testing.T) {
	u := NewUser("trinity", "trinity@matrix.io", "hash")

	u.ApplyGameResult("1", 60)
	u.ApplyGameResult("1", 50)

	assert.Equal(t, 110, u.XP)
	assert.Equal(t, 2, u.Level)
	assert.Equal(t, []string{"1"}, u.CompletedGames)
}

func TestApplyGameResult_NegativeScoreIgnored(t *testing.T) {
	u := NewUser("morpheus", "morpheus@matrix.io", "hash")
	u.ApplyGameResult("2", -40)

	assert.Equal(t, 0, u.XP)
	assert.Equal(t, 1, u.Level)
	assert.True(t, u.HasCompleted("2"))
}

func TestApplyGameResult_XPSaturates(t *testing.T) {
	u := NewUser("tank", "tank@matrix.io", "hash")
	u.XP = math.MaxInt - 10

	u.ApplyGameResult("3", MaxScore)

	assert.Equal(t, math.MaxInt, u.XP)
	assert.Equal(t, 4, u.Level)
}

func TestCoerceScore(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want int
	}{
		{"integer float", float64(60), 60},
		{"fraction floored", 12.9, 12},
		{"negative", float64(-5), 0},
		{"string", "100", 0},
		{"nil", nil, 0},
		{"bool", true, 0},
		{"nan", math.NaN(), 0},
		{"inf", math.Inf(1), 0},
		{"huge", 1e18, MaxScore},
		{"int", 42, 42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CoerceScore(tt.in))
		})
	}
}

func TestTokensBurnedOnUse(t *testing.T) {
	u := NewUser("oracle", "oracle@matrix.io", "old")
	exp := time.Now().Add(time.Hour)

	u.SetVerificationToken("vhash", exp)
	u.SetResetToken("rhash", exp)
	require.NotNil(t, u.EmailVerificationTokenHash)
	require.NotNil(t, u.PasswordResetTokenExpires)

	u.MarkEmailVerified()
	assert.True(t, u.IsEmailVerified)
	assert.Nil(t, u.EmailVerificationTokenHash)
	assert.Nil(t, u.EmailVerificationTokenExpires)

	u.ChangePassword("new")
	assert.Equal(t, "new", u.PasswordHash)
	assert.Nil(t, u.PasswordResetTokenHash)
	assert.Nil(t, u.PasswordResetTokenExpires)
}

func TestProgress(t *testing.T) {
	u := NewUser("tank", "tank@matrix.io", "hash")
	u.ApplyGameResult("quiz-01", 320)

	p := u.Progress()
	assert.Equal(t, 3, p.Level)
	assert.Equal(t, 320, p.XP)
	require.NotNil(t, p.NextLevelXP)
	assert.Equal(t, 600, *p.NextLevelXP)
	assert.Equal(t, []string{"quiz-01"}, p.CompletedGames)

	u.ApplyGameResult("1", 500)
	assert.Nil(t, u.Progress().NextLevelXP)
}

func TestPublic_OmitsCredentials(t *testing.T) {
	u := NewUser("switch", "switch@matrix.io", "secret-hash")
	u.ID = "abc"
	assert.Equal(t, PublicUser{ID: "abc", Username: "switch", Email: "switch@matrix.io"}, u.Public())
}
