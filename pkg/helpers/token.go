package helpers

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"time"

	"github.com/samber/oops"
)

// TokenBytes is the entropy of a verification or reset token (64 hex chars).
const TokenBytes = 32

// IssuedToken is a freshly minted single-use token. Raw goes to the user by email;
// only Hash and ExpiresAt are stored.
type IssuedToken struct {
	Raw       string
	Hash      string
	ExpiresAt time.Time
}

// TokenIssuer mints and checks single-use tokens for one purpose (verify, reset).
type TokenIssuer struct {
	TTL time.Duration
	Now func() time.Time
}

func NewTokenIssuer(ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{TTL: ttl, Now: time.Now}
}

func (t *TokenIssuer) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}

// Issue generates a random token, its sha256 digest and its expiry.
func (t *TokenIssuer) Issue() (IssuedToken, error) {
	b := make([]byte, TokenBytes)
	if _, err := rand.Read(b); err != nil {
		return IssuedToken{}, oops.Code("TOKEN_GENERATE_FAILED").Wrap(err)
	}
	raw := hex.EncodeToString(b)
	return IssuedToken{Raw: raw, Hash: HashToken(raw), ExpiresAt: t.now().Add(t.TTL)}, nil
}

// Validate reports whether raw hashes to storedHash and the expiry is still ahead.
// Missing, mismatched and expired tokens all return false.
func (t *TokenIssuer) Validate(raw string, storedHash *string, storedExpiry *time.Time) bool {
	if raw == "" || storedHash == nil || *storedHash == "" || storedExpiry == nil {
		return false
	}
	computed := HashToken(raw)
	if subtle.ConstantTimeCompare([]byte(computed), []byte(*storedHash)) != 1 {
		return false
	}
	return t.now().Before(*storedExpiry)
}

// HashToken computes the unsalted sha256 digest used as the lookup key.
func HashToken(raw string) string {
	h := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(h[:])
}
