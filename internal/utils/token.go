package utils

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"time"
)

// refreshTokenBytes is the entropy of an opaque refresh token.
const refreshTokenBytes = 32

// RefreshToken represents a long‑lived token used to obtain new access tokens.
// The Raw field is returned to the client; the database only keeps
// HashRefreshRaw(Raw).
type RefreshToken struct {
	Raw string    // URL-safe token string returned to the client
	Exp time.Time // UTC expiration time
}

// NewRefreshToken returns 32 random bytes encoded as unpadded base64url and
// the instant it stops being usable.  Uniqueness rests on the randomness;
// collisions are not checked.
func NewRefreshToken(ttl time.Duration, now time.Time) (RefreshToken, error) {
	buf := make([]byte, refreshTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return RefreshToken{}, err
	}
	return RefreshToken{
		Raw: base64.RawURLEncoding.EncodeToString(buf),
		Exp: now.UTC().Add(ttl),
	}, nil
}

// HashRefreshRaw returns the SHA‑256 hash of the raw refresh token as a hex
// string.
func HashRefreshRaw(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// RandomPassword returns a password nobody knows, used for accounts created
// through federated login.
func RandomPassword() (string, error) {
	buf := make([]byte, 24)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
