package utils

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, pw := range []string{"pw123456", "correct horse battery staple", "비밀번호123", " "} {
		hash, err := HashPassword(pw, bcrypt.MinCost)
		require.NoError(t, err)
		assert.True(t, VerifyPassword(hash, pw), "password %q must verify", pw)
		assert.False(t, VerifyPassword(hash, pw+"x"), "mutated password %q must not verify", pw)
	}
}

func TestHashPassword_FreshSalt(t *testing.T) {
	t.Parallel()

	a, err := HashPassword("same", bcrypt.MinCost)
	require.NoError(t, err)
	b, err := HashPassword("same", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, VerifyPassword(a, "same"))
	assert.True(t, VerifyPassword(b, "same"))
}

func TestHashPassword_TooLong(t *testing.T) {
	t.Parallel()

	_, err := HashPassword(strings.Repeat("a", 73), bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestVerifyPassword_GarbageHash(t *testing.T) {
	t.Parallel()

	assert.False(t, VerifyPassword("not-a-bcrypt-hash", "pw"))
}

func TestAccessToken_RoundTrip(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")
	now := time.Now()

	tok, err := NewAccessToken(secret, "a@x.com", time.Hour, now)
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(time.Hour), tok.Exp, time.Second)

	sub, err := ParseAccessToken(secret, tok.Token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", sub)
}

func TestParseAccessToken_Rejects(t *testing.T) {
	t.Parallel()

	secret := []byte("right-secret")
	now := time.Now()

	expired, err := NewAccessToken(secret, "a@x.com", -time.Minute, now)
	require.NoError(t, err)

	wrongKey, err := NewAccessToken([]byte("wrong-secret"), "a@x.com", time.Hour, now)
	require.NoError(t, err)

	notAccess, err := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "a@x.com", ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))},
		Type:             "refresh",
	}).SignedString(secret)
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))},
		Type:             TokenKindAccess,
	}).SignedString(secret)
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "a@x.com"},
		Type:             TokenKindAccess,
	}).SignedString(secret)
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "a@x.com", ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour))},
		Type:             TokenKindAccess,
	}).SignedString(secret)
	require.NoError(t, err)

	tests := map[string]string{
		"expired":      expired.Token,
		"wrong key":    wrongKey.Token,
		"not access":   notAccess,
		"no subject":   noSubject,
		"no expiry":    noExpiry,
		"other alg":    hs512,
		"malformed":    "not.a.jwt",
		"empty string": "",
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseAccessToken(secret, raw)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestNewRefreshToken(t *testing.T) {
	t.Parallel()

	now := time.Now()
	a, err := NewRefreshToken(7*24*time.Hour, now)
	require.NoError(t, err)
	b, err := NewRefreshToken(7*24*time.Hour, now)
	require.NoError(t, err)

	assert.NotEqual(t, a.Raw, b.Raw)
	raw, err := base64.RawURLEncoding.DecodeString(a.Raw)
	require.NoError(t, err, "token must be URL-safe base64")
	assert.Len(t, raw, 32)
	assert.Equal(t, now.UTC().Add(7*24*time.Hour), a.Exp)
}

func TestHashRefreshRaw_Deterministic(t *testing.T) {
	t.Parallel()

	assert.Equal(t, HashRefreshRaw("abc"), HashRefreshRaw("abc"))
	assert.NotEqual(t, HashRefreshRaw("abc"), HashRefreshRaw("abd"))
	assert.Len(t, HashRefreshRaw("abc"), 64)
}

func TestRandomPassword(t *testing.T) {
	t.Parallel()

	a, err := RandomPassword()
	require.NoError(t, err)
	b, err := RandomPassword()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
	assert.NotEmpty(t, a)
}
