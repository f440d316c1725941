package utils // package utils provides helper functions for token creation and hashing

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating signed tokens
)

// TokenKindAccess is the value of the "type" claim on access tokens.  It
// keeps any other HS256 token signed with the same key from being accepted
// as a bearer credential.
const TokenKindAccess = "access"

// ErrInvalidToken covers every reason an access token is rejected: bad
// signature, wrong algorithm, expiry, malformed payload or wrong kind.
var ErrInvalidToken = errors.New("invalid token")

// AccessToken represents a signed JWT access token along with its expiry.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// AccessClaims is the payload of an access token.  The subject is the
// user's email address.
type AccessClaims struct {
	jwt.RegisteredClaims
	Type string `json:"type"`
}

// NewAccessToken builds and signs an HS256 JWT whose subject is email.  The
// token is not persisted; it stays valid until exp.
func NewAccessToken(secret []byte, email string, ttl time.Duration, now time.Time) (AccessToken, error) {
	now = now.UTC()
	exp := now.Add(ttl)
	claims := AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Type: TokenKindAccess,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// ParseAccessToken verifies raw and returns its subject.  Only HS256 is
// accepted and the exp claim is mandatory.
func ParseAccessToken(secret []byte, raw string) (string, error) {
	claims := &AccessClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !tok.Valid {
		return "", ErrInvalidToken
	}
	if claims.Type != TokenKindAccess || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
