package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/hairfit-server/internal/config"
	"github.com/iliyamo/hairfit-server/internal/model"
	"github.com/iliyamo/hairfit-server/internal/repository"
	"github.com/iliyamo/hairfit-server/internal/utils"
)

// TokenPair is the body returned by every successful sign-in.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// TokenIssuer mints and checks access tokens and refresh tokens.  Access
// tokens are stateless HS256 JWTs; refresh tokens are random strings whose
// SHA-256 digest is stored.
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	users      repository.Users
	tokens     repository.RefreshTokens
	tx         repository.Transactor
	now        func() time.Time
}

// NewTokenIssuer refuses an empty or placeholder secret with
// config.ErrConfiguration.
func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration, users repository.Users, tokens repository.RefreshTokens, tx repository.Transactor) (*TokenIssuer, error) {
	s := strings.TrimSpace(secret)
	if s == "" || s == config.PlaceholderSecret {
		return nil, fmt.Errorf("%w: signing secret is missing or left at the placeholder", config.ErrConfiguration)
	}
	return &TokenIssuer{
		secret:     []byte(s),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		users:      users,
		tokens:     tokens,
		tx:         tx,
		now:        time.Now,
	}, nil
}

// IssueAccessToken signs a short-lived HS256 token whose subject is email.
func (t *TokenIssuer) IssueAccessToken(email string) (utils.AccessToken, error) {
	return utils.NewAccessToken(t.secret, email, t.accessTTL, t.now())
}

// VerifyAccessToken returns the subject email of a valid access token.
func (t *TokenIssuer) VerifyAccessToken(raw string) (string, error) {
	email, err := utils.ParseAccessToken(t.secret, raw)
	if err != nil {
		return "", failWith(ErrUnauthenticated, "Could not validate credentials", err)
	}
	return email, nil
}

// IssueRefreshToken stores a new refresh token for userID and returns the
// raw value, which is never persisted.
func (t *TokenIssuer) IssueRefreshToken(ctx context.Context, userID uint64) (string, error) {
	rt, err := utils.NewRefreshToken(t.refreshTTL, t.now())
	if err != nil {
		return "", err
	}
	if err := t.tokens.Store(ctx, userID, utils.HashRefreshRaw(rt.Raw), rt.Exp); err != nil {
		return "", fmt.Errorf("store refresh token: %w", err)
	}
	return rt.Raw, nil
}

// VerifyRefreshToken returns the owner of raw when the token is usable.
// Unknown, revoked and expired tokens yield (nil, nil).
func (t *TokenIssuer) VerifyRefreshToken(ctx context.Context, raw string) (*model.User, error) {
	if raw == "" {
		return nil, nil
	}
	rec, err := t.tokens.FindByHash(ctx, utils.HashRefreshRaw(raw))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !rec.Usable(t.now()) {
		return nil, nil
	}
	u, err := t.users.GetByID(ctx, rec.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, nil
	}
	return u, err
}

// RevokeRefreshToken is idempotent; unknown tokens are ignored.
func (t *TokenIssuer) RevokeRefreshToken(ctx context.Context, raw string) error {
	if raw == "" {
		return nil
	}
	_, err := t.tokens.Revoke(ctx, utils.HashRefreshRaw(raw))
	return err
}

// RotateRefreshToken revokes old and issues a successor in one transaction.
// Only the caller whose revoke flips the flag gets a successor; a token
// already revoked, including by a concurrent rotation, is rejected.
func (t *TokenIssuer) RotateRefreshToken(ctx context.Context, old string, userID uint64) (string, error) {
	var next string
	err := t.tx.WithinTx(ctx, func(ctx context.Context) error {
		revoked, err := t.tokens.Revoke(ctx, utils.HashRefreshRaw(old))
		if err != nil {
			return err
		}
		if !revoked {
			return fail(ErrUnauthenticated, "Invalid or expired refresh token")
		}
		next, err = t.IssueRefreshToken(ctx, userID)
		return err
	})
	if err != nil {
		return "", err
	}
	return next, nil
}

// issuePair mints an access token and a refresh token for u.
func (t *TokenIssuer) issuePair(ctx context.Context, u *model.User) (TokenPair, error) {
	refresh, err := t.IssueRefreshToken(ctx, u.ID)
	if err != nil {
		return TokenPair{}, err
	}
	return t.pairWith(u, refresh)
}

func (t *TokenIssuer) pairWith(u *model.User, refresh string) (TokenPair, error) {
	access, err := t.IssueAccessToken(u.Email)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{AccessToken: access.Token, RefreshToken: refresh, TokenType: "bearer"}, nil
}
