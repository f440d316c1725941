package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/iliyamo/hairfit-server/internal/logging"
	"github.com/iliyamo/hairfit-server/internal/model"
	"github.com/iliyamo/hairfit-server/internal/repository"
	"github.com/iliyamo/hairfit-server/internal/utils"
)

// bcrypt ignores everything past 72 bytes, so longer passwords are refused.
const maxPasswordBytes = 72

// RegisterInput is the body of POST /register.
type RegisterInput struct {
	Email     string  `json:"email"`
	Username  string  `json:"username"`
	Password  string  `json:"password"`
	SalonName *string `json:"salon_name"`
}

// AuthService owns registration, sign-in, refresh rotation and logout, and
// resolves bearer tokens to users.
type AuthService struct {
	users      repository.Users
	salons     repository.Salons
	tx         repository.Transactor
	tokens     *TokenIssuer
	federated  FederatedVerifier
	bcryptCost int
	logger     logging.Logger

	// dummyHash stands in for the stored hash when the email is unknown.
	dummyHash string
	verify    func(hash, plain string) bool
}

func NewAuthService(users repository.Users, salons repository.Salons, tx repository.Transactor, tokens *TokenIssuer, federated FederatedVerifier, bcryptCost int, logger logging.Logger) *AuthService {
	dummy, err := utils.HashPassword("hairfit-unknown-account", bcryptCost)
	if err != nil {
		logger.Warn(context.Background(), "dummy password hash unavailable", "error", err)
	}
	return &AuthService{
		users:      users,
		salons:     salons,
		tx:         tx,
		tokens:     tokens,
		federated:  federated,
		bcryptCost: bcryptCost,
		logger:     logger,
		dummyHash:  dummy,
		verify:     utils.VerifyPassword,
	}
}

// Register creates the user, their salon and the first refresh token in one
// transaction.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (TokenPair, error) {
	in.Email = repository.NormalizeEmail(in.Email)
	in.Username = strings.TrimSpace(in.Username)
	if err := validateRegistration(in); err != nil {
		return TokenPair{}, err
	}

	hash, err := utils.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		if errors.Is(err, utils.ErrPasswordTooLong) {
			return TokenPair{}, fail(ErrValidation, "Password must be at most 72 bytes")
		}
		return TokenPair{}, fmt.Errorf("hash password: %w", err)
	}

	salonName := model.DefaultSalonName(in.Username)
	if in.SalonName != nil && strings.TrimSpace(*in.SalonName) != "" {
		salonName = strings.TrimSpace(*in.SalonName)
	}

	u := &model.User{Email: in.Email, Username: in.Username, PasswordHash: hash}
	var refresh string
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, u); err != nil {
			return err
		}
		if _, err := s.salons.EnsureForOwner(ctx, u.ID, salonName); err != nil {
			return fmt.Errorf("create salon: %w", err)
		}
		refresh, err = s.tokens.IssueRefreshToken(ctx, u.ID)
		return err
	})
	if errors.Is(err, repository.ErrDuplicate) {
		return TokenPair{}, fail(ErrConflict, "Email already registered")
	}
	if err != nil {
		return TokenPair{}, err
	}

	s.logger.Info(ctx, "user registered", "user_id", u.ID)
	return s.tokens.pairWith(u, refresh)
}

func validateRegistration(in RegisterInput) error {
	if addr, err := mail.ParseAddress(in.Email); err != nil || addr.Address != in.Email {
		return fail(ErrValidation, "A valid email is required")
	}
	if in.Username == "" {
		return fail(ErrValidation, "Username is required")
	}
	if in.Password == "" {
		return fail(ErrValidation, "Password is required")
	}
	if len(in.Password) > maxPasswordBytes {
		return fail(ErrValidation, "Password must be at most 72 bytes")
	}
	return nil
}

// Login checks credentials.  Unknown email and wrong password produce the
// same error and both run one password comparison.
func (s *AuthService) Login(ctx context.Context, email, password string) (TokenPair, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return TokenPair{}, fail(ErrValidation, "Email and password are required")
	}
	badCredentials := fail(ErrUnauthenticated, "Incorrect email or password")

	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		s.verify(s.dummyHash, password)
		return TokenPair{}, badCredentials
	}
	if err != nil {
		return TokenPair{}, err
	}
	if !s.verify(u.PasswordHash, password) {
		return TokenPair{}, badCredentials
	}
	return s.tokens.issuePair(ctx, u)
}

// LoginFederated signs in through Google, registering the user on first
// sight.
func (s *AuthService) LoginFederated(ctx context.Context, cred FederatedCredential) (TokenPair, error) {
	u, err := s.ResolveFederatedIdentity(ctx, cred)
	if err != nil {
		return TokenPair{}, err
	}
	return s.tokens.issuePair(ctx, u)
}

// ResolveFederatedIdentity verifies cred and returns the matching local
// user, provisioning the user and a default salon when the email is new.
// It never reports "user not found".
func (s *AuthService) ResolveFederatedIdentity(ctx context.Context, cred FederatedCredential) (*model.User, error) {
	id, err := s.federated.Verify(ctx, cred)
	if err != nil {
		return nil, err
	}

	u, err := s.users.GetByEmail(ctx, id.Email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	pw, err := utils.RandomPassword()
	if err != nil {
		return nil, err
	}
	hash, err := utils.HashPassword(pw, s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u = &model.User{Email: id.Email, Username: id.Name, PasswordHash: hash}
	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.users.Create(ctx, u); err != nil {
			return err
		}
		_, err := s.salons.EnsureForOwner(ctx, u.ID, model.DefaultSalonName(u.Username))
		return err
	})
	if errors.Is(err, repository.ErrDuplicate) {
		// Another request provisioned the same email first.
		return s.users.GetByEmail(ctx, id.Email)
	}
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "federated user provisioned", "user_id", u.ID)
	return u, nil
}

// Refresh exchanges a usable refresh token for a new pair and revokes it.
func (s *AuthService) Refresh(ctx context.Context, raw string) (TokenPair, error) {
	if raw == "" {
		return TokenPair{}, fail(ErrValidation, "refresh_token is required")
	}
	u, err := s.tokens.VerifyRefreshToken(ctx, raw)
	if err != nil {
		return TokenPair{}, err
	}
	if u == nil {
		return TokenPair{}, fail(ErrUnauthenticated, "Invalid or expired refresh token")
	}
	next, err := s.tokens.RotateRefreshToken(ctx, raw, u.ID)
	if err != nil {
		return TokenPair{}, err
	}
	return s.tokens.pairWith(u, next)
}

// Logout revokes raw.  Unknown tokens are not an error.
func (s *AuthService) Logout(ctx context.Context, raw string) error {
	return s.tokens.RevokeRefreshToken(ctx, raw)
}

// ResolveFromAccessToken maps a bearer token to its user.  A valid token
// whose subject no longer exists is rejected too.
func (s *AuthService) ResolveFromAccessToken(ctx context.Context, raw string) (*model.User, error) {
	email, err := s.tokens.VerifyAccessToken(raw)
	if err != nil {
		return nil, err
	}
	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fail(ErrUnauthenticated, "Could not validate credentials")
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}
