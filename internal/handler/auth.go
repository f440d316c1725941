package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hairfit-server/internal/logging"
	"github.com/iliyamo/hairfit-server/internal/middleware"
	"github.com/iliyamo/hairfit-server/internal/service"
)

// AuthHandler serves sign-up, sign-in, token refresh and logout.
type AuthHandler struct {
	Auth   *service.AuthService
	Logger logging.Logger
}

func NewAuthHandler(auth *service.AuthService, logger logging.Logger) *AuthHandler {
	return &AuthHandler{Auth: auth, Logger: logger}
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshReq struct {
	RefreshToken string `json:"refresh_token"`
}

type meResp struct {
	ID        uint64    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
}

// Register creates the account and its salon and returns a token pair.
func (h *AuthHandler) Register(c echo.Context) error {
	var req service.RegisterInput
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	pair, err := h.Auth.Register(ctx, req)
	if errors.Is(err, service.ErrConflict) {
		return badRequest(c, err.Error())
	}
	if err != nil {
		return respondError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, pair)
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	pair, err := h.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return respondError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, pair)
}

// LoginGoogle accepts either a Google ID token or an OAuth access token.
func (h *AuthHandler) LoginGoogle(c echo.Context) error {
	var req service.FederatedCredential
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	req.IDToken = strings.TrimSpace(req.IDToken)
	req.AccessToken = strings.TrimSpace(req.AccessToken)

	// Google round trips are slower than the store; use the request context.
	pair, err := h.Auth.LoginFederated(c.Request().Context(), req)
	if err != nil {
		return respondError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, pair)
}

// Refresh rotates the refresh token.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var req refreshReq
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	ctx, cancel := requestCtx(c)
	defer cancel()

	pair, err := h.Auth.Refresh(ctx, strings.TrimSpace(req.RefreshToken))
	if err != nil {
		return respondError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, pair)
}

// Logout revokes the given refresh token.  It always answers 200 so a
// client can drop its session state unconditionally.
func (h *AuthHandler) Logout(c echo.Context) error {
	var req refreshReq
	_ = c.Bind(&req)
	if raw := strings.TrimSpace(req.RefreshToken); raw != "" {
		ctx, cancel := requestCtx(c)
		defer cancel()
		if err := h.Auth.Logout(ctx, raw); err != nil {
			h.Logger.Warn(ctx, "logout revoke failed", "error", err)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Successfully logged out"})
}

// Me returns the authenticated user.
func (h *AuthHandler) Me(c echo.Context) error {
	u := middleware.CurrentUser(c)
	if u == nil {
		return respondError(c, h.Logger, &service.Error{Kind: service.ErrUnauthenticated, Msg: "Not authenticated"})
	}
	return c.JSON(http.StatusOK, meResp{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
	})
}
