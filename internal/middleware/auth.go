package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hairfit-server/internal/logging"
	"github.com/iliyamo/hairfit-server/internal/model"
	"github.com/iliyamo/hairfit-server/internal/service"
)

// IdentityResolver maps a raw bearer token to a user.
type IdentityResolver interface {
	ResolveFromAccessToken(ctx context.Context, token string) (*model.User, error)
}

// JWTAuth rejects requests without a valid "Authorization: Bearer" access
// token and stores the resolved user in the context (see CurrentUser).
// Every 401 carries "WWW-Authenticate: Bearer".
func JWTAuth(resolver IdentityResolver, logger logging.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			scheme, raw, ok := strings.Cut(header, " ")
			if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(raw) == "" {
				return unauthorized(c, "Not authenticated")
			}

			ctx := c.Request().Context()
			u, err := resolver.ResolveFromAccessToken(ctx, strings.TrimSpace(raw))
			if err != nil {
				if errors.Is(err, service.ErrUnauthenticated) {
					return unauthorized(c, err.Error())
				}
				logger.Error(ctx, "resolve bearer token", "error", err)
				return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
			}
			c.Set(userKey, u)
			return next(c)
		}
	}
}

func unauthorized(c echo.Context, msg string) error {
	c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": msg})
}
