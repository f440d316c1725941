// Package handler holds the Echo handlers of the salon API.  Handlers bind
// the request, call one service method and translate service errors to
// HTTP statuses with respondError.
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hairfit-server/internal/logging"
	"github.com/iliyamo/hairfit-server/internal/middleware"
	"github.com/iliyamo/hairfit-server/internal/model"
	"github.com/iliyamo/hairfit-server/internal/service"
)

// dbTimeout bounds the store calls of a single request.
const dbTimeout = 5 * time.Second

func requestCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// respondError writes {"error": msg} with the status matching the error
// kind.  Unknown errors are logged and reported as 500 without detail.
func respondError(c echo.Context, logger logging.Logger, err error) error {
	var se *service.Error
	msg := "Internal server error"
	if errors.As(err, &se) {
		msg = se.Msg
	}
	switch {
	case errors.Is(err, service.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	case errors.Is(err, service.ErrUnauthenticated):
		c.Response().Header().Set(echo.HeaderWWWAuthenticate, "Bearer")
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": msg})
	case errors.Is(err, service.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": msg})
	case errors.Is(err, service.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": msg})
	case errors.Is(err, service.ErrUpstream):
		logger.Error(c.Request().Context(), "upstream failure", "path", c.Path(), "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": msg})
	}
	logger.Error(c.Request().Context(), "request failed", "path", c.Path(), "error", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Internal server error"})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

// pageParams reads ?skip and ?limit, falling back to 0 and def.
func pageParams(c echo.Context, def int) (service.Page, bool) {
	p := service.Page{Skip: 0, Limit: def}
	if s := c.QueryParam("skip"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return p, false
		}
		p.Skip = n
	}
	if s := c.QueryParam("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return p, false
		}
		p.Limit = n
	}
	return p, true
}

// SalonScope resolves the caller's salon.
type SalonScope interface {
	ResolveSalon(ctx context.Context, u *model.User) (*model.Salon, error)
}

// salonOf resolves the salon of the authenticated user.
func salonOf(ctx context.Context, c echo.Context, scope SalonScope) (*model.Salon, error) {
	u := middleware.CurrentUser(c)
	if u == nil {
		return nil, &service.Error{Kind: service.ErrUnauthenticated, Msg: "Not authenticated"}
	}
	return scope.ResolveSalon(ctx, u)
}
