package middleware

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hairfit-server/internal/model"
)

// userKey is the echo.Context key holding the authenticated *model.User.
const userKey = "user"

// CurrentUser returns the user stored by JWTAuth, or nil on public routes.
func CurrentUser(c echo.Context) *model.User {
	u, _ := c.Get(userKey).(*model.User)
	return u
}

// userID identifies the caller for rate-limit keys; "anon" when no user is
// authenticated.
func userID(c echo.Context) string {
	if u := CurrentUser(c); u != nil {
		return strconv.FormatUint(u.ID, 10)
	}
	return "anon"
}
