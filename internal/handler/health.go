package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

func Welcome(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "Welcome to HairFit API"})
}

func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// Healthz is the plain-text liveness probe.
func Healthz(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
