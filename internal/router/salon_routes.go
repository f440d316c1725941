package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hairfit-server/internal/handler"
)

// RegisterSalon registers the salon-scoped CRUD routes behind auth.  PUT
// and PATCH on members both apply a partial update.
func RegisterSalon(e *echo.Echo, auth echo.MiddlewareFunc, m *handler.MemberHandler, h *handler.HistoryHandler) {
	e.GET("/members", m.List, auth)
	e.POST("/members", m.Create, auth)
	e.GET("/members/:id", m.Get, auth)
	e.PUT("/members/:id", m.Update, auth)
	e.PATCH("/members/:id", m.Update, auth)
	e.DELETE("/members/:id", m.Delete, auth)

	e.GET("/synthesis-history", h.List, auth)
	e.POST("/synthesis-history", h.Create, auth)
	e.GET("/synthesis-history/:id", h.Get, auth)
	e.PATCH("/synthesis-history/:id", h.Update, auth)
	e.DELETE("/synthesis-history/:id", h.Delete, auth)
}
