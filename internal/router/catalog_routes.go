package router

import (
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hairfit-server/internal/handler"
)

// RegisterCatalog registers the style catalog, photo uploads and synthesis
// behind auth.  GET /styles is served through the response
// cache; the style handler invalidates it on every change.
func RegisterCatalog(e *echo.Echo, auth echo.MiddlewareFunc, s *handler.StyleHandler, f *handler.FileHandler, syn *handler.SynthesisHandler, d Deps) {
	e.GET("/styles", s.List, auth, d.StyleCache.Middleware())
	e.POST("/styles", s.Upload, auth, d.limit("style_upload", 10, time.Hour))
	e.PUT("/styles/:id", s.Update, auth)
	e.DELETE("/styles/:id", s.Delete, auth)

	e.POST("/upload/:kind", f.Upload, auth, d.limit("upload", 20, time.Hour))
	e.POST("/synthesize", syn.Synthesize, auth)
}
