package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hairfit-server/internal/logging"
	"github.com/iliyamo/hairfit-server/internal/model"
	"github.com/iliyamo/hairfit-server/internal/service"
)

// Invalidator drops cached responses of a resource.
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// StyleHandler serves the shared style catalog.
type StyleHandler struct {
	Catalog *service.StyleCatalog
	Cache   Invalidator
	Logger  logging.Logger
}

func NewStyleHandler(catalog *service.StyleCatalog, cache Invalidator, logger logging.Logger) *StyleHandler {
	return &StyleHandler{Catalog: catalog, Cache: cache, Logger: logger}
}

func (h *StyleHandler) List(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"styles": h.Catalog.List()})
}

// Upload adds a style from a multipart form: file, style_id, name, tags
// (a JSON array string), gender and category.
func (h *StyleHandler) Upload(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return badRequest(c, "file is unreadable")
	}
	defer f.Close()

	up := service.StyleUpload{
		ID:       strings.TrimSpace(c.FormValue("style_id")),
		Tags:     parseTags(c.FormValue("tags")),
		Gender:   strings.TrimSpace(c.FormValue("gender")),
		Category: strings.TrimSpace(c.FormValue("category")),
		Filename: fh.Filename,
		Body:     f,
	}
	if name := strings.TrimSpace(c.FormValue("name")); name != "" {
		up.Name = &name
	}

	id, path, err := h.Catalog.Add(up)
	if err != nil {
		return respondError(c, h.Logger, err)
	}
	h.invalidate(c)
	return c.JSON(http.StatusOK, echo.Map{
		"message":   "Style uploaded successfully",
		"style_id":  id,
		"file_path": path,
	})
}

func (h *StyleHandler) Update(c echo.Context) error {
	var patch model.StylePatch
	if err := c.Bind(&patch); err != nil {
		return badRequest(c, "invalid body")
	}
	md, err := h.Catalog.Update(c.Param("id"), patch)
	if err != nil {
		return respondError(c, h.Logger, err)
	}
	h.invalidate(c)
	return c.JSON(http.StatusOK, echo.Map{"message": "Style updated successfully", "style": md})
}

func (h *StyleHandler) Delete(c echo.Context) error {
	if err := h.Catalog.Delete(c.Param("id")); err != nil {
		return respondError(c, h.Logger, err)
	}
	h.invalidate(c)
	return c.JSON(http.StatusOK, echo.Map{"message": "Style deleted successfully"})
}

func (h *StyleHandler) invalidate(c echo.Context) {
	if h.Cache == nil {
		return
	}
	ctx := c.Request().Context()
	if err := h.Cache.Invalidate(ctx); err != nil {
		h.Logger.Warn(ctx, "style cache invalidation failed", "error", err)
	}
}

// parseTags decodes a JSON array of strings; anything else yields no tags.
func parseTags(raw string) []string {
	tags := []string{}
	if strings.TrimSpace(raw) == "" {
		return tags
	}
	if err := json.Unmarshal([]byte(raw), &tags); err != nil || tags == nil {
		return []string{}
	}
	return tags
}
