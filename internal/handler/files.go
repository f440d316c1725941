package handler

import (
	"errors"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hairfit-server/internal/logging"
	"github.com/iliyamo/hairfit-server/internal/service"
	"github.com/iliyamo/hairfit-server/internal/storage"
)

// uploadKind maps an upload route to its storage folder and the extension
// used when the client filename has none.
type uploadKind struct {
	folder     string
	defaultExt string
}

var uploadKinds = map[string]uploadKind{
	"profile-photo":  {folder: "profiles", defaultExt: ".jpg"},
	"original-photo": {folder: "originals", defaultExt: ".jpg"},
	"result-photo":   {folder: "results", defaultExt: ".png"},
}

// FileHandler accepts photo uploads and serves stored images.
type FileHandler struct {
	Store   storage.Store
	Catalog *service.StyleCatalog
	Logger  logging.Logger
}

func NewFileHandler(store storage.Store, catalog *service.StyleCatalog, logger logging.Logger) *FileHandler {
	return &FileHandler{Store: store, Catalog: catalog, Logger: logger}
}

// Upload stores the multipart "file" under a random name and returns its
// "<folder>/<uuid>.<ext>" path.
func (h *FileHandler) Upload(c echo.Context) error {
	kind, ok := uploadKinds[c.Param("kind")]
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "Unknown upload type"})
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, "file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return badRequest(c, "file is unreadable")
	}
	defer f.Close()

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if ext == "" {
		ext = kind.defaultExt
	}
	path, err := h.Store.Save(c.Request().Context(), kind.folder, uuid.NewString()+ext, f)
	if err != nil {
		return respondError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"photo_path": path})
}

// Image serves GET /images/:type/:filename.  Styles come from the catalog
// directory, everything else from the upload store.
func (h *FileHandler) Image(c echo.Context) error {
	typ, name := c.Param("type"), c.Param("filename")
	if typ == "styles" {
		p, err := h.Catalog.FilePath(name)
		if err != nil {
			return imageNotFound(c)
		}
		return c.File(p)
	}

	rc, err := h.Store.Open(c.Request().Context(), typ, name)
	if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidName) {
		return imageNotFound(c)
	}
	if err != nil {
		return respondError(c, h.Logger, err)
	}
	defer rc.Close()

	ct := mime.TypeByExtension(filepath.Ext(name))
	if ct == "" {
		ct = echo.MIMEOctetStream
	}
	return c.Stream(http.StatusOK, ct, rc)
}

func imageNotFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, echo.Map{"error": "Image not found"})
}
