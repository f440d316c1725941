package handler

import (
	"encoding/base64"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hairfit-server/internal/imagegen"
	"github.com/iliyamo/hairfit-server/internal/logging"
	"github.com/iliyamo/hairfit-server/internal/service"
)

// maxPhotoBytes caps the client photo read into memory for synthesis.
const maxPhotoBytes = 20 << 20

// SynthesisHandler renders a client photo with a catalog style.
type SynthesisHandler struct {
	Synthesis *service.SynthesisService
	Logger    logging.Logger
}

func NewSynthesisHandler(synthesis *service.SynthesisService, logger logging.Logger) *SynthesisHandler {
	return &SynthesisHandler{Synthesis: synthesis, Logger: logger}
}

func (h *SynthesisHandler) Synthesize(c echo.Context) error {
	styleID := strings.TrimSpace(c.FormValue("style_id"))
	if styleID == "" {
		return badRequest(c, "style_id is required")
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

	data, err := io.ReadAll(io.LimitReader(f, maxPhotoBytes+1))
	if err != nil {
		return badRequest(c, "file is unreadable")
	}
	if len(data) > maxPhotoBytes {
		return badRequest(c, "file is too large")
	}

	photo := imagegen.Image{Data: data, MIMEType: photoMIME(fh.Header.Get(echo.HeaderContentType), fh.Filename)}
	res, err := h.Synthesis.Synthesize(c.Request().Context(), photo, styleID)
	if err != nil {
		return respondError(c, h.Logger, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"result_image": base64.StdEncoding.EncodeToString(res.Image),
		"style_id":     res.StyleID,
	})
}

func photoMIME(header, filename string) string {
	if strings.HasPrefix(header, "image/") {
		return header
	}
	if t := mime.TypeByExtension(filepath.Ext(filename)); t != "" {
		return t
	}
	return "image/jpeg"
}
