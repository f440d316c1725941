package service

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"time"

	"github.com/iliyamo/hairfit-server/internal/imagegen"
)

// SynthesisResult is the generated photo for a style.
type SynthesisResult struct {
	Image   []byte
	MIME    string
	StyleID string
}

// SynthesisService renders a client photo with a catalog style.  The model
// is called once; failures are not retried.
type SynthesisService struct {
	catalog *StyleCatalog
	gen     imagegen.Generator
	timeout time.Duration
}

func NewSynthesisService(catalog *StyleCatalog, gen imagegen.Generator, timeout time.Duration) *SynthesisService {
	return &SynthesisService{catalog: catalog, gen: gen, timeout: timeout}
}

func (s *SynthesisService) Synthesize(ctx context.Context, photo imagegen.Image, styleID string) (SynthesisResult, error) {
	if styleID == "" {
		return SynthesisResult{}, fail(ErrValidation, "style_id is required")
	}
	if len(photo.Data) == 0 {
		return SynthesisResult{}, fail(ErrValidation, "file is required")
	}
	styleBytes, file, err := s.catalog.ReadImage(styleID)
	if err != nil {
		return SynthesisResult{}, err
	}
	style := imagegen.Image{Data: styleBytes, MIMEType: mimeFor(file)}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	out, err := s.gen.Generate(ctx, photo, style, imagegen.Prompt)
	if err != nil {
		return SynthesisResult{}, failWith(ErrUpstream, fmt.Sprintf("Synthesis failed: %v", err), err)
	}
	return SynthesisResult{Image: out.Data, MIME: out.MIMEType, StyleID: styleID}, nil
}

func mimeFor(name string) string {
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		return t
	}
	return "image/jpeg"
}
