package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/hairfit-server/internal/imagegen"
)

type fakeGenerator struct {
	out      imagegen.Image
	err      error
	gotStyle imagegen.Image
	deadline bool
}

func (f *fakeGenerator) Generate(ctx context.Context, _, style imagegen.Image, _ string) (imagegen.Image, error) {
	f.gotStyle = style
	_, f.deadline = ctx.Deadline()
	return f.out, f.err
}

func newSynthesis(t *testing.T, gen imagegen.Generator) *SynthesisService {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "style_1.png"), []byte("style"), 0o644))
	c := NewStyleCatalog(dir)
	require.NoError(t, c.Load())
	return NewSynthesisService(c, gen, time.Minute)
}

func TestSynthesize_Success(t *testing.T) {
	gen := &fakeGenerator{out: imagegen.Image{Data: []byte("result"), MIMEType: "image/png"}}
	svc := newSynthesis(t, gen)

	res, err := svc.Synthesize(context.Background(), imagegen.Image{Data: []byte("face"), MIMEType: "image/jpeg"}, "style_1")
	require.NoError(t, err)
	assert.Equal(t, []byte("result"), res.Image)
	assert.Equal(t, "style_1", res.StyleID)
	assert.Equal(t, "image/png", gen.gotStyle.MIMEType)
	assert.True(t, gen.deadline)
}

func TestSynthesize_UnknownStyle(t *testing.T) {
	svc := newSynthesis(t, &fakeGenerator{})
	_, err := svc.Synthesize(context.Background(), imagegen.Image{Data: []byte("face")}, "style_99")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSynthesize_UpstreamFailureCarriesDiagnostic(t *testing.T) {
	svc := newSynthesis(t, &fakeGenerator{err: errors.New("quota exceeded")})
	_, err := svc.Synthesize(context.Background(), imagegen.Image{Data: []byte("face")}, "style_1")
	require.ErrorIs(t, err, ErrUpstream)
	assert.Contains(t, err.Error(), "quota exceeded")
}
