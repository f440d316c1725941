package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"github.com/iliyamo/hairfit-server/internal/model"
)

const metadataFile = "metadata.json"

var styleIDPattern = regexp.MustCompile(`^style_[A-Za-z0-9_-]+$`)

var styleExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}

// StyleUpload describes a new catalog entry.  An empty ID asks the catalog
// to pick the next free style_<n>.
type StyleUpload struct {
	ID       string
	Name     *string
	Tags     []string
	Gender   string
	Category string
	Filename string // original client filename, used for the extension
	Body     io.Reader
}

// StyleCatalog is the reference-image catalog shared by all salons.  Images
// live in one directory as style_<n>.<ext>; metadata.json beside them maps
// ids to their descriptions.
type StyleCatalog struct {
	dir string

	mu     sync.RWMutex
	images map[string]string // id -> file name inside dir
	meta   map[string]model.StyleMetadata
}

func NewStyleCatalog(dir string) *StyleCatalog {
	return &StyleCatalog{
		dir:    dir,
		images: make(map[string]string),
		meta:   make(map[string]model.StyleMetadata),
	}
}

func defaultMetadata() model.StyleMetadata {
	return model.StyleMetadata{Tags: []string{}, Gender: "neutral", Category: "unknown"}
}

// Load reads metadata.json, scans the directory for style images, gives
// every image without metadata a default entry and writes the merged
// metadata back.  Entries whose image is gone are kept.
func (c *StyleCatalog) Load() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("create styles dir: %w", err)
	}

	meta := make(map[string]model.StyleMetadata)
	raw, err := os.ReadFile(filepath.Join(c.dir, metadataFile))
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return fmt.Errorf("read style metadata: %w", err)
	default:
		if err := json.Unmarshal(raw, &meta); err != nil {
			return fmt.Errorf("parse style metadata: %w", err)
		}
	}

	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return fmt.Errorf("scan styles dir: %w", err)
	}
	images := make(map[string]string)
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		id := strings.TrimSuffix(e.Name(), filepath.Ext(e.Name()))
		if !styleExtensions[ext] || !strings.HasPrefix(id, "style_") {
			continue
		}
		images[id] = e.Name()
		if _, ok := meta[id]; !ok {
			meta[id] = defaultMetadata()
		}
	}

	c.images = images
	c.meta = meta
	return c.persistLocked()
}

// List returns every catalog image sorted by id.
func (c *StyleCatalog) List() []model.Style {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]model.Style, 0, len(c.images))
	for id, file := range c.images {
		md, ok := c.meta[id]
		if !ok {
			md = defaultMetadata()
		}
		name := titleCase(id)
		if md.Name != nil && *md.Name != "" {
			name = *md.Name
		}
		tags := md.Tags
		if tags == nil {
			tags = []string{}
		}
		_, statErr := os.Stat(filepath.Join(c.dir, file))
		out = append(out, model.Style{
			ID:        id,
			Name:      name,
			ImagePath: "styles/" + file,
			Exists:    statErr == nil,
			Tags:      tags,
			Gender:    md.Gender,
			Category:  md.Category,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Add stores a new image and its metadata.  The id is chosen under the
// catalog lock so concurrent uploads cannot pick the same number.
func (c *StyleCatalog) Add(up StyleUpload) (id, file string, err error) {
	ext := strings.ToLower(filepath.Ext(up.Filename))
	if ext == "" {
		ext = ".jpg"
	}
	if !styleExtensions[ext] {
		return "", "", fail(ErrValidation, "Style image must be a .jpg, .jpeg or .png file")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	id = up.ID
	if id == "" {
		id = c.nextIDLocked()
	}
	if !strings.HasPrefix(id, "style_") {
		return "", "", fail(ErrValidation, "style_id must start with 'style_'")
	}
	if !styleIDPattern.MatchString(id) {
		return "", "", fail(ErrValidation, "style_id may only contain letters, digits, '_' and '-'")
	}
	if _, exists := c.images[id]; exists {
		return "", "", fail(ErrConflict, fmt.Sprintf("Style ID '%s' already exists", id))
	}

	file = id + ext
	if err := writeFile(filepath.Join(c.dir, file), up.Body); err != nil {
		return "", "", fmt.Errorf("save style image: %w", err)
	}

	md := defaultMetadata()
	md.Name = up.Name
	if up.Tags != nil {
		md.Tags = up.Tags
	}
	if up.Gender != "" {
		md.Gender = up.Gender
	}
	if up.Category != "" {
		md.Category = up.Category
	}
	c.images[id] = file
	c.meta[id] = md
	if err := c.persistLocked(); err != nil {
		return "", "", err
	}
	return id, "styles/" + file, nil
}

// nextIDLocked returns style_<max+1> over the numeric ids in use.
func (c *StyleCatalog) nextIDLocked() string {
	highest := 0
	for id := range c.images {
		if n, err := strconv.Atoi(strings.TrimPrefix(id, "style_")); err == nil && n > highest {
			highest = n
		}
	}
	return "style_" + strconv.Itoa(highest+1)
}

// Update applies a metadata patch to an existing style.
func (c *StyleCatalog) Update(id string, patch model.StylePatch) (model.StyleMetadata, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.images[id]; !ok {
		return model.StyleMetadata{}, fail(ErrNotFound, "Style not found")
	}
	md, ok := c.meta[id]
	if !ok {
		md = defaultMetadata()
	}
	patch.Apply(&md)
	c.meta[id] = md
	if err := c.persistLocked(); err != nil {
		return model.StyleMetadata{}, err
	}
	return md, nil
}

// Delete removes the image file, its mapping and its metadata.
func (c *StyleCatalog) Delete(id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	file, ok := c.images[id]
	if !ok {
		return fail(ErrNotFound, "Style not found")
	}
	if err := os.Remove(filepath.Join(c.dir, file)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove style image: %w", err)
	}
	delete(c.images, id)
	delete(c.meta, id)
	return c.persistLocked()
}

// ReadImage returns the bytes of a style image and its file name.
func (c *StyleCatalog) ReadImage(id string) ([]byte, string, error) {
	c.mu.RLock()
	file, ok := c.images[id]
	c.mu.RUnlock()
	if !ok {
		return nil, "", fail(ErrNotFound, "Style not found")
	}
	b, err := os.ReadFile(filepath.Join(c.dir, file))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, "", fail(ErrNotFound, "Style image is missing")
	}
	if err != nil {
		return nil, "", err
	}
	return b, file, nil
}

// FilePath resolves a file name served under /images/styles.  Names that
// would leave the catalog directory are rejected.
func (c *StyleCatalog) FilePath(name string) (string, error) {
	if name == "" || name != filepath.Base(name) || name == "." || name == ".." {
		return "", fail(ErrNotFound, "Image not found")
	}
	p := filepath.Join(c.dir, name)
	if st, err := os.Stat(p); err != nil || st.IsDir() {
		return "", fail(ErrNotFound, "Image not found")
	}
	return p, nil
}

// persistLocked rewrites metadata.json through a temp file and rename.
func (c *StyleCatalog) persistLocked() error {
	raw, err := json.MarshalIndent(c.meta, "", "  ")
	if err != nil {
		return fmt.Errorf("encode style metadata: %w", err)
	}
	tmp := filepath.Join(c.dir, metadataFile+".tmp")
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write style metadata: %w", err)
	}
	if err := os.Rename(tmp, filepath.Join(c.dir, metadataFile)); err != nil {
		return fmt.Errorf("replace style metadata: %w", err)
	}
	return nil
}

func writeFile(path string, r io.Reader) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	return f.Close()
}

// titleCase turns "style_12" into "Style 12".
func titleCase(id string) string {
	words := strings.Fields(strings.ReplaceAll(id, "_", " "))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		for j := 1; j < len(r); j++ {
			r[j] = unicode.ToLower(r[j])
		}
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
