// Package storage keeps uploaded photos.  Objects are addressed by a kind
// (profiles, originals, results) and a file name; the "<kind>/<name>" path
// returned by Save is what members and history rows record.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
)

// ErrNotFound is returned by Open when no object exists.
var ErrNotFound = errors.New("object not found")

// ErrInvalidName is returned for kinds or names that are not a single
// plain path segment.
var ErrInvalidName = errors.New("invalid object name")

// Store saves and opens uploaded files.
type Store interface {
	Save(ctx context.Context, kind, name string, r io.Reader) (string, error)
	Open(ctx context.Context, kind, name string) (io.ReadCloser, error)
}

// objectKey validates kind and name and joins them.
func objectKey(kind, name string) (string, error) {
	for _, seg := range []string{kind, name} {
		if seg == "" || seg == "." || seg == ".." || strings.ContainsAny(seg, `/\`) {
			return "", ErrInvalidName
		}
	}
	return path.Join(kind, name), nil
}
