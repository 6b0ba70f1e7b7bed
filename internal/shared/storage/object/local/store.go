package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"transfit-backend/internal/shared/storage/object"
	"transfit-backend/internal/shared/telemetry"
	"transfit-backend/internal/shared/util"
)

// Store keeps documents as files under a root directory. Used in dev and by
// the CLI when no bucket is configured.
type Store struct {
	root string
}

// New returns a Store rooted at dir. The directory is created on first save.
func New(dir string) object.ObjectStore {
	return &Store{root: dir}
}

// Open opens the document at key.
func (s *Store) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.pathFor(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", object.ErrNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("local: open %s: %w", key, err)
	}
	return f, nil
}

// SaveWithKey replaces the document at key. Readers see either the old or the
// new document, never a partial write. Content type is not persisted.
func (s *Store) SaveWithKey(ctx context.Context, key string, _ string, r io.Reader) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	path, err := s.pathFor(key)
	if err != nil {
		return 0, err
	}
	data, err := object.ReadDocument(r)
	if err != nil {
		return 0, err
	}
	if err := writeAtomic(path, data); err != nil {
		return 0, fmt.Errorf("local: save %s: %w", key, err)
	}
	telemetry.Info("object.saved", map[string]any{
		"path":   path,
		"bytes":  len(data),
		"digest": util.Digest(data),
	})
	return int64(len(data)), nil
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".doc-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (s *Store) pathFor(key string) (string, error) {
	clean := filepath.Clean(key)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("local: invalid key %q", key)
	}
	return filepath.Join(s.root, clean), nil
}
