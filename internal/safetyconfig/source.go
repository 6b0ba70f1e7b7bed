package safetyconfig

import (
	"context"
	_ "embed"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"transfit-backend/internal/shared/storage/object"
)

//go:embed default_safety_config.json
var defaultDocument []byte

// Source fetches the raw safety document.
type Source interface {
	Fetch(ctx context.Context) (data []byte, format string, err error)
	Name() string
}

// EmbeddedSource serves the document compiled into the binary.
type EmbeddedSource struct{}

func (EmbeddedSource) Fetch(ctx context.Context) ([]byte, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	return defaultDocument, "json", nil
}

func (EmbeddedSource) Name() string { return "embedded" }

// FileSource reads the document from the local filesystem.
type FileSource struct {
	Path string
}

func (s FileSource) Fetch(ctx context.Context) ([]byte, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, "", err
	}
	return data, FormatForKey(s.Path), nil
}

func (s FileSource) Name() string { return "file:" + s.Path }

// ObjectSource reads the document from the object store (local or S3).
type ObjectSource struct {
	Store object.ObjectStore
	Key   string
}

func (s ObjectSource) Fetch(ctx context.Context) ([]byte, string, error) {
	if s.Store == nil {
		return nil, "", fmt.Errorf("object store not configured")
	}
	rc, err := s.Store.Open(ctx, s.Key)
	if err != nil {
		return nil, "", err
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, "", fmt.Errorf("read object: %w", err)
	}
	return data, FormatForKey(s.Key), nil
}

func (s ObjectSource) Name() string { return "object:" + s.Key }

// FormatForKey picks "yaml" for .yaml/.yml names and "json" otherwise.
func FormatForKey(key string) string {
	switch strings.ToLower(filepath.Ext(key)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

// DefaultDocument returns a copy of the embedded document.
func DefaultDocument() []byte {
	return append([]byte(nil), defaultDocument...)
}
