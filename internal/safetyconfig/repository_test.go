package safetyconfig

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	local "transfit-backend/internal/shared/storage/object/local"
)

type countingSource struct {
	calls atomic.Int32
	fail  atomic.Bool
	data  []byte
}

func (s *countingSource) Fetch(ctx context.Context) ([]byte, string, error) {
	s.calls.Add(1)
	if s.fail.Load() {
		return nil, "", errors.New("unreachable")
	}
	return s.data, "json", nil
}

func (s *countingSource) Name() string { return "counting" }

func TestRepositoryCachesAfterFirstLoad(t *testing.T) {
	src := &countingSource{data: DefaultDocument()}
	repo := NewRepository(src)

	if repo.IsLoaded() {
		t.Fatalf("expected repository to start empty")
	}
	first, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	second, err := repo.Load(context.Background())
	if err != nil {
		t.Fatalf("Load again: %v", err)
	}
	if first != second {
		t.Fatalf("expected the cached config to be reused")
	}
	if src.calls.Load() != 1 {
		t.Fatalf("expected one fetch, got %d", src.calls.Load())
	}
	if !repo.IsLoaded() {
		t.Fatalf("expected IsLoaded after Load")
	}

	repo.ClearCache()
	if repo.IsLoaded() {
		t.Fatalf("expected ClearCache to drop the config")
	}
	if _, err := repo.Load(context.Background()); err != nil {
		t.Fatalf("Load after clear: %v", err)
	}
	if src.calls.Load() != 2 {
		t.Fatalf("expected refetch after ClearCache, got %d fetches", src.calls.Load())
	}
}

func TestRepositoryRetriesAfterFailure(t *testing.T) {
	src := &countingSource{data: DefaultDocument()}
	src.fail.Store(true)
	repo := NewRepository(src)

	_, err := repo.Load(context.Background())
	if !errors.Is(err, ErrConfigLoad) {
		t.Fatalf("expected ErrConfigLoad, got %v", err)
	}
	if repo.IsLoaded() {
		t.Fatalf("failed load must not be cached")
	}

	src.fail.Store(false)
	if _, err := repo.Load(context.Background()); err != nil {
		t.Fatalf("expected retry to succeed: %v", err)
	}
}

func TestRepositoryRejectsInvalidDocument(t *testing.T) {
	repo := NewRepository(&countingSource{data: []byte(`{"version":"broken"}`)})
	_, err := repo.Load(context.Background())
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %v", err)
	}
	if loadErr.Source != "counting" {
		t.Fatalf("expected source name on error, got %q", loadErr.Source)
	}
	if len(loadErr.Issues) != len(requiredKeys) {
		t.Fatalf("expected %d missing keys, got %v", len(requiredKeys), loadErr.Issues)
	}
}

func TestRepositoryConcurrentLoadsShareOneFetch(t *testing.T) {
	src := &countingSource{data: DefaultDocument()}
	repo := NewRepository(src)

	var wg sync.WaitGroup
	results := make([]*SafetyConfig, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cfg, err := repo.Load(context.Background())
			if err != nil {
				t.Errorf("Load: %v", err)
				return
			}
			results[i] = cfg
		}(i)
	}
	wg.Wait()

	for _, cfg := range results {
		if cfg != results[0] {
			t.Fatalf("expected every caller to see the same config")
		}
	}
	if src.calls.Load() != 1 {
		t.Fatalf("expected a single fetch, got %d", src.calls.Load())
	}
}

func TestObjectAndFileSources(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "rules"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	path := filepath.Join(dir, "rules", "safety.yaml")
	if err := os.WriteFile(path, []byte(yamlDocument), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	fromObject, err := NewRepository(ObjectSource{Store: local.New(dir), Key: "rules/safety.yaml"}).Load(context.Background())
	if err != nil {
		t.Fatalf("object source: %v", err)
	}
	fromFile, err := NewRepository(FileSource{Path: path}).Load(context.Background())
	if err != nil {
		t.Fatalf("file source: %v", err)
	}
	if fromObject.Version != "yaml-test" || fromFile.Version != "yaml-test" {
		t.Fatalf("unexpected versions %q %q", fromObject.Version, fromFile.Version)
	}

	_, err = NewRepository(ObjectSource{Store: local.New(dir), Key: "rules/missing.json"}).Load(context.Background())
	if !errors.Is(err, ErrConfigLoad) {
		t.Fatalf("expected ErrConfigLoad for missing object, got %v", err)
	}
}

func TestDefaultRepositoryHelpers(t *testing.T) {
	SetDefaultSource(EmbeddedSource{})
	t.Cleanup(func() { SetDefaultSource(EmbeddedSource{}) })

	if IsConfigLoaded() {
		t.Fatalf("expected fresh default repository")
	}
	cfg, err := LoadSafetyConfig(context.Background())
	if err != nil {
		t.Fatalf("LoadSafetyConfig: %v", err)
	}
	if cfg.Version == "" {
		t.Fatalf("expected embedded document version")
	}
	if !IsConfigLoaded() {
		t.Fatalf("expected loaded")
	}
	ClearConfigCache()
	if IsConfigLoaded() {
		t.Fatalf("expected cleared")
	}
}
