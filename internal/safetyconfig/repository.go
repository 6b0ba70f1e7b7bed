package safetyconfig

import (
	"context"
	"errors"
	"sync"

	"transfit-backend/internal/shared/telemetry"
	"transfit-backend/internal/shared/util"
)

// Repository loads the safety document once and serves the cached copy.
// Concurrent first loads share a single fetch; a failed load is not cached,
// so the next call retries.
type Repository struct {
	source Source

	mu       sync.Mutex
	cond     *sync.Cond
	cached   *SafetyConfig
	inFlight bool
}

// NewRepository builds a repository over src. A nil src uses the embedded
// document.
func NewRepository(src Source) *Repository {
	if src == nil {
		src = EmbeddedSource{}
	}
	r := &Repository{source: src}
	r.cond = sync.NewCond(&r.mu)
	return r
}

// Load returns the cached config, fetching and validating it on first use.
func (r *Repository) Load(ctx context.Context) (*SafetyConfig, error) {
	r.mu.Lock()
	if r.cached != nil {
		cfg := r.cached
		r.mu.Unlock()
		return cfg, nil
	}
	for r.inFlight && r.cached == nil {
		r.cond.Wait()
	}
	if r.cached != nil {
		cfg := r.cached
		r.mu.Unlock()
		return cfg, nil
	}
	r.inFlight = true
	src := r.source
	r.mu.Unlock()

	cfg, err := fetch(ctx, src)

	r.mu.Lock()
	if err == nil {
		r.cached = cfg
	}
	r.inFlight = false
	r.cond.Broadcast()
	r.mu.Unlock()

	if err != nil {
		telemetry.Error("safety_config.load_failed", map[string]any{
			"source": src.Name(),
			"error":  err.Error(),
		})
		return nil, err
	}
	telemetry.Info("safety_config.loaded", map[string]any{
		"source":  src.Name(),
		"version": cfg.Version,
		"digest":  cfg.Digest,
	})
	return cfg, nil
}

// IsLoaded reports whether a validated config is cached.
func (r *Repository) IsLoaded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cached != nil
}

// ClearCache drops the cached config; the next Load fetches again.
func (r *Repository) ClearCache() {
	r.mu.Lock()
	r.cached = nil
	r.mu.Unlock()
}

func fetch(ctx context.Context, src Source) (*SafetyConfig, error) {
	data, format, err := src.Fetch(ctx)
	if err != nil {
		return nil, &LoadError{Source: src.Name(), Err: err}
	}
	cfg, err := Parse(data, format)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			loadErr.Source = src.Name()
			return nil, loadErr
		}
		return nil, &LoadError{Source: src.Name(), Err: err}
	}
	cfg.Digest = util.Digest(data)
	return cfg, nil
}

var (
	defaultMu   sync.RWMutex
	defaultRepo = NewRepository(EmbeddedSource{})
)

// SetDefaultSource replaces the source behind the process-wide repository
// and drops its cache.
func SetDefaultSource(src Source) {
	next := NewRepository(src)
	defaultMu.Lock()
	defaultRepo = next
	defaultMu.Unlock()
}

// Default returns the process-wide repository.
func Default() *Repository {
	defaultMu.RLock()
	defer defaultMu.RUnlock()
	return defaultRepo
}

// LoadSafetyConfig loads the process-wide config.
func LoadSafetyConfig(ctx context.Context) (*SafetyConfig, error) {
	return Default().Load(ctx)
}

// ClearConfigCache clears the process-wide cache.
func ClearConfigCache() {
	Default().ClearCache()
}

// IsConfigLoaded reports whether the process-wide config is cached.
func IsConfigLoaded() bool {
	return Default().IsLoaded()
}
