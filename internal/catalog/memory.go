package catalog

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
)

//go:embed seed_exercises.json
var seedExercises []byte

// MemoryCatalog holds exercises in memory and is safe for concurrent use.
type MemoryCatalog struct {
	mu        sync.RWMutex
	exercises []Exercise
}

// NewMemoryCatalog constructs a MemoryCatalog from the given exercises.
func NewMemoryCatalog(exercises []Exercise) *MemoryCatalog {
	c := &MemoryCatalog{}
	c.replace(exercises)
	return c
}

// DefaultCatalog returns the catalog compiled into the binary.
func DefaultCatalog() (*MemoryCatalog, error) {
	exercises, err := SeedExercises()
	if err != nil {
		return nil, err
	}
	return NewMemoryCatalog(exercises), nil
}

// SeedExercises decodes the embedded seed set.
func SeedExercises() ([]Exercise, error) {
	var exercises []Exercise
	if err := json.Unmarshal(seedExercises, &exercises); err != nil {
		return nil, fmt.Errorf("decode seed exercises: %w", err)
	}
	return exercises, nil
}

// Query returns every exercise matching f in catalog order.
func (c *MemoryCatalog) Query(ctx context.Context, f Filter) ([]Exercise, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Exercise, 0, len(c.exercises))
	for _, e := range c.exercises {
		if f.Matches(e) {
			out = append(out, e)
		}
	}
	return out, nil
}

// Upsert inserts or replaces exercises by ID.
func (c *MemoryCatalog) Upsert(ctx context.Context, exercises []Exercise) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	byID := make(map[string]int, len(c.exercises))
	for i, e := range c.exercises {
		byID[e.ID] = i
	}
	merged := append([]Exercise(nil), c.exercises...)
	for _, e := range exercises {
		if i, ok := byID[e.ID]; ok {
			merged[i] = e
			continue
		}
		byID[e.ID] = len(merged)
		merged = append(merged, e)
	}
	c.exercises = sortExercises(merged)
	return len(exercises), nil
}

// Len returns the number of exercises held.
func (c *MemoryCatalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.exercises)
}

func (c *MemoryCatalog) replace(exercises []Exercise) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.exercises = sortExercises(append([]Exercise(nil), exercises...))
}

func sortExercises(exercises []Exercise) []Exercise {
	sort.SliceStable(exercises, func(i, j int) bool {
		if exercises[i].CatalogOrder != exercises[j].CatalogOrder {
			return exercises[i].CatalogOrder < exercises[j].CatalogOrder
		}
		return exercises[i].ID < exercises[j].ID
	})
	return exercises
}
