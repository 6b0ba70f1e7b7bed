package plans

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo stores plans in memory and is safe for concurrent use.
type MemoryRepo struct {
	mu     sync.RWMutex
	byID   map[string]Plan
	byUser map[string][]string
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		byID:   make(map[string]Plan),
		byUser: make(map[string][]string),
	}
}

// Create stores the plan.
func (r *MemoryRepo) Create(ctx context.Context, plan Plan) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byID[plan.ID]; !exists {
		r.byUser[plan.UserID] = append(r.byUser[plan.UserID], plan.ID)
	}
	r.byID[plan.ID] = plan
	return nil
}

// GetByID returns a plan by its ID.
func (r *MemoryRepo) GetByID(ctx context.Context, planID string) (Plan, error) {
	if err := ctx.Err(); err != nil {
		return Plan{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	plan, ok := r.byID[planID]
	if !ok {
		return Plan{}, ErrNotFound
	}
	return plan, nil
}

// ListByUser returns plan summaries for a user, newest first, with limit/offset.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}

	r.mu.RLock()
	ids := r.byUser[userID]
	summaries := make([]Summary, 0, len(ids))
	for _, id := range ids {
		summaries = append(summaries, r.byID[id].Summarize())
	}
	r.mu.RUnlock()

	if offset >= len(summaries) {
		return []Summary{}, nil
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})

	end := len(summaries)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return summaries[offset:end], nil
}
