package plans

import (
	"context"
	"errors"
	"testing"

	"transfit-backend/internal/catalog"
)

type failingRepo struct {
	*MemoryRepo
}

func (failingRepo) Create(ctx context.Context, plan Plan) error {
	return errors.New("disk full")
}

func TestServiceCreateSurfacesPersistFailure(t *testing.T) {
	svc := &Service{Generator: newTestGenerator(t), Repo: failingRepo{NewMemoryRepo()}}
	_, err := svc.Create(context.Background(), "user-1", GenerateInput{Profile: baseProfile()})
	if err == nil || err.Error() != "disk full" {
		t.Fatalf("expected persist error, got %v", err)
	}
}

func TestServiceCreateSetsOwner(t *testing.T) {
	repo := NewMemoryRepo()
	svc := &Service{Generator: newTestGenerator(t), Repo: repo}

	plan, err := svc.Create(context.Background(), "user-1", GenerateInput{Profile: baseProfile()})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if plan.UserID != "user-1" {
		t.Fatalf("expected owner user-1, got %q", plan.UserID)
	}
	if _, err := svc.Get(context.Background(), "user-2", plan.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for another user, got %v", err)
	}
}

func TestServiceReloadConfig(t *testing.T) {
	cat, err := catalog.DefaultCatalog()
	if err != nil {
		t.Fatalf("default catalog: %v", err)
	}
	svc := &Service{Generator: NewGenerator(nil, cat), Repo: NewMemoryRepo()}
	if _, err := svc.ReloadConfig(context.Background()); err == nil {
		t.Fatalf("expected an error without a reloader")
	}

	cfg := &stubConfig{err: errors.New("unreachable")}
	svc.Config = cfg
	if _, err := svc.ReloadConfig(context.Background()); err == nil {
		t.Fatalf("expected reload to fail")
	}
	if cfg.cleared != 1 {
		t.Fatalf("expected cache cleared before reload")
	}
}
