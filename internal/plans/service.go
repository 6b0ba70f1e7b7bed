package plans

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"transfit-backend/internal/safetyconfig"
	"transfit-backend/internal/shared/metrics"
	"transfit-backend/internal/shared/telemetry"
)

// ConfigReloader can drop and refetch the cached safety config.
type ConfigReloader interface {
	ConfigLoader
	ClearCache()
}

// Service contains business logic for plans.
type Service struct {
	Generator *Generator
	Repo      Repo
	Config    ConfigReloader
}

// Create generates a plan for the user and persists it.
func (s *Service) Create(ctx context.Context, userID string, in GenerateInput) (Plan, error) {
	started := time.Now()
	plan, err := s.Generator.GeneratePlan(ctx, in)
	return s.finish(ctx, userID, plan, err, started)
}

// QuickStart generates and persists the onboarding plan.
func (s *Service) QuickStart(ctx context.Context, userID string, startDate time.Time) (Plan, error) {
	started := time.Now()
	plan, err := s.Generator.GenerateQuickStartPlan(ctx, startDate)
	return s.finish(ctx, userID, plan, err, started)
}

func (s *Service) finish(ctx context.Context, userID string, plan Plan, err error, started time.Time) (Plan, error) {
	elapsed := float64(time.Since(started).Milliseconds())
	if err != nil {
		metrics.IncPlanFailed()
		if errors.Is(err, safetyconfig.ErrConfigLoad) {
			metrics.IncConfigLoadFailed()
		}
		telemetry.Warn("plan.generate_failed", map[string]any{
			"user_id": userID,
			"error":   err.Error(),
		})
		return Plan{}, err
	}
	metrics.ObservePlanDurationMs(elapsed)

	plan.UserID = userID
	if err := s.Repo.Create(ctx, plan); err != nil {
		metrics.IncPlanFailed()
		telemetry.Error("plan.persist_failed", map[string]any{
			"user_id": userID,
			"plan_id": plan.ID,
			"error":   err.Error(),
		})
		return Plan{}, err
	}

	empty := 0
	for _, w := range plan.Warnings {
		if w.Code == WarningInsufficientExercises {
			empty++
		}
		if w.Code == WarningClockSkew {
			telemetry.Warn("plan.clock_skew", map[string]any{
				"plan_id": plan.ID,
				"source":  w.Source,
				"message": w.Message,
			})
		}
	}
	metrics.IncPlanGenerated()
	metrics.AddVariantsEmpty(empty)
	telemetry.Info("plan.generated", map[string]any{
		"user_id":        userID,
		"plan_id":        plan.ID,
		"days":           len(plan.Days),
		"empty_variants": empty,
		"quick_start":    plan.QuickStart,
		"config_version": plan.ConfigVersion,
		"duration_ms":    elapsed,
	})
	return plan, nil
}

// Get returns a plan owned by the user.
func (s *Service) Get(ctx context.Context, userID, planID string) (Plan, error) {
	if _, err := uuid.Parse(planID); err != nil {
		return Plan{}, ErrNotFound
	}
	plan, err := s.Repo.GetByID(ctx, planID)
	if err != nil {
		return Plan{}, err
	}
	if plan.UserID != userID {
		return Plan{}, ErrNotFound
	}
	return plan, nil
}

// List returns the user's plan summaries, newest first.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Summary, error) {
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// ReloadConfig clears the cached safety config and loads it again.
func (s *Service) ReloadConfig(ctx context.Context) (string, error) {
	if s.Config == nil {
		return "", errors.New("safety config reloader not configured")
	}
	s.Config.ClearCache()
	cfg, err := s.Config.Load(ctx)
	if err != nil {
		metrics.IncConfigLoadFailed()
		return "", err
	}
	metrics.IncConfigReload()
	return cfg.Version, nil
}
