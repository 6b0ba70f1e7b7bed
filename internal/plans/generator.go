package plans

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"transfit-backend/internal/catalog"
	"transfit-backend/internal/constraints"
	"transfit-backend/internal/profile"
	"transfit-backend/internal/safetyconfig"
	"transfit-backend/internal/selector"
)

// ConfigLoader returns the validated safety document.
type ConfigLoader interface {
	Load(ctx context.Context) (*safetyconfig.SafetyConfig, error)
}

// GenerateInput is the public plan request.
type GenerateInput struct {
	Profile profile.Profile
	// BlockLength overrides Profile.BlockLength when set.
	BlockLength int
	// StartDate defaults to today.
	StartDate time.Time
}

// Generator is the public plan API.
type Generator struct {
	Config  ConfigLoader
	Catalog catalog.Provider
	Now     func() time.Time
	NewID   func() string
}

// NewGenerator wires a generator with the wall clock and random plan IDs.
func NewGenerator(cfg ConfigLoader, provider catalog.Provider) *Generator {
	return &Generator{Config: cfg, Catalog: provider}
}

// GeneratePlan loads the safety config, validates the profile and builds a
// BlockLength*7 day plan. Variants that cannot be filled are nil; the call
// fails only when every variant of every day is empty.
func (g *Generator) GeneratePlan(ctx context.Context, in GenerateInput) (Plan, error) {
	p := in.Profile
	if in.BlockLength != 0 {
		p.BlockLength = in.BlockLength
	}
	return g.generate(ctx, p, in.StartDate, false)
}

// GenerateQuickStartPlan builds a single day with one 5 minute bodyweight
// session for users who have not finished onboarding.
func (g *Generator) GenerateQuickStartPlan(ctx context.Context, startDate time.Time) (Plan, error) {
	return g.generate(ctx, profile.QuickStart(), startDate, true)
}

func (g *Generator) generate(ctx context.Context, raw profile.Profile, startDate time.Time, quickStart bool) (Plan, error) {
	cfg, err := g.Config.Load(ctx)
	if err != nil {
		if !errors.Is(err, safetyconfig.ErrConfigLoad) {
			err = &safetyconfig.LoadError{Err: err}
		}
		return Plan{}, err
	}

	p, err := profile.Prepare(raw)
	if err != nil {
		return Plan{}, err
	}
	p.Equipment = catalog.NormalizeEquipmentList(p.Equipment)

	now := g.now()
	if startDate.IsZero() {
		startDate = now
	}
	start := profile.NewDate(startDate)
	p = anchorHRT(p, now)

	exercises, err := g.Catalog.Query(ctx, catalog.Filter{
		Equipment:   p.Equipment,
		ExcludeTags: excludedTags(cfg, p.DysphoriaTriggers),
	})
	if err != nil {
		return Plan{}, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	days := p.BlockLength * 7
	if quickStart {
		days = 1
	}
	assembler := Assembler{Resolver: constraints.NewResolver(cfg)}
	assembly := assembler.Assemble(AssembleInput{
		Profile:   p,
		StartDate: start.Time,
		Days:      days,
		Durations: p.PreferredMinutes,
		Catalog:   exercises,
	})
	if assembly.Filled == 0 {
		var insufficient *selector.InsufficientExerciseError
		if errors.As(assembly.LastErr, &insufficient) {
			return Plan{}, insufficient
		}
		return Plan{}, &selector.InsufficientExerciseError{Reason: selector.ReasonNoCandidates}
	}

	blockLength := p.BlockLength
	if quickStart {
		blockLength = 1
	}
	return Plan{
		ID:            g.newID(),
		BlockLength:   blockLength,
		StartDate:     start.String(),
		Goals:         p.Goals,
		GoalWeighting: p.GoalWeighting,
		QuickStart:    quickStart,
		ConfigVersion: cfg.Version,
		Days:          assembly.Days,
		Warnings:      assembly.Warnings,
		CreatedAt:     now.UTC(),
	}, nil
}

// anchorHRT pins a months-on-therapy count to the day it was reported so
// later plan days keep counting from it. An explicit start date wins.
func anchorHRT(p profile.Profile, now time.Time) profile.Profile {
	if !p.OnHRT || p.HRTStartDate != nil || p.HRTMonthsDuration == nil {
		return p
	}
	asOf := profile.NewDate(now)
	p.HRTMonthsAsOf = &asOf
	return p
}

// excludedTags collects tags from exclude-type dysphoria rules. These never
// change across the block so the catalog query can drop them up front.
func excludedTags(cfg *safetyconfig.SafetyConfig, triggers []string) []string {
	var out []string
	for _, trigger := range triggers {
		rule := cfg.DysphoriaRule(trigger)
		if rule == nil || rule.FilterType != safetyconfig.FilterExclude {
			continue
		}
		out = append(out, rule.ExcludeTags...)
	}
	return out
}

func (g *Generator) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

func (g *Generator) newID() string {
	if g.NewID != nil {
		return g.NewID()
	}
	return uuid.NewString()
}
