package catalog

import (
	"context"
	"strings"
)

const (
	RegionUpper    = "upper"
	RegionLower    = "lower"
	RegionCore     = "core"
	RegionFullBody = "full_body"
)

// Exercise is a catalog entry. The engine only reads it.
type Exercise struct {
	ID                string   `json:"id"`
	Slug              string   `json:"slug"`
	Name              string   `json:"name"`
	Pattern           string   `json:"pattern"`
	Goal              string   `json:"goal,omitempty"`
	Difficulty        string   `json:"difficulty,omitempty"`
	Equipment         []string `json:"equipment"`
	TargetMuscles     []string `json:"target_muscles"`
	Tags              []string `json:"tags,omitempty"`
	BinderAware       bool     `json:"binder_aware"`
	HeavyBindingSafe  bool     `json:"heavy_binding_safe"`
	PelvicFloorSafe   bool     `json:"pelvic_floor_safe"`
	Contraindications []string `json:"contraindications,omitempty"`
	PostOpSafeWeeks   *int     `json:"post_op_safe_weeks,omitempty"`
	DefaultReps       int      `json:"default_reps,omitempty"`
	DurationSeconds   int      `json:"duration_seconds,omitempty"`
	RepSeconds        int      `json:"rep_seconds,omitempty"`
	CatalogOrder      int      `json:"catalog_order"`
}

// Filter is the query contract a backing store can evaluate. Equipment is
// the set the user owns; an exercise matches when everything it needs is in
// that set.
type Filter struct {
	Equipment       []string
	ExcludePatterns []string
	ExcludeTags     []string
}

// Provider is read-only access to the exercise catalog. Results come back in
// stable catalog order.
type Provider interface {
	Query(ctx context.Context, f Filter) ([]Exercise, error)
}

// Matches reports whether e satisfies every predicate in f.
func (f Filter) Matches(e Exercise) bool {
	if !SubsetOf(e.Equipment, f.Equipment) {
		return false
	}
	for _, p := range f.ExcludePatterns {
		if e.Pattern == p {
			return false
		}
	}
	return !intersects(e.Tags, f.ExcludeTags)
}

// SubsetOf reports whether every item of needed appears in have.
func SubsetOf(needed, have []string) bool {
	set := make(map[string]bool, len(have))
	for _, h := range have {
		set[h] = true
	}
	for _, n := range needed {
		if !set[n] {
			return false
		}
	}
	return true
}

var muscleRegions = map[string]string{
	"chest":      RegionUpper,
	"shoulders":  RegionUpper,
	"back":       RegionUpper,
	"upper_back": RegionUpper,
	"lats":       RegionUpper,
	"traps":      RegionUpper,
	"biceps":     RegionUpper,
	"triceps":    RegionUpper,
	"forearms":   RegionUpper,
	"glutes":     RegionLower,
	"quads":      RegionLower,
	"hamstrings": RegionLower,
	"calves":     RegionLower,
	"adductors":  RegionLower,
	"abductors":  RegionLower,
	"hips":       RegionLower,
	"core":       RegionCore,
	"abs":        RegionCore,
	"obliques":   RegionCore,
	"lower_back": RegionCore,
}

var focusAliases = map[string]string{
	"upper_body": RegionUpper,
	"upper":      RegionUpper,
	"arms":       RegionUpper,
	"lower_body": RegionLower,
	"lower":      RegionLower,
	"legs":       RegionLower,
	"core":       RegionCore,
	"full_body":  RegionFullBody,
}

// Region classifies the exercise by where its target muscles sit. Core work
// paired with one limb region keeps that region; upper plus lower is full body.
func (e Exercise) Region() string {
	seen := map[string]bool{}
	for _, m := range e.TargetMuscles {
		if r, ok := muscleRegions[strings.ToLower(m)]; ok {
			seen[r] = true
		}
	}
	switch {
	case seen[RegionUpper] && seen[RegionLower]:
		return RegionFullBody
	case seen[RegionUpper]:
		return RegionUpper
	case seen[RegionLower]:
		return RegionLower
	case seen[RegionCore]:
		return RegionCore
	default:
		return RegionFullBody
	}
}

// MatchesFocus reports whether a body-focus entry (a region alias such as
// "lower_body" or a muscle such as "glutes") applies to the exercise.
func (e Exercise) MatchesFocus(focus string) bool {
	focus = strings.ToLower(strings.TrimSpace(focus))
	if region, ok := focusAliases[focus]; ok {
		return e.Region() == region
	}
	for _, m := range e.TargetMuscles {
		if m == focus {
			return true
		}
	}
	return false
}

func intersects(a, b []string) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	set := make(map[string]bool, len(b))
	for _, v := range b {
		set[v] = true
	}
	for _, v := range a {
		if set[v] {
			return true
		}
	}
	return false
}
