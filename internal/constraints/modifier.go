package constraints

import (
	"sort"

	"transfit-backend/internal/safetyconfig"
)

// StringSet is an unordered set of tokens.
type StringSet map[string]struct{}

// NewStringSet builds a set from items, skipping empty strings.
func NewStringSet(items ...string) StringSet {
	s := make(StringSet, len(items))
	s.Add(items...)
	return s
}

func (s StringSet) Add(items ...string) {
	for _, item := range items {
		if item != "" {
			s[item] = struct{}{}
		}
	}
}

func (s StringSet) Has(item string) bool {
	_, ok := s[item]
	return ok
}

// Intersects reports whether any of items is in the set.
func (s StringSet) Intersects(items []string) bool {
	for _, item := range items {
		if s.Has(item) {
			return true
		}
	}
	return false
}

// Union returns a new set holding both operands.
func (s StringSet) Union(other StringSet) StringSet {
	out := make(StringSet, len(s)+len(other))
	for k := range s {
		out[k] = struct{}{}
	}
	for k := range other {
		out[k] = struct{}{}
	}
	return out
}

// Sorted returns the members in lexical order.
func (s StringSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ModifierSet is the merged safety adjustment for one user on one day. It is
// derived fresh on every resolution and never persisted.
type ModifierSet struct {
	BlockedPatterns       StringSet
	BlockedMuscleGroups   StringSet
	ExcludeTags           StringSet
	DeprioritizeTags      StringSet
	PreferTags            StringSet
	ContraindicationFlags StringSet

	VolumeReductionPercent float64
	RestSecondsIncrease    int
	MaxSets                *int
	MaxWeight              *string
	MaxWorkoutMinutes      *int

	ProgressiveOverloadRate float64
	RecoveryMultiplier      float64
	TendonWarning           bool

	RequireBinderAware      bool
	RequireHeavyBindingSafe bool
	RequirePelvicFloorSafe  bool

	// MinWeeksPostOp is the shortest recovery elapsed across active surgeries.
	MinWeeksPostOp   *int
	BodyDistribution *safetyconfig.BodyDistribution

	Sources []string
}

// NewModifierSet returns the identity: no restrictions, no volume reduction,
// unit overload and recovery rates.
func NewModifierSet() ModifierSet {
	return ModifierSet{
		BlockedPatterns:         NewStringSet(),
		BlockedMuscleGroups:     NewStringSet(),
		ExcludeTags:             NewStringSet(),
		DeprioritizeTags:        NewStringSet(),
		PreferTags:              NewStringSet(),
		ContraindicationFlags:   NewStringSet(),
		ProgressiveOverloadRate: 1.0,
		RecoveryMultiplier:      1.0,
	}
}

// Merge combines two modifier sets field by field. Sets union; volume and
// rest take the maximum; caps take the smallest defined value; max weight
// takes the lowest rank; rates multiply; flags OR. Merge is associative and
// commutative apart from Sources order and the first BodyDistribution.
func Merge(a, b ModifierSet) ModifierSet {
	out := ModifierSet{
		BlockedPatterns:       a.BlockedPatterns.Union(b.BlockedPatterns),
		BlockedMuscleGroups:   a.BlockedMuscleGroups.Union(b.BlockedMuscleGroups),
		ExcludeTags:           a.ExcludeTags.Union(b.ExcludeTags),
		DeprioritizeTags:      a.DeprioritizeTags.Union(b.DeprioritizeTags),
		PreferTags:            a.PreferTags.Union(b.PreferTags),
		ContraindicationFlags: a.ContraindicationFlags.Union(b.ContraindicationFlags),

		VolumeReductionPercent: maxFloat(a.VolumeReductionPercent, b.VolumeReductionPercent),
		RestSecondsIncrease:    maxInt(a.RestSecondsIncrease, b.RestSecondsIncrease),
		MaxSets:                minDefined(a.MaxSets, b.MaxSets),
		MaxWeight:              mostRestrictiveWeight(a.MaxWeight, b.MaxWeight),
		MaxWorkoutMinutes:      minDefined(a.MaxWorkoutMinutes, b.MaxWorkoutMinutes),

		ProgressiveOverloadRate: rate(a.ProgressiveOverloadRate) * rate(b.ProgressiveOverloadRate),
		RecoveryMultiplier:      rate(a.RecoveryMultiplier) * rate(b.RecoveryMultiplier),
		TendonWarning:           a.TendonWarning || b.TendonWarning,

		RequireBinderAware:      a.RequireBinderAware || b.RequireBinderAware,
		RequireHeavyBindingSafe: a.RequireHeavyBindingSafe || b.RequireHeavyBindingSafe,
		RequirePelvicFloorSafe:  a.RequirePelvicFloorSafe || b.RequirePelvicFloorSafe,

		MinWeeksPostOp:   minDefined(a.MinWeeksPostOp, b.MinWeeksPostOp),
		BodyDistribution: a.BodyDistribution,
	}
	if out.BodyDistribution == nil {
		out.BodyDistribution = b.BodyDistribution
	}
	out.Sources = append(append([]string(nil), a.Sources...), b.Sources...)
	return out
}

// MergeAll folds partials into the identity.
func MergeAll(partials ...ModifierSet) ModifierSet {
	acc := NewModifierSet()
	for _, p := range partials {
		acc = Merge(acc, p)
	}
	return acc
}

// HasRestrictions reports whether anything beyond the identity applies.
func (m ModifierSet) HasRestrictions() bool {
	return len(m.BlockedPatterns) > 0 || len(m.BlockedMuscleGroups) > 0 || len(m.ExcludeTags) > 0 ||
		m.VolumeReductionPercent > 0 || m.RestSecondsIncrease > 0 || m.MaxSets != nil ||
		m.MaxWeight != nil || m.MaxWorkoutMinutes != nil || m.TendonWarning ||
		m.RequireBinderAware || m.RequireHeavyBindingSafe || m.RequirePelvicFloorSafe
}

// rate treats an unset multiplier as the identity so a partial built with a
// zero value does not zero the product.
func rate(v float64) float64 {
	if v == 0 {
		return 1.0
	}
	return v
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minDefined(a, b *int) *int {
	switch {
	case a == nil && b == nil:
		return nil
	case a == nil:
		v := *b
		return &v
	case b == nil || *a <= *b:
		v := *a
		return &v
	default:
		v := *b
		return &v
	}
}

func mostRestrictiveWeight(a, b *string) *string {
	switch {
	case a == nil && b == nil:
		return nil
	case a == nil:
		v := *b
		return &v
	case b == nil:
		v := *a
		return &v
	}
	ra, rb := safetyconfig.WeightRank(*a), safetyconfig.WeightRank(*b)
	v := *a
	if rb >= 0 && (ra < 0 || rb < ra) {
		v = *b
	}
	return &v
}
