package safetyconfig

const (
	FilterSoft    = "soft_filter"
	FilterExclude = "exclude"
)

// LongDurationBinding is the binding entry merged in when a user binds for
// longer than its duration threshold, regardless of binder type.
const LongDurationBinding = "long_duration"

// HRTPhase is one months-on-therapy window of an HRT phase table.
type HRTPhase struct {
	Phase                   string   `json:"phase"`
	MinMonths               float64  `json:"min_months"`
	MaxMonths               float64  `json:"max_months"`
	VolumeReductionPercent  *float64 `json:"volume_reduction_percent,omitempty"`
	ProgressiveOverloadRate *float64 `json:"progressive_overload_rate,omitempty"`
	RecoveryMultiplier      *float64 `json:"recovery_multiplier,omitempty"`
	TendonWarning           *bool    `json:"tendon_warning,omitempty"`
	Notes                   string   `json:"notes,omitempty"`
}

func (p HRTPhase) bounds() (float64, float64) { return p.MinMonths, p.MaxMonths }

// BodyDistribution weights upper and lower body load for an HRT direction.
type BodyDistribution struct {
	Upper float64 `json:"upper"`
	Lower float64 `json:"lower"`
}

// BindingRule holds the adjustments for a binder type.
type BindingRule struct {
	VolumeReductionPercent  float64  `json:"volume_reduction_percent"`
	RestSecondsIncrease     int      `json:"rest_seconds_increase"`
	MaxWorkoutMinutes       *int     `json:"max_workout_minutes,omitempty"`
	DurationThresholdHours  *float64 `json:"duration_threshold_hours,omitempty"`
	RequireBinderAware      bool     `json:"require_binder_aware,omitempty"`
	RequireHeavyBindingSafe bool     `json:"require_heavy_binding_safe,omitempty"`
}

// PostOpWindow is one weeks-since-surgery window of a post-op protocol.
type PostOpWindow struct {
	WeeksStart             int      `json:"weeks_start"`
	WeeksEnd               int      `json:"weeks_end"`
	BlockedPatterns        []string `json:"blocked_patterns,omitempty"`
	BlockedMuscleGroups    []string `json:"blocked_muscle_groups,omitempty"`
	VolumeReductionPercent *float64 `json:"volume_reduction_percent,omitempty"`
	MaxSets                *int     `json:"max_sets,omitempty"`
	MaxWeight              *string  `json:"max_weight,omitempty"`
	RequirePelvicFloorSafe bool     `json:"require_pelvic_floor_safe,omitempty"`
	Notes                  string   `json:"notes,omitempty"`
}

func (w PostOpWindow) bounds() (float64, float64) {
	return float64(w.WeeksStart), float64(w.WeeksEnd)
}

// HardBlock reports whether the window only blocks movement and carries no
// numeric caps.
func (w PostOpWindow) HardBlock() bool {
	hasBlocks := len(w.BlockedPatterns) > 0 || len(w.BlockedMuscleGroups) > 0
	return hasBlocks && w.VolumeReductionPercent == nil && w.MaxSets == nil && w.MaxWeight == nil
}

// DysphoriaRule maps a user-flagged trigger to tag filters.
type DysphoriaRule struct {
	Trigger          string   `json:"trigger"`
	FilterType       string   `json:"filter_type"`
	ExcludeTags      []string `json:"exclude_tags,omitempty"`
	DeprioritizeTags []string `json:"deprioritize_tags,omitempty"`
	PreferTags       []string `json:"prefer_tags,omitempty"`
}

// SafetyConfig is the versioned safety-rules document. It is immutable once
// loaded and shared by every generation call.
type SafetyConfig struct {
	Version               string                      `json:"version,omitempty"`
	HRTEstrogenPhases     []HRTPhase                  `json:"hrt_estrogen_phases"`
	HRTTestosteronePhases []HRTPhase                  `json:"hrt_testosterone_phases"`
	HRTDualPhases         []HRTPhase                  `json:"hrt_dual_phases"`
	HRTBodyDistribution   map[string]BodyDistribution `json:"hrt_body_distribution"`
	Binding               map[string]BindingRule      `json:"binding"`
	PostOp                map[string][]PostOpWindow   `json:"post_op"`
	Dysphoria             []DysphoriaRule             `json:"dysphoria"`

	// Digest identifies the exact bytes the config was parsed from.
	Digest string `json:"-"`
}
