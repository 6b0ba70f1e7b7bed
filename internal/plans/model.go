package plans

import (
	"time"

	"transfit-backend/internal/constraints"
	"transfit-backend/internal/profile"
	"transfit-backend/internal/selector"
)

const (
	WarningInsufficientExercises = "insufficient_exercises"
	WarningClockSkew             = constraints.WarningClockSkew
)

// Plan is a generated workout block. It is immutable once created; a change
// means generating a new plan.
type Plan struct {
	ID            string                `json:"id"`
	UserID        string                `json:"userId,omitempty"`
	BlockLength   int                   `json:"blockLength"`
	StartDate     string                `json:"startDate"`
	Goals         []string              `json:"goals"`
	GoalWeighting profile.GoalWeighting `json:"goalWeighting"`
	QuickStart    bool                  `json:"quickStart"`
	ConfigVersion string                `json:"configVersion,omitempty"`
	Days          []Day                 `json:"days"`
	Warnings      []Warning             `json:"warnings,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
}

// Day holds every duration variant for one calendar day. A nil variant
// means no safe session of that length could be built.
type Day struct {
	DayNumber int              `json:"dayNumber"`
	Date      string           `json:"date"`
	Variants  map[int]*Variant `json:"variants"`
	Safety    DaySafety        `json:"safety"`
}

// Variant is one duration-specific session.
type Variant struct {
	DurationMinutes  int                             `json:"durationMinutes"`
	EstimatedSeconds int                             `json:"estimatedSeconds"`
	Exercises        []selector.ExercisePrescription `json:"exercises"`
}

// DaySafety summarizes the modifiers that shaped a day.
type DaySafety struct {
	BlockedPatterns         []string `json:"blockedPatterns,omitempty"`
	BlockedMuscleGroups     []string `json:"blockedMuscleGroups,omitempty"`
	ExcludedTags            []string `json:"excludedTags,omitempty"`
	VolumeReductionPercent  float64  `json:"volumeReductionPercent"`
	RestSecondsIncrease     int      `json:"restSecondsIncrease"`
	MaxSets                 *int     `json:"maxSets,omitempty"`
	MaxWeight               *string  `json:"maxWeight,omitempty"`
	MaxWorkoutMinutes       *int     `json:"maxWorkoutMinutes,omitempty"`
	ProgressiveOverloadRate float64  `json:"progressiveOverloadRate"`
	RecoveryMultiplier      float64  `json:"recoveryMultiplier"`
	TendonWarning           bool     `json:"tendonWarning"`
	Sources                 []string `json:"sources,omitempty"`
}

// Warning is a non-fatal note attached to a plan.
type Warning struct {
	Code            string `json:"code"`
	Message         string `json:"message"`
	Source          string `json:"source,omitempty"`
	DayNumber       int    `json:"dayNumber,omitempty"`
	DurationMinutes int    `json:"durationMinutes,omitempty"`
}

// Summary is the list view of a plan.
type Summary struct {
	ID            string    `json:"id"`
	BlockLength   int       `json:"blockLength"`
	StartDate     string    `json:"startDate"`
	Goals         []string  `json:"goals"`
	QuickStart    bool      `json:"quickStart"`
	ConfigVersion string    `json:"configVersion,omitempty"`
	DayCount      int       `json:"dayCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Summarize returns the list view of p.
func (p Plan) Summarize() Summary {
	return Summary{
		ID:            p.ID,
		BlockLength:   p.BlockLength,
		StartDate:     p.StartDate,
		Goals:         p.Goals,
		QuickStart:    p.QuickStart,
		ConfigVersion: p.ConfigVersion,
		DayCount:      len(p.Days),
		CreatedAt:     p.CreatedAt,
	}
}

func safetySummary(m constraints.ModifierSet) DaySafety {
	return DaySafety{
		BlockedPatterns:         m.BlockedPatterns.Sorted(),
		BlockedMuscleGroups:     m.BlockedMuscleGroups.Sorted(),
		ExcludedTags:            m.ExcludeTags.Sorted(),
		VolumeReductionPercent:  m.VolumeReductionPercent,
		RestSecondsIncrease:     m.RestSecondsIncrease,
		MaxSets:                 m.MaxSets,
		MaxWeight:               m.MaxWeight,
		MaxWorkoutMinutes:       m.MaxWorkoutMinutes,
		ProgressiveOverloadRate: m.ProgressiveOverloadRate,
		RecoveryMultiplier:      m.RecoveryMultiplier,
		TendonWarning:           m.TendonWarning,
		Sources:                 m.Sources,
	}
}
