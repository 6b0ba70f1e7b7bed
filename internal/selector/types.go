package selector

import (
	"transfit-backend/internal/catalog"
	"transfit-backend/internal/constraints"
	"transfit-backend/internal/profile"
)

// VariantInput is everything needed to fill one duration variant of a day.
type VariantInput struct {
	Modifiers          constraints.ModifierSet
	Catalog            []catalog.Exercise
	Goals              []string
	GoalWeighting      profile.GoalWeighting
	BodyFocusPrefer    []string
	BodyFocusSoftAvoid []string
	Equipment          []string
	DurationMinutes    int
	// RecentlyUsed holds exercise IDs prescribed on the previous day.
	RecentlyUsed map[string]bool
}

// ExercisePrescription is one exercise in a variant. Exactly one of Reps and
// DurationSeconds is set.
type ExercisePrescription struct {
	ExerciseID       string `json:"exerciseId"`
	ExerciseName     string `json:"exerciseName"`
	Pattern          string `json:"pattern"`
	Sets             int    `json:"sets"`
	Reps             int    `json:"reps,omitempty"`
	DurationSeconds  int    `json:"durationSeconds,omitempty"`
	RestSeconds      int    `json:"restSeconds"`
	EstimatedSeconds int    `json:"estimatedSeconds"`
	LoadNote         string `json:"loadNote,omitempty"`
}

type candidate struct {
	exercise catalog.Exercise
	score    float64
}
