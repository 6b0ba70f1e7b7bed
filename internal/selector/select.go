package selector

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"transfit-backend/internal/catalog"
	"transfit-backend/internal/constraints"
	"transfit-backend/internal/safetyconfig"
)

// SelectForVariant filters the catalog slice against the modifiers, ranks
// what survives, and greedily fills the session budget. Identical inputs
// produce identical output.
func SelectForVariant(in VariantInput) ([]ExercisePrescription, error) {
	survivors := Eligible(in.Catalog, in.Modifiers, in.Equipment)
	if len(survivors) == 0 {
		return nil, &InsufficientExerciseError{DurationMinutes: in.DurationMinutes, Reason: ReasonNoCandidates}
	}

	ranked := rank(survivors, in)
	out := fill(ranked, in)
	if len(out) == 0 {
		return nil, &InsufficientExerciseError{DurationMinutes: in.DurationMinutes, Reason: ReasonNothingFits, Candidates: len(ranked)}
	}
	return out, nil
}

// Eligible applies the hard filters and keeps catalog order.
func Eligible(exercises []catalog.Exercise, m constraints.ModifierSet, equipment []string) []catalog.Exercise {
	noLoad := m.MaxWeight != nil && safetyconfig.WeightRank(*m.MaxWeight) >= 0 &&
		safetyconfig.WeightRank(*m.MaxWeight) <= safetyconfig.WeightRank("bodyweight")

	out := make([]catalog.Exercise, 0, len(exercises))
	for _, e := range exercises {
		switch {
		case m.BlockedPatterns.Has(e.Pattern):
		case m.BlockedMuscleGroups.Intersects(e.TargetMuscles):
		case m.ExcludeTags.Intersects(e.Tags):
		case !catalog.SubsetOf(e.Equipment, equipment):
		case m.ContraindicationFlags.Intersects(e.Contraindications):
		case m.RequireBinderAware && !e.BinderAware:
		case m.RequireHeavyBindingSafe && !e.HeavyBindingSafe:
		case m.RequirePelvicFloorSafe && !e.PelvicFloorSafe:
		case m.MinWeeksPostOp != nil && e.PostOpSafeWeeks != nil && *e.PostOpSafeWeeks > *m.MinWeeksPostOp:
		case noLoad && needsLoad(e):
		default:
			out = append(out, e)
		}
	}
	return out
}

func needsLoad(e catalog.Exercise) bool {
	for _, eq := range e.Equipment {
		if loadedEquipment[eq] {
			return true
		}
	}
	return false
}

func rank(exercises []catalog.Exercise, in VariantInput) []candidate {
	out := make([]candidate, len(exercises))
	for i, e := range exercises {
		out[i] = candidate{exercise: e, score: score(e, in)}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].score != out[j].score {
			return out[i].score > out[j].score
		}
		if out[i].exercise.CatalogOrder != out[j].exercise.CatalogOrder {
			return out[i].exercise.CatalogOrder < out[j].exercise.CatalogOrder
		}
		return out[i].exercise.ID < out[j].exercise.ID
	})
	return out
}

func score(e catalog.Exercise, in VariantInput) float64 {
	m := in.Modifiers
	var s float64

	if len(in.Goals) > 0 {
		s += float64(in.GoalWeighting.Primary) * goalAlignment(e, in.Goals[0])
	}
	if len(in.Goals) > 1 {
		s += float64(in.GoalWeighting.Secondary) * goalAlignment(e, in.Goals[1])
	}

	if m.PreferTags.Intersects(e.Tags) {
		s += preferTagBonus
	}
	if m.DeprioritizeTags.Intersects(e.Tags) {
		s -= deprioritizePenalty
	}
	if matchesAnyFocus(e, in.BodyFocusPrefer) {
		s += focusPreferBonus
	}
	if matchesAnyFocus(e, in.BodyFocusSoftAvoid) {
		s -= softAvoidPenalty
	}

	if d := m.BodyDistribution; d != nil {
		switch e.Region() {
		case catalog.RegionUpper:
			s += (d.Upper - 0.5) * distributionScale
		case catalog.RegionLower:
			s += (d.Lower - 0.5) * distributionScale
		}
	}

	if in.RecentlyUsed[e.ID] {
		s -= recentlyUsedPenalty
	}
	if m.TendonWarning && e.Difficulty == "advanced" {
		s -= advancedTendonPenalty
	}
	return s
}

func goalAlignment(e catalog.Exercise, goal string) float64 {
	if goal == "" {
		return 0
	}
	if e.Goal == goal {
		return exactGoalMatch
	}
	for _, p := range goalPatterns[goal] {
		if e.Pattern == p {
			return patternGoalMatch
		}
	}
	return 0
}

func matchesAnyFocus(e catalog.Exercise, focus []string) bool {
	for _, f := range focus {
		if e.MatchesFocus(f) {
			return true
		}
	}
	return false
}

func fill(ranked []candidate, in VariantInput) []ExercisePrescription {
	m := in.Modifiers
	minutes := in.DurationMinutes
	if m.MaxWorkoutMinutes != nil && *m.MaxWorkoutMinutes < minutes {
		minutes = *m.MaxWorkoutMinutes
	}
	remaining := minutes * 60

	sets := defaultSets(minutes)
	if m.MaxSets != nil && *m.MaxSets < sets {
		sets = *m.MaxSets
	}
	if sets < 1 {
		sets = 1
	}
	rest := restSeconds(baseRest(minutes)+m.RestSecondsIncrease, m.RecoveryMultiplier)

	var out []ExercisePrescription
	for _, c := range ranked {
		p := prescribe(c.exercise, sets, rest, m)
		if p.EstimatedSeconds > remaining {
			continue
		}
		remaining -= p.EstimatedSeconds
		out = append(out, p)
	}
	return out
}

// restSeconds lengthens rest when recovery capacity is below baseline.
func restSeconds(rest int, recovery float64) int {
	if recovery > 0 && recovery < 1 {
		return int(math.Ceil(float64(rest) / recovery))
	}
	return rest
}

func prescribe(e catalog.Exercise, sets, rest int, m constraints.ModifierSet) ExercisePrescription {
	p := ExercisePrescription{
		ExerciseID:   e.ID,
		ExerciseName: e.Name,
		Pattern:      e.Pattern,
		Sets:         sets,
		RestSeconds:  rest,
		LoadNote:     loadNote(e, m),
	}
	var work int
	if e.DurationSeconds > 0 {
		p.DurationSeconds = scaleVolume(e.DurationSeconds, m.VolumeReductionPercent)
		work = p.DurationSeconds
	} else {
		reps := e.DefaultReps
		if reps <= 0 {
			reps = defaultReps
		}
		repSeconds := e.RepSeconds
		if repSeconds <= 0 {
			repSeconds = defaultRepSeconds
		}
		p.Reps = scaleVolume(reps, m.VolumeReductionPercent)
		work = p.Reps * repSeconds
	}
	p.EstimatedSeconds = sets * (work + rest)
	return p
}

func scaleVolume(v int, reductionPercent float64) int {
	if reductionPercent <= 0 {
		return v
	}
	scaled := int(math.Round(float64(v) * (1 - math.Min(reductionPercent, 100)/100)))
	if scaled < 1 {
		return 1
	}
	return scaled
}

func loadNote(e catalog.Exercise, m constraints.ModifierSet) string {
	var parts []string
	if m.MaxWeight != nil && needsLoad(e) {
		parts = append(parts, fmt.Sprintf("keep load %s", *m.MaxWeight))
	}
	rate := m.ProgressiveOverloadRate
	switch {
	case rate > 0 && rate < 1:
		parts = append(parts, fmt.Sprintf("progress load slower than usual (x%.2f)", rate))
	case rate > 1:
		parts = append(parts, fmt.Sprintf("load may progress faster (x%.2f)", rate))
	}
	if m.TendonWarning {
		parts = append(parts, "tendon caution: controlled tempo, no max efforts")
	}
	if m.RecoveryMultiplier > 0 && m.RecoveryMultiplier < 1 {
		parts = append(parts, "allow extra recovery between sessions")
	}
	return strings.Join(parts, "; ")
}
