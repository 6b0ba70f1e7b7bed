package plans

import (
	"errors"
	"time"

	"transfit-backend/internal/catalog"
	"transfit-backend/internal/constraints"
	"transfit-backend/internal/profile"
	"transfit-backend/internal/selector"
)

// AssembleInput describes the calendar and variants to build.
type AssembleInput struct {
	Profile   profile.Profile
	StartDate time.Time
	Days      int
	Durations []int
	Catalog   []catalog.Exercise
}

// Assembly is the assembler output before it is wrapped into a Plan.
type Assembly struct {
	Days     []Day
	Warnings []Warning
	Filled   int
	Empty    int
	// LastErr is the most recent variant failure, kept for the all-empty case.
	LastErr error
}

// Assembler walks the block day by day, resolving constraints for each date
// because post-op weeks and HRT months advance during the block.
type Assembler struct {
	Resolver *constraints.Resolver
}

// Assemble builds every day of the block.
func (a *Assembler) Assemble(in AssembleInput) Assembly {
	var out Assembly
	seenWarnings := map[string]bool{}
	var previous map[string]bool

	for i := 0; i < in.Days; i++ {
		date := profile.NewDate(in.StartDate).AddDate(0, 0, i)
		mods, warnings := a.Resolver.Resolve(in.Profile, date)
		for _, w := range warnings {
			key := w.Code + "|" + w.Source
			if seenWarnings[key] {
				continue
			}
			seenWarnings[key] = true
			out.Warnings = append(out.Warnings, Warning{Code: w.Code, Message: w.Message, Source: w.Source, DayNumber: i + 1})
		}

		day := Day{
			DayNumber: i + 1,
			Date:      date.Format(profile.DateLayout),
			Variants:  make(map[int]*Variant, len(in.Durations)),
			Safety:    safetySummary(mods),
		}
		used := map[string]bool{}
		for _, minutes := range in.Durations {
			prescriptions, err := selector.SelectForVariant(selector.VariantInput{
				Modifiers:          mods,
				Catalog:            in.Catalog,
				Goals:              in.Profile.Goals,
				GoalWeighting:      in.Profile.GoalWeighting,
				BodyFocusPrefer:    in.Profile.BodyFocusPrefer,
				BodyFocusSoftAvoid: in.Profile.BodyFocusSoftAvoid,
				Equipment:          in.Profile.Equipment,
				DurationMinutes:    minutes,
				RecentlyUsed:       previous,
			})
			if err != nil {
				var insufficient *selector.InsufficientExerciseError
				if !errors.As(err, &insufficient) {
					insufficient = &selector.InsufficientExerciseError{DurationMinutes: minutes}
				}
				day.Variants[minutes] = nil
				out.Empty++
				out.LastErr = err
				out.Warnings = append(out.Warnings, Warning{
					Code:            WarningInsufficientExercises,
					Message:         insufficient.Error(),
					DayNumber:       i + 1,
					DurationMinutes: minutes,
				})
				continue
			}
			v := &Variant{DurationMinutes: minutes, Exercises: prescriptions}
			for _, p := range prescriptions {
				v.EstimatedSeconds += p.EstimatedSeconds
				used[p.ExerciseID] = true
			}
			day.Variants[minutes] = v
			out.Filled++
		}
		previous = used
		out.Days = append(out.Days, day)
	}
	return out
}
