package selector

import (
	"errors"
	"fmt"
)

var ErrInsufficientExercises = errors.New("insufficient exercises")

const (
	ReasonNoCandidates = "no_candidates"
	ReasonNothingFits  = "nothing_fits"
)

// InsufficientExerciseError means a variant could not be filled under the
// active constraints.
type InsufficientExerciseError struct {
	DurationMinutes int
	Reason          string
	Candidates      int
}

func (e *InsufficientExerciseError) Error() string {
	switch e.Reason {
	case ReasonNothingFits:
		return fmt.Sprintf("no exercise fits a %d minute session (%d candidates)", e.DurationMinutes, e.Candidates)
	default:
		return fmt.Sprintf("no exercise satisfies the constraints for a %d minute session", e.DurationMinutes)
	}
}

func (e *InsufficientExerciseError) Is(target error) bool {
	return target == ErrInsufficientExercises
}
