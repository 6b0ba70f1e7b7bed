package selector

// goalPatterns lists the movement patterns that serve each goal.
var goalPatterns = map[string][]string{
	"strength":        {"squat", "hinge", "push", "pull", "lunge", "carry"},
	"hypertrophy":     {"push", "pull", "squat", "hinge", "lunge"},
	"endurance":       {"gait", "cardio", "squat", "lunge"},
	"conditioning":    {"cardio", "plyometric", "gait", "carry"},
	"fat_loss":        {"cardio", "gait", "plyometric", "squat", "lunge"},
	"mobility":        {"mobility", "core"},
	"recovery":        {"mobility", "gait"},
	"general_fitness": {"squat", "hinge", "push", "pull", "lunge", "core", "gait", "mobility", "cardio"},
}

// loadedEquipment needs external load; it is dropped when max weight is
// bodyweight or none.
var loadedEquipment = map[string]bool{
	"db":      true,
	"kb":      true,
	"barbell": true,
	"cable":   true,
	"machine": true,
	"sled":    true,
}

const (
	exactGoalMatch   = 1.0
	patternGoalMatch = 0.7

	preferTagBonus        = 15.0
	focusPreferBonus      = 10.0
	deprioritizePenalty   = 20.0
	softAvoidPenalty      = 15.0
	distributionScale     = 40.0
	recentlyUsedPenalty   = 25.0
	advancedTendonPenalty = 10.0

	defaultReps       = 10
	defaultRepSeconds = 3
)

func defaultSets(durationMinutes int) int {
	switch {
	case durationMinutes <= 5:
		return 1
	case durationMinutes <= 15:
		return 2
	case durationMinutes <= 45:
		return 3
	default:
		return 4
	}
}

func baseRest(durationMinutes int) int {
	switch {
	case durationMinutes <= 5:
		return 20
	case durationMinutes <= 15:
		return 30
	default:
		return 60
	}
}
