package profile

const (
	HRTTypeEstrogenBlockers = "estrogen_blockers"
	HRTTypeTestosterone     = "testosterone"
	HRTTypeDual             = "dual"
	HRTTypeNone             = "none"
)

const (
	BindingNever     = "never"
	BindingRarely    = "rarely"
	BindingSometimes = "sometimes"
	BindingOften     = "often"
	BindingDaily     = "daily"
)

const EquipmentBodyweight = "bodyweight"

// AllowedMinutes lists the session lengths a profile may ask for.
var AllowedMinutes = []int{5, 15, 30, 45, 60, 90}

// DefaultMinutes is used when a profile has no duration preference.
var DefaultMinutes = []int{15, 30, 45}

// Surgery is a gender-affirming procedure with the date it happened.
type Surgery struct {
	Type string `json:"type" yaml:"type"`
	Date Date   `json:"date" yaml:"date"`
}

// GoalWeighting splits emphasis between the primary and secondary goal.
type GoalWeighting struct {
	Primary   int `json:"primary" yaml:"primary"`
	Secondary int `json:"secondary" yaml:"secondary"`
}

// Profile is the read-only fitness and safety profile a plan is generated for.
type Profile struct {
	OnHRT             bool     `json:"on_hrt" yaml:"on_hrt"`
	HRTType           string   `json:"hrt_type,omitempty" yaml:"hrt_type"`
	HRTStartDate      *Date    `json:"hrt_start_date,omitempty" yaml:"hrt_start_date"`
	HRTMonthsDuration *float64 `json:"hrt_months_duration,omitempty" yaml:"hrt_months_duration"`
	// HRTMonthsAsOf is the day HRTMonthsDuration was reported. When set, the
	// months advance from that day instead of staying fixed.
	HRTMonthsAsOf *Date `json:"-" yaml:"-"`

	BindsChest           bool    `json:"binds_chest" yaml:"binds_chest"`
	BindingFrequency     string  `json:"binding_frequency,omitempty" yaml:"binding_frequency"`
	BindingDurationHours float64 `json:"binding_duration_hours,omitempty" yaml:"binding_duration_hours"`
	BinderType           string  `json:"binder_type,omitempty" yaml:"binder_type"`

	Surgeries []Surgery `json:"surgeries,omitempty" yaml:"surgeries"`

	Goals         []string      `json:"goals" yaml:"goals"`
	GoalWeighting GoalWeighting `json:"goal_weighting" yaml:"goal_weighting"`

	Equipment          []string `json:"equipment" yaml:"equipment"`
	BodyFocusPrefer    []string `json:"body_focus_prefer,omitempty" yaml:"body_focus_prefer"`
	BodyFocusSoftAvoid []string `json:"body_focus_soft_avoid,omitempty" yaml:"body_focus_soft_avoid"`
	DysphoriaTriggers  []string `json:"dysphoria_triggers,omitempty" yaml:"dysphoria_triggers"`

	BlockLength      int   `json:"block_length" yaml:"block_length"`
	PreferredMinutes []int `json:"preferred_minutes,omitempty" yaml:"preferred_minutes"`
}

// PrimaryGoal returns the first goal, if any.
func (p Profile) PrimaryGoal() string {
	if len(p.Goals) == 0 {
		return ""
	}
	return p.Goals[0]
}

// SecondaryGoal returns the second goal, if any.
func (p Profile) SecondaryGoal() string {
	if len(p.Goals) < 2 {
		return ""
	}
	return p.Goals[1]
}

// QuickStart is the implicit profile used before onboarding is complete.
func QuickStart() Profile {
	return Profile{
		HRTType:          HRTTypeNone,
		Goals:            []string{"general_fitness"},
		GoalWeighting:    GoalWeighting{Primary: 100},
		Equipment:        []string{EquipmentBodyweight},
		BlockLength:      1,
		PreferredMinutes: []int{5},
	}
}
