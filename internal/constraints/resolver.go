package constraints

import (
	"fmt"
	"math"
	"time"

	"transfit-backend/internal/profile"
	"transfit-backend/internal/safetyconfig"
)

const (
	WarningClockSkew = "clock_skew"

	// FlagBinding is set on every day the user binds. Binder types and
	// active surgery types are added as flags too.
	FlagBinding = "binding"

	daysPerMonth = 30.4375
)

// ConfigSource is the read side of a loaded safety document.
type ConfigSource interface {
	HRTPhaseConfig(hrtType string, monthsElapsed float64) *safetyconfig.HRTPhase
	BodyDistribution(hrtType string) *safetyconfig.BodyDistribution
	BindingConfig(binderType string) *safetyconfig.BindingRule
	PostOpConfig(surgeryType string, weeksPostOp int) *safetyconfig.PostOpWindow
	DysphoriaRule(trigger string) *safetyconfig.DysphoriaRule
}

// Warning is a non-fatal note produced while resolving.
type Warning struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Source  string `json:"source,omitempty"`
}

// Resolver reduces every rule that applies to a profile on a given day into
// one ModifierSet.
type Resolver struct {
	Config ConfigSource
}

// NewResolver constructs a Resolver over a loaded config.
func NewResolver(cfg ConfigSource) *Resolver {
	return &Resolver{Config: cfg}
}

// Resolve returns the merged modifiers for p on asOf. Rule sources with no
// matching entry contribute nothing.
func (r *Resolver) Resolve(p profile.Profile, asOf time.Time) (ModifierSet, []Warning) {
	asOf = profile.NewDate(asOf).Time
	var partials []ModifierSet
	var warnings []Warning

	if p.OnHRT && p.HRTType != profile.HRTTypeNone {
		months, warn := monthsOnHRT(p, asOf)
		if warn != nil {
			warnings = append(warnings, *warn)
		}
		if partial, ok := r.hrtPartial(p.HRTType, months); ok {
			partials = append(partials, partial)
		}
	}

	if p.BindsChest && p.BindingFrequency != profile.BindingNever {
		partials = append(partials, r.bindingPartials(p)...)
	}

	for _, s := range p.Surgeries {
		weeks, warn := WeeksPostOp(s.Date.Time, asOf)
		if warn != nil {
			warn.Source = "surgery:" + s.Type
			warnings = append(warnings, *warn)
		}
		if partial, ok := r.postOpPartial(s.Type, weeks); ok {
			partials = append(partials, partial)
		}
	}

	for _, trigger := range p.DysphoriaTriggers {
		if partial, ok := r.dysphoriaPartial(trigger); ok {
			partials = append(partials, partial)
		}
	}

	return MergeAll(partials...), warnings
}

// WeeksPostOp returns whole weeks from surgery to asOf. A surgery dated after
// asOf clamps to 0 and returns a clock skew warning.
func WeeksPostOp(surgery, asOf time.Time) (int, *Warning) {
	days := daysBetween(surgery, asOf)
	if days < 0 {
		return 0, &Warning{
			Code:    WarningClockSkew,
			Message: fmt.Sprintf("surgery date %s is after %s; treating as week 0", surgery.Format(profile.DateLayout), asOf.Format(profile.DateLayout)),
		}
	}
	return days / 7, nil
}

func monthsOnHRT(p profile.Profile, asOf time.Time) (float64, *Warning) {
	if p.HRTStartDate != nil && !p.HRTStartDate.IsZero() {
		days := daysBetween(p.HRTStartDate.Time, asOf)
		if days < 0 {
			return 0, &Warning{
				Code:    WarningClockSkew,
				Message: fmt.Sprintf("hrt start date %s is after %s; treating as month 0", p.HRTStartDate.String(), asOf.Format(profile.DateLayout)),
				Source:  "hrt:" + p.HRTType,
			}
		}
		return float64(days) / daysPerMonth, nil
	}
	if p.HRTMonthsDuration == nil {
		return 0, nil
	}
	months := *p.HRTMonthsDuration
	if p.HRTMonthsAsOf != nil && !p.HRTMonthsAsOf.IsZero() {
		months += float64(daysBetween(p.HRTMonthsAsOf.Time, asOf)) / daysPerMonth
	}
	return math.Max(months, 0), nil
}

func (r *Resolver) hrtPartial(hrtType string, months float64) (ModifierSet, bool) {
	phase := r.Config.HRTPhaseConfig(hrtType, months)
	if phase == nil {
		return ModifierSet{}, false
	}
	m := NewModifierSet()
	if phase.VolumeReductionPercent != nil {
		m.VolumeReductionPercent = *phase.VolumeReductionPercent
	}
	if phase.ProgressiveOverloadRate != nil {
		m.ProgressiveOverloadRate = *phase.ProgressiveOverloadRate
	}
	if phase.RecoveryMultiplier != nil {
		m.RecoveryMultiplier = *phase.RecoveryMultiplier
	}
	if phase.TendonWarning != nil {
		m.TendonWarning = *phase.TendonWarning
	}
	m.BodyDistribution = r.Config.BodyDistribution(hrtType)
	m.Sources = []string{"hrt:" + hrtType + ":" + phase.Phase}
	return m, true
}

func (r *Resolver) bindingPartials(p profile.Profile) []ModifierSet {
	flags := NewModifierSet()
	flags.ContraindicationFlags.Add(FlagBinding, p.BinderType)
	out := []ModifierSet{flags}

	if rule := r.Config.BindingConfig(p.BinderType); rule != nil {
		out = append(out, bindingPartial(*rule, "binding:"+p.BinderType))
	}
	if long := r.Config.BindingConfig(safetyconfig.LongDurationBinding); long != nil && long.DurationThresholdHours != nil {
		if p.BindingDurationHours > *long.DurationThresholdHours {
			out = append(out, bindingPartial(*long, "binding:"+safetyconfig.LongDurationBinding))
		}
	}
	return out
}

func bindingPartial(rule safetyconfig.BindingRule, source string) ModifierSet {
	m := NewModifierSet()
	m.VolumeReductionPercent = rule.VolumeReductionPercent
	m.RestSecondsIncrease = rule.RestSecondsIncrease
	if rule.MaxWorkoutMinutes != nil {
		v := *rule.MaxWorkoutMinutes
		m.MaxWorkoutMinutes = &v
	}
	m.RequireBinderAware = rule.RequireBinderAware
	m.RequireHeavyBindingSafe = rule.RequireHeavyBindingSafe
	m.Sources = []string{source}
	return m
}

func (r *Resolver) postOpPartial(surgeryType string, weeks int) (ModifierSet, bool) {
	w := r.Config.PostOpConfig(surgeryType, weeks)
	if w == nil {
		return ModifierSet{}, false
	}
	m := NewModifierSet()
	m.BlockedPatterns.Add(w.BlockedPatterns...)
	m.BlockedMuscleGroups.Add(w.BlockedMuscleGroups...)
	m.ContraindicationFlags.Add(surgeryType)
	if w.VolumeReductionPercent != nil {
		m.VolumeReductionPercent = *w.VolumeReductionPercent
	}
	if w.MaxSets != nil {
		v := *w.MaxSets
		m.MaxSets = &v
	}
	if w.MaxWeight != nil {
		v := *w.MaxWeight
		m.MaxWeight = &v
	}
	m.RequirePelvicFloorSafe = w.RequirePelvicFloorSafe
	wk := weeks
	m.MinWeeksPostOp = &wk
	m.Sources = []string{fmt.Sprintf("post_op:%s:week_%d", surgeryType, weeks)}
	return m, true
}

func (r *Resolver) dysphoriaPartial(trigger string) (ModifierSet, bool) {
	rule := r.Config.DysphoriaRule(trigger)
	if rule == nil {
		return ModifierSet{}, false
	}
	m := NewModifierSet()
	if rule.FilterType == safetyconfig.FilterExclude {
		m.ExcludeTags.Add(rule.ExcludeTags...)
	} else {
		m.DeprioritizeTags.Add(rule.ExcludeTags...)
	}
	m.DeprioritizeTags.Add(rule.DeprioritizeTags...)
	m.PreferTags.Add(rule.PreferTags...)
	m.Sources = []string{"dysphoria:" + trigger}
	return m, true
}

func daysBetween(from, to time.Time) int {
	f := profile.NewDate(from).Time
	t := profile.NewDate(to).Time
	return int(math.Floor(t.Sub(f).Hours() / 24))
}
