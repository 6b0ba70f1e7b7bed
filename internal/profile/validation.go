package profile

import (
	"fmt"
	"sort"
	"strings"
)

var validHRTTypes = map[string]bool{
	HRTTypeEstrogenBlockers: true,
	HRTTypeTestosterone:     true,
	HRTTypeDual:             true,
	HRTTypeNone:             true,
}

var validBindingFrequencies = map[string]bool{
	BindingNever:     true,
	BindingRarely:    true,
	BindingSometimes: true,
	BindingOften:     true,
	BindingDaily:     true,
}

// Normalize lowercases enum fields, trims lists, fills the goal weighting and
// duration defaults, and makes bodyweight always available.
func Normalize(p Profile) Profile {
	p.HRTType = normalizeToken(p.HRTType)
	if p.HRTType == "" {
		p.HRTType = HRTTypeNone
	}
	p.BindingFrequency = normalizeToken(p.BindingFrequency)
	p.BinderType = normalizeToken(p.BinderType)
	p.Goals = normalizeList(p.Goals)
	if len(p.Goals) == 0 {
		p.Goals = []string{"general_fitness"}
	}
	if p.GoalWeighting.Primary == 0 && p.GoalWeighting.Secondary == 0 {
		if len(p.Goals) > 1 {
			p.GoalWeighting = GoalWeighting{Primary: 70, Secondary: 30}
		} else {
			p.GoalWeighting = GoalWeighting{Primary: 100}
		}
	}
	p.Equipment = normalizeList(p.Equipment)
	if !contains(p.Equipment, EquipmentBodyweight) {
		p.Equipment = append([]string{EquipmentBodyweight}, p.Equipment...)
	}
	p.BodyFocusPrefer = normalizeList(p.BodyFocusPrefer)
	p.BodyFocusSoftAvoid = normalizeList(p.BodyFocusSoftAvoid)
	p.DysphoriaTriggers = normalizeList(p.DysphoriaTriggers)

	surgeries := make([]Surgery, 0, len(p.Surgeries))
	for _, s := range p.Surgeries {
		s.Type = normalizeToken(s.Type)
		surgeries = append(surgeries, s)
	}
	p.Surgeries = surgeries

	if len(p.PreferredMinutes) == 0 {
		p.PreferredMinutes = append([]int(nil), DefaultMinutes...)
	} else {
		p.PreferredMinutes = uniqueSortedInts(p.PreferredMinutes)
	}
	return p
}

// Prepare normalizes p and validates the result. An empty equipment list is
// still rejected even though Normalize would add bodyweight to it.
func Prepare(p Profile) (Profile, error) {
	n := Normalize(p)
	if len(normalizeList(p.Equipment)) == 0 {
		n.Equipment = nil
	}
	if err := Validate(n); err != nil {
		return n, err
	}
	return n, nil
}

// Validate checks the fields generation depends on. It does not guess
// missing values; call Normalize first for the documented defaults.
func Validate(p Profile) error {
	var fields []FieldError
	add := func(field, issue string) {
		fields = append(fields, FieldError{Field: field, Issue: issue})
	}

	if p.BlockLength != 1 && p.BlockLength != 4 {
		add("block_length", "must be 1 or 4")
	}
	if len(p.Equipment) == 0 {
		add("equipment", "required")
	}

	if !validHRTTypes[p.HRTType] {
		add("hrt_type", fmt.Sprintf("unknown value %q", p.HRTType))
	}
	if p.OnHRT {
		if p.HRTType == HRTTypeNone {
			add("hrt_type", "required when on_hrt is true")
		}
		if p.HRTStartDate == nil && p.HRTMonthsDuration == nil {
			add("hrt_start_date", "hrt_start_date or hrt_months_duration is required when on_hrt is true")
		}
	}
	if p.HRTMonthsDuration != nil && *p.HRTMonthsDuration < 0 {
		add("hrt_months_duration", "must not be negative")
	}

	if p.BindsChest {
		if p.BindingFrequency != "" && !validBindingFrequencies[p.BindingFrequency] {
			add("binding_frequency", fmt.Sprintf("unknown value %q", p.BindingFrequency))
		}
		if p.BinderType == "" && p.BindingFrequency != BindingNever {
			add("binder_type", "required when binds_chest is true")
		}
	}
	if p.BindingDurationHours < 0 || p.BindingDurationHours > 24 {
		add("binding_duration_hours", "must be between 0 and 24")
	}

	for i, s := range p.Surgeries {
		if s.Type == "" {
			add(fmt.Sprintf("surgeries[%d].type", i), "required")
		}
		if s.Date.IsZero() {
			add(fmt.Sprintf("surgeries[%d].date", i), "required")
		}
	}

	if p.GoalWeighting.Primary < 0 || p.GoalWeighting.Secondary < 0 {
		add("goal_weighting", "percentages must not be negative")
	} else if p.GoalWeighting.Primary+p.GoalWeighting.Secondary != 100 {
		add("goal_weighting", "primary and secondary must sum to 100")
	}

	allowed := make(map[int]bool, len(AllowedMinutes))
	for _, m := range AllowedMinutes {
		allowed[m] = true
	}
	for _, m := range p.PreferredMinutes {
		if !allowed[m] {
			add("preferred_minutes", fmt.Sprintf("%d is not one of 5, 15, 30, 45, 60, 90", m))
		}
	}

	if len(fields) > 0 {
		return &InvalidProfileError{Fields: fields}
	}
	return nil
}

func normalizeToken(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

func normalizeList(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		v := normalizeToken(item)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

func uniqueSortedInts(items []int) []int {
	seen := make(map[int]bool, len(items))
	out := make([]int, 0, len(items))
	for _, v := range items {
		if seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

func contains(items []string, want string) bool {
	for _, item := range items {
		if item == want {
			return true
		}
	}
	return false
}
