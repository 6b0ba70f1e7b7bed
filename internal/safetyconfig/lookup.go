package safetyconfig

import "strings"

func (c *SafetyConfig) phases(hrtType string) []HRTPhase {
	switch strings.ToLower(strings.TrimSpace(hrtType)) {
	case "estrogen_blockers", "estrogen":
		return c.HRTEstrogenPhases
	case "testosterone":
		return c.HRTTestosteronePhases
	case "dual":
		return c.HRTDualPhases
	default:
		return nil
	}
}

// HRTPhaseConfig returns the phase containing monthsElapsed, or nil when the
// HRT type is unknown or no window matches.
func (c *SafetyConfig) HRTPhaseConfig(hrtType string, monthsElapsed float64) *HRTPhase {
	if c == nil {
		return nil
	}
	phases := c.phases(hrtType)
	i := findWindow(phases, monthsElapsed)
	if i < 0 {
		return nil
	}
	phase := phases[i]
	return &phase
}

// HRTPhaseByName looks a phase up by its name instead of elapsed months.
func (c *SafetyConfig) HRTPhaseByName(hrtType, phaseName string) *HRTPhase {
	if c == nil {
		return nil
	}
	for _, phase := range c.phases(hrtType) {
		if strings.EqualFold(phase.Phase, phaseName) {
			p := phase
			return &p
		}
	}
	return nil
}

// BodyDistribution returns the upper/lower weighting for an HRT type.
func (c *SafetyConfig) BodyDistribution(hrtType string) *BodyDistribution {
	if c == nil {
		return nil
	}
	dist, ok := c.HRTBodyDistribution[strings.ToLower(strings.TrimSpace(hrtType))]
	if !ok {
		return nil
	}
	return &dist
}

// BindingConfig returns the rule for a binder type, or nil when unrecognized.
func (c *SafetyConfig) BindingConfig(binderType string) *BindingRule {
	if c == nil {
		return nil
	}
	rule, ok := c.Binding[strings.ToLower(strings.TrimSpace(binderType))]
	if !ok {
		return nil
	}
	return &rule
}

// PostOpProtocol returns every window configured for a surgery type.
func (c *SafetyConfig) PostOpProtocol(surgeryType string) []PostOpWindow {
	if c == nil {
		return nil
	}
	return c.PostOp[strings.ToLower(strings.TrimSpace(surgeryType))]
}

// PostOpConfig returns the window containing weeksPostOp, or nil.
func (c *SafetyConfig) PostOpConfig(surgeryType string, weeksPostOp int) *PostOpWindow {
	windows := c.PostOpProtocol(surgeryType)
	i := findWindow(windows, float64(weeksPostOp))
	if i < 0 {
		return nil
	}
	w := windows[i]
	return &w
}

// DysphoriaRule returns the rule for a trigger, or nil.
func (c *SafetyConfig) DysphoriaRule(trigger string) *DysphoriaRule {
	if c == nil {
		return nil
	}
	trigger = strings.ToLower(strings.TrimSpace(trigger))
	for _, rule := range c.Dysphoria {
		if rule.Trigger == trigger {
			r := rule
			return &r
		}
	}
	return nil
}
