package safetyconfig

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

var requiredKeys = []string{
	"hrt_estrogen_phases",
	"hrt_testosterone_phases",
	"hrt_dual_phases",
	"hrt_body_distribution",
	"binding",
	"post_op",
	"dysphoria",
}

// Parse decodes and validates a safety document. format is "json" or "yaml".
func Parse(data []byte, format string) (*SafetyConfig, error) {
	if format == "yaml" {
		converted, err := yamlToJSON(data)
		if err != nil {
			return nil, &LoadError{Source: "document", Err: err}
		}
		data = converted
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &LoadError{Source: "document", Err: fmt.Errorf("decode: %w", err)}
	}
	var missing []string
	for _, key := range requiredKeys {
		if v, ok := raw[key]; !ok || string(v) == "null" {
			missing = append(missing, "missing required key "+key)
		}
	}
	if len(missing) > 0 {
		return nil, &LoadError{Source: "document", Issues: missing}
	}

	var cfg SafetyConfig
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return nil, &LoadError{Source: "document", Issues: []string{strings.TrimPrefix(err.Error(), "json: ")}}
	}
	if issues := Validate(&cfg); len(issues) > 0 {
		return nil, &LoadError{Source: "document", Issues: issues}
	}
	return &cfg, nil
}

// Validate returns every rule violation in cfg, in a stable order.
func Validate(cfg *SafetyConfig) []string {
	var issues []string

	for _, table := range []struct {
		key    string
		phases []HRTPhase
	}{
		{"hrt_estrogen_phases", cfg.HRTEstrogenPhases},
		{"hrt_testosterone_phases", cfg.HRTTestosteronePhases},
		{"hrt_dual_phases", cfg.HRTDualPhases},
	} {
		issues = append(issues, checkWindows(table.key, table.phases)...)
		for i, p := range table.phases {
			at := fmt.Sprintf("%s[%d]", table.key, i)
			issues = append(issues, checkPercent(at, p.VolumeReductionPercent)...)
			issues = append(issues, checkPositive(at+".progressive_overload_rate", p.ProgressiveOverloadRate)...)
			issues = append(issues, checkPositive(at+".recovery_multiplier", p.RecoveryMultiplier)...)
		}
	}

	for _, name := range sortedKeys(cfg.HRTBodyDistribution) {
		d := cfg.HRTBodyDistribution[name]
		issues = append(issues, checkLookupKey("hrt_body_distribution", name)...)
		if d.Upper < 0 || d.Lower < 0 {
			issues = append(issues, fmt.Sprintf("hrt_body_distribution.%s: weights must not be negative", name))
		}
	}

	for _, name := range sortedKeys(cfg.Binding) {
		rule := cfg.Binding[name]
		at := "binding." + name
		issues = append(issues, checkLookupKey("binding", name)...)
		pct := rule.VolumeReductionPercent
		issues = append(issues, checkPercent(at, &pct)...)
		if rule.RestSecondsIncrease < 0 {
			issues = append(issues, at+".rest_seconds_increase: must not be negative")
		}
		if rule.MaxWorkoutMinutes != nil && *rule.MaxWorkoutMinutes <= 0 {
			issues = append(issues, at+".max_workout_minutes: must be positive")
		}
		if rule.DurationThresholdHours != nil && *rule.DurationThresholdHours <= 0 {
			issues = append(issues, at+".duration_threshold_hours: must be positive")
		}
	}

	for _, name := range sortedKeys(cfg.PostOp) {
		windows := cfg.PostOp[name]
		at := "post_op." + name
		issues = append(issues, checkLookupKey("post_op", name)...)
		if len(windows) == 0 {
			issues = append(issues, at+": no windows configured")
		}
		issues = append(issues, checkWindows(at, windows)...)
		for i, w := range windows {
			wat := fmt.Sprintf("%s[%d]", at, i)
			issues = append(issues, checkPercent(wat, w.VolumeReductionPercent)...)
			if w.MaxSets != nil && *w.MaxSets <= 0 {
				issues = append(issues, wat+".max_sets: must be positive")
			}
			if w.MaxWeight != nil && WeightRank(*w.MaxWeight) < 0 {
				issues = append(issues, fmt.Sprintf("%s.max_weight: unknown value %q", wat, *w.MaxWeight))
			}
		}
	}

	seen := make(map[string]bool, len(cfg.Dysphoria))
	for i, rule := range cfg.Dysphoria {
		at := fmt.Sprintf("dysphoria[%d]", i)
		if rule.Trigger == "" {
			issues = append(issues, at+".trigger: required")
		} else if seen[rule.Trigger] {
			issues = append(issues, fmt.Sprintf("%s.trigger: duplicate trigger %q", at, rule.Trigger))
		} else {
			issues = append(issues, checkLookupKey(at+".trigger", rule.Trigger)...)
		}
		seen[rule.Trigger] = true
		if rule.FilterType != FilterSoft && rule.FilterType != FilterExclude {
			issues = append(issues, fmt.Sprintf("%s.filter_type: unknown value %q", at, rule.FilterType))
		}
	}

	return issues
}

// weightRanks orders max_weight caps from most to least restrictive.
var weightRanks = map[string]int{
	"none":       0,
	"bodyweight": 1,
	"light":      2,
	"moderate":   3,
}

// WeightRank returns the restrictiveness rank of a max_weight value, lower
// being stricter, or -1 when unknown.
func WeightRank(value string) int {
	rank, ok := weightRanks[value]
	if !ok {
		return -1
	}
	return rank
}

// checkLookupKey rejects names the lookups could never match: profile values
// are trimmed and lowercased before lookup.
func checkLookupKey(at, key string) []string {
	if key == strings.ToLower(strings.TrimSpace(key)) {
		return nil
	}
	return []string{fmt.Sprintf("%s: %q must be lowercase without surrounding spaces", at, key)}
}

func checkPercent(at string, v *float64) []string {
	if v == nil {
		return nil
	}
	if *v < 0 || *v > 100 {
		return []string{fmt.Sprintf("%s.volume_reduction_percent: %v is outside 0-100", at, *v)}
	}
	return nil
}

func checkPositive(at string, v *float64) []string {
	if v == nil || *v > 0 {
		return nil
	}
	return []string{fmt.Sprintf("%s: must be positive", at)}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
