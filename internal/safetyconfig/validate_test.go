package safetyconfig

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func mutateDefault(t *testing.T, mutate func(doc map[string]any)) []byte {
	t.Helper()
	var doc map[string]any
	if err := json.Unmarshal(DefaultDocument(), &doc); err != nil {
		t.Fatalf("decode default: %v", err)
	}
	mutate(doc)
	data, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	return data
}

func TestParseRejectsInvalidDocuments(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(doc map[string]any)
		issue  string
	}{
		{
			name:   "missing key",
			mutate: func(doc map[string]any) { delete(doc, "binding") },
			issue:  "missing required key binding",
		},
		{
			name:   "null key",
			mutate: func(doc map[string]any) { doc["dysphoria"] = nil },
			issue:  "missing required key dysphoria",
		},
		{
			name: "overlapping windows",
			mutate: func(doc map[string]any) {
				doc["hrt_dual_phases"] = []any{
					map[string]any{"phase": "a", "min_months": 0, "max_months": 6},
					map[string]any{"phase": "b", "min_months": 3, "max_months": 999},
				}
			},
			issue: "hrt_dual_phases[1]: overlaps",
		},
		{
			name: "gap between windows",
			mutate: func(doc map[string]any) {
				doc["post_op"] = map[string]any{
					"top_surgery": []any{
						map[string]any{"weeks_start": 0, "weeks_end": 2},
						map[string]any{"weeks_start": 4, "weeks_end": 999},
					},
				}
			},
			issue: "post_op.top_surgery[1]: gap",
		},
		{
			name: "inverted window",
			mutate: func(doc map[string]any) {
				doc["hrt_estrogen_phases"] = []any{
					map[string]any{"phase": "a", "min_months": 5, "max_months": 5},
				}
			},
			issue: "must be below end",
		},
		{
			name: "bad filter type",
			mutate: func(doc map[string]any) {
				doc["dysphoria"] = []any{map[string]any{"trigger": "mirrors", "filter_type": "hide"}}
			},
			issue: "filter_type: unknown value",
		},
		{
			name: "percent out of range",
			mutate: func(doc map[string]any) {
				doc["binding"] = map[string]any{
					"diy": map[string]any{"volume_reduction_percent": 140, "rest_seconds_increase": 10},
				}
			},
			issue: "outside 0-100",
		},
		{
			name: "unknown max weight",
			mutate: func(doc map[string]any) {
				doc["post_op"] = map[string]any{
					"top_surgery": []any{
						map[string]any{"weeks_start": 0, "weeks_end": 999, "max_weight": "heavy"},
					},
				}
			},
			issue: "max_weight: unknown value",
		},
		{
			name: "misspelled window field",
			mutate: func(doc map[string]any) {
				windows := doc["post_op"].(map[string]any)["top_surgery"].([]any)
				for _, w := range windows {
					w := w.(map[string]any)
					if v, ok := w["blocked_patterns"]; ok {
						w["blocked_pattern"] = v
						delete(w, "blocked_patterns")
					}
				}
			},
			issue: `unknown field "blocked_pattern"`,
		},
		{
			name:   "unknown top level field",
			mutate: func(doc map[string]any) { doc["bindings"] = map[string]any{} },
			issue:  `unknown field "bindings"`,
		},
		{
			name: "binder key not lowercase",
			mutate: func(doc map[string]any) {
				binding := doc["binding"].(map[string]any)
				binding["Ace_Bandage"] = binding["ace_bandage"]
				delete(binding, "ace_bandage")
			},
			issue: `binding: "Ace_Bandage" must be lowercase`,
		},
		{
			name: "surgery key not lowercase",
			mutate: func(doc map[string]any) {
				postOp := doc["post_op"].(map[string]any)
				postOp["Top_Surgery"] = postOp["top_surgery"]
				delete(postOp, "top_surgery")
			},
			issue: `post_op: "Top_Surgery" must be lowercase`,
		},
		{
			name: "trigger not lowercase",
			mutate: func(doc map[string]any) {
				doc["dysphoria"] = []any{map[string]any{"trigger": "Mirrors", "filter_type": "exclude"}}
			},
			issue: `dysphoria[0].trigger: "Mirrors" must be lowercase`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(mutateDefault(t, tc.mutate), "json")
			if !errors.Is(err, ErrConfigLoad) {
				t.Fatalf("expected ErrConfigLoad, got %v", err)
			}
			if !strings.Contains(err.Error(), tc.issue) {
				t.Fatalf("expected issue %q in %q", tc.issue, err.Error())
			}
		})
	}
}

func TestParseRejectsMalformedJSON(t *testing.T) {
	_, err := Parse([]byte(`{"binding":`), "json")
	var loadErr *LoadError
	if !errors.As(err, &loadErr) {
		t.Fatalf("expected *LoadError, got %T", err)
	}
}

const yamlDocument = `
version: yaml-test
hrt_estrogen_phases:
  - {phase: only, min_months: 0, max_months: 999}
hrt_testosterone_phases:
  - {phase: initial, min_months: 0, max_months: 3, progressive_overload_rate: 0.9, tendon_warning: true}
  - {phase: stable, min_months: 3, max_months: 999}
hrt_dual_phases: []
hrt_body_distribution:
  testosterone: {upper: 0.6, lower: 0.4}
binding:
  ace_bandage: {volume_reduction_percent: 40, rest_seconds_increase: 45, max_workout_minutes: 30}
post_op:
  top_surgery:
    - {weeks_start: 0, weeks_end: 6, blocked_patterns: [push, pull]}
    - {weeks_start: 6, weeks_end: 999, volume_reduction_percent: 30, max_sets: 3}
dysphoria:
  - {trigger: mirrors, filter_type: exclude, exclude_tags: [mirror_required]}
`

func TestParseYAMLDocument(t *testing.T) {
	cfg, err := Parse([]byte(yamlDocument), "yaml")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Version != "yaml-test" {
		t.Fatalf("unexpected version %q", cfg.Version)
	}
	if p := cfg.HRTPhaseConfig("testosterone", 1); p == nil || p.Phase != "initial" {
		t.Fatalf("unexpected phase: %+v", p)
	}
	if w := cfg.PostOpConfig("top_surgery", 7); w == nil || w.MaxSets == nil || *w.MaxSets != 3 {
		t.Fatalf("unexpected window: %+v", w)
	}
}

func TestFormatForKey(t *testing.T) {
	if FormatForKey("rules/safety.YAML") != "yaml" || FormatForKey("safety.yml") != "yaml" {
		t.Fatalf("expected yaml format")
	}
	if FormatForKey("safety.json") != "json" || FormatForKey("safety") != "json" {
		t.Fatalf("expected json format")
	}
}
