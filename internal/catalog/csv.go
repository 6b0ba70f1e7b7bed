package catalog

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrInvalidCSV is returned when an import file cannot be mapped to exercises.
var ErrInvalidCSV = errors.New("invalid catalog csv")

// RowError describes one rejected CSV row.
type RowError struct {
	Line  int
	Issue string
}

func (e RowError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Issue)
}

// ParseCSV reads a staging export. Required headers are slug, name and
// pattern. List columns accept a JSON array, a bracketed list with single
// quotes, or a comma-separated string. Rows that fail are reported and
// skipped; the rest are returned in file order.
func ParseCSV(r io.Reader) ([]Exercise, []RowError, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	header, err := reader.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read header: %v", ErrInvalidCSV, err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"slug", "name", "pattern"} {
		if _, ok := cols[required]; !ok {
			return nil, nil, fmt.Errorf("%w: missing column %q", ErrInvalidCSV, required)
		}
	}

	var out []Exercise
	var rowErrs []RowError
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", ErrInvalidCSV, err)
		}
		get := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[i])
		}

		e, issue := exerciseFromRow(get, len(out)+1)
		if issue != "" {
			rowErrs = append(rowErrs, RowError{Line: line, Issue: issue})
			continue
		}
		out = append(out, e)
	}
	return out, rowErrs, nil
}

func exerciseFromRow(get func(string) string, position int) (Exercise, string) {
	slug := get("slug")
	if slug == "" {
		return Exercise{}, "slug is required"
	}
	e := Exercise{
		ID:               get("id"),
		Slug:             slug,
		Name:             get("name"),
		Pattern:          strings.ToLower(get("pattern")),
		Goal:             strings.ToLower(get("goal")),
		Difficulty:       strings.ToLower(get("difficulty")),
		Equipment:        NormalizeEquipmentList(parseList(get("equipment"))),
		TargetMuscles:    muscleTokens(parseList(get("target_muscles"))),
		Tags:             mergeTags(parseList(get("tags")), parseList(get("dysphoria_tags"))),
		BinderAware:      parseBool(get("binder_aware")),
		HeavyBindingSafe: parseBool(get("heavy_binding_safe")),
		PelvicFloorSafe:  parseBool(get("pelvic_floor_safe")),
	}
	if e.ID == "" {
		e.ID = slug
	}
	if e.Name == "" {
		return Exercise{}, "name is required"
	}
	if e.Pattern == "" {
		return Exercise{}, "pattern is required"
	}
	if len(e.Equipment) == 0 {
		e.Equipment = []string{"bodyweight"}
	}
	e.Contraindications = parseList(get("contraindications"))

	var err error
	if e.PostOpSafeWeeks, err = parseOptionalInt(get("post_op_safe_weeks")); err != nil {
		return Exercise{}, "post_op_safe_weeks: " + err.Error()
	}
	for _, field := range []struct {
		name string
		dest *int
	}{
		{"default_reps", &e.DefaultReps},
		{"duration_seconds", &e.DurationSeconds},
		{"rep_seconds", &e.RepSeconds},
		{"catalog_order", &e.CatalogOrder},
	} {
		v, err := parseOptionalInt(get(field.name))
		if err != nil {
			return Exercise{}, field.name + ": " + err.Error()
		}
		if v != nil {
			*field.dest = *v
		}
	}
	if e.CatalogOrder == 0 {
		e.CatalogOrder = position * 10
	}
	return e, ""
}

func parseList(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "[]" {
		return nil
	}
	if strings.HasPrefix(raw, "[") {
		var list []string
		if err := json.Unmarshal([]byte(raw), &list); err == nil {
			return cleanList(list)
		}
		raw = strings.TrimSuffix(strings.TrimPrefix(raw, "["), "]")
	}
	parts := strings.Split(raw, ",")
	for i, p := range parts {
		parts[i] = strings.Trim(strings.TrimSpace(p), `'"`)
	}
	return cleanList(parts)
}

func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func muscleTokens(items []string) []string {
	for i, m := range items {
		items[i] = strings.ReplaceAll(strings.ToLower(m), " ", "_")
	}
	return items
}

func mergeTags(lists ...[]string) []string {
	seen := map[string]bool{}
	var out []string
	for _, list := range lists {
		for _, tag := range list {
			tag = strings.ToLower(tag)
			if seen[tag] {
				continue
			}
			seen[tag] = true
			out = append(out, tag)
		}
	}
	return out
}

func parseBool(raw string) bool {
	switch strings.ToLower(raw) {
	case "true", "t", "1", "yes", "y":
		return true
	default:
		return false
	}
}

func parseOptionalInt(raw string) (*int, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("not an integer: %q", raw)
	}
	if v < 0 {
		return nil, fmt.Errorf("must not be negative: %d", v)
	}
	return &v, nil
}
