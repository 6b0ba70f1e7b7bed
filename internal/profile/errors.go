package profile

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidProfile = errors.New("invalid profile")

// FieldError names a single rejected profile field.
type FieldError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// InvalidProfileError lists every field that failed validation.
type InvalidProfileError struct {
	Fields []FieldError
}

func (e *InvalidProfileError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Issue))
	}
	return "invalid profile: " + strings.Join(parts, "; ")
}

func (e *InvalidProfileError) Is(target error) bool {
	return target == ErrInvalidProfile
}

// Details renders the field list in the API error envelope shape.
func (e *InvalidProfileError) Details() []map[string]string {
	out := make([]map[string]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		out = append(out, map[string]string{"field": f.Field, "issue": f.Issue})
	}
	return out
}
