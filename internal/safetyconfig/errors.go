package safetyconfig

import (
	"errors"
	"fmt"
	"strings"
)

var ErrConfigLoad = errors.New("safety config load failed")

// LoadError means the safety document could not be fetched or failed
// validation. No plan may be generated against it.
type LoadError struct {
	Source string
	Issues []string
	Err    error
}

func (e *LoadError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "load safety config from %s", e.Source)
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	if len(e.Issues) > 0 {
		fmt.Fprintf(&b, ": %s", strings.Join(e.Issues, "; "))
	}
	return b.String()
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Is(target error) bool { return target == ErrConfigLoad }
