package safetyconfig

import "fmt"

type interval interface {
	bounds() (float64, float64)
}

// findWindow returns the index of the window containing v, or -1. Windows are
// closed-open except the last one, which also includes its upper bound.
func findWindow[W interval](windows []W, v float64) int {
	for i, w := range windows {
		lo, hi := w.bounds()
		if v < lo {
			continue
		}
		if v < hi || (i == len(windows)-1 && v == hi) {
			return i
		}
	}
	return -1
}

// checkWindows reports every ordering problem in a window table: empty or
// inverted ranges, overlaps, and gaps between neighbours.
func checkWindows[W interval](key string, windows []W) []string {
	var issues []string
	for i, w := range windows {
		lo, hi := w.bounds()
		if lo < 0 {
			issues = append(issues, fmt.Sprintf("%s[%d]: start %v is negative", key, i, lo))
		}
		if lo >= hi {
			issues = append(issues, fmt.Sprintf("%s[%d]: start %v must be below end %v", key, i, lo, hi))
		}
		if i == 0 {
			continue
		}
		_, prevHi := windows[i-1].bounds()
		switch {
		case lo < prevHi:
			issues = append(issues, fmt.Sprintf("%s[%d]: overlaps previous window ending at %v", key, i, prevHi))
		case lo > prevHi:
			issues = append(issues, fmt.Sprintf("%s[%d]: gap after previous window ending at %v", key, i, prevHi))
		}
	}
	return issues
}
