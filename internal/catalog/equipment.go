package catalog

import "strings"

// NormalizeEquipment maps a free-form equipment label onto the catalog's
// token set: bodyweight, db, kb, barbell, band, bench, step, cable, machine,
// bike, treadmill, sled. Unknown accessories count as bodyweight.
func NormalizeEquipment(raw string) string {
	n := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case n == "" || n == "body weight" || n == "bodyweight":
		return "bodyweight"
	case n == "db" || strings.Contains(n, "dumbbell"):
		return "db"
	case n == "kb" || strings.Contains(n, "kettlebell"):
		return "kb"
	case strings.Contains(n, "barbell"), strings.Contains(n, "smith"), strings.Contains(n, "trap bar"), strings.Contains(n, "ez bar"):
		return "barbell"
	case strings.Contains(n, "band"):
		return "band"
	case strings.Contains(n, "bench"):
		return "bench"
	case strings.Contains(n, "step"), strings.Contains(n, "box"):
		return "step"
	case strings.Contains(n, "cable"):
		return "cable"
	case strings.Contains(n, "machine"), strings.Contains(n, "leverage"):
		return "machine"
	case strings.Contains(n, "bike"), strings.Contains(n, "ergometer"):
		return "bike"
	case strings.Contains(n, "tread"):
		return "treadmill"
	case strings.Contains(n, "sled"):
		return "sled"
	default:
		return "bodyweight"
	}
}

// NormalizeEquipmentList normalizes and de-duplicates, keeping first-seen order.
func NormalizeEquipmentList(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		token := NormalizeEquipment(item)
		if seen[token] {
			continue
		}
		seen[token] = true
		out = append(out, token)
	}
	return out
}
