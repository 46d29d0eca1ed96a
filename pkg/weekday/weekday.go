// Package weekday canonicalizes weekday label sets. Departments store
// allowed visit days as three-letter labels; date pickers consume them as
// 0-based day-of-week indices (0=Sun .. 6=Sat).
package weekday

// Canonical week order. Index in this slice is the day-of-week index.
var canonical = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// Labels returns the canonical Sun–Sat label sequence.
func Labels() []string {
	out := make([]string, len(canonical))
	copy(out, canonical[:])
	return out
}

// IsValid reports whether label is one of the seven canonical labels.
func IsValid(label string) bool {
	for _, d := range canonical {
		if d == label {
			return true
		}
	}
	return false
}

// Index returns the 0-based day-of-week index for a canonical label, or -1
// for an unknown label.
func Index(label string) int {
	for i, d := range canonical {
		if d == label {
			return i
		}
	}
	return -1
}

// Normalize drops unknown labels and duplicates and returns the remaining
// labels in canonical order. Unknown labels are not an error.
func Normalize(days []string) []string {
	present := make(map[string]bool, len(days))
	for _, d := range days {
		present[d] = true
	}
	out := make([]string, 0, len(days))
	for _, d := range canonical {
		if present[d] {
			out = append(out, d)
		}
	}
	return out
}

// AllowedIndices intersects days against the canonical week and maps each
// retained label to its day-of-week index, preserving canonical order.
// Empty input yields an empty slice.
func AllowedIndices(days []string) []int {
	present := make(map[string]bool, len(days))
	for _, d := range days {
		present[d] = true
	}
	out := make([]int, 0, len(days))
	for i, d := range canonical {
		if present[d] {
			out = append(out, i)
		}
	}
	return out
}
