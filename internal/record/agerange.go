package record

import (
	"fmt"
	"strconv"
	"strings"
)

// AgeRange is an inclusive [Min, Max] age interval. The sentinel [-1, -1]
// denotes an unknown age.
type AgeRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// AgeUnknown is the sentinel for an unknown age range.
var AgeUnknown = AgeRange{Min: -1, Max: -1}

// Known reports whether both bounds carry real values.
func (r AgeRange) Known() bool {
	return r.Min >= 0 && r.Max >= 0
}

// Overlaps reports whether the range intersects the inclusive query interval
// [queryMin, queryMax]. An unknown range never overlaps anything, so unknown
// ages neither satisfy age filters nor contribute to age-based matching.
func (r AgeRange) Overlaps(queryMin, queryMax int) bool {
	if r.Min == -1 || r.Max == -1 {
		return false
	}
	return !(r.Max < queryMin || r.Min > queryMax)
}

// String renders the range as "min-max", or "unknown" for the sentinel.
func (r AgeRange) String() string {
	if !r.Known() {
		return "unknown"
	}
	if r.Min == r.Max {
		return strconv.Itoa(r.Min)
	}
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

// ParseAgeRange converts a textual age value into an AgeRange. Accepted forms
// are "45-50", a single age "47", or anything unparseable which maps to the
// unknown sentinel. Parsing never fails; bad input is simply unknown.
func ParseAgeRange(value string) AgeRange {
	value = strings.TrimSpace(strings.ToLower(value))
	if value == "" || value == "unknown" {
		return AgeUnknown
	}
	if lo, hi, ok := strings.Cut(value, "-"); ok {
		min, errLo := strconv.Atoi(strings.TrimSpace(lo))
		max, errHi := strconv.Atoi(strings.TrimSpace(hi))
		if errLo != nil || errHi != nil || min < 0 || max < 0 {
			return AgeUnknown
		}
		if min > max {
			min, max = max, min
		}
		return AgeRange{Min: min, Max: max}
	}
	age, err := strconv.Atoi(value)
	if err != nil || age < 0 {
		return AgeUnknown
	}
	return AgeRange{Min: age, Max: age}
}
