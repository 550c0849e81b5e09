package extractor

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumber parses a numeric token that may use a comma as decimal
// separator ("3,25" -> 3.25). It reports false for anything that is not a
// finite number; it never fails loudly.
func ParseNumber(text string) (float64, bool) {
	s := strings.TrimSpace(text)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", ".")

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
