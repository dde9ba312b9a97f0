package session

import (
	"strconv"
	"strings"
	"unicode"
)

// ParseRestSpec converts a free-form rest annotation ("60s", "2 min",
// "30 seg", "90") into seconds. Parsing is permissive and never fails:
// anything without a leading integer is 0.
//
// Bare numbers are disambiguated with a compatibility heuristic: values
// under 100 are read as minutes, 100 and above as seconds. "90" therefore
// means 90 minutes while "120" means 120 seconds; kept as-is on purpose.
func ParseRestSpec(text string) int {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return 0
	}

	value, ok := leadingInt(normalized)
	if !ok {
		return 0
	}

	switch {
	case strings.Contains(normalized, "min"):
		return value * 60
	case strings.Contains(normalized, "s"):
		// Covers "s", "seg", "segundos".
		return value
	case value < 100:
		return value * 60
	default:
		return value
	}
}

func leadingInt(s string) (int, bool) {
	end := 0
	for end < len(s) && unicode.IsDigit(rune(s[end])) {
		end++
	}
	if end == 0 {
		return 0, false
	}
	value, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return value, true
}
