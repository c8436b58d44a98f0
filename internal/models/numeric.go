package models

import (
	"strconv"
	"strings"
)

// ParseAmount converts raw form text to a number. It tolerates the
// thousands separators users type ("5,00,000", "1 200 000") and coerces
// anything unparseable to 0 so that validation and payload mapping can
// never disagree about what an input string means.
func ParseAmount(raw string) float64 {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.TrimPrefix(cleaned, "₹")
	if cleaned == "" {
		return 0
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return v
}

// ParseCount is ParseAmount truncated to an integer, for fields that are
// counts (dependents, tenure years, existing loans).
func ParseCount(raw string) int {
	return int(ParseAmount(raw))
}
