package util

import (
	"strconv"
)

// MustParseUint converts a string to uint, returning 0 on parse failure.
func MustParseUint(s string) uint {
	id, _ := strconv.ParseUint(s, 10, 32)
	return uint(id)
}

// ClampPercent clamps a raw computed percentage into [0,100] for display
// and persistence. The calculator itself never clamps.
func ClampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
