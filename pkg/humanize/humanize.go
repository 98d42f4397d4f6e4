// Copyright (c) 2026 IdentifyObjects. All rights reserved.
// Author: vishalsx

// Package humanize formats counters for display.
package humanize

import (
	"strconv"
	"strings"
)

// Count renders an integer in compact form: values under 1000 verbatim,
// larger values with one decimal place and a K/M/B suffix. The decimal is
// dropped when it would be a trailing zero (1.0K renders as 1K).
func Count(n int64) string {
	abs := n
	sign := ""
	if n < 0 {
		abs = -n
		sign = "-"
	}

	var scaled float64
	var suffix string
	switch {
	case abs < 1_000:
		return strconv.FormatInt(n, 10)
	case abs < 1_000_000:
		scaled, suffix = float64(abs)/1_000, "K"
	case abs < 1_000_000_000:
		scaled, suffix = float64(abs)/1_000_000, "M"
	default:
		scaled, suffix = float64(abs)/1_000_000_000, "B"
	}

	s := strconv.FormatFloat(scaled, 'f', 1, 64)
	s = strings.TrimSuffix(s, ".0")
	return sign + s + suffix
}
