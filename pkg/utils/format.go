// Package utils provides common formatting helpers for econwatch.
package utils

import (
	"strconv"
	"strings"
)

// FormatValue renders v with the shortest representation that round-trips,
// e.g. 300 → "300", 324.37 → "324.37".
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatSeries renders a series as "[v1, v2, ...]".
func FormatSeries(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = FormatValue(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// MaskSecret masks a credential for display, keeping the first and last 3 chars.
func MaskSecret(s string) string {
	if len(s) <= 8 {
		return "***"
	}
	return s[:3] + "..." + s[len(s)-3:]
}
