// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatAmount formats a currency amount. Amounts carry no unit; the
// projection works in whatever unit the inputs use.
func FormatAmount(v float64) string {
	return FormatNumber(int64(v))
}

// FormatPercent formats a value already expressed in percent, one decimal.
// e.g., 48.04 -> "48.0%"
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// FormatROAS formats a ROAS percentage without decimals.
func FormatROAS(p float64) string {
	return fmt.Sprintf("%.0f%%", p)
}

// FormatDelta formats the signed difference between two amounts.
func FormatDelta(current, previous int64) string {
	delta := current - previous
	if delta >= 0 {
		return "+" + FormatNumber(delta)
	}
	return FormatNumber(delta)
}

// FormatMultiplier formats a preset multiplier, e.g. 1.5 -> "×1.5".
func FormatMultiplier(m float64) string {
	return "×" + strconv.FormatFloat(m, 'f', 1, 64)
}
