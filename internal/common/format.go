package common

import (
	"fmt"
	"math"
)

// FormatAmount formats a value with two decimals followed by a unit label.
func FormatAmount(v float64, unit string) string {
	v = roundCents(v)
	if unit == "" {
		return fmt.Sprintf("%.2f", v)
	}
	return fmt.Sprintf("%.2f %s", v, unit)
}

// FormatSignedPct formats a percentage with an explicit sign, e.g. "+10.00%".
func FormatSignedPct(pct float64) string {
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%+.2f%%", roundCents(pct))
}

// roundCents rounds to two decimals and folds negative zero into zero.
func roundCents(v float64) float64 {
	v = math.Round(v*100) / 100
	if v == 0 {
		return 0
	}
	return v
}
