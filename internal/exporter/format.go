package exporter

import (
	"fmt"
	"math"
)

// unitSuffixes are the Polish short scales: thousand, million, billion, trillion
var unitSuffixes = []string{"", " TYS", " MIL", " MLD", " TRL"}

// HumanFormat renders a number with an explicit sign, two decimals and a
// magnitude suffix, e.g. 2500 -> "+2.50 TYS". Zero renders as "0".
// Magnitudes beyond trillions keep the trillion suffix; values below one
// thousand have no suffix.
func HumanFormat(n float64) string {
	if n == 0 || math.IsNaN(n) {
		return "0"
	}

	sign := "+"
	if n < 0 {
		sign = "-"
	}
	abs := math.Abs(n)

	magnitude := 0
	if !math.IsInf(abs, 0) {
		magnitude = int(math.Floor(math.Log(abs) / math.Log(1000)))
	} else {
		magnitude = len(unitSuffixes) - 1
	}
	magnitude = max(0, min(magnitude, len(unitSuffixes)-1))

	scaled := abs / math.Pow(1000, float64(magnitude))
	// Log rounding can leave 1000 at the lower magnitude
	if scaled >= 1000 && magnitude < len(unitSuffixes)-1 {
		magnitude++
		scaled /= 1000
	}

	return sign + formatFloat(scaled) + unitSuffixes[magnitude]
}

// formatFloat formats a value with exactly 2 decimal places
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}
