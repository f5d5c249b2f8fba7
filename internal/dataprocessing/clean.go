package dataprocessing

import (
	"math"
	"strconv"
	"strings"
)

// DefaultStripChars are removed from every text cell on load
const DefaultStripChars = "'\"\n"

var numberSpaces = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "", "\t", "")

// CleanCell removes the strip characters from a cell and trims surrounding space
func CleanCell(value, stripChars string) string {
	if stripChars != "" && strings.ContainsAny(value, stripChars) {
		value = strings.Map(func(r rune) rune {
			if strings.ContainsRune(stripChars, r) {
				return -1
			}
			return r
		}, value)
	}
	return strings.TrimSpace(value)
}

// ParseNumber converts a budget cell to a float.
// Spaces are thousands separators. A comma is the decimal separator unless the
// cell also has a dot, in which case commas are thousands separators.
// Empty or malformed cells are 0.
func ParseNumber(value string) float64 {
	s := numberSpaces.Replace(strings.TrimSpace(value))
	if s == "" || s == "-" {
		return 0
	}

	if strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", "")
	} else if strings.Count(s, ",") == 1 {
		s = strings.Replace(s, ",", ".", 1)
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}
