package text

import "golang.org/x/text/width"

// UnitWidth returns the grid width of a rune in em cells: full-width and
// wide characters take one cell, everything narrower takes half. Ambiguous
// characters resolve wide, matching East Asian rendering context.
func UnitWidth(r rune) float64 {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth, width.EastAsianAmbiguous:
		return 1.0
	case width.EastAsianNarrow, width.EastAsianHalfwidth:
		return 0.5
	}
	if r == '\n' || r == '\r' || r == '\t' {
		return 0
	}
	return 0.5
}

// StringUnits returns the summed grid width of a string.
func StringUnits(s string) float64 {
	var total float64
	for _, r := range s {
		total += UnitWidth(r)
	}
	return total
}
