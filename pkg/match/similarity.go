package match

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/unicode/norm"
)

// Similarity returns 1 minus the Levenshtein distance between a and b divided by the
// length of the longer string, counted in code points. Comparison is case-insensitive
// and ignores surrounding whitespace. It returns 0 if either input is blank.
func Similarity(a, b string) float64 {
	a = strings.TrimSpace(a)
	b = strings.TrimSpace(b)
	if a == "" || b == "" {
		return 0
	}

	a = fold(a)
	b = fold(b)
	if a == b {
		return 1.0
	}

	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}

// fold lower-cases s after composing it to NFC, so "é" typed either way compares equal.
func fold(s string) string {
	return strings.ToLower(norm.NFC.String(s))
}
