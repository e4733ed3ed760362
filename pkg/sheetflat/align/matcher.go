// Package align reconciles differently labelled columns across blocks into
// one canonical header scheme.
package align

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// DefaultCutoff is the minimum similarity ratio for a fuzzy header match.
const DefaultCutoff = 0.4

// chars splits s into its characters so the matcher compares runes, not lines.
func chars(s string) []string {
	return strings.Split(s, "")
}

// Ratio returns the similarity of a and b in [0, 1], computed as twice the
// number of matching characters over the total length.
func Ratio(a, b string) float64 {
	return difflib.NewMatcher(chars(a), chars(b)).Ratio()
}

// CloseMatch returns the candidate most similar to word, provided its ratio is
// at least cutoff. Equal scores resolve to the lexicographically greatest
// candidate.
func CloseMatch(word string, candidates []string, cutoff float64) (string, bool) {
	m := difflib.NewMatcher(nil, nil)
	m.SetSeq2(chars(word))

	var (
		best      string
		bestScore float64
		found     bool
	)
	for _, x := range candidates {
		m.SetSeq1(chars(x))
		if m.RealQuickRatio() < cutoff || m.QuickRatio() < cutoff {
			continue
		}
		score := m.Ratio()
		if score < cutoff {
			continue
		}
		if !found || score > bestScore || (score == bestScore && x > best) {
			best, bestScore, found = x, score, true
		}
	}
	return best, found
}
