// Package extract pulls structured facts out of free text produced by the
// generator: which catalog entry it recommends, a short description and
// exactly three advantage cards.
package extract

import "strings"

// ErrorMarkers flag generator output that declines to recommend anything.
var ErrorMarkers = []string{"ERROR", "Je ne peux pas recommander"}

// HasErrorMarker reports whether text contains any of ErrorMarkers.
func HasErrorMarker(text string) bool {
	for _, m := range ErrorMarkers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}

// RecommendedName returns the candidate mentioned earliest in text, matched
// as an exact substring. When two candidates start at the same offset the
// longer one wins. It returns "" when no candidate occurs.
func RecommendedName(text string, candidates []string) string {
	best, bestAt := "", -1
	for _, c := range candidates {
		if strings.TrimSpace(c) == "" {
			continue
		}
		at := strings.Index(text, c)
		if at < 0 {
			continue
		}
		if bestAt < 0 || at < bestAt || (at == bestAt && len(c) > len(best)) {
			best, bestAt = c, at
		}
	}
	return best
}
