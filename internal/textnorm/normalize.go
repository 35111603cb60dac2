// Package textnorm canonicalizes names so that venue names coming from
// different sources compare equal despite accent, apostrophe and spacing drift.
package textnorm

import "strings"

var apostrophes = strings.NewReplacer(
	"'", "",
	"’", "",
	"‘", "",
	"`", "",
)

// elisions glue a spaced "l' " / "d' " to the following word; the unspaced
// forms collapse on their own once apostrophes are stripped.
var elisions = strings.NewReplacer(
	"l' ", "l",
	"d' ", "d",
)

var accents = strings.NewReplacer(
	"é", "e", "è", "e", "ê", "e", "ë", "e",
	"à", "a", "â", "a", "ä", "a",
	"ô", "o", "ö", "o",
	"ù", "u", "û", "u", "ü", "u",
	"ç", "c",
)

// Normalize lower-cases s, drops apostrophes, folds the French accented
// letters to ASCII and collapses whitespace runs.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	out := strings.ToLower(s)
	out = elisions.Replace(out)
	out = apostrophes.Replace(out)
	out = accents.Replace(out)
	return strings.Join(strings.Fields(out), " ")
}

// NamesMatch reports whether a and b normalize to the same text or one
// normalized form contains the other. Empty inputs never match.
func NamesMatch(a, b string) bool {
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return false
	}
	return na == nb || strings.Contains(na, nb) || strings.Contains(nb, na)
}
