package query

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"seminary/internal/domain"
)

type cityAlias struct {
	alias string
	city  string
}

// cityAliases is checked top to bottom; the first whole-word hit wins.
var cityAliases = []cityAlias{
	{"contrex", "Contrexéville"},
	{"contrexeville", "Contrexéville"},
	{"gerardmer", "Gérardmer"},
	{"epinal", "Épinal"},
	{"vittel", "Vittel"},
	{"remiremont", "Remiremont"},
	{"plombieres", "Plombières-les-Bains"},
	{"plombieres-les-bains", "Plombières-les-Bains"},
	{"saint-die", "Saint-Dié-des-Vosges"},
	{"saint-die-des-vosges", "Saint-Dié-des-Vosges"},
	{"la bresse", "La Bresse"},
	{"labresse", "La Bresse"},
	{"nancy", "Nancy"},
	{"thann", "Thann"},
	{"mulhouse", "Mulhouse"},
	{"colmar", "Colmar"},
	{"strasbourg", "Strasbourg"},
}

// canonicalCities holds every distinct alias target, longest name first so
// that a query naming "Saint-Dié-des-Vosges" never resolves to a shorter
// city embedded in it. Equal lengths fall back to alphabetical order.
var canonicalCities = func() []string {
	seen := map[string]bool{}
	var out []string
	for _, a := range cityAliases {
		if !seen[a.city] {
			seen[a.city] = true
			out = append(out, a.city)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		li, lj := utf8.RuneCountInString(out[i]), utf8.RuneCountInString(out[j])
		if li != lj {
			return li > lj
		}
		return out[i] < out[j]
	})
	return out
}()

// Cities returns the canonical city names in matching order.
func Cities() []string {
	out := make([]string, len(canonicalCities))
	copy(out, canonicalCities)
	return out
}

// ExtractCity returns the canonical name of the city mentioned in q, or ""
// when none is found. Canonical names match as case-insensitive substrings;
// aliases only as whole words.
func ExtractCity(q string) string {
	lq := strings.ToLower(q)
	for _, c := range canonicalCities {
		if strings.Contains(lq, strings.ToLower(c)) {
			return c
		}
	}
	for _, a := range cityAliases {
		if containsWord(lq, a.alias) {
			return a.city
		}
	}
	return ""
}

// containsWord reports whether word occurs in s with no letter, digit or
// underscore directly on either side.
func containsWord(s, word string) bool {
	for from := 0; from <= len(s)-len(word); {
		i := strings.Index(s[from:], word)
		if i < 0 {
			return false
		}
		start := from + i
		end := start + len(word)
		before, _ := utf8.DecodeLastRuneInString(s[:start])
		after, _ := utf8.DecodeRuneInString(s[end:])
		if (start == 0 || !isWordRune(before)) && (end == len(s) || !isWordRune(after)) {
			return true
		}
		_, size := utf8.DecodeRuneInString(s[start:])
		from = start + size
	}
	return false
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// FilterByCity keeps venues whose address mentions city. When nothing
// matches it retries with each hyphen-separated part of the name, and when
// that also fails the input is returned unchanged. An empty city is a no-op.
func FilterByCity(venues []domain.Venue, city string) []domain.Venue {
	if city == "" || len(venues) == 0 {
		return venues
	}
	lc := strings.ToLower(city)

	strict := keepByAddress(venues, func(addr string) bool {
		return strings.Contains(addr, lc)
	})
	if len(strict) > 0 {
		return strict
	}

	var parts []string
	for _, p := range strings.Split(lc, "-") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	loose := keepByAddress(venues, func(addr string) bool {
		for _, p := range parts {
			if strings.Contains(addr, p) {
				return true
			}
		}
		return false
	})
	if len(loose) > 0 {
		return loose
	}
	return venues
}

func keepByAddress(venues []domain.Venue, keep func(lowerAddr string) bool) []domain.Venue {
	var out []domain.Venue
	for _, v := range venues {
		if v.Address == nil {
			continue
		}
		if keep(strings.ToLower(*v.Address)) {
			out = append(out, v)
		}
	}
	return out
}
