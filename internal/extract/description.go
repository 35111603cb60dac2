package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const DefaultDescription = "Un lieu idéal pour vos événements professionnels, offrant un cadre à la fois fonctionnel et agréable. Parfaitement situé et équipé pour répondre à tous vos besoins."

// Rule names the matcher that produced a description.
type Rule string

const (
	RuleRecommendation Rule = "recommendation"
	RuleSection        Rule = "section"
	RuleGreeting       Rule = "greeting"
	RuleIdeal          Rule = "ideal"
	RuleDefault        Rule = "default"
)

var (
	reRecommendation = regexp.MustCompile(`\*\*Recommandation Unique(?:\*\*\s*:|\s*:\s*\*\*)\s*([^\n]+)`)
	reSection        = regexp.MustCompile(`\*\*(?:Cadre|Confort|Accessibilité|Localisation)[^*]+\*\* : ([^\n]+)`)
	reGreeting       = regexp.MustCompile(`Bonjour[^!]+!([^!.]+\.[^.]+)`)
	reIdeal          = regexp.MustCompile(`(idéal pour votre séminaire[^.]+\.[^.]+)`)
)

const minGreetingRunes = 20

type matcher struct {
	rule  Rule
	match func(text string) (string, bool)
}

// descriptionChain is tried in order; the first match wins.
var descriptionChain = []matcher{
	{RuleRecommendation, group(reRecommendation, nil)},
	{RuleSection, group(reSection, nil)},
	{RuleGreeting, group(reGreeting, func(s string) bool { return utf8.RuneCountInString(s) > minGreetingRunes })},
	{RuleIdeal, group(reIdeal, nil)},
}

// group returns a matcher yielding the trimmed first capture of re, rejected
// when empty or when accept says no.
func group(re *regexp.Regexp, accept func(string) bool) func(string) (string, bool) {
	return func(text string) (string, bool) {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return "", false
		}
		s := strings.TrimSpace(m[1])
		if s == "" || (accept != nil && !accept(s)) {
			return "", false
		}
		return s, true
	}
}

// Description returns a short description of the recommended entry and the
// rule that found it, or DefaultDescription with RuleDefault.
func Description(text string) (string, Rule) {
	for _, m := range descriptionChain {
		if s, ok := m.match(text); ok {
			return s, m.rule
		}
	}
	return DefaultDescription, RuleDefault
}
