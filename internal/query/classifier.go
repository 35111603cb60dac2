// Package query decides what a free-text request is looking for and renders
// the catalog slice the generator is allowed to recommend from.
package query

import "strings"

var venueKeywords = []string{
	"salle", "séminaire", "conférence", "réunion", "hôtel",
	"capacité", "personne", "équipement", "projecteur", "wifi",
}

var activityKeywords = []string{
	"activité", "loisir", "sport", "visite", "randonnée", "musée",
	"atelier", "aventure", "découverte", "thermes", "détente",
}

// Classification is the outcome of scoring a query against both vocabularies.
type Classification struct {
	IsVenueSearch bool `json:"is_venue_search"`
	VenueHits     int  `json:"venue_hits"`
	ActivityHits  int  `json:"activity_hits"`
}

// Classify counts how many keywords of each vocabulary occur in q. Each
// keyword counts at most once. Ties favor a venue search.
func Classify(q string) Classification {
	lq := strings.ToLower(q)
	v := hits(lq, venueKeywords)
	a := hits(lq, activityKeywords)
	return Classification{IsVenueSearch: v >= a, VenueHits: v, ActivityHits: a}
}

func hits(lowered string, vocabulary []string) int {
	n := 0
	for _, k := range vocabulary {
		if strings.Contains(lowered, k) {
			n++
		}
	}
	return n
}
