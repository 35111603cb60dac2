package query

import (
	"fmt"
	"strconv"
	"strings"

	"seminary/internal/catalog"
	"seminary/internal/domain"
)

const (
	venueHeader    = "SALLES DE SÉMINAIRES DISPONIBLES:\n\n"
	activityHeader = "ACTIVITÉS DISPONIBLES DANS LES VOSGES:\n\n"
)

// Plan is everything derived from a query before the generator is called.
type Plan struct {
	Query          string
	Classification Classification
	City           string
	Venues         []domain.Venue // candidates rendered into Context, empty for activity searches
	Context        string
}

// Build classifies q and renders the matching catalog slice. Venue searches
// are narrowed to the city named in q, if any.
func Build(cat *catalog.Catalog, q string) Plan {
	p := Plan{Query: q, Classification: Classify(q)}
	if !p.Classification.IsVenueSearch {
		p.Context = RenderActivities(cat.Activities())
		return p
	}
	p.Venues = cat.Venues()
	if p.City = ExtractCity(q); p.City != "" {
		p.Venues = FilterByCity(p.Venues, p.City)
	}
	p.Context = RenderVenues(p.Venues)
	return p
}

// RenderVenues lists venues as numbered entries with their known details.
func RenderVenues(venues []domain.Venue) string {
	var b strings.Builder
	b.WriteString(venueHeader)
	for i, v := range venues {
		name := v.Name
		if name == "" {
			name = "Sans nom"
		}
		capacity := "Non spécifiée"
		if v.Capacity != nil {
			capacity = strconv.Itoa(*v.Capacity)
		}
		equipment := v.Equipment
		if equipment == "" {
			equipment = "Non spécifiés"
		}
		fmt.Fprintf(&b, "%d. %s\n", i+1, name)
		fmt.Fprintf(&b, "   Type: %s\n", orDefault(v.Type, "Non spécifié"))
		fmt.Fprintf(&b, "   Capacité: %s\n", capacity)
		fmt.Fprintf(&b, "   Équipements: %s\n", equipment)
		fmt.Fprintf(&b, "   Adresse: %s\n", orDefault(v.Address, "Non spécifiée"))
		fmt.Fprintf(&b, "   Prix: %s\n\n", orDefault(v.Price, "Non spécifié"))
	}
	return b.String()
}

// RenderActivities lists every category followed by its activities, in
// catalog order.
func RenderActivities(cat *domain.ActivityCatalog) string {
	var b strings.Builder
	b.WriteString(activityHeader)
	for _, c := range cat.Categories() {
		fmt.Fprintf(&b, "CATÉGORIE: %s\n", c)
		for _, a := range cat.Activities(c) {
			fmt.Fprintf(&b, "- %s\n", a)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func orDefault(s *string, def string) string {
	if s == nil || *s == "" {
		return def
	}
	return *s
}
