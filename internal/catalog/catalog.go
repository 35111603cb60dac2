package catalog

import (
	"strings"

	"seminary/internal/domain"
	"seminary/internal/textnorm"
)

// Catalog is built once at startup and only read afterwards.
type Catalog struct {
	venues     []domain.Venue
	activities *domain.ActivityCatalog
}

func New(venues []domain.Venue, activities *domain.ActivityCatalog) *Catalog {
	vs := make([]domain.Venue, len(venues))
	copy(vs, venues)
	if activities == nil {
		activities = domain.NewActivityCatalog()
	}
	return &Catalog{venues: vs, activities: activities}
}

func Load(venuesPath, activitiesPath string) *Catalog {
	return New(LoadVenues(venuesPath), LoadActivities(activitiesPath))
}

func (c *Catalog) Venues() []domain.Venue {
	out := make([]domain.Venue, len(c.venues))
	copy(out, c.venues)
	return out
}

func (c *Catalog) Activities() *domain.ActivityCatalog { return c.activities }

func (c *Catalog) VenueNames() []string {
	out := make([]string, 0, len(c.venues))
	for _, v := range c.venues {
		if v.Name != "" {
			out = append(out, v.Name)
		}
	}
	return out
}

// ActivityNames lists every activity entry in catalog order.
func (c *Catalog) ActivityNames() []string {
	var out []string
	for _, cat := range c.activities.Categories() {
		out = append(out, c.activities.Activities(cat)...)
	}
	return out
}

// Venue returns the first venue whose name equals name exactly.
func (c *Catalog) Venue(name string) (domain.Venue, bool) {
	for _, v := range c.venues {
		if v.Name == name {
			return v, true
		}
	}
	return domain.Venue{}, false
}

// Lookup finds a venue by loose name matching, falling back to the place
// identifier, which often embeds the full name.
func (c *Catalog) Lookup(name string) (domain.Venue, bool) {
	for _, v := range c.venues {
		if textnorm.NamesMatch(v.Name, name) {
			return v, true
		}
	}
	want := textnorm.Normalize(name)
	if want == "" {
		return domain.Venue{}, false
	}
	for _, v := range c.venues {
		if v.PlaceID != "" && containsNormalized(v.PlaceID, want) {
			return v, true
		}
	}
	return domain.Venue{}, false
}

// PhotoReferences returns the photo tokens of the first loosely matching
// venue that has any.
func (c *Catalog) PhotoReferences(name string) []string {
	if name == "" {
		return nil
	}
	for _, v := range c.venues {
		if len(v.Photos) > 0 && textnorm.NamesMatch(v.Name, name) {
			out := make([]string, len(v.Photos))
			copy(out, v.Photos)
			return out
		}
	}
	return nil
}

// PlaceID returns the place identifier of the venue named exactly name.
func (c *Catalog) PlaceID(name string) string {
	for _, v := range c.venues {
		if v.Name == name && v.PlaceID != "" {
			return v.PlaceID
		}
	}
	return ""
}

func containsNormalized(haystack, normalizedNeedle string) bool {
	return strings.Contains(textnorm.Normalize(haystack), normalizedNeedle)
}
