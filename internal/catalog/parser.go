// Package catalog reads the venue and activity sources and exposes them as an
// immutable snapshot shared by the request path.
package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"seminary/internal/domain"
)

/********** column registry (header names seen in exports) **********/

var venueColumns = map[string][]string{
	"name":      {"Nom", "nom", "name"},
	"equipment": {"équipements", "Équipements", "equipements", "equipment"},
	"photos":    {"photo_reference", "photo_references", "photos"},
	"place_id":  {"place_id", "placeId"},
	"composite": {"COMPLET", "complet", "composite"},
}

const photoSeparator = "||||"

/********** composite block labels **********/

var (
	reCapacity = regexp.MustCompile(`Capacité\s*:\s*(\d+)`)
	reType     = regexp.MustCompile(`Type\s*:\s*([^\n]+)`)
	reAddress  = regexp.MustCompile(`Adresse\s*:\s*([^\n]+)`)
	reImageURL = regexp.MustCompile(`(?i)image url\s*:\s*([^\n]+)`)
	rePrice    = regexp.MustCompile(`Prix par personne\s*:\s*([^\n]+)`)
)

func labeled(re *regexp.Regexp, block string) *string {
	m := re.FindStringSubmatch(block)
	if m == nil {
		return nil
	}
	v := strings.TrimSpace(m[1])
	return &v
}

func parseCapacity(block string) *int {
	m := reCapacity.FindStringSubmatch(block)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 0 {
		return nil
	}
	return &n
}

func splitPhotos(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, photoSeparator) {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// venueFromComposite builds one record; sub-fields whose label is missing stay nil.
func venueFromComposite(name, equipment, photos, placeID, block string) domain.Venue {
	return domain.Venue{
		Name:      strings.TrimSpace(name),
		Type:      labeled(reType, block),
		Capacity:  parseCapacity(block),
		Address:   labeled(reAddress, block),
		Equipment: strings.TrimSpace(equipment),
		Price:     labeled(rePrice, block),
		ImageURL:  labeled(reImageURL, block),
		Photos:    splitPhotos(photos),
		PlaceID:   strings.TrimSpace(placeID),
		Composite: block,
	}
}

/********** venues **********/

// ParseVenues reads the venue export. Rows without a composite block are
// skipped. Any read failure is logged and yields an empty list.
func ParseVenues(r io.Reader) []domain.Venue {
	out, err := readVenues(r)
	if err != nil {
		log.Warn().Err(err).Msg("venue catalog unavailable")
		return []domain.Venue{}
	}
	log.Info().Int("venues", len(out)).Msg("venue catalog loaded")
	return out
}

func readVenues(r io.Reader) ([]domain.Venue, error) {
	cr := newReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	idx := indexColumns(header, venueColumns)
	if _, ok := idx["composite"]; !ok {
		return nil, errors.New("composite column missing from header")
	}

	out := []domain.Venue{}
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		cell := func(key string) string {
			i, ok := idx[key]
			if !ok || i >= len(row) {
				return ""
			}
			return row[i]
		}
		block := cell("composite")
		if strings.TrimSpace(block) == "" {
			continue
		}
		out = append(out, venueFromComposite(cell("name"), cell("equipment"), cell("photos"), cell("place_id"), block))
	}
}

/********** activities **********/

// ParseActivities reads the two-column activity export in a single pass.
// A non-empty first cell opens (or reopens) a category; a non-empty second
// cell is appended to the open category. Failures yield an empty catalog.
func ParseActivities(r io.Reader) *domain.ActivityCatalog {
	cat, err := readActivities(r)
	if err != nil {
		log.Warn().Err(err).Msg("activity catalog unavailable")
		return domain.NewActivityCatalog()
	}
	log.Info().Int("categories", cat.Len()).Msg("activity catalog loaded")
	return cat
}

func readActivities(r io.Reader) (*domain.ActivityCatalog, error) {
	cat := domain.NewActivityCatalog()
	cr := newReader(r)
	current := ""
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return cat, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(row) < 2 {
			continue
		}
		if c := strings.TrimSpace(row[0]); c != "" {
			current = c
			cat.StartCategory(current)
		}
		if a := strings.TrimSpace(row[1]); a != "" && current != "" {
			cat.Add(current, a)
		}
	}
}

/********** files **********/

// LoadVenues opens path and parses it; a missing file is "no venues".
func LoadVenues(path string) []domain.Venue {
	f, err := os.Open(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("venue catalog unavailable")
		return []domain.Venue{}
	}
	defer f.Close()
	return ParseVenues(f)
}

func LoadActivities(path string) *domain.ActivityCatalog {
	f, err := os.Open(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("activity catalog unavailable")
		return domain.NewActivityCatalog()
	}
	defer f.Close()
	return ParseActivities(f)
}

/********** helpers **********/

func newReader(r io.Reader) *csv.Reader {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	return cr
}

// indexColumns maps registry keys to header positions (first alias wins).
func indexColumns(header []string, aliases map[string][]string) map[string]int {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, seen := pos[h]; !seen {
			pos[h] = i
		}
	}
	out := make(map[string]int, len(aliases))
	for key, names := range aliases {
		for _, n := range names {
			if i, ok := pos[n]; ok {
				out[key] = i
				break
			}
		}
	}
	return out
}
