package app

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"seminary/internal/adapters/observability"
	"seminary/internal/calllog"
	"seminary/internal/catalog"
	"seminary/internal/domain"
	"seminary/internal/extract"
	"seminary/internal/query"
)

var (
	ErrEmptyQuery       = errors.New("empty query")
	ErrNoRecommendation = errors.New("no matching recommendation")
	ErrVenueNotFound    = errors.New("venue not found")
)

// RecommendationService turns a free-text request into one recommended
// venue or activity.
type RecommendationService struct {
	catalog      *catalog.Catalog
	generator    domain.Generator
	reviews      *ReviewService
	calls        *calllog.Log
	instructions query.Instructions
	deadline     time.Duration
}

type Option func(*RecommendationService)

func WithReviews(r *ReviewService) Option { return func(s *RecommendationService) { s.reviews = r } }

func WithCallLog(l *calllog.Log) Option { return func(s *RecommendationService) { s.calls = l } }

func WithInstructions(in query.Instructions) Option {
	return func(s *RecommendationService) { s.instructions = in }
}

// WithDeadline bounds the whole generator call, retries included.
func WithDeadline(d time.Duration) Option { return func(s *RecommendationService) { s.deadline = d } }

func NewRecommendationService(cat *catalog.Catalog, gen domain.Generator, opts ...Option) *RecommendationService {
	s := &RecommendationService{
		catalog:      cat,
		generator:    gen,
		instructions: query.DefaultInstructions(),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *RecommendationService) Catalog() *catalog.Catalog { return s.catalog }

func (s *RecommendationService) Recommend(ctx context.Context, prompt string) (domain.Recommendation, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return domain.Recommendation{}, ErrEmptyQuery
	}
	if s.calls != nil {
		s.calls.ResetSession()
	}

	plan := query.Build(s.catalog, prompt)
	searchType := domain.KindActivity
	if plan.Classification.IsVenueSearch {
		searchType = domain.KindVenue
	}
	log.Info().
		Str("search_type", string(searchType)).
		Str("city", plan.City).
		Int("candidates", len(plan.Venues)).
		Msg("recommendation requested")

	resp, err := s.generate(ctx, prompt, plan)
	if err != nil {
		observability.ObserveRecommendation(string(searchType), "generator_error")
		return domain.Recommendation{}, err
	}
	if extract.HasErrorMarker(resp) {
		observability.ObserveRecommendation(string(searchType), "declined")
		return domain.Recommendation{}, ErrNoRecommendation
	}

	name, kind := s.pick(resp, searchType)
	if name == "" {
		observability.ObserveRecommendation(string(searchType), "no_match")
		return domain.Recommendation{}, ErrNoRecommendation
	}

	rec := s.assemble(ctx, prompt, resp, name, kind)
	rec.Query = prompt
	rec.SearchType = searchType
	rec.City = plan.City
	observability.ObserveRecommendation(string(searchType), "ok")
	return rec, nil
}

func (s *RecommendationService) generate(ctx context.Context, prompt string, plan query.Plan) (string, error) {
	if s.deadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.deadline)
		defer cancel()
	}
	return s.generator.Call(ctx, prompt, plan.Context, s.instructions.For(plan.Classification))
}

// pick finds the catalog entry the response names first. Activity searches
// may also name an activity.
func (s *RecommendationService) pick(resp string, searchType domain.ItemKind) (string, domain.ItemKind) {
	venues := s.catalog.VenueNames()
	candidates := venues
	if searchType == domain.KindActivity {
		candidates = append(append([]string{}, venues...), s.catalog.ActivityNames()...)
	}
	name := extract.RecommendedName(resp, candidates)
	if name == "" {
		return "", ""
	}
	for _, v := range venues {
		if v == name {
			return name, domain.KindVenue
		}
	}
	return name, domain.KindActivity
}

// assemble runs extraction over resp and attaches venue facts. cardQuery
// feeds the keyword fallback for advantage cards.
func (s *RecommendationService) assemble(ctx context.Context, cardQuery, resp, name string, kind domain.ItemKind) domain.Recommendation {
	desc, rule := extract.Description(resp)
	observability.ObserveExtraction("description", string(rule))
	cards, src := extract.Cards(resp, cardQuery, name)
	observability.ObserveExtraction("cards", string(src))

	rec := domain.Recommendation{
		Name:        name,
		Kind:        kind,
		Description: desc,
		Cards:       cards,
		Reviews:     []domain.Review{},
		Response:    resp,
	}
	if kind != domain.KindVenue {
		return rec
	}
	if v, ok := s.catalog.Venue(name); ok {
		rec.Address = deref(v.Address)
		rec.PlaceID = v.PlaceID
	}
	rec.Photos = s.catalog.PhotoReferences(name)
	rec.Reviews = s.reviews.VenueReviews(ctx, rec.PlaceID)
	return rec
}

/********** venue details **********/

const maxAddressLen = 100

var reShortAddress = regexp.MustCompile(`Adresse\s*:\s*([^,]+(?:,\s*[^,]+){1,3})`)

// VenueDetails describes a catalog venue without calling the generator.
func (s *RecommendationService) VenueDetails(ctx context.Context, name string) (domain.Recommendation, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Recommendation{}, ErrVenueNotFound
	}
	v, ok := s.catalog.Lookup(name)
	if !ok {
		return domain.Recommendation{}, ErrVenueNotFound
	}

	addr := PhysicalAddress(v)
	rec := s.assemble(ctx, "Je cherche "+name, DetailsResponse(v, addr), v.Name, domain.KindVenue)
	rec.Query = "Détails de " + name
	rec.SearchType = domain.KindVenue
	rec.Address = addr
	rec.PlaceID = v.PlaceID
	return rec, nil
}

// PhysicalAddress returns a short postal address for v. Addresses that are
// too long or carry other labels are re-read from the composite block.
func PhysicalAddress(v domain.Venue) string {
	addr := deref(v.Address)
	if utf8.RuneCountInString(addr) <= maxAddressLen &&
		!strings.Contains(addr, "Équipements") && !strings.Contains(addr, "Tarifs") {
		return addr
	}
	if m := reShortAddress.FindStringSubmatch(v.Composite); m != nil {
		return strings.TrimSpace(m[1])
	}
	if i := strings.Index(addr, ","); i >= 0 {
		return addr[:i]
	}
	return addr
}

// DetailsResponse writes a description of v in the same shape the generator
// answers with, so the regular extraction applies.
func DetailsResponse(v domain.Venue, addr string) string {
	kind := deref(v.Type)
	if kind == "" {
		kind = "établissement"
	}
	capacity := "plusieurs"
	if v.Capacity != nil {
		capacity = fmt.Sprint(*v.Capacity)
	}
	equipment := v.Equipment
	equipmentTitle := v.Equipment
	if equipment == "" {
		equipment = "tous les équipements nécessaires"
		equipmentTitle = "Tous les équipements nécessaires"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Bonjour ! Je suis ravi de vous présenter %s, un lieu parfait pour votre séminaire.\n\n", v.Name)
	fmt.Fprintf(&b, "Après analyse de vos besoins, je vous recommande vivement %s qui offre un cadre idéal pour votre événement.\n\n", v.Name)
	fmt.Fprintf(&b, "%s est un %s situé à %s. Il peut accueillir jusqu'à %s personnes et dispose de %s.\n\n",
		v.Name, kind, addr, capacity, equipment)
	b.WriteString("Je vous invite à découvrir ce lieu exceptionnel qui saura répondre à toutes vos attentes.\n\n")
	b.WriteString("AVANTAGES:\n")
	fmt.Fprintf(&b, "- **Emplacement stratégique** : Situé à %s, facilement accessible pour tous vos participants.\n", addr)
	fmt.Fprintf(&b, "- **Équipements professionnels** : %s pour garantir le succès de votre événement.\n", equipmentTitle)
	fmt.Fprintf(&b, "- **Capacité adaptée** : Espace pouvant accueillir jusqu'à %s personnes, parfait pour votre séminaire.\n", capacity)
	return b.String()
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
