package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"seminary/internal/domain"
)

// IngestionService refreshes stored reviews from the Places API.
type IngestionService struct {
	places domain.PlacesClient
	repo   domain.ReviewRepository
	cache  domain.Cache
}

func NewIngestionService(p domain.PlacesClient, r domain.ReviewRepository, cache domain.Cache) *IngestionService {
	return &IngestionService{places: p, repo: r, cache: cache}
}

// IngestVenue fetches the venue's reviews and stores them. Unknown or denied
// place identifiers are recorded as misses and are not errors.
func (s *IngestionService) IngestVenue(ctx context.Context, v domain.Venue) error {
	if v.PlaceID == "" {
		log.Debug().Str("venue", v.Name).Msg("no place id, skipping")
		return nil
	}

	revs, err := s.places.GetReviews(ctx, v.PlaceID)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			_ = s.repo.LogMiss(ctx, v.PlaceID, 404, "not found")
		case errors.Is(err, domain.ErrDenied):
			_ = s.repo.LogMiss(ctx, v.PlaceID, 403, "denied")
		default:
			return err
		}
		// evict so a stale snapshot is not served for a dead place
		s.invalidateReviews(ctx, v.PlaceID)
		return nil
	}

	if err := s.repo.UpsertReviews(ctx, v.PlaceID, revs); err != nil {
		return fmt.Errorf("upsert reviews failed for %s: %w", v.PlaceID, err)
	}
	// even with zero reviews, drop any cached list
	s.invalidateReviews(ctx, v.PlaceID)
	return nil
}

func (s *IngestionService) invalidateReviews(ctx context.Context, placeID string) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Del(ctx, reviewsKey(placeID))
}
