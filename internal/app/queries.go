package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"seminary/internal/domain"
)

const defaultReviewLimit = 5

func reviewsKey(placeID string) string { return "reviews:" + placeID }

// ReviewService serves venue reviews from the cache, then the repository,
// then a live Places fetch. Every dependency is optional.
type ReviewService struct {
	places   domain.PlacesClient
	repo     domain.ReviewRepository
	cache    domain.Cache
	cacheTTL time.Duration
	limit    int
}

func NewReviewService(p domain.PlacesClient, r domain.ReviewRepository, c domain.Cache, ttl time.Duration, limit int) *ReviewService {
	if limit <= 0 {
		limit = defaultReviewLimit
	}
	return &ReviewService{places: p, repo: r, cache: c, cacheTTL: ttl, limit: limit}
}

// VenueReviews never fails: any error degrades to an empty list.
func (s *ReviewService) VenueReviews(ctx context.Context, placeID string) []domain.Review {
	out := []domain.Review{}
	if s == nil || placeID == "" {
		return out
	}
	key := reviewsKey(placeID)

	if s.cache != nil {
		var cached []domain.Review
		if ok, err := s.cache.Get(ctx, key, &cached); err != nil {
			log.Warn().Err(err).Str("place_id", placeID).Msg("review cache read failed")
		} else if ok {
			return nonNil(cached)
		}
	}

	if s.repo != nil {
		stored, err := s.repo.ListReviews(ctx, placeID, s.limit)
		if err != nil {
			log.Warn().Err(err).Str("place_id", placeID).Msg("review repository read failed")
		} else if len(stored) > 0 {
			s.store(ctx, key, stored)
			return stored
		}
	}

	if s.places == nil {
		return out
	}
	live, err := s.places.GetReviews(ctx, placeID)
	if err != nil {
		log.Warn().Err(err).Str("place_id", placeID).Msg("places reviews unavailable")
		return out
	}
	if len(live) > s.limit {
		live = live[:s.limit]
	}
	if s.repo != nil && len(live) > 0 {
		if err := s.repo.UpsertReviews(ctx, placeID, live); err != nil {
			log.Warn().Err(err).Str("place_id", placeID).Msg("store reviews failed")
		}
	}
	s.store(ctx, key, live)
	return nonNil(live)
}

func (s *ReviewService) store(ctx context.Context, key string, rs []domain.Review) {
	if s.cache == nil {
		return
	}
	// copy so later mutation by a caller cannot leak into an in-memory cache
	cp := make([]domain.Review, len(rs))
	copy(cp, rs)
	_ = s.cache.Set(ctx, key, cp, int(s.cacheTTL.Seconds()))
}

func nonNil(rs []domain.Review) []domain.Review {
	if rs == nil {
		return []domain.Review{}
	}
	return rs
}
