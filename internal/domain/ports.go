package domain

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("not found")
	ErrDenied   = errors.New("request denied")
)

type ReviewRepository interface {
	UpsertReviews(ctx context.Context, placeID string, rs []Review) error
	ListReviews(ctx context.Context, placeID string, limit int) ([]Review, error)
	LogMiss(ctx context.Context, placeID string, status int, reason string) error
}

type PlacesClient interface {
	GetReviews(ctx context.Context, placeID string) ([]Review, error)
}

// Generator is the external language-generation service.
type Generator interface {
	Call(ctx context.Context, prompt, contextData, systemInstruction string) (string, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
