// internal/adapters/places/client.go
package places

import (
	"context"
	crand "crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"seminary/internal/adapters/observability"
	"seminary/internal/calllog"
	"seminary/internal/domain"
)

const (
	DefaultBaseURL = "https://maps.googleapis.com/maps/api/place"
	DefaultLimit   = 5

	// Endpoint is the name entries are logged under.
	Endpoint = "Google Places API"
)

type Client struct {
	base  string
	hc    *http.Client
	key   string
	rl    *rate.Limiter
	limit int
	calls *calllog.Log
}

type Option func(*Client)

// WithCallLog records every request in calls.
func WithCallLog(calls *calllog.Log) Option { return func(c *Client) { c.calls = calls } }

func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.hc = hc } }

// WithLimit caps the number of reviews returned per place.
func WithLimit(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.limit = n
		}
	}
}

func New(base, key string, rps int, opts ...Option) (*Client, error) {
	if key == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if base == "" {
		base = DefaultBaseURL
	}
	if rps <= 0 {
		rps = 5
	}
	c := &Client{
		base:  strings.TrimRight(base, "/"),
		hc:    &http.Client{Timeout: 10 * time.Second},
		key:   key,
		rl:    rate.NewLimiter(rate.Limit(rps), rps),
		limit: DefaultLimit,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

/********** wire types **********/

type detailsResponse struct {
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
	Result       *struct {
		Reviews []placeReview `json:"reviews"`
	} `json:"result,omitempty"`
}

type placeReview struct {
	AuthorName              string  `json:"author_name"`
	ProfilePhotoURL         string  `json:"profile_photo_url"`
	Rating                  float64 `json:"rating"`
	Text                    string  `json:"text"`
	RelativeTimeDescription string  `json:"relative_time_description"`
	Time                    int64   `json:"time"`
	Language                string  `json:"language"`
}

/********** public API **********/

// GetReviews fetches up to the configured number of French reviews for a
// place. NOT_FOUND and ZERO_RESULTS map to domain.ErrNotFound and
// REQUEST_DENIED to domain.ErrDenied.
func (c *Client) GetReviews(ctx context.Context, placeID string) ([]domain.Review, error) {
	if placeID == "" {
		return nil, domain.ErrNotFound
	}
	q := url.Values{}
	q.Set("place_id", placeID)
	q.Set("fields", "reviews")
	q.Set("language", "fr")
	q.Set("key", c.key)
	u := c.base + "/details/json?" + q.Encode()

	var out detailsResponse
	err := c.get(ctx, u, &out)
	c.record(placeID, &out, err)
	if err != nil {
		return nil, err
	}

	switch out.Status {
	case "OK":
	case "NOT_FOUND", "ZERO_RESULTS", "INVALID_REQUEST":
		return nil, fmt.Errorf("places %s: %w", out.Status, domain.ErrNotFound)
	case "REQUEST_DENIED":
		return nil, fmt.Errorf("places %s: %s: %w", out.Status, calllog.Redact(out.ErrorMessage), domain.ErrDenied)
	default:
		return nil, fmt.Errorf("places status %s: %s", out.Status, calllog.Redact(out.ErrorMessage))
	}
	if out.Result == nil {
		return []domain.Review{}, nil
	}
	return mapReviews(placeID, out.Result.Reviews, c.limit), nil
}

func mapReviews(placeID string, in []placeReview, limit int) []domain.Review {
	if len(in) > limit {
		in = in[:limit]
	}
	out := make([]domain.Review, 0, len(in))
	for _, r := range in {
		author := r.AuthorName
		if author == "" {
			author = "Anonyme"
		}
		out = append(out, domain.Review{
			PlaceID:         placeID,
			Author:          author,
			ProfilePhotoURL: r.ProfilePhotoURL,
			Rating:          r.Rating,
			Text:            r.Text,
			RelativeTime:    r.RelativeTimeDescription,
			Time:            r.Time,
			Lang:            r.Language,
		})
	}
	return out
}

func (c *Client) record(placeID string, out *detailsResponse, err error) {
	if c.calls == nil {
		return
	}
	in := calllog.Input{Data: map[string]string{"place_id": placeID, "fields": "reviews", "language": "fr"}}
	if err != nil {
		c.calls.Append(Endpoint, 1, in, calllog.ErrorOutput(err.Error()), calllog.StatusError)
		return
	}
	status := calllog.StatusSuccess
	if out.Status != "OK" {
		status = calllog.StatusError
	}
	n := 0
	if out.Result != nil {
		n = len(out.Result.Reviews)
	}
	c.calls.Append(Endpoint, 1, in, map[string]any{"status": out.Status, "reviews": n}, status)
}

/********** internals **********/

// get performs a GET with client-side rate limiting, retries, and JSON decode into out.
// Retries on 429 and transient 5xx, honoring Retry-After when provided.
func (c *Client) get(ctx context.Context, u string, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var lastErr error
	for i := 0; i < 4; i++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "seminary/1.0")

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			observability.ObserveExternal("places", "details", 0, time.Since(start))
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// url.Error carries the full URL, key included
			lastErr = fmt.Errorf("places request: %s", calllog.Redact(err.Error()))
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr
		}
		observability.ObserveExternal("places", "details", resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			return err

		case http.StatusNotFound:
			resp.Body.Close()
			return domain.ErrNotFound

		case http.StatusUnauthorized, http.StatusForbidden:
			resp.Body.Close()
			return fmt.Errorf("remote %d: %w", resp.StatusCode, domain.ErrDenied)

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("remote %d", resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("bad status %d: %s", resp.StatusCode, calllog.Redact(strings.TrimSpace(string(b))))
		}
	}

	return lastErr
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After header (seconds or HTTP-date). Returns 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff returns 200ms, 400ms, 800ms... for retry i, plus up to 50% jitter.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
