package places_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"seminary/internal/adapters/places"
	"seminary/internal/calllog"
	"seminary/internal/domain"
)

func reviewsBody(n int) map[string]any {
	rs := make([]any, 0, n)
	for i := 0; i < n; i++ {
		rs = append(rs, map[string]any{
			"author_name": "Client", "rating": 4.0, "text": "Très bien",
			"relative_time_description": "il y a un mois", "time": 1700000000 + i,
		})
	}
	return map[string]any{"status": "OK", "result": map[string]any{"reviews": rs}}
}

func TestClient_GetReviews_RetriesThenSuccess(t *testing.T) {
	var hits int32
	var gotQuery string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch atomic.AddInt32(&hits, 1) {
		case 1, 2:
			// two transient failures
			w.WriteHeader(500)
		default:
			gotQuery = r.URL.RawQuery
			if r.URL.Path != "/details/json" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			_ = json.NewEncoder(w).Encode(reviewsBody(7))
		}
	}))
	defer ts.Close()

	calls := calllog.New(10)
	cl, err := places.New(ts.URL, "AIzaSyTestKeyTestKeyTestKeyTestKey1234", 100, places.WithCallLog(calls))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	got, err := cl.GetReviews(ctx, "ChIJ123")
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(got) != places.DefaultLimit {
		t.Fatalf("expected %d reviews, got %d", places.DefaultLimit, len(got))
	}
	if got[0].PlaceID != "ChIJ123" || got[0].Author != "Client" || got[0].Rating != 4 {
		t.Fatalf("unexpected review: %+v", got[0])
	}
	if atomic.LoadInt32(&hits) < 3 {
		t.Fatalf("expected at least 3 calls due to retries, got %d", hits)
	}
	for _, want := range []string{"place_id=ChIJ123", "fields=reviews", "language=fr", "key=AIza"} {
		if !strings.Contains(gotQuery, want) {
			t.Fatalf("query %q missing %q", gotQuery, want)
		}
	}

	entries := calls.Snapshot(0)
	if len(entries) != 1 || entries[0].Status != calllog.StatusSuccess {
		t.Fatalf("unexpected call log: %+v", entries)
	}
	b, _ := json.Marshal(entries)
	if strings.Contains(string(b), "AIzaSyTestKey") {
		t.Fatalf("api key leaked into call log: %s", b)
	}
}

func TestClient_GetReviews_StatusMapping(t *testing.T) {
	cases := []struct {
		status string
		want   error
	}{
		{"NOT_FOUND", domain.ErrNotFound},
		{"ZERO_RESULTS", domain.ErrNotFound},
		{"REQUEST_DENIED", domain.ErrDenied},
	}
	for _, tc := range cases {
		t.Run(tc.status, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]any{"status": tc.status, "error_message": "key=AIzaSyLeakLeakLeakLeakLeakLeakLeak99 invalid"})
			}))
			defer ts.Close()

			cl, _ := places.New(ts.URL, "k", 100)
			_, err := cl.GetReviews(context.Background(), "ChIJ")
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if strings.Contains(err.Error(), "AIzaSyLeak") {
				t.Fatalf("error leaks key: %v", err)
			}
		})
	}
}

func TestClient_GetReviews_OtherStatusIsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "OVER_QUERY_LIMIT"})
	}))
	defer ts.Close()

	cl, _ := places.New(ts.URL, "k", 100)
	_, err := cl.GetReviews(context.Background(), "ChIJ")
	if err == nil || errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrDenied) {
		t.Fatalf("expected plain error, got %v", err)
	}
}

func TestClient_GetReviews_NoResult(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"OK"}`))
	}))
	defer ts.Close()

	cl, _ := places.New(ts.URL, "k", 100, places.WithLimit(2))
	got, err := cl.GetReviews(context.Background(), "ChIJ")
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty list, got %v %v", got, err)
	}
}

func TestClient_GetReviews_404(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	cl, err := places.New(ts.URL, "k", 100)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if _, err = cl.GetReviews(ctx, "ChIJ"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err = cl.GetReviews(ctx, ""); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty id, got %v", err)
	}
}

func TestNew_RequiresKey(t *testing.T) {
	if _, err := places.New("", "", 1); err == nil {
		t.Fatalf("expected error without key")
	}
}
