package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

func TestLogger_RecordsRoutePattern(t *testing.T) {
	var buf bytes.Buffer
	m := chi.NewRouter()
	m.Use(chimw.RequestID)
	m.Use(Logger(zerolog.New(&buf)))
	m.Get("/v1/things/{id}", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusTeapot) })

	req := httptest.NewRequest(http.MethodGet, "/v1/things/42", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	m.ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line: %v (%s)", err, buf.String())
	}
	if line["route"] != "/v1/things/{id}" || line["status"] != float64(http.StatusTeapot) {
		t.Fatalf("unexpected log line: %v", line)
	}
	if line["remote"] != "203.0.113.7" || line["request_id"] == "" {
		t.Fatalf("unexpected request fields: %v", line)
	}
}

func TestRequireKey(t *testing.T) {
	h := RequireKey("k")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }))

	for _, tc := range []struct {
		url  string
		want int
	}{
		{"/x?key=k", http.StatusNoContent},
		{"/x?key=nope", http.StatusForbidden},
		{"/x", http.StatusForbidden},
	} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.url, nil))
		if rec.Code != tc.want {
			t.Fatalf("%s: status %d, want %d", tc.url, rec.Code, tc.want)
		}
	}

	empty := RequireKey("")(h)
	rec := httptest.NewRecorder()
	empty.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x?key=", nil))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("empty key must never authorize, got %d", rec.Code)
	}
}
