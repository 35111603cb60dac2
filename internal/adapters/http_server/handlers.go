// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"seminary/internal/adapters/deepseek"
	"seminary/internal/app"
	"seminary/internal/calllog"
)

const maxBodyBytes = 64 << 10

type Handlers struct {
	Recs    *app.RecommendationService
	Calls   *calllog.Log
	LogsKey string // shared secret for the call-log routes
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type recommendRequest struct {
	Query string `json:"query"`
}

type logsResponse struct {
	Count     int             `json:"count"`
	SessionID string          `json:"session_id"`
	Logs      []calllog.Entry `json:"logs"`
}

type statusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/v1/recommendations", h.recommend)
	s.mux.Get("/v1/venues/details", h.venueDetails)
	s.mux.Get("/v1/activities", h.activities)
	s.mux.Group(func(r chi.Router) {
		r.Use(RequireKey(h.LogsKey))
		r.Get("/v1/api-logs", h.apiLogs)
		r.Post("/v1/api-logs/clear", h.clearAPILogs)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCached serves v with an ETag and honours If-None-Match.
func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write cached body")
	}
}

// readQuery accepts {"query": "..."} or a form field named description.
func readQuery(w http.ResponseWriter, r *http.Request) (string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" {
		var req recommendRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return "", err
		}
		return req.Query, nil
	}
	if err := r.ParseForm(); err != nil {
		return "", err
	}
	if q := r.PostForm.Get("description"); q != "" {
		return q, nil
	}
	return r.PostForm.Get("query"), nil
}

func (h *Handlers) recommend(w http.ResponseWriter, r *http.Request) {
	q, err := readQuery(w, r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid body", "expected JSON {\"query\": ...} or a description form field")
		return
	}

	rec, err := h.Recs.Recommend(r.Context(), q)
	var callErr *deepseek.CallError
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, rec)
	case errors.Is(err, app.ErrEmptyQuery):
		writeProblem(w, http.StatusBadRequest, "Empty query", "Veuillez décrire votre séminaire.")
	case errors.Is(err, app.ErrNoRecommendation):
		writeProblem(w, http.StatusNotFound, "No recommendation", "Aucun lieu ou activité ne correspond à votre demande.")
	case errors.As(err, &callErr):
		log.Warn().Str("kind", callErr.Kind.String()).Msg("generator call failed")
		writeProblem(w, http.StatusBadGateway, "Generator failure", callErr.Error())
	default:
		log.Error().Err(err).Msg("recommendation failed")
		writeProblem(w, http.StatusBadGateway, "Generator failure", "Une erreur est survenue lors du traitement de votre demande.")
	}
}

func (h *Handlers) venueDetails(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeProblem(w, http.StatusBadRequest, "Missing name", "name query parameter is required")
		return
	}
	rec, err := h.Recs.VenueDetails(r.Context(), name)
	if err != nil {
		writeProblem(w, http.StatusNotFound, "Not Found", "venue not found")
		return
	}
	writeCached(w, r, rec)
}

func (h *Handlers) activities(w http.ResponseWriter, r *http.Request) {
	writeCached(w, r, h.Recs.Catalog().Activities().Ordered())
}

func (h *Handlers) apiLogs(w http.ResponseWriter, r *http.Request) {
	// unparsable count means everything, like an absent one
	count, _ := strconv.Atoi(r.URL.Query().Get("count"))
	logs := h.Calls.Snapshot(count)
	out := logsResponse{Count: len(logs), SessionID: h.Calls.SessionID(), Logs: logs}
	if strings.EqualFold(r.URL.Query().Get("clear"), "true") {
		h.Calls.Clear()
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handlers) clearAPILogs(w http.ResponseWriter, r *http.Request) {
	h.Calls.Clear()
	writeJSON(w, http.StatusOK, statusResponse{Status: "success", Message: "Logs API effacés avec succès"})
}
