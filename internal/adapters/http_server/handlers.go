// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"review_insights/internal/app"
	"review_insights/internal/domain"
)

type Handlers struct{ S *app.AnalysisService }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/collect", h.collect)
	s.mux.Get("/metrics", h.metrics)
	s.mux.Get("/download", h.download)
	s.mux.Get("/visualize", h.visualize)
	s.mux.Get("/history", h.history)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps pipeline errors onto HTTP problems.
func writeError(w http.ResponseWriter, appID string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidAppID):
		writeProblem(w, http.StatusBadRequest, "Invalid app_id", "app_id must be a numeric app store identifier")
	case errors.Is(err, domain.ErrNoData):
		writeProblem(w, http.StatusNotFound, "Not Found", "No reviews found for app_id "+appID)
	case errors.Is(err, domain.ErrHistoryDisabled):
		writeProblem(w, http.StatusNotImplemented, "Not Implemented", "run history is not configured")
	case errors.Is(err, domain.ErrPersistence):
		log.Error().Err(err).Str("app_id", appID).Msg("artifact persistence failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "Failed to store review data")
	default:
		log.Error().Err(err).Str("app_id", appID).Msg("request failed")
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal response body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "response encoding failed")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

func (h *Handlers) collect(w http.ResponseWriter, r *http.Request) {
	appID := r.URL.Query().Get("app_id")
	p, err := h.S.Collect(r.Context(), appID)
	if err != nil {
		writeError(w, appID, err)
		return
	}
	writeJSON(w, r, p)
}

func (h *Handlers) metrics(w http.ResponseWriter, r *http.Request) {
	appID := r.URL.Query().Get("app_id")
	out, err := h.S.Analyze(r.Context(), appID)
	if err != nil {
		writeError(w, appID, err)
		return
	}
	writeJSON(w, r, out)
}

func (h *Handlers) download(w http.ResponseWriter, r *http.Request) {
	appID := r.URL.Query().Get("app_id")
	body, name, err := h.S.Download(r.Context(), appID)
	if err != nil {
		writeError(w, appID, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write download body")
	}
}

func (h *Handlers) visualize(w http.ResponseWriter, r *http.Request) {
	appID := r.URL.Query().Get("app_id")
	out, err := h.S.Visualize(r.Context(), appID)
	if err != nil {
		writeError(w, appID, err)
		return
	}
	writeJSON(w, r, out)
}

func (h *Handlers) history(w http.ResponseWriter, r *http.Request) {
	appID := r.URL.Query().Get("app_id")

	limit := 20
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 200 {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 200")
			return
		}
		limit = l
	}
	runs, err := h.S.History(r.Context(), appID, limit)
	if err != nil {
		writeError(w, appID, err)
		return
	}
	writeJSON(w, r, runs)
}
