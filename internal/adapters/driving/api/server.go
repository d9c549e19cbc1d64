// Package api exposes the search surface over HTTP: ranked search, health
// and index statistics. Sync runs stay on the CLI; the API is read-only.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/custodia-labs/docsync/internal/core/domain"
	"github.com/custodia-labs/docsync/internal/core/ports/driven"
	"github.com/custodia-labs/docsync/internal/core/ports/driving"
	"github.com/custodia-labs/docsync/internal/logger"
)

// maxSearchLimit caps the per-request result count.
const maxSearchLimit = 100

// SearchResponse is the /search payload.
type SearchResponse struct {
	Query        string                `json:"query"`
	TotalResults int                   `json:"total_results"`
	Results      []domain.SearchResult `json:"results"`
}

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status         string `json:"status"`
	IndexReachable bool   `json:"index_reachable"`
}

// StatsResponse is the /stats payload.
type StatsResponse struct {
	TotalDocuments int `json:"total_documents"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server serves the search API.
type Server struct {
	searcher driving.Searcher
	index    driven.SearchIndex
	httpSrv  *http.Server
}

// NewServer builds a server listening on addr.
func NewServer(addr string, searcher driving.Searcher, index driven.SearchIndex) *Server {
	s := &Server{
		searcher: searcher,
		index:    index,
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Get("/search", s.handleSearch)
	r.Get("/stats", s.handleStats)

	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.httpSrv.Handler
}

// ListenAndServe blocks serving requests until Shutdown is called.
func (s *Server) ListenAndServe() error {
	logger.Info("Search API listening on %s", s.httpSrv.Addr)
	err := s.httpSrv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": "docsync search API",
		"endpoints": map[string]string{
			"search": "/search?q=<query>&limit=<optional_limit>",
			"health": "/health",
			"stats":  "/stats",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	reachable := s.index.Ping(r.Context()) == nil

	status := "healthy"
	code := http.StatusOK
	if !reachable {
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, HealthResponse{Status: status, IndexReachable: reachable})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = parsed
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	results, err := s.searcher.Search(r.Context(), query, domain.SearchOptions{Limit: limit})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		logger.Warn("Search request failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "search failed"})
		return
	}

	if results == nil {
		results = []domain.SearchResult{}
	}
	writeJSON(w, http.StatusOK, SearchResponse{
		Query:        query,
		TotalResults: len(results),
		Results:      results,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	ids, err := s.index.ListIDs(r.Context())
	if err != nil {
		logger.Warn("Stats request failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to read index statistics"})
		return
	}
	writeJSON(w, http.StatusOK, StatsResponse{TotalDocuments: len(ids)})
}

func writeJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Warn("Failed to encode response: %v", err)
	}
}
