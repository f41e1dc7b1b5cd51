package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/llmvitals/llmvitals/internal/domain"
	"github.com/llmvitals/llmvitals/internal/repo"
)

// Server exposes read-only access to persisted monitoring results.
type Server struct {
	Logger  *zap.Logger
	Results repo.ResultStore
}

func NewServer(l *zap.Logger, rs repo.ResultStore) *Server {
	return &Server{Logger: l, Results: rs}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/api/results", s.handleListResults)
	r.Get("/api/monitors", s.handleListMonitors)
	r.Get("/api/series/{seriesID}", s.handleSeries)

	return r
}

func (s *Server) handleListResults(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := intParam(q.Get("limit"), 100)
	if limit <= 0 {
		limit = 100
	}
	if limit > 1000 {
		limit = 1000
	}
	offset := intParam(q.Get("offset"), 0)

	rows, err := s.Results.ListByMonitor(r.Context(), q.Get("monitor"), limit, offset)
	if err != nil {
		s.Logger.Error("list_results_error", zap.Error(err))
		http.Error(w, "list error", http.StatusInternalServerError)
		return
	}
	writeJSON(w, emptyIfNil(rows))
}

func (s *Server) handleListMonitors(w http.ResponseWriter, r *http.Request) {
	names, err := s.Results.Monitors(r.Context())
	if err != nil {
		s.Logger.Error("list_monitors_error", zap.Error(err))
		http.Error(w, "list error", http.StatusInternalServerError)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, names)
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	seriesID := chi.URLParam(r, "seriesID")
	rows, err := s.Results.BySeries(r.Context(), seriesID)
	if err != nil {
		s.Logger.Error("series_error", zap.String("series", seriesID), zap.Error(err))
		http.Error(w, "series error", http.StatusInternalServerError)
		return
	}
	if len(rows) == 0 {
		http.Error(w, "unknown series", http.StatusNotFound)
		return
	}
	writeJSON(w, rows)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func emptyIfNil(rows []*domain.MonitoringResult) []*domain.MonitoringResult {
	if rows == nil {
		return []*domain.MonitoringResult{}
	}
	return rows
}

func intParam(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return def
	}
	return n
}
