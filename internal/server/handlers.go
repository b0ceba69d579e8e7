package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/hyperjump/cinematch/internal/metrics"
	"github.com/hyperjump/cinematch/internal/models"
	"github.com/hyperjump/cinematch/internal/recommend"
	"go.uber.org/zap"
)

const maxMovieSearchLimit = 100

func (s *Server) handleMovies(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		s.respondJSON(w, http.StatusOK, map[string][]string{"movies": s.index.ListTitles()})
		return
	}
	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.respondError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxMovieSearchLimit)
	}
	titles, err := s.index.SearchTitles(r.Context(), q, limit)
	if err != nil {
		s.logger.Error("title search failed", zap.String("q", q), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "title search failed")
		return
	}
	if titles == nil {
		titles = []string{}
	}
	s.respondJSON(w, http.StatusOK, map[string][]string{"movies": titles})
}

func (s *Server) handleRecommend(w http.ResponseWriter, r *http.Request) {
	query := &models.RecommendQuery{Title: r.URL.Query().Get("title")}
	if v := r.URL.Query().Get("n"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			s.respondError(w, http.StatusBadRequest, "n must be a positive integer")
			return
		}
		query.N = n
	}
	s.logger.Debug("recommend request", zap.String("title", query.Title), zap.Int("n", query.N))

	start := time.Now()
	resp, err := s.index.Query(query, s.config.Recommend.DefaultN, s.config.Recommend.MaxN)
	metrics.RecordRecommend(time.Since(start), errors.Is(err, recommend.ErrNotFound))
	switch {
	case errors.Is(err, models.ErrEmptyTitle):
		// Blank titles are rejected even when the catalog holds an untitled row.
		s.respondError(w, http.StatusBadRequest, "title is required")
	case errors.Is(err, recommend.ErrInvalidTopN):
		s.respondError(w, http.StatusBadRequest, "n must be a positive integer")
	case errors.Is(err, recommend.ErrNotFound):
		s.respondJSON(w, http.StatusNotFound, &models.NotFoundResponse{
			Error:       "Movie not found",
			Title:       query.Title,
			Suggestions: s.index.Suggest(r.Context(), query.Title, s.config.Recommend.SuggestionLimit),
		})
	case err != nil:
		s.logger.Error("recommend failed", zap.String("title", query.Title), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, "recommend failed")
	default:
		s.respondJSON(w, http.StatusOK, resp)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type statusResponse struct {
	Status  string          `json:"status"`
	Index   recommend.Stats `json:"index"`
	Ratings *models.Shape   `json:"ratings,omitempty"`
	Config  statusConfig    `json:"config"`
}

type statusConfig struct {
	MoviesPath string `json:"movies_path"`
	DefaultN   int    `json:"default_n"`
	MaxN       int    `json:"max_n"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, &statusResponse{
		Status:  "ready",
		Index:   s.index.Stats(),
		Ratings: s.ratings,
		Config: statusConfig{
			MoviesPath: s.config.Catalog.MoviesPath,
			DefaultN:   s.config.Recommend.DefaultN,
			MaxN:       s.config.Recommend.MaxN,
		},
	})
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
