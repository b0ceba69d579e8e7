// Package server provides the HTTP API and browser UI for cinematch.
package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/hyperjump/cinematch/internal/config"
	"github.com/hyperjump/cinematch/internal/metrics"
	"github.com/hyperjump/cinematch/internal/models"
	"github.com/hyperjump/cinematch/internal/recommend"
	"github.com/hyperjump/cinematch/internal/ui"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Recommender is the read-only index the server queries.
type Recommender interface {
	Recommend(title string, topN int) ([]*models.Recommendation, error)
	Query(q *models.RecommendQuery, defaultN, maxN int) (*models.RecommendResponse, error)
	ListTitles() []string
	SearchTitles(ctx context.Context, query string, limit int) ([]string, error)
	Suggest(ctx context.Context, title string, limit int) []string
	Stats() recommend.Stats
}

// Server is the HTTP server for the cinematch API.
type Server struct {
	index   Recommender
	ratings *models.Shape
	config  *config.Config
	logger  *zap.Logger
	server  *http.Server
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithRatingsShape reports the ratings table shape on /status.
func WithRatingsShape(shape models.Shape) ServerOption {
	return func(s *Server) { s.ratings = &shape }
}

// NewServer creates a server with the given dependencies.
func NewServer(index Recommender, cfg *config.Config, logger *zap.Logger, opts ...ServerOption) *Server {
	s := &Server{
		index:  index,
		config: cfg,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the HTTP handler.
func (s *Server) Router() (http.Handler, error) {
	page, err := ui.NewHandler(s.index, s.logger)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	if s.config.HTTP.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.config.HTTP.RequestTimeout))
	}
	r.Use(middleware.Compress(5))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.config.HTTP.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(instrument)

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(s.rateLimit())
		r.Get("/movies", s.handleMovies)
		r.Get("/recommend", s.handleRecommend)
		r.Get("/status", s.handleStatus)
		r.Get("/", page.Index)
		r.Post("/ui/recommend", page.Recommend)
	})
	return r, nil
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	handler, err := s.Router()
	if err != nil {
		return err
	}
	addr := s.config.Server.Addr()
	s.server = &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

func (s *Server) rateLimit() func(http.Handler) http.Handler {
	if s.config.HTTP.RateLimitDisabled {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		s.config.HTTP.RateLimitRequests,
		s.config.HTTP.RateLimitWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
	)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("elapsed", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

// unmatchedRoute is the route label for requests that match no route.
const unmatchedRoute = "unmatched"

// instrument records request metrics labelled by route pattern.
func instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		route := unmatchedRoute
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		metrics.RecordAPIRequest(r.Method, route, strconv.Itoa(status), time.Since(start))
	})
}
