// Package server provides the HTTP API for movierec.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/movierec/internal/config"
	"github.com/hyperjump/movierec/internal/metrics"
	"github.com/hyperjump/movierec/internal/recommend"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server is the HTTP server for the movierec API.
type Server struct {
	engine    atomic.Pointer[recommend.Engine]
	config    *config.ServerConfig
	recommend *config.RecommendConfig
	logger    *zap.Logger
	server    *http.Server
}

// NewServer creates a server. engine may be nil when the catalog failed to load; data
// routes then answer 503 until SetEngine is called.
func NewServer(
	engine *recommend.Engine,
	cfg *config.ServerConfig,
	recCfg *config.RecommendConfig,
	logger *zap.Logger,
) *Server {
	s := &Server{
		config:    cfg,
		recommend: recCfg,
		logger:    logger,
	}
	s.SetEngine(engine)
	return s
}

// SetEngine swaps the serving engine. In-flight requests keep the engine they started with.
func (s *Server) SetEngine(e *recommend.Engine) {
	s.engine.Store(e)
	if e != nil {
		metrics.SetEngineSize(e.Size(), e.VocabularySize())
	}
}

// Engine returns the serving engine, or nil.
func (s *Server) Engine() *recommend.Engine {
	return s.engine.Load()
}

// Router builds the chi router with all middleware and routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	if s.config.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.config.RequestTimeout))
	}
	r.Use(corsHandler(s.config.FrontendURL))
	r.Use(rateLimit(s.config.RateLimit))

	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Get("/genres", s.handleGenres)
	r.Get("/movies/random", s.handleRandom)
	r.Get("/movies/search", s.handleSearch)
	r.Post("/recommend/genre", s.handleRecommendGenre)
	r.Post("/recommend/feedback", s.handleRecommendFeedback)
	r.Get("/api/v1/status", s.handleStatus)
	r.Handle("/metrics", promhttp.Handler())
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
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
