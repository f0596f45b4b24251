package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/stavrosk/wealth-compass/internal/modules/advisor"
	"github.com/stavrosk/wealth-compass/internal/modules/behavioral"
	"github.com/stavrosk/wealth-compass/internal/modules/health"
	"github.com/stavrosk/wealth-compass/internal/modules/projection"
	"github.com/stavrosk/wealth-compass/internal/modules/spending"
)

// Config holds server configuration
type Config struct {
	Port       int
	Log        zerolog.Logger
	DevMode    bool
	Behavioral *behavioral.Service
	Advisor    *advisor.Service
	Projection *projection.Service
	Health     *health.StateMachine
	Evaluator  *health.Evaluator
	Spending   *spending.Service
}

// Server exposes the analytics engine over HTTP. Authentication, caching and
// the rest of the web tier live in the gateway in front of this service.
type Server struct {
	router     *chi.Mux
	server     *http.Server
	log        zerolog.Logger
	behavioral *behavioral.Service
	advisor    *advisor.Service
	projection *projection.Service
	health     *health.StateMachine
	evaluator  *health.Evaluator
	spending   *spending.Service
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:     chi.NewRouter(),
		log:        cfg.Log.With().Str("component", "server").Logger(),
		behavioral: cfg.Behavioral,
		advisor:    cfg.Advisor,
		projection: cfg.Projection,
		health:     cfg.Health,
		evaluator:  cfg.Evaluator,
		spending:   cfg.Spending,
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // projections can take a few seconds
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)

	if devMode {
		s.router.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))
	}
}

// setupRoutes registers the analytics routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleLiveness)

	s.router.Route("/api/users/{userID}", func(r chi.Router) {
		r.Get("/behavioral", s.handleGetBehavioralScore)
		r.Post("/behavioral/refresh", s.handleRefreshBehavioralScore)
		r.Get("/recommendation", s.handleGetRecommendation)
		r.Post("/goals/{goalID}/projection", s.handleProjectGoal)
		r.Get("/state", s.handleGetState)
		r.Post("/state/transition", s.handleTransition)
		r.Post("/state/evaluate", s.handleEvaluate)
		r.Get("/spending", s.handleGetSpendingMetric)
		r.Post("/spending/recompute", s.handleRecomputeSpending)
	})

	s.router.Get("/api/goals/{goalID}/projection", s.handleGetLatestProjection)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("HTTP server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
