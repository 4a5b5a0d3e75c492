// Package server provides the JSON API HTTP server
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/meadcraft/meadery/internal/infrastructure/config"
	"github.com/meadcraft/meadery/internal/infrastructure/http/handlers"
	"github.com/meadcraft/meadery/internal/infrastructure/http/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// Handlers groups the route handlers mounted by the server
type Handlers struct {
	Recipes     *handlers.RecipeHandlers
	Inventory   *handlers.InventoryHandlers
	Settings    *handlers.SettingsHandlers
	Calculators *handlers.CalculatorHandlers
	Health      http.Handler
}

// Instrumentation provides the request metrics middleware and exposition handler
type Instrumentation interface {
	HTTPMiddleware(next http.Handler) http.Handler
	Handler() http.Handler
}

// RequestGuard screens requests before routing
type RequestGuard interface {
	RequestGuard(next http.Handler) http.Handler
}

// ClientLimiter throttles API requests per client
type ClientLimiter interface {
	RateLimitMiddleware(next http.Handler) http.Handler
}

// Option configures optional server middleware
type Option func(*Server)

// WithClientLimiter throttles /api/v1 per client
func WithClientLimiter(l ClientLimiter) Option {
	return func(s *Server) {
		s.limiter = l
	}
}

// Server represents the HTTP server
type Server struct {
	config  *config.Config
	logger  *zap.Logger
	router  *chi.Mux
	server  *http.Server
	metrics Instrumentation
	guard   RequestGuard
	limiter ClientLimiter
}

// NewServer creates a new HTTP server instance. metrics may be nil.
func NewServer(cfg *config.Config, logger *zap.Logger, h Handlers, guard RequestGuard, metrics Instrumentation, opts ...Option) *Server {
	s := &Server{
		config:  cfg,
		logger:  logger.Named("http-server"),
		metrics: metrics,
		guard:   guard,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.router = s.setupRouter(h)
	s.server = &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:           otelhttp.NewHandler(s.router, "meadery-api"),
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    cfg.Server.MaxHeaderBytes,
	}

	return s
}

// setupRouter configures middleware and routes
func (s *Server) setupRouter(h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimiddleware.Recoverer)
	if s.metrics != nil {
		r.Use(s.metrics.HTTPMiddleware)
	}
	r.Use(middleware.Security())
	if s.config.Server.EnableCORS {
		r.Use(middleware.CORS(s.config.Server.AllowedOrigins))
	}

	r.NotFound(handlers.NotFound(s.logger))

	if h.Health != nil {
		r.Method(http.MethodGet, s.config.Monitoring.HealthCheckPath, h.Health)
	}
	if s.metrics != nil && s.config.Monitoring.EnableMetrics {
		r.Method(http.MethodGet, s.config.Monitoring.MetricsPath, s.metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		if s.limiter != nil {
			r.Use(s.limiter.RateLimitMiddleware)
		}
		if s.config.Server.RequestTimeout > 0 {
			r.Use(chimiddleware.Timeout(s.config.Server.RequestTimeout))
		}
		if s.guard != nil {
			r.Use(s.guard.RequestGuard)
		}
		r.Use(middleware.NoCache())

		r.Route("/recipes", h.Recipes.Routes)
		r.Post("/shopping-list", h.Recipes.CombinedShoppingList)
		r.Route("/inventory", h.Inventory.Routes)
		r.Route("/settings", h.Settings.Routes)
		r.Route("/calculators", h.Calculators.Routes)
	})

	return r
}

// Router exposes the router for tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.server.Addr
}

// Start starts the HTTP server and blocks until it stops.
// A graceful shutdown is not reported as an error.
func (s *Server) Start() error {
	s.logger.Info("Starting API server", zap.String("address", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server")
	return s.server.Shutdown(ctx)
}
