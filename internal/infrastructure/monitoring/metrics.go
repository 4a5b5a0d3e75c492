// Package monitoring provides Prometheus metrics and OpenTelemetry tracing
package monitoring

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/meadcraft/meadery/internal/domain/recipe"
	"github.com/meadcraft/meadery/internal/domain/shared"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// MetricsCollector handles Prometheus metrics collection on its own registry
type MetricsCollector struct {
	logger   *zap.Logger
	registry *prometheus.Registry

	// HTTP metrics
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpResponseSize    *prometheus.HistogramVec

	// Business metrics
	recipesSavedTotal    prometheus.Counter
	recipeCost           prometheus.Histogram
	brewLogUpdatesTotal  prometheus.Counter
	shoppingListEntries  prometheus.Histogram
	inventoryMutations   *prometheus.CounterVec
	generatorRequests    *prometheus.CounterVec
	generatorDuration    *prometheus.HistogramVec
	cacheOperationsTotal *prometheus.CounterVec

	uptimeSeconds prometheus.Counter
}

// NewMetricsCollector creates a new metrics collector
func NewMetricsCollector(logger *zap.Logger) *MetricsCollector {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)

	return &MetricsCollector{
		logger:   logger.Named("metrics"),
		registry: registry,

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status_code"},
		),
		httpResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: prometheus.ExponentialBuckets(100, 10, 6),
			},
			[]string{"method", "path", "status_code"},
		),

		recipesSavedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "meadery_recipes_saved_total",
				Help: "Total number of recipes saved",
			},
		),
		recipeCost: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "meadery_recipe_cost",
				Help:    "Total cost computed for saved recipes, in display currency",
				Buckets: []float64{0, 5, 10, 25, 50, 100, 250, 500},
			},
		),
		brewLogUpdatesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "meadery_brew_log_updates_total",
				Help: "Total number of brew log updates",
			},
		),
		shoppingListEntries: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "meadery_shopping_list_entries",
				Help:    "Number of entries returned per shopping list",
				Buckets: []float64{0, 1, 2, 5, 10, 20, 50},
			},
		),
		inventoryMutations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meadery_inventory_mutations_total",
				Help: "Inventory ledger mutations by operation",
			},
			[]string{"operation"},
		),
		generatorRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meadery_generator_requests_total",
				Help: "Recipe generator requests by provider and outcome",
			},
			[]string{"provider", "status"},
		),
		generatorDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "meadery_generator_request_duration_seconds",
				Help:    "Recipe generator request duration in seconds",
				Buckets: []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0, 60.0},
			},
			[]string{"provider"},
		),
		cacheOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "meadery_cache_operations_total",
				Help: "Draft cache operations",
			},
			[]string{"operation", "status"},
		),
		uptimeSeconds: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "uptime_seconds_total",
				Help: "Total uptime in seconds",
			},
		),
	}
}

// HTTPMiddleware records request counts, latencies and response sizes.
// Paths are labelled with the chi route pattern to keep cardinality bounded.
func (m *MetricsCollector) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		path := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		statusCode := strconv.Itoa(status)

		m.httpRequestsTotal.WithLabelValues(r.Method, path, statusCode).Inc()
		m.httpRequestDuration.WithLabelValues(r.Method, path, statusCode).Observe(time.Since(start).Seconds())
		m.httpResponseSize.WithLabelValues(r.Method, path, statusCode).Observe(float64(ww.BytesWritten()))
	})
}

// HandleEvent records business metrics for published domain events
func (m *MetricsCollector) HandleEvent(event shared.DomainEvent) error {
	switch e := event.(type) {
	case recipe.RecipeSavedEvent:
		m.recipesSavedTotal.Inc()
		m.recipeCost.Observe(e.TotalCost)
	case recipe.BrewLogUpdatedEvent:
		m.brewLogUpdatesTotal.Inc()
	}
	return nil
}

// ShoppingListComputed records the size of a computed shopping list
func (m *MetricsCollector) ShoppingListComputed(entries int) {
	m.shoppingListEntries.Observe(float64(entries))
}

// InventoryMutation records a ledger mutation
func (m *MetricsCollector) InventoryMutation(operation string) {
	m.inventoryMutations.WithLabelValues(operation).Inc()
}

// GeneratorRequest records one call to a recipe generator
func (m *MetricsCollector) GeneratorRequest(provider, status string, duration time.Duration) {
	m.generatorRequests.WithLabelValues(provider, status).Inc()
	m.generatorDuration.WithLabelValues(provider).Observe(duration.Seconds())
}

// CacheOperation records a draft cache operation
func (m *MetricsCollector) CacheOperation(operation, status string) {
	m.cacheOperationsTotal.WithLabelValues(operation, status).Inc()
}

// RegisterDBStats exports connection pool statistics for db
func (m *MetricsCollector) RegisterDBStats(db *sql.DB, dbName string) {
	if err := m.registry.Register(collectors.NewDBStatsCollector(db, dbName)); err != nil {
		m.logger.Warn("Failed to register database stats collector", zap.Error(err))
	}
}

// StartUptimeCounter starts the uptime counter
func (m *MetricsCollector) StartUptimeCounter(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.uptimeSeconds.Inc()
		}
	}
}

// Handler returns the Prometheus metrics HTTP handler
func (m *MetricsCollector) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
