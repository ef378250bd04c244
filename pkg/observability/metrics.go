// Package observability exposes Prometheus metrics for queries,
// provider attempts, and the HTTP surface.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nutnell/marketminds/pkg/providers"
	"github.com/nutnell/marketminds/pkg/routing"
)

// Metrics holds the instrument set. One instance per process,
// registered on its own registry so tests can run in isolation.
type Metrics struct {
	registry *prometheus.Registry

	queriesTotal     *prometheus.CounterVec
	providerAttempts *prometheus.CounterVec
	providerFailures *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
}

// NewMetrics creates and registers the instrument set.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		queriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "marketminds_queries_total",
			Help: "Answered queries by route label.",
		}, []string{"route"}),
		providerAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "marketminds_provider_attempts_total",
			Help: "Provider adapter invocations by chain and provider.",
		}, []string{"chain", "provider"}),
		providerFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "marketminds_provider_failures_total",
			Help: "Failed provider adapter invocations by chain and provider.",
		}, []string{"chain", "provider"}),
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "marketminds_http_requests_total",
			Help: "HTTP requests by method, route pattern, and status.",
		}, []string{"method", "path", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "marketminds_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
}

// Handler serves the metrics endpoint for this instrument set.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// QueryObserver counts answered queries by route.
func (m *Metrics) QueryObserver() func(route routing.RouteLabel) {
	return func(route routing.RouteLabel) {
		m.queriesTotal.WithLabelValues(route.String()).Inc()
	}
}

// ProviderObserver counts adapter attempts and failures. Wired into
// chains at construction.
func (m *Metrics) ProviderObserver() providers.Observer {
	return func(chain, provider string, failed bool) {
		m.providerAttempts.WithLabelValues(chain, provider).Inc()
		if failed {
			m.providerFailures.WithLabelValues(chain, provider).Inc()
		}
	}
}

// responseWriter captures the status code for metrics.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

func (rw *responseWriter) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}

// HTTPMiddleware records request counts and latency. The path label is
// the chi route pattern, not the raw URL, to keep cardinality bounded.
func (m *Metrics) HTTPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		pattern := routePattern(r)
		m.httpRequests.WithLabelValues(r.Method, pattern, strconv.Itoa(wrapped.statusCode)).Inc()
		m.httpDuration.WithLabelValues(r.Method, pattern).Observe(time.Since(start).Seconds())
	})
}

func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unmatched"
}
