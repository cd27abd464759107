package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/xavierca1/lead-console/internal/usecase"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	leadsImported = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "leads_imported_total",
			Help: "Total number of leads loaded by successful imports",
		},
	)

	importFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lead_import_failures_total",
			Help: "Total number of rejected import files",
		},
		[]string{"reason"},
	)

	leadUpdateFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "lead_update_failures_total",
			Help: "Total number of lead updates rolled back after a failed confirmation",
		},
	)

	viewRecomputations = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "view_recomputations_total",
			Help: "Total number of lead view recomputations",
		},
	)

	opportunitiesCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "opportunities_created_total",
			Help: "Total number of opportunities created",
		},
	)

	opportunitiesDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "opportunities_deleted_total",
			Help: "Total number of opportunities deleted",
		},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)
		path := routePattern(r)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// routePattern keeps lead and opportunity ids out of the label values.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

// DomainMetrics records console events in the default prometheus registry.
type DomainMetrics struct{}

var _ usecase.Metrics = DomainMetrics{}

func (DomainMetrics) LeadsImported(count int) {
	leadsImported.Add(float64(count))
}

func (DomainMetrics) ImportFailed(reason string) {
	importFailures.WithLabelValues(reason).Inc()
}

func (DomainMetrics) LeadUpdateFailed() {
	leadUpdateFailures.Inc()
}

func (DomainMetrics) ViewRecomputed() {
	viewRecomputations.Inc()
}

func (DomainMetrics) OpportunityCreated() {
	opportunitiesCreated.Inc()
}

func (DomainMetrics) OpportunityDeleted() {
	opportunitiesDeleted.Inc()
}
