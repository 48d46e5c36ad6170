package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ssargent/shelf/pkg/catalog"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds all Prometheus metrics for the API
type Metrics struct {
	registry *prometheus.Registry

	// HTTP request metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec

	// Catalog operation metrics
	catalogOperationsTotal   *prometheus.CounterVec
	catalogOperationDuration *prometheus.HistogramVec
	persistenceFailuresTotal *prometheus.CounterVec
	catalogBooks             prometheus.Gauge
	catalogCopies            prometheus.Gauge
	catalogValue             prometheus.Gauge

	// API key authentication metrics
	authRequestsTotal *prometheus.CounterVec

	// Health check metrics
	healthChecksTotal *prometheus.CounterVec
}

// NewMetrics creates all Prometheus metrics on a private registry, along
// with the Go runtime and process collectors
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	m := &Metrics{
		registry: reg,

		// HTTP request metrics
		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shelf_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shelf_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "shelf_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method", "endpoint"},
		),

		// Catalog operation metrics
		catalogOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shelf_catalog_operations_total",
				Help: "Total number of catalog operations",
			},
			[]string{"operation", "status"},
		),

		catalogOperationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "shelf_catalog_operation_duration_seconds",
				Help:    "Catalog operation duration in seconds, including the backing store rewrite",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),

		persistenceFailuresTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shelf_persistence_failures_total",
				Help: "Mutations applied in memory whose backing store rewrite failed",
			},
			[]string{"operation"},
		),

		catalogBooks: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "shelf_catalog_books",
				Help: "Number of distinct books in the catalog",
			},
		),

		catalogCopies: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "shelf_catalog_copies",
				Help: "Total number of copies in stock",
			},
		),

		catalogValue: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "shelf_catalog_value",
				Help: "Total stock value (sum of price * quantity)",
			},
		),

		// Authentication metrics
		authRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shelf_auth_requests_total",
				Help: "Total number of authentication requests",
			},
			[]string{"status"},
		),

		// Health check metrics
		healthChecksTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "shelf_health_checks_total",
				Help: "Total number of health checks",
			},
			[]string{"status"},
		),
	}

	return m
}

// Registry returns the registry the metrics are registered on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	statusCodeStr := strconv.Itoa(statusCode)

	m.httpRequestsTotal.WithLabelValues(method, endpoint, statusCodeStr).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordCatalogOperation records a catalog operation
func (m *Metrics) RecordCatalogOperation(operation string, success bool, duration time.Duration) {
	status := statusSuccess
	if !success {
		status = statusError
	}

	m.catalogOperationsTotal.WithLabelValues(operation, status).Inc()
	m.catalogOperationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordPersistenceFailure counts a mutation whose save failed
func (m *Metrics) RecordPersistenceFailure(operation string) {
	m.persistenceFailuresTotal.WithLabelValues(operation).Inc()
}

// UpdateCatalogStats updates the catalog gauges
func (m *Metrics) UpdateCatalogStats(stats catalog.Stats) {
	m.catalogBooks.Set(float64(stats.DistinctTitles))
	m.catalogCopies.Set(float64(stats.TotalCopies))
	m.catalogValue.Set(stats.TotalValue)
}

// RecordAuthRequest records an authentication request
func (m *Metrics) RecordAuthRequest(success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.authRequestsTotal.WithLabelValues(status).Inc()
}

// RecordHealthCheck records a health check
func (m *Metrics) RecordHealthCheck(success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.healthChecksTotal.WithLabelValues(status).Inc()
}

// InstrumentHandler instruments an HTTP handler with metrics
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		gauge := m.httpRequestsInFlight.WithLabelValues(method, endpoint)
		gauge.Inc()
		defer gauge.Dec()

		// Capture the status code written by the handler
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		handler(rw, r)

		m.RecordHTTPRequest(method, endpoint, rw.statusCode, time.Since(start))
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
