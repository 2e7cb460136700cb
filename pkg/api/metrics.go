package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// Metrics holds all Prometheus metrics for the API
type Metrics struct {
	// HTTP request metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec

	// Cache file operation metrics
	parsesTotal   *prometheus.CounterVec
	parseDuration prometheus.Histogram
	expiriesTotal *prometheus.CounterVec
	scansTotal    *prometheus.CounterVec

	// API key authentication metrics
	authRequestsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics
func NewMetrics() *Metrics {
	m := &Metrics{
		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ngxcache_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ngxcache_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpRequestsInFlight: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ngxcache_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method", "endpoint"},
		),

		parsesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ngxcache_cache_file_parses_total",
				Help: "Total number of cache file parse attempts",
			},
			[]string{"status"},
		),

		parseDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "ngxcache_cache_file_parse_duration_seconds",
				Help:    "Cache file parse duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),

		expiriesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ngxcache_cache_file_expiries_total",
				Help: "Total number of expiry patch operations",
			},
			[]string{"status"},
		),

		scansTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ngxcache_cache_scans_total",
				Help: "Total number of cache directory scans",
			},
			[]string{"status"},
		),

		authRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ngxcache_auth_requests_total",
				Help: "Total number of API key authentication attempts",
			},
			[]string{"status"},
		),
	}

	return m
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	statusCodeStr := strconv.Itoa(statusCode)

	m.httpRequestsTotal.WithLabelValues(method, endpoint, statusCodeStr).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordParse records a cache file parse attempt
func (m *Metrics) RecordParse(success bool, duration time.Duration) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.parsesTotal.WithLabelValues(status).Inc()
	m.parseDuration.Observe(duration.Seconds())
}

// RecordExpiry records an expiry patch operation
func (m *Metrics) RecordExpiry(success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.expiriesTotal.WithLabelValues(status).Inc()
}

// RecordAuth records an API key authentication attempt
func (m *Metrics) RecordAuth(success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.authRequestsTotal.WithLabelValues(status).Inc()
}

// RecordScan records a cache directory scan
func (m *Metrics) RecordScan(success bool) {
	status := statusSuccess
	if !success {
		status = statusError
	}
	m.scansTotal.WithLabelValues(status).Inc()
}

// InstrumentHandler instruments an HTTP handler with metrics
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		gauge := m.httpRequestsInFlight.WithLabelValues(method, endpoint)
		gauge.Inc()
		defer gauge.Dec()

		// Wrap the response writer to capture the status code
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
