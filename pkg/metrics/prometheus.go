// Package metrics provides Prometheus metrics for the admin gateway.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every collector exported by the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	reportDuration *prometheus.HistogramVec
	reportRows     *prometheus.GaugeVec
	reportErrors   *prometheus.CounterVec

	loginAttempts *prometheus.CounterVec
}

var (
	customRegistry = prometheus.NewRegistry()
	globalManager  = NewManager(WithPrometheusRegistry(customRegistry))
)

// NewManager creates a Manager and registers its collectors on the configured registry.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "aksa",
		subsystem:        "admin",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route pattern, method and status code",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   m.histogramBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.reportDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "report_duration_seconds",
		Help:      "Time spent fetching and aggregating a score report",
		Buckets:   m.histogramBuckets,
	}, []string{"report"})

	m.reportRows = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "report_rows",
		Help:      "Number of rows in the most recently computed score report",
	}, []string{"report"})

	m.reportErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "report_errors_total",
		Help:      "Score report computations that failed on the data source",
	}, []string{"report"})

	m.loginAttempts = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "login_attempts_total",
		Help:      "Admin login attempts by outcome",
	}, []string{"outcome"})
}

// RecordHTTPRequest counts one request and observes its duration in seconds.
func RecordHTTPRequest(endpoint, method, statusCode string, seconds float64) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(seconds)
}

// RecordReport observes a successful report computation.
func RecordReport(report string, rows int, seconds float64) {
	globalManager.reportDuration.WithLabelValues(report).Observe(seconds)
	globalManager.reportRows.WithLabelValues(report).Set(float64(rows))
}

func RecordReportError(report string) {
	globalManager.reportErrors.WithLabelValues(report).Inc()
}

// RecordLogin counts a login attempt; outcome is one of success, invalid, throttled, error.
func RecordLogin(outcome string) {
	globalManager.loginAttempts.WithLabelValues(outcome).Inc()
}

// GetRegistry returns the registry backing the package-level recorders.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
