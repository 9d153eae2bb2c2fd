// Package metrics provides Prometheus metrics for the riskboard dashboard
// client and its stub backend.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every collector. Package-level helpers delegate to a global
// Manager registered on a custom registry.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Dashboard client
	backendRequests  *prometheus.CounterVec
	backendLatency   *prometheus.HistogramVec
	regionRenders    *prometheus.CounterVec
	navigations      *prometheus.CounterVec
	loopTasks        prometheus.Counter
	loopPending      prometheus.Gauge
	inflightRequests prometheus.Gauge

	// Stub backend
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec

	// Process
	memoryUsage    prometheus.Gauge
	goroutineCount prometheus.Gauge
	gcPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "riskboard",
		subsystem:        "dashboard",
		histogramBuckets: []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000, 120000},
		constLabels:      map[string]string{},
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

	m.backendRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "backend_requests_total",
		Help:        "Backend requests issued by the dashboard, by endpoint and outcome",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "outcome"})

	// LLM-backed endpoints routinely take tens of seconds.
	m.backendLatency = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "backend_request_duration_milliseconds",
		Help:        "Backend request latency in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "outcome"})

	m.regionRenders = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "region_renders_total",
		Help:        "Display region updates by region id and alert style",
		ConstLabels: m.constLabels,
	}, []string{"region", "style"})

	m.navigations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "navigations_total",
		Help:        "Page navigations by target path",
		ConstLabels: m.constLabels,
	}, []string{"target"})

	m.loopTasks = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "loop_tasks_total",
		Help:        "Callbacks executed on the event loop",
		ConstLabels: m.constLabels,
	})

	m.loopPending = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "loop_pending_tasks",
		Help:        "Callbacks waiting on the event loop",
		ConstLabels: m.constLabels,
	})

	m.inflightRequests = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "inflight_requests",
		Help:        "Backend requests that have not completed yet",
		ConstLabels: m.constLabels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "stub",
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests served by the stub backend",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "stub",
		Name:        "http_request_duration_milliseconds",
		Help:        "Stub backend request duration in milliseconds",
		Buckets:     prometheus.DefBuckets,
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorRateByEndpoint = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   "stub",
		Name:        "errors_by_endpoint_total",
		Help:        "Stub backend error responses by endpoint, method and error type",
		ConstLabels: m.constLabels,
	}, []string{"endpoint", "method", "error_type"})

	m.memoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "process",
		Name:        "memory_usage_bytes",
		Help:        "Heap bytes allocated by the process",
		ConstLabels: m.constLabels,
	})

	m.goroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   "process",
		Name:        "goroutine_count",
		Help:        "Number of goroutines",
		ConstLabels: m.constLabels,
	})

	m.gcPauseTime = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   "process",
		Name:        "gc_pause_milliseconds",
		Help:        "Average GC pause in milliseconds, sampled periodically",
		Buckets:     []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 50},
		ConstLabels: m.constLabels,
	})
}

// RecordBackendRequest counts one completed backend request.
func (m *Manager) RecordBackendRequest(endpoint, outcome string, latencyMs float64) {
	m.backendRequests.WithLabelValues(endpoint, outcome).Inc()
	m.backendLatency.WithLabelValues(endpoint, outcome).Observe(latencyMs)
}

// RecordRegionRender counts one region update.
func (m *Manager) RecordRegionRender(region, style string) {
	m.regionRenders.WithLabelValues(region, style).Inc()
}

// RecordNavigation counts one navigation.
func (m *Manager) RecordNavigation(target string) {
	m.navigations.WithLabelValues(target).Inc()
}

// Global helpers.

// RecordBackendRequest records a completed backend request on the global manager.
func RecordBackendRequest(endpoint, outcome string, latencyMs float64) {
	globalManager.RecordBackendRequest(endpoint, outcome, latencyMs)
}

// RecordRegionRender records a region update on the global manager.
func RecordRegionRender(region, style string) {
	globalManager.RecordRegionRender(region, style)
}

// RecordNavigation records a navigation on the global manager.
func RecordNavigation(target string) {
	globalManager.RecordNavigation(target)
}

// RecordLoopTask increments the executed callback counter.
func RecordLoopTask() {
	globalManager.loopTasks.Inc()
}

// UpdateLoopPending sets the number of queued callbacks.
func UpdateLoopPending(n int) {
	globalManager.loopPending.Set(float64(n))
}

// IncInflight marks a backend request as started.
func IncInflight() {
	globalManager.inflightRequests.Inc()
}

// DecInflight marks a backend request as finished.
func DecInflight() {
	globalManager.inflightRequests.Dec()
}

// RecordHTTPRequest records an HTTP request served by the stub backend.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records stub backend request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records an error response with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateMemoryUsage sets the allocated heap size in bytes.
func UpdateMemoryUsage(bytes uint64) {
	globalManager.memoryUsage.Set(float64(bytes))
}

// UpdateGoroutineCount sets the number of goroutines.
func UpdateGoroutineCount(count int) {
	globalManager.goroutineCount.Set(float64(count))
}

// RecordGCPauseTime records an average GC pause in milliseconds.
func RecordGCPauseTime(pauseMs float64) {
	globalManager.gcPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
