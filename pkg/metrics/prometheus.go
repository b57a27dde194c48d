// Package metrics provides Prometheus metrics for the PathWise recommendation service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the PathWise service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      prometheus.Labels
	registry         prometheus.Registerer

	// Inference
	predictions      *prometheus.CounterVec
	inferenceLatency prometheus.Histogram
	predictionErrors *prometheus.CounterVec
	modelReady       prometheus.Gauge
	scalerFallback   prometheus.Gauge

	// Roadmaps and market data
	roadmapConfigs       *prometheus.CounterVec
	marketDegraded       prometheus.Counter
	listingFetches       *prometheus.CounterVec
	listingFetchDuration *prometheus.HistogramVec
	listingsReceived     *prometheus.CounterVec
	skillsRanked         prometheus.Histogram

	// Circuit breaker
	circuitBreakerState       *prometheus.GaugeVec
	circuitBreakerTransitions *prometheus.CounterVec
	circuitBreakerRequests    *prometheus.CounterVec

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// DefaultLatencyBuckets are the millisecond buckets used by latency histograms.
var DefaultLatencyBuckets = []float64{1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000} //nolint:gochecknoglobals // read-only defaults

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "pathwise",
		subsystem:        "recommender",
		histogramBuckets: DefaultLatencyBuckets,
		constLabels:      prometheus.Labels{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace: m.namespace, Subsystem: m.subsystem, Name: name, Help: help, ConstLabels: m.constLabels,
		Buckets: buckets,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.predictions = auto.NewCounterVec(
		m.counterOpts("predictions_total", "Total number of difficulty predictions by tier"),
		[]string{"tier"},
	)
	m.inferenceLatency = auto.NewHistogram(
		m.histogramOpts("inference_latency_milliseconds", "Classifier inference latency in milliseconds", m.histogramBuckets),
	)
	m.predictionErrors = auto.NewCounterVec(
		m.counterOpts("prediction_errors_total", "Failed predictions by error kind"),
		[]string{"kind"},
	)
	m.modelReady = auto.NewGauge(
		m.gaugeOpts("model_ready", "1 when classifier weights are loaded"),
	)
	m.scalerFallback = auto.NewGauge(
		m.gaugeOpts("scaler_fallback", "1 when the identity scaler replaced a missing artifact"),
	)

	m.roadmapConfigs = auto.NewCounterVec(
		m.counterOpts("roadmap_configs_total", "Roadmap configs generated by path (static, market, degraded)"),
		[]string{"path"},
	)
	m.marketDegraded = auto.NewCounter(
		m.counterOpts("market_degraded_total", "Market roadmap requests that fell back to the static config"),
	)
	m.listingFetches = auto.NewCounterVec(
		m.counterOpts("listing_fetches_total", "Listing source fetches by source and outcome"),
		[]string{"source", "outcome"},
	)
	m.listingFetchDuration = auto.NewHistogramVec(
		m.histogramOpts("listing_fetch_duration_milliseconds", "Listing fetch duration in milliseconds", m.histogramBuckets),
		[]string{"source"},
	)
	m.listingsReceived = auto.NewCounterVec(
		m.counterOpts("listings_received_total", "Listings returned by each source"),
		[]string{"source"},
	)
	m.skillsRanked = auto.NewHistogram(
		m.histogramOpts("skills_ranked", "Number of skills per demand ranking", prometheus.LinearBuckets(0, 10, 11)),
	)

	m.circuitBreakerState = auto.NewGaugeVec(
		m.gaugeOpts("circuit_breaker_state", "Circuit breaker state (0=closed, 1=half-open, 2=open)"),
		[]string{"name"},
	)
	m.circuitBreakerTransitions = auto.NewCounterVec(
		m.counterOpts("circuit_breaker_transitions_total", "Circuit breaker state transitions"),
		[]string{"name", "from", "to"},
	)
	m.circuitBreakerRequests = auto.NewCounterVec(
		m.counterOpts("circuit_breaker_requests_total", "Requests through the circuit breaker by result"),
		[]string{"name", "result"},
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpErrors = auto.NewCounterVec(
		m.counterOpts("http_errors_total", "HTTP error responses by endpoint and error code"),
		[]string{"endpoint", "method", "code"},
	)

	m.systemMemoryUsage = auto.NewGauge(
		m.gaugeOpts("system_memory_usage_bytes", "Current heap memory usage in bytes"),
	)
	m.systemGoroutineCount = auto.NewGauge(
		m.gaugeOpts("system_goroutine_count", "Current number of goroutines"),
	)
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogramOpts("system_gc_pause_time_milliseconds", "Garbage collection pause time in milliseconds", m.histogramBuckets),
	)
}

// RecordPrediction records a successful prediction and its latency.
func RecordPrediction(tier string, latencyMs float64) {
	globalManager.predictions.WithLabelValues(tier).Inc()
	globalManager.inferenceLatency.Observe(latencyMs)
}

// RecordPredictionError records a failed prediction by error kind.
func RecordPredictionError(kind string) {
	globalManager.predictionErrors.WithLabelValues(kind).Inc()
}

// UpdateModelReady sets the model readiness gauge.
func UpdateModelReady(ready bool) {
	globalManager.modelReady.Set(boolToFloat(ready))
}

// UpdateScalerFallback sets the scaler fallback gauge.
func UpdateScalerFallback(fallback bool) {
	globalManager.scalerFallback.Set(boolToFloat(fallback))
}

// RecordRoadmapConfig counts a generated config by path.
func RecordRoadmapConfig(path string) {
	globalManager.roadmapConfigs.WithLabelValues(path).Inc()
}

// RecordMarketDegraded counts a market request that fell back to the static path.
func RecordMarketDegraded() {
	globalManager.marketDegraded.Inc()
}

// RecordListingFetch records one fetch from a listing source.
func RecordListingFetch(source, outcome string, durationMs float64, listings int) {
	globalManager.listingFetches.WithLabelValues(source, outcome).Inc()
	globalManager.listingFetchDuration.WithLabelValues(source).Observe(durationMs)
	if listings > 0 {
		globalManager.listingsReceived.WithLabelValues(source).Add(float64(listings))
	}
}

// RecordSkillsRanked observes the size of a demand ranking.
func RecordSkillsRanked(n int) {
	globalManager.skillsRanked.Observe(float64(n))
}

// UpdateCircuitBreakerState sets the breaker state gauge.
func UpdateCircuitBreakerState(name string, state float64) {
	globalManager.circuitBreakerState.WithLabelValues(name).Set(state)
}

// RecordCircuitBreakerTransition counts a breaker state change.
func RecordCircuitBreakerTransition(name, from, to string) {
	globalManager.circuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
}

// RecordCircuitBreakerRequest counts a request through the breaker by result.
func RecordCircuitBreakerRequest(name, result string) {
	globalManager.circuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// RecordHTTPRequest records HTTP request metrics.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordHTTPError records an error response by its error code.
func RecordHTTPError(endpoint, method, code string) {
	globalManager.httpErrors.WithLabelValues(endpoint, method, code).Inc()
}

// UpdateSystemMemoryUsage updates the system memory usage gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount updates the goroutine count gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records garbage collection pause time.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Configure rebuilds the global metrics on a fresh registry with the given
// options and returns that registry. It must run before any metric is
// recorded or any handler captures GetRegistry.
func Configure(opts ...Option) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	globalManager = NewManager(append(opts, WithPrometheusRegistry(reg))...)
	customRegistry = reg
	return reg
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
