// Package metrics provides Prometheus metrics for the fightlab service.
package metrics

import (
	"strings"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the fightlab service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	customLabels     map[string]string
	metricPrefix     string
	registry         prometheus.Registerer

	// Risk model
	riskPredictions *prometheus.CounterVec
	riskScore       prometheus.Histogram

	// Media validation
	mediaRejections *prometheus.CounterVec

	// Submission pipelines
	pipelineTransitions   *prometheus.CounterVec
	uploadTicks           *prometheus.CounterVec
	processingLatency     *prometheus.HistogramVec
	processingFailures    *prometheus.CounterVec
	pipelineCancellations *prometheus.CounterVec
	eventsDrained         *prometheus.CounterVec

	// Sessions
	activeSessions  prometheus.Gauge
	sessionsCreated *prometheus.CounterVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemCPUPercent     prometheus.Gauge
}

// Global metrics manager instance and the custom registry it records into.
var (
	globalManager  atomic.Pointer[Manager]             //nolint:gochecknoglobals // intentional global for singleton metrics manager
	customRegistry atomic.Pointer[prometheus.Registry] //nolint:gochecknoglobals // intentional global for metrics registry
)

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	Init()
}

// Init replaces the global manager with one built from opts on a fresh
// registry. Call it at startup, before metrics are served.
func Init(opts ...Option) *Manager {
	reg := prometheus.NewRegistry()
	m := NewManager(append(opts, WithPrometheusRegistry(reg))...)
	customRegistry.Store(reg)
	globalManager.Store(m)
	return m
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "fightlab",
		subsystem:        "",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		customLabels:     make(map[string]string),
		metricPrefix:     "",
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// Enabled reports whether recording is active.
func (m *Manager) Enabled() bool { return m.enabled }

// RefreshInterval is how often gauge collectors should sample.
func (m *Manager) RefreshInterval() time.Duration { return m.refreshInterval }

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return strings.TrimSuffix(m.metricPrefix, "_") + "_" + n
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.customLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.customLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.riskPredictions = auto.NewCounterVec(
		m.counterOpts("risk_predictions_total", "Total number of risk predictions by level"),
		[]string{"level"},
	)
	m.riskScore = auto.NewHistogram(
		m.histogramOpts("risk_score", "Distribution of predicted injury risk percentages", prometheus.LinearBuckets(0, 10, 11)),
	)

	m.mediaRejections = auto.NewCounterVec(
		m.counterOpts("media_rejections_total", "Files refused at selection by reason"),
		[]string{"reason"},
	)

	m.pipelineTransitions = auto.NewCounterVec(
		m.counterOpts("pipeline_transitions_total", "Pipeline phase transitions"),
		[]string{"pipeline", "phase"},
	)
	m.uploadTicks = auto.NewCounterVec(
		m.counterOpts("upload_ticks_total", "Upload progress ticks"),
		[]string{"pipeline"},
	)
	m.processingLatency = auto.NewHistogramVec(
		m.histogramOpts("processing_latency_milliseconds", "Processor run time in milliseconds", m.histogramBuckets),
		[]string{"pipeline", "outcome"},
	)
	m.processingFailures = auto.NewCounterVec(
		m.counterOpts("processing_failures_total", "Processor runs that ended in failure"),
		[]string{"pipeline"},
	)
	m.pipelineCancellations = auto.NewCounterVec(
		m.counterOpts("pipeline_cancellations_total", "In-flight runs aborted by the user"),
		[]string{"pipeline", "phase"},
	)
	m.eventsDrained = auto.NewCounterVec(
		m.counterOpts("events_drained_total", "Pipeline events appended to session logs"),
		[]string{"kind"},
	)

	m.activeSessions = auto.NewGauge(m.gaugeOpts("active_sessions", "Sessions currently held in memory"))
	m.sessionsCreated = auto.NewCounterVec(
		m.counterOpts("sessions_created_total", "Sessions created by pipeline kind"),
		[]string{"kind"},
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.histogramBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Errors by component and type"),
		[]string{"component", "error_type"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Errors by HTTP endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemCPUPercent = auto.NewGauge(m.gaugeOpts("system_cpu_percent", "Host CPU utilization percentage"))
}

// RecordRiskPrediction counts a prediction and observes its risk.
func (m *Manager) RecordRiskPrediction(level string, risk int) {
	if !m.enabled {
		return
	}
	m.riskPredictions.WithLabelValues(level).Inc()
	m.riskScore.Observe(float64(risk))
}

// RecordMediaRejection counts a refused file.
func (m *Manager) RecordMediaRejection(reason string) {
	if !m.enabled {
		return
	}
	m.mediaRejections.WithLabelValues(reason).Inc()
}

// RecordPipelineTransition counts entry into phase.
func (m *Manager) RecordPipelineTransition(pipeline, phase string) {
	if !m.enabled {
		return
	}
	m.pipelineTransitions.WithLabelValues(pipeline, phase).Inc()
}

// RecordUploadTick counts one upload progress tick.
func (m *Manager) RecordUploadTick(pipeline string) {
	if !m.enabled {
		return
	}
	m.uploadTicks.WithLabelValues(pipeline).Inc()
}

// RecordProcessingLatency observes a processor run; outcome is "complete" or "failed".
func (m *Manager) RecordProcessingLatency(pipeline, outcome string, latencyMs float64) {
	if !m.enabled {
		return
	}
	m.processingLatency.WithLabelValues(pipeline, outcome).Observe(latencyMs)
}

// RecordProcessingFailure counts a failed processor run.
func (m *Manager) RecordProcessingFailure(pipeline string) {
	if !m.enabled {
		return
	}
	m.processingFailures.WithLabelValues(pipeline).Inc()
}

// RecordCancellation counts an aborted run by the phase it was in.
func (m *Manager) RecordCancellation(pipeline, phase string) {
	if !m.enabled {
		return
	}
	m.pipelineCancellations.WithLabelValues(pipeline, phase).Inc()
}

// RecordEventDrained counts an event appended to a session log.
func (m *Manager) RecordEventDrained(kind string) {
	if !m.enabled {
		return
	}
	m.eventsDrained.WithLabelValues(kind).Inc()
}

// SetActiveSessions sets the live session gauge.
func (m *Manager) SetActiveSessions(n int) {
	if !m.enabled {
		return
	}
	m.activeSessions.Set(float64(n))
}

// RecordSessionCreated counts a new session.
func (m *Manager) RecordSessionCreated(kind string) {
	if !m.enabled {
		return
	}
	m.sessionsCreated.WithLabelValues(kind).Inc()
}

// RecordHTTPRequest records an HTTP request and its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByComponent counts an error raised inside a component.
func (m *Manager) RecordErrorByComponent(component, errorType string) {
	if !m.enabled {
		return
	}
	m.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint counts an error returned from an HTTP endpoint.
func (m *Manager) RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !m.enabled {
		return
	}
	m.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystem sets the system gauges.
func (m *Manager) UpdateSystem(memBytes uint64, goroutines int, cpuPercent float64) {
	if !m.enabled {
		return
	}
	m.systemMemoryUsage.Set(float64(memBytes))
	m.systemGoroutineCount.Set(float64(goroutines))
	m.systemCPUPercent.Set(cpuPercent)
}

// Package-level helpers record on the global manager.

// Default returns the global manager.
func Default() *Manager { return globalManager.Load() }

// RecordRiskPrediction counts a prediction on the global manager.
func RecordRiskPrediction(level string, risk int) { globalManager.Load().RecordRiskPrediction(level, risk) }

// RecordMediaRejection counts a refused file on the global manager.
func RecordMediaRejection(reason string) { globalManager.Load().RecordMediaRejection(reason) }

// RecordPipelineTransition counts a phase entry on the global manager.
func RecordPipelineTransition(pipeline, phase string) {
	globalManager.Load().RecordPipelineTransition(pipeline, phase)
}

// RecordUploadTick counts a tick on the global manager.
func RecordUploadTick(pipeline string) { globalManager.Load().RecordUploadTick(pipeline) }

// RecordProcessingLatency observes a processor run on the global manager.
func RecordProcessingLatency(pipeline, outcome string, latencyMs float64) {
	globalManager.Load().RecordProcessingLatency(pipeline, outcome, latencyMs)
}

// RecordProcessingFailure counts a failure on the global manager.
func RecordProcessingFailure(pipeline string) { globalManager.Load().RecordProcessingFailure(pipeline) }

// RecordCancellation counts a cancellation on the global manager.
func RecordCancellation(pipeline, phase string) { globalManager.Load().RecordCancellation(pipeline, phase) }

// RecordEventDrained counts a drained event on the global manager.
func RecordEventDrained(kind string) { globalManager.Load().RecordEventDrained(kind) }

// SetActiveSessions sets the session gauge on the global manager.
func SetActiveSessions(n int) { globalManager.Load().SetActiveSessions(n) }

// RecordSessionCreated counts a session on the global manager.
func RecordSessionCreated(kind string) { globalManager.Load().RecordSessionCreated(kind) }

// RecordHTTPRequest records an HTTP request on the global manager.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.Load().RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// RecordErrorByComponent counts a component error on the global manager.
func RecordErrorByComponent(component, errorType string) {
	globalManager.Load().RecordErrorByComponent(component, errorType)
}

// RecordErrorByEndpoint counts an endpoint error on the global manager.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.Load().RecordErrorByEndpoint(endpoint, method, errorType)
}

// UpdateSystem sets the system gauges on the global manager.
func UpdateSystem(memBytes uint64, goroutines int, cpuPercent float64) {
	globalManager.Load().UpdateSystem(memBytes, goroutines, cpuPercent)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry.Load()
}
