// Package metrics provides Prometheus metrics for the creditworthiness service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	refreshInterval  time.Duration
	registry         prometheus.Registerer

	// Document Analysis Metrics
	documentsAnalyzed  *prometheus.CounterVec
	documentsRejected  *prometheus.CounterVec
	duplicateDocuments prometheus.Counter
	extractionLatency  prometheus.Histogram
	documentScore      prometheus.Histogram

	// Model Scoring Metrics
	predictions       *prometheus.CounterVec
	modelFallbacks    *prometheus.CounterVec
	predictionLatency prometheus.Histogram
	modelsLoaded      prometheus.Gauge

	// Assessment Metrics
	assessments       *prometheus.CounterVec
	assessmentScore   prometheus.Histogram
	assessmentLatency prometheus.Histogram

	// HTTP Performance Metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error Metrics
	errorsByComponent *prometheus.CounterVec

	// System Performance Metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "credit",
		subsystem:        "engine",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		refreshInterval:  defaultRefreshInterval,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// scoreBuckets covers the 0-100 score scale.
var scoreBuckets = []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100} //nolint:gochecknoglobals // shared bucket layout

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	// Document Analysis Metrics
	m.documentsAnalyzed = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "documents_analyzed_total",
			Help:      "Total number of documents analyzed, by document type",
		},
		[]string{"document_type"},
	)

	m.documentsRejected = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "documents_rejected_total",
			Help:      "Total number of documents that failed validation, by document type",
		},
		[]string{"document_type"},
	)

	m.duplicateDocuments = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "documents_duplicate_total",
		Help:      "Total number of duplicate document submissions detected",
	})

	m.extractionLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "extraction_latency_milliseconds",
		Help:      "Histogram of feature extraction latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.documentScore = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "document_score",
		Help:      "Distribution of per-document validation scores",
		Buckets:   scoreBuckets,
	})

	// Model Scoring Metrics
	m.predictions = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "predictions_total",
			Help:      "Total number of model predictions, by document type",
		},
		[]string{"document_type"},
	)

	m.modelFallbacks = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "model_fallbacks_total",
			Help:      "Total number of predictions served by the rule-based fallback",
		},
		[]string{"document_type"},
	)

	m.predictionLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "prediction_latency_milliseconds",
		Help:      "Histogram of model prediction latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.modelsLoaded = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "models_loaded",
		Help:      "Number of trained document models currently loaded",
	})

	// Assessment Metrics
	m.assessments = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "assessments_total",
			Help:      "Total number of creditworthiness assessments, by decision",
		},
		[]string{"decision"},
	)

	m.assessmentScore = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "assessment_score",
		Help:      "Distribution of overall creditworthiness scores",
		Buckets:   scoreBuckets,
	})

	m.assessmentLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "assessment_latency_milliseconds",
		Help:      "Histogram of end-to-end assessment latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	// HTTP Performance Metrics
	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	// Error Metrics
	m.errorsByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_component_total",
			Help:      "Total number of errors by component",
		},
		[]string{"component", "error_type"},
	)

	// System Performance Metrics
	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})
}

// RecordDocumentAnalyzed increments the analyzed documents counter.
func RecordDocumentAnalyzed(documentType string) {
	globalManager.documentsAnalyzed.WithLabelValues(documentType).Inc()
}

// RecordDocumentRejected increments the rejected documents counter.
func RecordDocumentRejected(documentType string) {
	globalManager.documentsRejected.WithLabelValues(documentType).Inc()
}

// RecordDuplicateDocument increments the duplicate submissions counter.
func RecordDuplicateDocument() {
	globalManager.duplicateDocuments.Inc()
}

// RecordExtractionLatency records feature extraction latency in milliseconds.
func RecordExtractionLatency(latencyMs float64) {
	globalManager.extractionLatency.Observe(latencyMs)
}

// RecordDocumentScore records a per-document validation score.
func RecordDocumentScore(score float64) {
	globalManager.documentScore.Observe(score)
}

// RecordPrediction increments the predictions counter.
func RecordPrediction(documentType string) {
	globalManager.predictions.WithLabelValues(documentType).Inc()
}

// RecordModelFallback increments the rule-based fallback counter.
func RecordModelFallback(documentType string) {
	globalManager.modelFallbacks.WithLabelValues(documentType).Inc()
}

// RecordPredictionLatency records model prediction latency in milliseconds.
func RecordPredictionLatency(latencyMs float64) {
	globalManager.predictionLatency.Observe(latencyMs)
}

// UpdateModelsLoaded sets the number of loaded document models.
func UpdateModelsLoaded(count int) {
	globalManager.modelsLoaded.Set(float64(count))
}

// RecordAssessment increments the assessments counter for a decision.
func RecordAssessment(decision string) {
	globalManager.assessments.WithLabelValues(decision).Inc()
}

// RecordAssessmentScore records an overall creditworthiness score.
func RecordAssessmentScore(score float64) {
	globalManager.assessmentScore.Observe(score)
}

// RecordAssessmentLatency records end-to-end assessment latency.
func RecordAssessmentLatency(latencyMs float64) {
	globalManager.assessmentLatency.Observe(latencyMs)
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
