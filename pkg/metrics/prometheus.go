// Package metrics provides Prometheus metrics for the matchday planning service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the matchday service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Planning
	plansSubmitted      prometheus.Counter
	plansDuplicate      prometheus.Counter
	plansCompleted      prometheus.Counter
	plansFailed         prometheus.Counter
	planningLatency     prometheus.Histogram
	optimizerIterations prometheus.Histogram
	optimizerSwaps      prometheus.Histogram
	planFinalStdDev     prometheus.Gauge
	groupsFormed        prometheus.Counter
	benchMembers        prometheus.Counter
	byes                prometheus.Counter

	// Storage
	planStoreSize     prometheus.Gauge
	strengthBoardSize prometheus.Gauge
	repositoryLatency *prometheus.HistogramVec

	// Queue
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueued      prometheus.Counter
	queueDequeued      prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Workers
	workerCount             prometheus.Gauge
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec

	// System
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
		namespace:        "matchday",
		subsystem:        "planner",
		histogramBuckets: prometheus.DefBuckets,
		constLabels:      map[string]string{},
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string, buckets []float64) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	})
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.plansSubmitted = m.counter("plans_submitted_total", "Total number of plan requests accepted for processing")
	m.plansDuplicate = m.counter("plans_duplicate_total", "Total number of resubmitted plan requests")
	m.plansCompleted = m.counter("plans_completed_total", "Total number of plans computed successfully")
	m.plansFailed = m.counter("plans_failed_total", "Total number of plan requests that failed")
	m.planningLatency = m.histogram("planning_latency_milliseconds",
		"Histogram of end-to-end planning latency in milliseconds", m.histogramBuckets)
	m.optimizerIterations = m.histogram("optimizer_iterations",
		"Balance optimizer rounds per plan", prometheus.LinearBuckets(0, 5, 7))
	m.optimizerSwaps = m.histogram("optimizer_swaps",
		"Accepted member swaps per plan", prometheus.LinearBuckets(0, 5, 7))
	m.planFinalStdDev = m.gauge("plan_final_std_dev",
		"Standard deviation of group strength in the most recent plan")
	m.groupsFormed = m.counter("groups_formed_total", "Total number of groups formed")
	m.benchMembers = m.counter("bench_members_total", "Total number of participants placed on a bench")
	m.byes = m.counter("byes_total", "Total number of groups left without an opponent")

	m.planStoreSize = m.gauge("plan_store_size", "Number of plans held in memory")
	m.strengthBoardSize = m.gauge("strength_board_size", "Number of participants on the strength board")
	m.repositoryLatency = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "repository_latency_milliseconds",
			Help:        "Repository operation latency in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: m.constLabels,
		},
		[]string{"store", "operation"},
	)

	m.queueSize = m.gauge("queue_size", "Current size of the plan job queue (backlog indicator)")
	m.queueCapacity = m.gauge("queue_capacity", "Maximum capacity of the plan job queue")
	m.queueUtilization = m.gauge("queue_utilization_ratio", "Queue utilization ratio (size / capacity)")
	m.queueEnqueued = m.counter("queue_enqueue_total", "Total number of jobs enqueued")
	m.queueDequeued = m.counter("queue_dequeue_total", "Total number of jobs dequeued")
	m.queueEnqueueErrors = m.counter("queue_enqueue_errors_total", "Total number of rejected enqueue attempts")

	m.workerCount = m.gauge("worker_count", "Number of started workers")
	m.workerActiveCount = m.gauge("worker_active_count", "Number of workers currently planning")
	m.workerProcessingLatency = m.histogram("worker_processing_latency_milliseconds",
		"Worker job processing latency in milliseconds", m.histogramBuckets)
	m.workerErrors = m.counter("worker_errors_total", "Total number of worker processing errors")

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests by endpoint and method",
			ConstLabels: m.constLabels,
		},
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_request_duration_milliseconds",
			Help:        "HTTP request duration in milliseconds",
			Buckets:     m.histogramBuckets,
			ConstLabels: m.constLabels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorsByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "errors_by_component_total",
			Help:        "Total number of errors by component and type",
			ConstLabels: m.constLabels,
		},
		[]string{"component", "error_type"},
	)

	m.systemMemoryUsage = m.gauge("system_memory_usage_bytes", "System memory usage in bytes")
	m.systemGoroutineCount = m.gauge("system_goroutine_count", "Number of goroutines")
}

// RecordPlanSubmitted increments the accepted plan requests counter.
func RecordPlanSubmitted() {
	globalManager.plansSubmitted.Inc()
}

// RecordPlanDuplicate increments the duplicate plan requests counter.
func RecordPlanDuplicate() {
	globalManager.plansDuplicate.Inc()
}

// RecordPlanCompleted records a finished plan and its shape.
func RecordPlanCompleted(latencyMs float64, iterations, swaps, groups, bench, byes int, finalStdDev float64) {
	globalManager.plansCompleted.Inc()
	globalManager.planningLatency.Observe(latencyMs)
	globalManager.optimizerIterations.Observe(float64(iterations))
	globalManager.optimizerSwaps.Observe(float64(swaps))
	globalManager.groupsFormed.Add(float64(groups))
	globalManager.benchMembers.Add(float64(bench))
	globalManager.byes.Add(float64(byes))
	globalManager.planFinalStdDev.Set(finalStdDev)
}

// RecordPlanFailed increments the failed plans counter.
func RecordPlanFailed() {
	globalManager.plansFailed.Inc()
}

// UpdatePlanStoreSize sets the number of stored plans.
func UpdatePlanStoreSize(size int) {
	globalManager.planStoreSize.Set(float64(size))
}

// UpdateStrengthBoardSize sets the number of participants on the strength board.
func UpdateStrengthBoardSize(size int) {
	globalManager.strengthBoardSize.Set(float64(size))
}

// RecordRepositoryLatency records the latency of a repository operation.
func RecordRepositoryLatency(store, operation string, latencyMs float64) {
	globalManager.repositoryLatency.WithLabelValues(store, operation).Observe(latencyMs)
}

// UpdateQueueSize sets the current queue size and utilization.
func UpdateQueueSize(size, capacity int) {
	globalManager.queueSize.Set(float64(size))
	if capacity > 0 {
		globalManager.queueUtilization.Set(float64(size) / float64(capacity))
	}
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueued.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeued.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// UpdateWorkerCount sets the number of started workers.
func UpdateWorkerCount(count int) {
	globalManager.workerCount.Set(float64(count))
}

// UpdateWorkerActiveCount sets the number of workers currently planning.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
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
