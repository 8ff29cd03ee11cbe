package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Global metrics instance for singleton pattern
	globalCollector *Collector
	collectorMutex  sync.Mutex
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Canvas metrics
	NodesCreated prometheus.Counter
	EdgesCreated prometheus.Counter

	// Workflow metrics: generate/edit/upscale submissions by outcome
	WorkflowSubmissions *prometheus.CounterVec

	// Paste ingestion metrics
	PasteUploads *prometheus.CounterVec
}

// NewCollector creates a new metrics collector with the given namespace
func NewCollector(namespace string) *Collector {
	// Use singleton pattern to avoid duplicate registration in tests
	collectorMutex.Lock()
	defer collectorMutex.Unlock()

	if globalCollector != nil {
		return globalCollector
	}

	registry := prometheus.NewRegistry()

	httpRequests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency distribution",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	nodesCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "nodes_created_total",
		Help:      "Total number of nodes added to the canvas",
	})

	edgesCreated := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "edges_created_total",
		Help:      "Total number of edges added to the canvas",
	})

	workflowSubmissions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "workflow_submissions_total",
			Help:      "Workflow submissions by workflow type and outcome",
		},
		[]string{"workflow", "outcome"},
	)

	pasteUploads := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "paste_uploads_total",
			Help:      "Clipboard paste uploads by outcome",
		},
		[]string{"outcome"},
	)

	registry.MustRegister(
		httpRequests,
		httpDuration,
		nodesCreated,
		edgesCreated,
		workflowSubmissions,
		pasteUploads,
	)

	globalCollector = &Collector{
		registry:            registry,
		HTTPRequests:        httpRequests,
		HTTPDuration:        httpDuration,
		NodesCreated:        nodesCreated,
		EdgesCreated:        edgesCreated,
		WorkflowSubmissions: workflowSubmissions,
		PasteUploads:        pasteUploads,
	}

	return globalCollector
}

// Registry exposes the underlying registry for the metrics endpoint.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// RecordNodeCreated counts one node appended to the canvas.
func (c *Collector) RecordNodeCreated() {
	if c == nil {
		return
	}
	c.NodesCreated.Inc()
}

// RecordEdgeCreated counts one edge appended to the canvas.
func (c *Collector) RecordEdgeCreated() {
	if c == nil {
		return
	}
	c.EdgesCreated.Inc()
}

// RecordWorkflow counts one workflow submission outcome.
func (c *Collector) RecordWorkflow(workflow, outcome string) {
	if c == nil {
		return
	}
	c.WorkflowSubmissions.WithLabelValues(workflow, outcome).Inc()
}

// RecordPaste counts one paste ingestion outcome.
func (c *Collector) RecordPaste(outcome string) {
	if c == nil {
		return
	}
	c.PasteUploads.WithLabelValues(outcome).Inc()
}
