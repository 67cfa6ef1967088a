package observability

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Global metrics instance for singleton pattern
	globalCollector *Collector
	collectorMutex  sync.Mutex
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	// Registry for this collector instance
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Analysis metrics
	AnalysesTotal    *prometheus.CounterVec
	AnalysisDuration prometheus.Histogram
	GraphNodes       prometheus.Gauge
	GraphEdges       prometheus.Gauge

	// Query metrics
	QueriesTotal  *prometheus.CounterVec
	QueryDuration *prometheus.HistogramVec

	// Provider metrics
	ProviderCalls     *prometheus.CounterVec
	ProviderFallbacks prometheus.Counter
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
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	analysesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Total number of analysis runs by outcome",
		},
		[]string{"status"},
	)

	analysisDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Full extract-score-build duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
	)

	graphNodes := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_nodes",
			Help:      "Node count of the currently published graph",
		},
	)

	graphEdges := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_edges",
			Help:      "Edge count of the currently published graph",
		},
	)

	queriesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Total number of query operations by kind",
		},
		[]string{"kind"},
	)

	queryDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "Query operation duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"kind"},
	)

	providerCalls := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_calls_total",
			Help:      "Total number of external provider calls by outcome",
		},
		[]string{"outcome"},
	)

	providerFallbacks := prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_fallbacks_total",
			Help:      "Extractions that fell back to the local analyzer",
		},
	)

	registry.MustRegister(
		httpRequests,
		httpDuration,
		analysesTotal,
		analysisDuration,
		graphNodes,
		graphEdges,
		queriesTotal,
		queryDuration,
		providerCalls,
		providerFallbacks,
	)

	globalCollector = &Collector{
		registry:          registry,
		HTTPRequests:      httpRequests,
		HTTPDuration:      httpDuration,
		AnalysesTotal:     analysesTotal,
		AnalysisDuration:  analysisDuration,
		GraphNodes:        graphNodes,
		GraphEdges:        graphEdges,
		QueriesTotal:      queriesTotal,
		QueryDuration:     queryDuration,
		ProviderCalls:     providerCalls,
		ProviderFallbacks: providerFallbacks,
	}

	return globalCollector
}

// Registry returns the prometheus registry backing this collector
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// ResetForTesting resets the global collector for testing purposes
func ResetForTesting() {
	collectorMutex.Lock()
	defer collectorMutex.Unlock()
	globalCollector = nil
}

// ObserveQuery records one query operation with its duration
func (c *Collector) ObserveQuery(kind string, took time.Duration) {
	c.QueriesTotal.WithLabelValues(kind).Inc()
	c.QueryDuration.WithLabelValues(kind).Observe(took.Seconds())
}

// ObserveAnalysis records one analysis run with its outcome and duration
func (c *Collector) ObserveAnalysis(status string, took time.Duration) {
	c.AnalysesTotal.WithLabelValues(status).Inc()
	if status == "success" {
		c.AnalysisDuration.Observe(took.Seconds())
	}
}

// SetGraphSize records the size of the currently published graph
func (c *Collector) SetGraphSize(nodes, edges int) {
	c.GraphNodes.Set(float64(nodes))
	c.GraphEdges.Set(float64(edges))
}
