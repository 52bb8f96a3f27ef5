package metrics

import "github.com/prometheus/client_golang/prometheus"

// Indexing, search and classification Prometheus metrics.
var (
	DocumentsIndexedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "motionindex",
			Name:      "documents_indexed_total",
			Help:      "Total documents submitted for indexing",
		},
		[]string{"path", "status"}, // path: "single" / "bulk"; status: "success" / "error"
	)

	BulkChunksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "motionindex",
			Name:      "bulk_chunks_total",
			Help:      "Total bulk indexing chunks submitted",
		},
		[]string{"status"}, // "success" / "partial" / "error"
	)

	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "motionindex",
			Name:      "search_requests_total",
			Help:      "Total search requests",
		},
		[]string{"outcome"}, // "ok" / "failed_open"
	)

	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "motionindex",
			Name:      "search_duration_seconds",
			Help:      "Search execution duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
	)

	ClassificationRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "motionindex",
			Name:      "classification_requests_total",
			Help:      "Total LLM classification requests",
		},
		[]string{"model", "status"},
	)

	ClassificationCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "motionindex",
			Name:      "classification_cache_total",
			Help:      "Classification cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var pipelineMetricsRegistered bool

// RegisterPipelineMetrics registers indexing/search/classification metrics.
// Must be called once from main.
func RegisterPipelineMetrics() {
	if pipelineMetricsRegistered {
		return
	}
	prometheus.MustRegister(DocumentsIndexedTotal)
	prometheus.MustRegister(BulkChunksTotal)
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(ClassificationRequestsTotal)
	prometheus.MustRegister(ClassificationCacheTotal)
	pipelineMetricsRegistered = true
}
