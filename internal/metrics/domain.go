package metrics

import "github.com/prometheus/client_golang/prometheus"

// Translation and sync Prometheus metrics.
var (
	TranslationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "commentdex",
			Name:      "translations_total",
			Help:      "Total number of query translations",
		},
		[]string{"query"}, // "search" / "match_all"
	)

	TranslationDimensions = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "commentdex",
			Name:      "translation_filter_dimensions",
			Help:      "Active filter dimensions per translation",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		},
	)

	SyncDocumentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "commentdex",
			Name:      "sync_documents_total",
			Help:      "Documents written by sync runs",
		},
		[]string{"action"}, // "index" / "delete"
	)

	SyncBatchesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "commentdex",
			Name:      "sync_batches_total",
			Help:      "Bulk batches flushed by sync runs",
		},
	)

	QueueOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "commentdex",
			Name:      "queue_operations_total",
			Help:      "Dirty-queue operations by command and outcome",
		},
		[]string{"op", "status"}, // status: "ok" / "error"
	)
)

var domainMetricsRegistered bool

// RegisterDomainMetrics registers the translation and sync collectors.
// Must be called once from main.
func RegisterDomainMetrics() {
	if domainMetricsRegistered {
		return
	}
	prometheus.MustRegister(TranslationsTotal)
	prometheus.MustRegister(TranslationDimensions)
	prometheus.MustRegister(SyncDocumentsTotal)
	prometheus.MustRegister(SyncBatchesTotal)
	prometheus.MustRegister(QueueOperationsTotal)
	domainMetricsRegistered = true
}
