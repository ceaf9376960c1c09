package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	docscan = "docscan"

	// Pipeline metrics
	jobsTotal           = "jobs_total"
	pagesProcessedTotal = "pages_processed_total"
	detectionsTotal     = "detections_total"
	pageDurationSeconds = "page_processing_duration_seconds"

	// Labels
	jobStatusLabel         = "status"
	detectionCategoryLabel = "category"
)

var jobsTotalLabels = []string{
	jobStatusLabel,
}

var detectionsTotalLabels = []string{
	detectionCategoryLabel,
}

/**
* Metrics definition
**/
var jobsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: docscan,
		Name:      jobsTotal,
		Help:      "number of processing jobs reaching each terminal status",
	},
	jobsTotalLabels,
)

var pagesProcessedTotalMetric = prometheus.NewCounter(
	prometheus.CounterOpts{
		Subsystem: docscan,
		Name:      pagesProcessedTotal,
		Help:      "number of page images run through the detection pipeline",
	},
)

var detectionsTotalMetric = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Subsystem: docscan,
		Name:      detectionsTotal,
		Help:      "number of accepted detections per category",
	},
	detectionsTotalLabels,
)

var pageDurationSecondsMetric = prometheus.NewHistogram(
	prometheus.HistogramOpts{
		Subsystem: docscan,
		Name:      pageDurationSeconds,
		Help:      "time spent processing a single page",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	},
)

func IncreaseJobsTotalMetric(status string) {
	labels := prometheus.Labels{
		jobStatusLabel: status,
	}
	jobsTotalMetric.With(labels).Inc()
}

func IncreasePagesProcessedMetric() {
	pagesProcessedTotalMetric.Inc()
}

func IncreaseDetectionsTotalMetric(category string, count int) {
	labels := prometheus.Labels{
		detectionCategoryLabel: category,
	}
	detectionsTotalMetric.With(labels).Add(float64(count))
}

func ObservePageDurationMetric(seconds float64) {
	pageDurationSecondsMetric.Observe(seconds)
}

func init() {
	registerMetrics()
}

func registerMetrics() {
	prometheus.MustRegister(jobsTotalMetric)
	prometheus.MustRegister(pagesProcessedTotalMetric)
	prometheus.MustRegister(detectionsTotalMetric)
	prometheus.MustRegister(pageDurationSecondsMetric)
}
