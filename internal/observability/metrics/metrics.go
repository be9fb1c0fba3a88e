package metrics

import "github.com/prometheus/client_golang/prometheus"

// ImportMetrics exposes counters/histograms for lead ingestion.
type ImportMetrics struct {
	batchesTotal    *prometheus.CounterVec
	candidatesTotal *prometheus.CounterVec
	batchLatency    *prometheus.HistogramVec
}

func NewImportMetrics(reg prometheus.Registerer) *ImportMetrics {
	m := &ImportMetrics{
		batchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadflow",
			Subsystem: "importer",
			Name:      "batches_total",
			Help:      "Total batch submissions to the lead store",
		}, []string{"status"}),
		candidatesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "leadflow",
			Subsystem: "importer",
			Name:      "candidates_total",
			Help:      "Total candidates by ingestion outcome",
		}, []string{"outcome"}),
		batchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "leadflow",
			Subsystem: "importer",
			Name:      "batch_latency_seconds",
			Help:      "Latency of batch submissions to the lead store",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.batchesTotal, m.candidatesTotal, m.batchLatency)
	return m
}

// ObserveBatch records one batch submission and its duration.
func (m *ImportMetrics) ObserveBatch(status string, seconds float64) {
	if m == nil {
		return
	}
	m.batchesTotal.WithLabelValues(status).Inc()
	m.batchLatency.WithLabelValues(status).Observe(seconds)
}

// ObserveCandidates records candidate outcomes (created, error, skipped).
func (m *ImportMetrics) ObserveCandidates(outcome string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.candidatesTotal.WithLabelValues(outcome).Add(float64(n))
}
