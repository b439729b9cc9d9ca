// Package metrics provides Prometheus metrics for the document QA service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors.
type Metrics struct {
	LoadsTotal        *prometheus.CounterVec
	QueriesTotal      *prometheus.CounterVec
	QueryDuration     prometheus.Histogram
	ChunksIndexed     prometheus.Counter
	FilesSkippedTotal prometheus.Counter
	SessionsActive    prometheus.Gauge
}

// New creates and registers all collectors on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith creates the collectors and registers them on reg.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		LoadsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docuchat_loads_total",
				Help: "Total number of load actions",
			},
			[]string{"origin", "status"},
		),
		QueriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docuchat_queries_total",
				Help: "Total number of answered queries",
			},
			[]string{"status"},
		),
		QueryDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "docuchat_query_duration_seconds",
				Help:    "End-to-end query latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		ChunksIndexed: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "docuchat_chunks_indexed_total",
				Help: "Total number of chunks embedded and indexed",
			},
		),
		FilesSkippedTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "docuchat_files_skipped_total",
				Help: "Total number of files skipped during loading",
			},
		),
		SessionsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "docuchat_sessions_active",
				Help: "Number of live sessions",
			},
		),
	}
}
