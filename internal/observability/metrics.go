// Package observability exposes Prometheus metrics for the ingestion
// pipeline.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus counters for one ingestion process.
type Metrics struct {
	EntriesProcessed *prometheus.CounterVec // label: source
	EntriesDuplicate prometheus.Counter
	ReportsAccepted  prometheus.Counter
	SourceFailures   *prometheus.CounterVec // label: source
	GeocodeFailures  prometheus.Counter
	ReportsCleaned   prometheus.Counter
}

// NewMetrics creates the pipeline metrics registered against a fresh
// registry, returned alongside for the HTTP handler.
func NewMetrics() (*Metrics, *prometheus.Registry) {
	m := &Metrics{
		EntriesProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aud_crisis",
			Name:      "entries_processed_total",
			Help:      "Feed entries analyzed, by source.",
		}, []string{"source"}),
		EntriesDuplicate: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aud_crisis",
			Name:      "entries_duplicate_total",
			Help:      "Feed entries rejected by the deduplicator.",
		}),
		ReportsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aud_crisis",
			Name:      "reports_accepted_total",
			Help:      "Reports that cleared the severity gate and were stored.",
		}),
		SourceFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aud_crisis",
			Name:      "source_failures_total",
			Help:      "Sources that failed during a scan run.",
		}, []string{"source"}),
		GeocodeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aud_crisis",
			Name:      "geocode_failures_total",
			Help:      "Reports stored without coordinates after a failed resolve.",
		}),
		ReportsCleaned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aud_crisis",
			Name:      "reports_cleaned_total",
			Help:      "Stale reports removed by retention cleanup.",
		}),
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		m.EntriesProcessed,
		m.EntriesDuplicate,
		m.ReportsAccepted,
		m.SourceFailures,
		m.GeocodeFailures,
		m.ReportsCleaned,
	)
	return m, reg
}

// Handler returns the scrape handler for the given registry.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
