package scraper

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for lookups.
type Metrics struct {
	Registry         *prometheus.Registry
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  prometheus.Histogram
	ErrorsTotal      *prometheus.CounterVec
	ResolutionsTotal *prometheus.CounterVec
	RecordsExtracted prometheus.Counter
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booknotes_requests_total",
			Help: "Total HTTP requests issued, by request kind.",
		},
		[]string{"kind"},
	)
	requestDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "booknotes_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booknotes_errors_total",
			Help: "Total number of transport errors by type.",
		},
		[]string{"error_type"},
	)
	resolutions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "booknotes_resolutions_total",
			Help: "Keyword resolutions by the tier that answered (domestic, catalog, cache, miss).",
		},
		[]string{"tier"},
	)
	records := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "booknotes_records_extracted_total",
			Help: "Total number of book records extracted from detail pages.",
		},
	)

	registry.MustRegister(requests, requestDuration, errorsTotal, resolutions, records)

	return &Metrics{
		Registry:         registry,
		RequestsTotal:    requests,
		RequestDuration:  requestDuration,
		ErrorsTotal:      errorsTotal,
		ResolutionsTotal: resolutions,
		RecordsExtracted: records,
	}
}

// IncRequest increments the requests counter for a request kind.
func (m *Metrics) IncRequest(kind string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(kind).Inc()
}

// ObserveDuration records an HTTP request duration.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.Observe(d.Seconds())
}

// IncError increments the errors counter for a type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}

// IncResolution counts which tier answered a keyword.
func (m *Metrics) IncResolution(tier string) {
	if m == nil {
		return
	}
	m.ResolutionsTotal.WithLabelValues(tier).Inc()
}

// IncRecords increments the extracted records counter.
func (m *Metrics) IncRecords() {
	if m == nil {
		return
	}
	m.RecordsExtracted.Inc()
}
