// Package prometheus records pipeline metrics with the Prometheus client.
package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/custodia-labs/tailor/internal/core/ports/driven"
)

// Ensure Metrics implements the interface.
var _ driven.Metrics = (*Metrics)(nil)

const namespace = "tailor"

// Metrics holds the collectors registered for one process.
type Metrics struct {
	registry *prometheus.Registry

	// IngestTotal counts ingestions. Labels: result (ok, invalid_input, ...)
	IngestTotal *prometheus.CounterVec

	// IngestChunks tracks how many chunks each document produced.
	IngestChunks prometheus.Histogram

	// TailorTotal counts tailoring requests. Labels: result
	TailorTotal *prometheus.CounterVec

	// GenerationDuration tracks LLM latency in seconds.
	GenerationDuration prometheus.Histogram

	// RetrievedChunks tracks how many chunks each retrieval returned.
	RetrievedChunks prometheus.Histogram

	// HTTPRequests counts API requests. Labels: method, route, status
	HTTPRequests *prometheus.CounterVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		IngestTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ingest_total",
				Help:      "Total number of resume ingestions by result",
			},
			[]string{"result"},
		),
		IngestChunks: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "ingest_chunks",
				Help:      "Number of chunks produced per ingested resume",
				Buckets:   []float64{1, 5, 10, 20, 50, 100},
			},
		),
		TailorTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "tailor_total",
				Help:      "Total number of tailoring requests by result",
			},
			[]string{"result"},
		),
		GenerationDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "generation_duration_seconds",
				Help:      "Duration of LLM generation in seconds",
				Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
			},
		),
		RetrievedChunks: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "retrieved_chunks",
				Help:      "Number of chunks returned per retrieval",
				Buckets:   []float64{0, 1, 3, 6, 12, 25, 50},
			},
		),
		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP API requests",
			},
			[]string{"method", "route", "status"},
		),
	}
}

// ObserveIngest records one ingestion.
func (m *Metrics) ObserveIngest(result string, chunks int) {
	m.IngestTotal.WithLabelValues(result).Inc()
	if result == driven.ResultOK {
		m.IngestChunks.Observe(float64(chunks))
	}
}

// ObserveRetrieval records one retrieval.
func (m *Metrics) ObserveRetrieval(retrieved int) {
	m.RetrievedChunks.Observe(float64(retrieved))
}

// ObserveTailor records one tailoring request. A zero duration means
// generation never ran and is not observed.
func (m *Metrics) ObserveTailor(result string, generation time.Duration) {
	m.TailorTotal.WithLabelValues(result).Inc()
	if generation > 0 {
		m.GenerationDuration.Observe(generation.Seconds())
	}
}

// ObserveHTTP records one API request.
func (m *Metrics) ObserveHTTP(method, route string, status int) {
	m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
