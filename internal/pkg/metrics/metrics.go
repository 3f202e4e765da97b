package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "coursescope"

// Lookup results recorded by RecordGradeLookup
const (
	LookupResultOK      = "ok"
	LookupResultInvalid = "invalid"
	LookupResultError   = "error"
)

// Metrics holds the service's Prometheus collectors
type Metrics struct {
	registry *prometheus.Registry

	searchOutcomes *prometheus.CounterVec
	searchDuration prometheus.Histogram
	gradeLookups   *prometheus.CounterVec
}

// New registers the service collectors, plus Go and process collectors, on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,

		searchOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "search_outcomes_total",
			Help:      "Global search resolutions by outcome",
		}, []string{"outcome"}),

		searchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Time spent resolving a global search",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),

		gradeLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "grade_lookups_total",
			Help:      "Course grade lookups by result",
		}, []string{"result"}),
	}

	reg.MustRegister(
		m.searchOutcomes,
		m.searchDuration,
		m.gradeLookups,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// ObserveSearch records one search resolution and how long it took
func (m *Metrics) ObserveSearch(outcome string, elapsed time.Duration) {
	m.searchOutcomes.WithLabelValues(outcome).Inc()
	m.searchDuration.Observe(elapsed.Seconds())
}

// RecordGradeLookup counts one grade lookup by result
func (m *Metrics) RecordGradeLookup(result string) {
	m.gradeLookups.WithLabelValues(result).Inc()
}

// Handler exposes the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
