// Package metrics defines the Prometheus collectors for puzzle serving.
//
// Metrics:
//   - konnections_puzzle_obtained_total{provenance}: boards served by origin.
//   - konnections_store_errors_total{op}: store read/write failures.
//   - konnections_source_fetch_seconds{outcome}: generation latency.
//
// A nil *Metrics is valid and records nothing.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "konnections"

// Metrics holds the collectors used by the provider.
type Metrics struct {
	Obtained    *prometheus.CounterVec
	StoreErrors *prometheus.CounterVec
	SourceFetch *prometheus.HistogramVec
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Obtained: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "puzzle",
			Name:      "obtained_total",
			Help:      "Puzzles served, by provenance (cached, fresh, fallback).",
		}, []string{"provenance"}),
		StoreErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "errors_total",
			Help:      "Puzzle store failures, by operation (read, corrupt, write).",
		}, []string{"op"}),
		SourceFetch: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "source",
			Name:      "fetch_seconds",
			Help:      "Duration of puzzle generation calls, by outcome.",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		}, []string{"outcome"}),
	}
	reg.MustRegister(m.Obtained, m.StoreErrors, m.SourceFetch)
	return m
}

// ObserveObtained counts one served board.
func (m *Metrics) ObserveObtained(provenance string) {
	if m == nil {
		return
	}
	m.Obtained.WithLabelValues(provenance).Inc()
}

// ObserveStoreError counts one store failure.
func (m *Metrics) ObserveStoreError(op string) {
	if m == nil {
		return
	}
	m.StoreErrors.WithLabelValues(op).Inc()
}

// ObserveSourceFetch records one generation call.
func (m *Metrics) ObserveSourceFetch(outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.SourceFetch.WithLabelValues(outcome).Observe(seconds)
}
