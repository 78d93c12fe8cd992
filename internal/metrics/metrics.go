// Package metrics wires the augmentation driver's skip-counter taxonomy
// (see augment.Stats) and anchor throughput into Prometheus counters,
// generalizing the registry/handler wiring cmd/engine/main.go does for the
// routing service's own metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/lintang-b-s/addrconflate/internal/augment"
)

// Metrics holds every counter the conflation pipeline reports. Construct
// one per process with NewMetrics and register it with a
// *prometheus.Registry before serving /metrics.
type Metrics struct {
	TuplesProcessed prometheus.Counter
	RecordsSkipped  *prometheus.CounterVec
	AnchorsEmitted  *prometheus.CounterVec
	StreetsPerTuple prometheus.Histogram
}

// NewMetrics constructs and registers the counters on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		TuplesProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "addrconflate",
			Name:      "tuples_processed_total",
			Help:      "Lookup tuples run through the augmentation driver.",
		}),
		RecordsSkipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "addrconflate",
			Name:      "records_skipped_total",
			Help:      "Address records skipped, by reason.",
		}, []string{"reason"}),
		AnchorsEmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "addrconflate",
			Name:      "anchors_emitted_total",
			Help:      "Anchors emitted to the sink, by source (OBS or VTX).",
		}, []string{"source"}),
		StreetsPerTuple: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "addrconflate",
			Name:      "streets_per_tuple",
			Help:      "Number of candidate streets in each processed lookup tuple.",
			Buckets:   prometheus.LinearBuckets(1, 1, 10),
		}),
	}

	reg.MustRegister(
		m.TuplesProcessed,
		m.RecordsSkipped,
		m.AnchorsEmitted,
		m.StreetsPerTuple,
	)
	return m
}

// Observe records one completed driver.Process call's outcome.
func (m *Metrics) Observe(streetCount int, stats augment.Stats) {
	m.TuplesProcessed.Inc()
	m.StreetsPerTuple.Observe(float64(streetCount))

	if stats.SkippedUnparseable > 0 {
		m.RecordsSkipped.WithLabelValues("unparseable").Add(float64(stats.SkippedUnparseable))
	}
	if stats.SkippedNoMatch > 0 {
		m.RecordsSkipped.WithLabelValues("no_match").Add(float64(stats.SkippedNoMatch))
	}
	if stats.ObservationAnchors > 0 {
		m.AnchorsEmitted.WithLabelValues("OBS").Add(float64(stats.ObservationAnchors))
	}
	if stats.VertexAnchors > 0 {
		m.AnchorsEmitted.WithLabelValues("VTX").Add(float64(stats.VertexAnchors))
	}
}
