package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lintang-b-s/addrconflate/internal/augment"
	"github.com/lintang-b-s/addrconflate/internal/metrics"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestObserveRecordsSkipsAndAnchors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)

	m.Observe(2, augment.Stats{
		SkippedUnparseable: 1,
		SkippedNoMatch:     2,
		ObservationAnchors: 3,
		VertexAnchors:      1,
	})

	assert.Equal(t, float64(1), counterValue(t, m.TuplesProcessed))
	assert.Equal(t, float64(1), counterValue(t, m.RecordsSkipped.WithLabelValues("unparseable")))
	assert.Equal(t, float64(2), counterValue(t, m.RecordsSkipped.WithLabelValues("no_match")))
	assert.Equal(t, float64(3), counterValue(t, m.AnchorsEmitted.WithLabelValues("OBS")))
	assert.Equal(t, float64(1), counterValue(t, m.AnchorsEmitted.WithLabelValues("VTX")))
}

func TestObserveAccumulatesAcrossCalls(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.NewMetrics(reg)

	m.Observe(1, augment.Stats{ObservationAnchors: 1})
	m.Observe(1, augment.Stats{ObservationAnchors: 1})

	assert.Equal(t, float64(2), counterValue(t, m.AnchorsEmitted.WithLabelValues("OBS")))
	assert.Equal(t, float64(2), counterValue(t, m.TuplesProcessed))
}
