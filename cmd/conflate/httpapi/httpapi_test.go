package httpapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lintang-b-s/addrconflate/cmd/conflate/httpapi"
	"github.com/lintang-b-s/addrconflate/internal/augment"
	"github.com/lintang-b-s/addrconflate/internal/geometry"
	"github.com/lintang-b-s/addrconflate/internal/metrics"
	"github.com/lintang-b-s/addrconflate/internal/numparse"
	"github.com/lintang-b-s/addrconflate/internal/sink"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	path := filepath.Join(t.TempDir(), "anchors.db")
	s, err := sink.Open(path)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	driver := augment.NewDriver(augment.HouseNumberParserFunc(numparse.Parse), nil)
	m := metrics.NewMetrics(prometheus.NewRegistry())

	r := chi.NewRouter()
	httpapi.Mount(r, driver, s, m)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestLookupStreamsAnchorsAndTrailer(t *testing.T) {
	srv := newTestServer(t)

	street := geometry.EncodePolyline([]geometry.Coordinate{
		geometry.NewCoordinate(0, 0),
		geometry.NewCoordinate(10, 0),
	})
	body := augment.LookupTuple{
		Streets: []augment.StreetInput{{ID: "S1", Line: street}},
		Batch: []augment.AddressRecord{
			{Number: "7", Lon: "5.000000", Lat: "0.00001"},
		},
	}
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(srv.URL+"/api/conflate/lookup", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	dec := json.NewDecoder(resp.Body)
	var lines []map[string]any
	for {
		var v map[string]any
		if err := dec.Decode(&v); err != nil {
			break
		}
		lines = append(lines, v)
	}
	require.Len(t, lines, 2)
	assert.Equal(t, "S1", lines[0]["street_id"])
	assert.Equal(t, "OBS", lines[0]["source"])
	assert.Equal(t, float64(1), lines[1]["matched"])
}

func TestLookupRejectsEmptyBatch(t *testing.T) {
	srv := newTestServer(t)

	street := geometry.EncodePolyline([]geometry.Coordinate{
		geometry.NewCoordinate(0, 0),
		geometry.NewCoordinate(10, 0),
	})
	body := augment.LookupTuple{
		Streets: []augment.StreetInput{{ID: "S1", Line: street}},
		Batch:   []augment.AddressRecord{},
	}
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	resp, err := http.Post(srv.URL+"/api/conflate/lookup", "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
