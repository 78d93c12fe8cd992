// Package httpapi is a thin HTTP front end over the augmentation driver: it
// accepts one lookup tuple as a JSON POST body and streams back NDJSON
// anchor records while durably persisting the same anchors to the
// reference sink, generalizing the teacher's chi-based REST handlers
// (pkg/server/mm_rest) to this core's request/response shape.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/lintang-b-s/addrconflate/internal/augment"
	"github.com/lintang-b-s/addrconflate/internal/metrics"
	"github.com/lintang-b-s/addrconflate/internal/sink"
)

// LookupRequest is the POST body for /api/conflate/lookup: a lookup tuple
// exactly as augment.LookupTuple models it.
type LookupRequest struct {
	augment.LookupTuple
}

// Bind validates the decoded request, mirroring the teacher's
// render.Binder convention (pkg/server/mm_rest/handlers.go) without pulling
// in go-chi/render — the core's own Non-goals (§1) exclude input
// validation beyond this.
func (req *LookupRequest) Bind() error {
	if len(req.Streets) == 0 {
		return errors.New("lookup tuple must carry at least one candidate street")
	}
	if len(req.Batch) == 0 {
		return errors.New("lookup tuple must carry at least one address record")
	}
	return nil
}

// StatsResponse is the trailer line written after the NDJSON anchor stream,
// reporting the tuple's skip counters (by §7 taxonomy class) and anchor
// counts.
type StatsResponse struct {
	Matched            int `json:"matched"`
	SkippedUnparseable int `json:"skipped_unparseable"`
	SkippedNoMatch     int `json:"skipped_no_match"`
	ObservationAnchors int `json:"observation_anchors"`
	VertexAnchors      int `json:"vertex_anchors"`
}

type Handler struct {
	driver *augment.Driver
	sink   *sink.BoltSink
	m      *metrics.Metrics
}

// Mount registers the conflation routes on r.
func Mount(r chi.Router, driver *augment.Driver, s *sink.BoltSink, m *metrics.Metrics) {
	h := &Handler{driver: driver, sink: s, m: m}
	r.Route("/api/conflate", func(r chi.Router) {
		r.Post("/lookup", h.Lookup)
	})
}

// Lookup decodes one lookup tuple, runs it through the augmentation driver,
// streams each emitted anchor back as one NDJSON line while also durably
// persisting it through the reference sink, and finally writes a trailer
// line with the tuple's skip-counter stats.
func (h *Handler) Lookup(w http.ResponseWriter, r *http.Request) {
	var req LookupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if err := req.Bind(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)
	flusher, _ := w.(http.Flusher)

	stream := &streamingSink{w: w, flusher: flusher, downstream: h.sink}
	stats, err := h.driver.Process(req.LookupTuple, stream)
	if err != nil {
		// Anchors already streamed can't be retracted; report failure on a
		// trailer line rather than an HTTP error, since headers are sent.
		json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		return
	}

	h.m.Observe(len(req.Streets), stats)
	json.NewEncoder(w).Encode(StatsResponse{
		Matched:            stats.Matched,
		SkippedUnparseable: stats.SkippedUnparseable,
		SkippedNoMatch:     stats.SkippedNoMatch,
		ObservationAnchors: stats.ObservationAnchors,
		VertexAnchors:      stats.VertexAnchors,
	})
}

// streamingSink fans each anchor out to the HTTP response (as one NDJSON
// line) and to the durable bolt sink, then forwards EndTuple to the latter
// so the batch actually gets flushed to disk.
type streamingSink struct {
	w          http.ResponseWriter
	flusher    http.Flusher
	downstream *sink.BoltSink
	enc        *json.Encoder
}

func (s *streamingSink) Emit(a augment.Anchor) error {
	if s.enc == nil {
		s.enc = json.NewEncoder(s.w)
	}
	if err := s.enc.Encode(anchorWire(a)); err != nil {
		return err
	}
	if s.flusher != nil {
		s.flusher.Flush()
	}
	return s.downstream.Emit(a)
}

func (s *streamingSink) EndTuple() error {
	return s.downstream.EndTuple()
}

// anchorWireRecord is the JSON shape of one streamed anchor, formatted per
// §3's serialization rules (seven fractional digits on coordinates,
// truncated-not-rounded three-decimal VTX house numbers).
type anchorWireRecord struct {
	StreetID    string  `json:"street_id"`
	Source      string  `json:"source"`
	HouseNumber string  `json:"housenumber"`
	Lon         *string `json:"lon,omitempty"`
	Lat         *string `json:"lat,omitempty"`
	ProjLon     string  `json:"proj_lon"`
	ProjLat     string  `json:"proj_lat"`
	Side        *string `json:"side,omitempty"`
}

func anchorWire(a augment.Anchor) anchorWireRecord {
	var side *string
	if a.Side != nil {
		s := a.Side.String()
		side = &s
	}
	var lon, lat *string
	if a.Lon != nil {
		s := augment.FormatCoordinate(*a.Lon)
		lon = &s
	}
	if a.Lat != nil {
		s := augment.FormatCoordinate(*a.Lat)
		lat = &s
	}
	return anchorWireRecord{
		StreetID:    a.StreetID,
		Source:      string(a.Source),
		HouseNumber: augment.FormatHouseNumber(a),
		Lon:         lon,
		Lat:         lat,
		ProjLon:     augment.FormatCoordinate(a.ProjLon),
		ProjLat:     augment.FormatCoordinate(a.ProjLat),
		Side:        side,
	}
}
