package augment

import (
	"log"
	"sort"
	"strconv"

	"github.com/lintang-b-s/addrconflate/internal/arclen"
	"github.com/lintang-b-s/addrconflate/internal/candidates"
	"github.com/lintang-b-s/addrconflate/internal/geometry"
	"github.com/lintang-b-s/addrconflate/internal/interpolate"
	"github.com/lintang-b-s/addrconflate/internal/scheme"
)

// street is the driver's working record for one candidate street: its
// decoded geometry, the observations that matched it (owned here, not kept
// in a side table indexed by position — see design notes), and its
// inferred scheme.
type street struct {
	id     string
	coords []geometry.Coordinate
	obs    []observation
	scheme scheme.Scheme
}

// Stats summarizes one Process call, giving a caller visibility into the
// skip counters §7 requires be logged without making those counts part of
// the anchor stream itself.
type Stats struct {
	Matched            int
	SkippedUnparseable int
	SkippedNoMatch     int
	ObservationAnchors int
	VertexAnchors      int
}

// Driver is the augmentation driver (§4.6). It holds no state between
// Process calls — it is a pure function of its input tuple modulo the
// injected HouseNumberParser.
type Driver struct {
	parser HouseNumberParser
	logger Logger
}

func NewDriver(parser HouseNumberParser, logger Logger) *Driver {
	if logger == nil {
		logger = log.Default()
	}
	return &Driver{parser: parser, logger: logger}
}

// Process runs one lookup tuple to completion: it matches and emits an OBS
// anchor for every valid address record, then walks every street's
// vertices after the first (the last one included) emitting VTX anchors,
// then signals end-of-tuple to
// sink. All anchors for this tuple are emitted before Process returns (or
// fails) — the caller's sink defines whether and how they are persisted.
func (d *Driver) Process(tuple LookupTuple, sink Sink) (Stats, error) {
	var stats Stats

	streets := make([]street, len(tuple.Streets))
	streetCoords := make([][]geometry.Coordinate, len(tuple.Streets))
	for i, s := range tuple.Streets {
		coords := geometry.DecodePolyline(s.Line)
		streets[i] = street{id: s.ID, coords: coords}
		streetCoords[i] = coords
	}

	seq := 0
	for _, rec := range tuple.Batch {
		num, ok := d.parser.Parse(rec.Number)
		if !ok {
			d.logger.Printf("addrconflate: skip record, unparseable housenumber %q", rec.Number)
			stats.SkippedUnparseable++
			continue
		}

		lon, lonErr := strconv.ParseFloat(rec.Lon, 64)
		lat, latErr := strconv.ParseFloat(rec.Lat, 64)
		if lonErr != nil || latErr != nil {
			d.logger.Printf("addrconflate: skip record, invalid point (%q, %q)", rec.Lon, rec.Lat)
			stats.SkippedUnparseable++
			continue
		}
		point := geometry.NewCoordinate(lon, lat)

		match, found := candidates.BestMatch(streetCoords, point)
		if !found {
			d.logger.Printf("addrconflate: skip record, no street match for housenumber %d", num)
			stats.SkippedNoMatch++
			continue
		}

		matched := &streets[match.StreetIndex]
		arcDistance := arclen.Measure(matched.coords, match.Projection)
		side := match.Projection.Side

		matched.obs = append(matched.obs, observation{
			houseNumber: num,
			arcDistance: arcDistance,
			side:        side,
			seq:         seq,
		})
		seq++

		obsLon, obsLat := point.Lon, point.Lat
		obsSide := side
		if err := sink.Emit(Anchor{
			StreetID:    matched.id,
			Source:      SourceOBS,
			HouseNumber: float64(num),
			Lon:         &obsLon,
			Lat:         &obsLat,
			ProjLon:     match.Projection.Foot.Lon,
			ProjLat:     match.Projection.Foot.Lat,
			Side:        &obsSide,
		}); err != nil {
			return stats, err
		}
		stats.Matched++
		stats.ObservationAnchors++
	}

	for i := range streets {
		st := &streets[i]
		sort.SliceStable(st.obs, func(a, b int) bool {
			return st.obs[a].arcDistance < st.obs[b].arcDistance
		})
		st.scheme = scheme.Classify(toSchemeObservations(st.obs))
	}

	for i := range streets {
		st := &streets[i]
		if len(st.coords) < 2 {
			continue
		}

		var cumulative float64
		allTrack := toTrack(st.obs)
		leftTrack := toTrack(filterSide(st.obs, geometry.SideL))
		rightTrack := toTrack(filterSide(st.obs, geometry.SideR))

		for vi := 1; vi < len(st.coords); vi++ {
			cumulative += geometry.DistanceMeters(st.coords[vi-1], st.coords[vi])
			vertex := st.coords[vi]

			if st.scheme == scheme.ZigZag {
				if hn, ok := interpolate.At(allTrack, cumulative); ok {
					if err := sink.Emit(vertexAnchor(st.id, vertex, hn)); err != nil {
						return stats, err
					}
					stats.VertexAnchors++
				}
				continue
			}

			if hn, ok := interpolate.At(leftTrack, cumulative); ok {
				if err := sink.Emit(vertexAnchor(st.id, vertex, hn)); err != nil {
					return stats, err
				}
				stats.VertexAnchors++
			}
			if hn, ok := interpolate.At(rightTrack, cumulative); ok {
				if err := sink.Emit(vertexAnchor(st.id, vertex, hn)); err != nil {
					return stats, err
				}
				stats.VertexAnchors++
			}
		}
	}

	if err := sink.EndTuple(); err != nil {
		return stats, err
	}
	return stats, nil
}

func vertexAnchor(streetID string, vertex geometry.Coordinate, houseNumber float64) Anchor {
	return Anchor{
		StreetID:    streetID,
		Source:      SourceVTX,
		HouseNumber: houseNumber,
		ProjLon:     vertex.Lon,
		ProjLat:     vertex.Lat,
	}
}

func toSchemeObservations(obs []observation) []scheme.Observation {
	out := make([]scheme.Observation, len(obs))
	for i, o := range obs {
		out[i] = scheme.Observation{HouseNumber: o.houseNumber, Side: o.side}
	}
	return out
}

func toTrack(obs []observation) []interpolate.Point {
	out := make([]interpolate.Point, len(obs))
	for i, o := range obs {
		out[i] = interpolate.Point{ArcDistance: o.arcDistance, HouseNumber: float64(o.houseNumber)}
	}
	return out
}

func filterSide(obs []observation, side geometry.Side) []observation {
	out := make([]observation, 0, len(obs))
	for _, o := range obs {
		if o.side == side {
			out = append(out, o)
		}
	}
	return out
}
