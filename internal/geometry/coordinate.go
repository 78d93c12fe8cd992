// Package geometry implements the primitives the augmentation driver builds
// on: polyline decoding, vertex dedup, a spherical distance metric, point-on-line
// projection, side-of-line parity, and linestring slicing/arc length.
package geometry

import (
	"github.com/golang/geo/s2"
	"github.com/twpayne/go-polyline"
)

// Coordinate is an ordered (lon, lat) pair in decimal degrees, WGS-84.
type Coordinate struct {
	Lon float64
	Lat float64
}

func NewCoordinate(lon, lat float64) Coordinate {
	return Coordinate{Lon: lon, Lat: lat}
}

func (c Coordinate) s2Point() s2.Point {
	return s2.PointFromLatLng(s2.LatLngFromDegrees(c.Lat, c.Lon))
}

// polylinePrecision is the fixed decoding precision the batching/grouping
// collaborator (out of scope, §1) encodes streets with.
const polylinePrecision = 6

var polylineCodec = polyline.Codec{Dim: 2, Scale: 1e6}

// DecodePolyline decodes an encoded polyline string into a coordinate
// sequence with consecutive exact duplicates removed. Returns nil if the
// encoded string is malformed.
func DecodePolyline(encoded string) []Coordinate {
	pairs, _, err := polylineCodec.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil
	}
	coords := make([]Coordinate, len(pairs))
	for i, p := range pairs {
		// go-polyline pairs are encoded (lat, lon), matching the upstream
		// street dataset's encoder.
		coords[i] = Coordinate{Lat: p[0], Lon: p[1]}
	}
	return Dedup(coords)
}

// EncodePolyline is the inverse of DecodePolyline, used by diagnostics and
// tests that round-trip a sliced linestring.
func EncodePolyline(coords []Coordinate) string {
	pairs := make([][]float64, len(coords))
	for i, c := range coords {
		pairs[i] = []float64{c.Lat, c.Lon}
	}
	return string(polylineCodec.EncodeCoords(nil, pairs))
}

// Dedup removes consecutive coordinates that are exactly equal on both axes.
// Dedup must use exact equality, not a tolerance — tolerance-based dedup
// would change arc lengths across runs.
func Dedup(coords []Coordinate) []Coordinate {
	if len(coords) == 0 {
		return coords
	}
	out := make([]Coordinate, 0, len(coords))
	out = append(out, coords[0])
	for _, c := range coords[1:] {
		if c != out[len(out)-1] {
			out = append(out, c)
		}
	}
	return out
}
