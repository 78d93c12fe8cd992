// Package augment implements the augmentation driver (§4.6): it orchestrates
// the street matcher, arc-length measurer, scheme classifier, and vertex
// interpolator over one lookup tuple, emitting observation anchors followed
// by synthetic vertex anchors.
package augment

import "github.com/lintang-b-s/addrconflate/internal/geometry"

// StreetInput is one candidate street as it arrives in a lookup tuple: a
// stable id and its geometry as an encoded polyline.
type StreetInput struct {
	ID   string `json:"id"`
	Line string `json:"line"`
}

// AddressRecord is one raw address observation as it arrives in a lookup
// tuple's batch: an unparsed house number and a stringified point.
type AddressRecord struct {
	Number string `json:"number"`
	Lon    string `json:"lon"`
	Lat    string `json:"lat"`
}

// LookupTuple is the augmentation driver's sole input: a non-empty set of
// candidate streets sharing a locality/name match, plus the batch of address
// records to conflate against them.
type LookupTuple struct {
	Streets []StreetInput   `json:"streets"`
	Batch   []AddressRecord `json:"batch"`
}

// Source distinguishes an anchor derived from an observed address record
// from one synthesized at a linestring vertex.
type Source string

const (
	SourceOBS Source = "OBS"
	SourceVTX Source = "VTX"
)

// Anchor is one output record: the union of fields described in §3,
// serialized by the downstream sink into NULL-able columns. Lon/Lat/Side are
// nil for VTX anchors, since a synthetic vertex has no original observed
// point or measured side.
type Anchor struct {
	StreetID    string
	Source      Source
	HouseNumber float64

	Lon *float64
	Lat *float64

	ProjLon float64
	ProjLat float64

	Side *geometry.Side
}

// observation is one accepted address record, owned by the street it
// matched — co-located here instead of kept in a parallel slice indexed by
// street position, which removes the indexing hazard the source's parallel
// bucket list carries.
type observation struct {
	houseNumber int
	arcDistance float64
	side        geometry.Side
	seq         int // insertion order; the stable sort keeps equal-distance observations in this order
}
