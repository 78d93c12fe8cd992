package geometry

import (
	"math"

	"github.com/golang/geo/s2"
)

// Side is which side of a street a point falls on, relative to the
// direction of travel along the matched edge.
type Side int

const (
	SideL Side = iota
	SideR
)

func (s Side) String() string {
	if s == SideL {
		return "L"
	}
	return "R"
}

// Projection is the result of projecting a point onto a linestring: the
// index of the closest edge, the foot of the perpendicular on that edge,
// the cumulative arc length from the linestring's first vertex to that
// foot, and which side of the edge the original point fell on.
type Projection struct {
	EdgeIndex   int
	Foot        Coordinate
	ArcDistance float64
	Side        Side
}

// Project finds the point on line closest to p under the spherical metric.
// It returns false only when line has fewer than two distinct vertices.
// Ties between edges are broken by lowest edge index.
func Project(line []Coordinate, p Coordinate) (Projection, bool) {
	if len(line) < 2 {
		return Projection{}, false
	}

	var (
		best     Projection
		bestDist = math.Inf(1)
		found    bool
		traveled float64
	)

	for i := 0; i+1 < len(line); i++ {
		a, b := line[i], line[i+1]
		foot := projectOntoSegment(a, b, p)
		dist := DistanceMeters(p, foot)

		if dist < bestDist {
			bestDist = dist
			found = true
			best = Projection{
				EdgeIndex:   i,
				Foot:        foot,
				ArcDistance: traveled + DistanceMeters(a, foot),
				Side:        sideOfEdge(a, b, p),
			}
		}

		traveled += DistanceMeters(a, b)
	}

	return best, found
}

// projectOntoSegment returns the closest point to p on the segment a-b,
// clamped to the segment's endpoints.
func projectOntoSegment(a, b, p Coordinate) Coordinate {
	if a == b {
		return a
	}
	foot := s2.Project(p.s2Point(), a.s2Point(), b.s2Point())
	ll := s2.LatLngFromPoint(foot)
	return Coordinate{Lon: ll.Lng.Degrees(), Lat: ll.Lat.Degrees()}
}

// sideOfEdge classifies p relative to the directed edge a->b by the sign of
// the 2-D cross product of the edge direction and the vector from a to p.
// Exact collinearity (c == 0) is pinned to R for determinism.
func sideOfEdge(a, b, p Coordinate) Side {
	c := (b.Lon-a.Lon)*(p.Lat-a.Lat) - (b.Lat-a.Lat)*(p.Lon-a.Lon)
	if c > 0 {
		return SideL
	}
	return SideR
}

// Slice returns the prefix of line up to and including proj's edge start,
// followed by the foot of the projection — a new linestring running from
// line's first vertex to the projected point.
func Slice(line []Coordinate, proj Projection) []Coordinate {
	out := make([]Coordinate, 0, proj.EdgeIndex+2)
	out = append(out, line[:proj.EdgeIndex+1]...)
	out = append(out, proj.Foot)
	return out
}

// ArcLength returns the sum of metric distances along line's consecutive
// edges.
func ArcLength(line []Coordinate) float64 {
	var total float64
	for i := 0; i+1 < len(line); i++ {
		total += DistanceMeters(line[i], line[i+1])
	}
	return total
}
