// Package arclen implements the arc-length measurer (§4.3): the distance
// from a linestring's start to a projection, expressed as a thin composition
// of geometry.Slice and geometry.ArcLength so it stays numerically
// consistent with the interpolator's domain.
package arclen

import "github.com/lintang-b-s/addrconflate/internal/geometry"

// Measure returns the non-negative arc length from line's first vertex to
// proj's foot of perpendicular.
func Measure(line []geometry.Coordinate, proj geometry.Projection) float64 {
	return geometry.ArcLength(geometry.Slice(line, proj))
}
