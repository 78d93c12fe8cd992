// Package interpolate implements the vertex interpolator (§4.5): given a
// sorted track of (arc_distance, housenumber) observations, estimate a
// fractional house number at a query distance without extrapolating beyond
// the observed range.
package interpolate

import "github.com/lintang-b-s/addrconflate/internal/numutil"

// Point is one observation on a track, already sorted ascending by
// ArcDistance by the caller.
type Point struct {
	ArcDistance float64
	HouseNumber float64
}

func compareByArcDistance(a, b Point) int {
	switch {
	case a.ArcDistance < b.ArcDistance:
		return -1
	case a.ArcDistance > b.ArcDistance:
		return 1
	default:
		return 0
	}
}

// At returns the interpolated house number at distance q along track, or
// false if track has fewer than two observations, or q falls outside the
// observed range (no extrapolation).
func At(track []Point, q float64) (float64, bool) {
	if len(track) < 2 {
		return 0, false
	}

	idx := numutil.LowerBound(track, Point{ArcDistance: q}, compareByArcDistance)

	var lo, hi Point
	haveLo, haveHi := false, false

	if idx < len(track) && track[idx].ArcDistance == q {
		lo, hi = track[idx], track[idx]
		haveLo, haveHi = true, true
	} else {
		if idx > 0 {
			lo, haveLo = track[idx-1], true
		}
		if idx < len(track) {
			hi, haveHi = track[idx], true
		}
	}

	if !haveLo || !haveHi {
		return 0, false
	}
	if lo.ArcDistance == hi.ArcDistance {
		return lo.HouseNumber, true
	}

	frac := (q - lo.ArcDistance) / (hi.ArcDistance - lo.ArcDistance)
	return lo.HouseNumber + (hi.HouseNumber-lo.HouseNumber)*frac, true
}
