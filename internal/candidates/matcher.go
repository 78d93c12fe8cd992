package candidates

import (
	"math"

	"github.com/lintang-b-s/addrconflate/internal/geometry"
)

// rtreeThreshold is the candidate-street count above which the spatial
// prefilter is worth building; below it, a straight linear scan over all
// candidates (the common case per §3 — "a small set of candidate streets")
// is cheaper than indexing.
const rtreeThreshold = 8

// Match is the street matcher's result: the index of the chosen street
// within the candidate list, and the projection of the point onto it.
type Match struct {
	StreetIndex int
	Projection  geometry.Projection
}

// BestMatch is the street matcher (§4.2): it returns the index, within
// streets, of the street whose projection distance to p is smallest, along
// with that projection. Ties are broken by lowest street index. BestMatch
// returns found=false only if every candidate street failed projection
// (degenerate geometry, §7 taxonomy 2 and 3).
func BestMatch(streets [][]geometry.Coordinate, p geometry.Coordinate) (Match, bool) {
	order := sequentialOrder(len(streets))

	if len(streets) > rtreeThreshold {
		idx := NewIndex(streets)
		if hits := idx.Candidates(p); len(hits) > 0 {
			order = hits
		}
	}

	best, found := scan(streets, order, p)
	if !found && len(order) < len(streets) {
		// The spatial prefilter excluded every candidate; fall back to an
		// exact scan over all of them rather than report no match,
		// mirroring the teacher's RoadSnapper expanding-radius retry.
		best, found = scan(streets, sequentialOrder(len(streets)), p)
	}
	return best, found
}

func scan(streets [][]geometry.Coordinate, order []int, p geometry.Coordinate) (Match, bool) {
	var (
		best     Match
		bestDist = math.Inf(1)
		found    bool
	)
	for _, i := range order {
		proj, ok := geometry.Project(streets[i], p)
		if !ok {
			continue
		}
		dist := geometry.DistanceMeters(p, proj.Foot)
		if dist < bestDist {
			bestDist = dist
			best = Match{StreetIndex: i, Projection: proj}
			found = true
		}
	}
	return best, found
}

func sequentialOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}
