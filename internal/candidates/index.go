// Package candidates implements the street matcher (§4.2): given one address
// point and a set of candidate streets, find the street whose linestring
// minimizes projection distance.
package candidates

import (
	"sort"

	"github.com/dhconnelly/rtreego"
	"github.com/lintang-b-s/addrconflate/internal/geometry"
)

// bboxPadDegrees widens each street's bounding box before indexing, and each
// point query, by roughly this many degrees (~1.1km at the equator) so a
// point slightly outside a street's own bbox — but still closest to it — is
// not excluded by the coarse spatial prefilter.
const bboxPadDegrees = 0.01

type streetSpatial struct {
	index  int
	bounds rtreego.Rect
}

func (s streetSpatial) Bounds() rtreego.Rect {
	return s.bounds
}

// Index is a coarse r-tree prefilter over a lookup tuple's candidate street
// bounding boxes, mirroring the teacher's RoadSnapper.SnapToRoads expanding
// bounding-box search: it narrows the set of streets a point's exact
// perpendicular projection is run against, without ever being the final
// arbiter of distance.
type Index struct {
	tree    *rtreego.Rtree
	streets [][]geometry.Coordinate
}

// NewIndex builds a spatial index over streets' bounding boxes. Streets with
// fewer than one coordinate contribute no entry.
func NewIndex(streets [][]geometry.Coordinate) *Index {
	tree := rtreego.NewTree(2, 5, 20)
	for i, line := range streets {
		rect := boundingRect(line)
		if rect == nil {
			continue
		}
		tree.Insert(streetSpatial{index: i, bounds: *rect})
	}
	return &Index{tree: tree, streets: streets}
}

// Candidates returns the indices of streets whose padded bounding box
// contains p, sorted ascending. May be empty.
func (idx *Index) Candidates(p geometry.Coordinate) []int {
	rect, err := rtreego.NewRect(
		rtreego.Point{p.Lat - bboxPadDegrees, p.Lon - bboxPadDegrees},
		[]float64{2 * bboxPadDegrees, 2 * bboxPadDegrees},
	)
	if err != nil {
		return nil
	}

	hits := idx.tree.SearchIntersect(rect)
	out := make([]int, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.(streetSpatial).index)
	}
	sort.Ints(out)
	return out
}

func boundingRect(line []geometry.Coordinate) *rtreego.Rect {
	if len(line) == 0 {
		return nil
	}
	minLat, maxLat := line[0].Lat, line[0].Lat
	minLon, maxLon := line[0].Lon, line[0].Lon
	for _, c := range line[1:] {
		if c.Lat < minLat {
			minLat = c.Lat
		}
		if c.Lat > maxLat {
			maxLat = c.Lat
		}
		if c.Lon < minLon {
			minLon = c.Lon
		}
		if c.Lon > maxLon {
			maxLon = c.Lon
		}
	}

	rect, err := rtreego.NewRect(
		rtreego.Point{minLat - bboxPadDegrees, minLon - bboxPadDegrees},
		[]float64{(maxLat - minLat) + 2*bboxPadDegrees, (maxLon - minLon) + 2*bboxPadDegrees},
	)
	if err != nil {
		return nil
	}
	return &rect
}
