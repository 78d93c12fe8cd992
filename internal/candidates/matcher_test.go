package candidates_test

import (
	"testing"

	"github.com/lintang-b-s/addrconflate/internal/candidates"
	"github.com/lintang-b-s/addrconflate/internal/geometry"
	"github.com/stretchr/testify/assert"
)

func TestBestMatchPicksNearerStreet(t *testing.T) {
	streets := [][]geometry.Coordinate{
		{geometry.NewCoordinate(0, 0), geometry.NewCoordinate(10, 0)},
		{geometry.NewCoordinate(0, 0.001), geometry.NewCoordinate(10, 0.001)},
	}

	match, ok := candidates.BestMatch(streets, geometry.NewCoordinate(5, 0.0009))
	assert.True(t, ok)
	assert.Equal(t, 1, match.StreetIndex)
}

func TestBestMatchTiesBreakOnLowestIndex(t *testing.T) {
	streets := [][]geometry.Coordinate{
		{geometry.NewCoordinate(0, 0), geometry.NewCoordinate(10, 0)},
		{geometry.NewCoordinate(0, 0), geometry.NewCoordinate(10, 0)},
	}

	match, ok := candidates.BestMatch(streets, geometry.NewCoordinate(5, 0))
	assert.True(t, ok)
	assert.Equal(t, 0, match.StreetIndex)
}

func TestBestMatchSkipsDegenerateCandidates(t *testing.T) {
	streets := [][]geometry.Coordinate{
		geometry.Dedup([]geometry.Coordinate{geometry.NewCoordinate(1, 1), geometry.NewCoordinate(1, 1)}),
		{geometry.NewCoordinate(0, 0), geometry.NewCoordinate(10, 0)},
	}

	match, ok := candidates.BestMatch(streets, geometry.NewCoordinate(5, 0.00001))
	assert.True(t, ok)
	assert.Equal(t, 1, match.StreetIndex)
}

func TestBestMatchNoCandidatesFails(t *testing.T) {
	streets := [][]geometry.Coordinate{
		geometry.Dedup([]geometry.Coordinate{geometry.NewCoordinate(1, 1), geometry.NewCoordinate(1, 1)}),
	}

	_, ok := candidates.BestMatch(streets, geometry.NewCoordinate(5, 5))
	assert.False(t, ok)
}

func TestBestMatchFallsBackWhenIndexExcludesEveryone(t *testing.T) {
	// Nine candidates, all far enough from the query point that the
	// bounding-box prefilter excludes every one of them. The matcher must
	// fall back to an exact scan rather than report no match.
	streets := make([][]geometry.Coordinate, 0, 9)
	for i := 0; i < 9; i++ {
		lat := 10 + float64(i)*10
		streets = append(streets, []geometry.Coordinate{
			geometry.NewCoordinate(0, lat),
			geometry.NewCoordinate(1, lat),
		})
	}

	match, ok := candidates.BestMatch(streets, geometry.NewCoordinate(0, 0))
	assert.True(t, ok)
	assert.Equal(t, 0, match.StreetIndex)
}
