package augment

import (
	"fmt"
	"math"
)

// FormatHouseNumber renders an anchor's house number per §3: an OBS anchor
// as a bare integer, a VTX anchor truncated — never rounded — to three
// fractional digits.
func FormatHouseNumber(a Anchor) string {
	if a.Source == SourceOBS {
		return fmt.Sprintf("%d", int64(math.Round(a.HouseNumber)))
	}
	truncated := math.Trunc(a.HouseNumber*1000) / 1000
	return fmt.Sprintf("%.3f", truncated)
}

// FormatCoordinate renders a coordinate field with seven fractional digits,
// the precision every coordinate field is serialized at per §3.
func FormatCoordinate(v float64) string {
	return fmt.Sprintf("%.7f", v)
}
