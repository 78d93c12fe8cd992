// Package scheme implements the numbering-scheme classifier (§4.4): from a
// street's accumulated observations, decide whether house numbers zig-zag
// (odd one side, even the other) or run up one side and down the other.
package scheme

import "github.com/lintang-b-s/addrconflate/internal/geometry"

type Scheme int

const (
	UpDown Scheme = iota
	ZigZag
)

func (s Scheme) String() string {
	if s == ZigZag {
		return "zigzag"
	}
	return "updown"
}

// Observation is the subset of an augmentation observation the classifier
// needs: a house number and the side of the street it fell on.
type Observation struct {
	HouseNumber int
	Side        geometry.Side
}

// Classify counts odd/even house numbers per side and decides zigzag vs.
// updown. A street with zero observations defaults to UpDown. Observations
// with a non-positive house number are ignored, as if they lacked one.
func Classify(obs []Observation) Scheme {
	var rOdd, rEven, lOdd, lEven int

	for _, o := range obs {
		if o.HouseNumber <= 0 {
			continue
		}
		parity := o.HouseNumber % 2
		switch o.Side {
		case geometry.SideR:
			if parity == 1 {
				rOdd++
			} else {
				rEven++
			}
		case geometry.SideL:
			if parity == 1 {
				lOdd++
			} else {
				lEven++
			}
		}
	}

	rTotal, lTotal := rOdd+rEven, lOdd+lEven
	if rTotal == 0 && lTotal == 0 {
		return UpDown
	}

	if rOdd == rTotal && lEven == lTotal {
		return ZigZag
	}
	if lOdd == lTotal && rEven == rTotal {
		return ZigZag
	}
	return UpDown
}
