package numutil_test

import (
	"testing"

	"github.com/lintang-b-s/addrconflate/internal/numutil"
	"github.com/stretchr/testify/assert"
)

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func TestLowerBound(t *testing.T) {
	arr := []int{1, 3, 3, 5, 9}

	assert.Equal(t, 0, numutil.LowerBound(arr, 0, compareInt))
	assert.Equal(t, 1, numutil.LowerBound(arr, 3, compareInt))
	assert.Equal(t, 3, numutil.LowerBound(arr, 4, compareInt))
	assert.Equal(t, 5, numutil.LowerBound(arr, 10, compareInt))
}

func TestLowerBoundEmpty(t *testing.T) {
	assert.Equal(t, 0, numutil.LowerBound([]int{}, 1, compareInt))
}
