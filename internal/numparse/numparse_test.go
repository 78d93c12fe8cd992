package numparse_test

import (
	"testing"

	"github.com/lintang-b-s/addrconflate/internal/numparse"
	"github.com/stretchr/testify/assert"
)

func TestParseValidNumber(t *testing.T) {
	n, ok := numparse.Parse("42")
	assert.True(t, ok)
	assert.Equal(t, 42, n)
}

func TestParseRejectsAlphaSuffix(t *testing.T) {
	_, ok := numparse.Parse("12B")
	assert.False(t, ok)
}

func TestParseRejectsZeroAndNegative(t *testing.T) {
	_, ok := numparse.Parse("0")
	assert.False(t, ok)

	_, ok = numparse.Parse("-5")
	assert.False(t, ok)
}

func TestParseRejectsEmpty(t *testing.T) {
	_, ok := numparse.Parse("")
	assert.False(t, ok)
}

func TestParseTrimsWhitespace(t *testing.T) {
	n, ok := numparse.Parse("  17 ")
	assert.True(t, ok)
	assert.Equal(t, 17, n)
}
