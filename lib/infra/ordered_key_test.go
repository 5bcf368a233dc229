package infra

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderedKeyCmp(t *testing.T) {
	testcases := []struct {
		name     string
		i, j     int
		asc      int64
		desc     int64
		reversed int64
	}{
		{"less", 1, 2, -1, 1, 1},
		{"equal", 2, 2, 0, 0, 0},
		{"greater", 3, 2, 1, -1, -1},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			require.Equal(tt, tc.asc, AscOrderedKeyCmp(tc.i, tc.j))
			require.Equal(tt, tc.desc, DescOrderedKeyCmp(tc.i, tc.j))
			require.Equal(tt, tc.reversed, ReverseCmp[int](AscOrderedKeyCmp[int])(tc.i, tc.j))
		})
	}
}

func TestStringKeyCmp(t *testing.T) {
	assert.Equal(t, int64(-1), AscOrderedKeyCmp("abc", "abd"))
	assert.Equal(t, int64(1), AscOrderedKeyCmp("b", "abc"))
	assert.Equal(t, int64(0), AscOrderedKeyCmp("", ""))
}

func TestFloatKeyCmp(t *testing.T) {
	var c1 complex128 = complex(1.0, 2.0)
	var c2 complex128 = complex(1.1, 2.0)
	// Complex keys are ordered by their modulus before entering a tree.
	_c1 := math.Hypot(real(c1), imag(c1))
	_c2 := math.Hypot(real(c2), imag(c2))
	assert.Equal(t, int64(1), AscOrderedKeyCmp(_c2, _c1))

	nan := math.NaN()
	testcases := []struct {
		name string
		i, j float64
		asc  int64
	}{
		{"nan equals nan", nan, nan, 0},
		{"nan before number", nan, 1.5, -1},
		{"number after nan", 1.5, nan, 1},
		{"nan before -inf", nan, math.Inf(-1), -1},
		{"+inf after nan", math.Inf(1), nan, 1},
		{"signed zeros", math.Copysign(0, -1), 0, 0},
	}
	for _, tc := range testcases {
		t.Run(tc.name, func(tt *testing.T) {
			require.Equal(tt, tc.asc, AscOrderedKeyCmp(tc.i, tc.j))
			require.Equal(tt, -tc.asc, DescOrderedKeyCmp(tc.i, tc.j))
		})
	}
}
