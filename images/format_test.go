package images

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertBoxesInDelta(t *testing.T, expected, actual []Box, delta float64) {
	t.Helper()
	require.Len(t, actual, len(expected))
	for i := range expected {
		for k := 0; k < 4; k++ {
			assert.InDelta(t, expected[i][k], actual[i][k], delta, "box %d coord %d", i, k)
		}
	}
}

func TestCenterToCorner(t *testing.T) {
	tests := []struct {
		name     string
		in       []Box
		expected []Box
	}{
		{"empty", []Box{}, []Box{}},
		{"unit box", []Box{{0.5, 0.5, 1, 1}}, []Box{{0, 0, 1, 1}}},
		{"multiple", []Box{{50, 40, 20, 10}, {0, 0, 4, 2}}, []Box{{40, 35, 60, 45}, {-2, -1, 2, 1}}},
		{"degenerate", []Box{{3, 3, 0, 0}}, []Box{{3, 3, 3, 3}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CenterToCorner(tt.in))
		})
	}
}

func TestCornerToCenter(t *testing.T) {
	assert.Equal(t, []Box{{50, 40, 20, 10}}, CornerToCenter([]Box{{40, 35, 60, 45}}))

	// Mis-ordered corners are not clamped.
	assert.Equal(t, []Box{{5, 5, -10, -10}}, CornerToCenter([]Box{{10, 10, 0, 0}}))
}

func TestFormat_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	boxes := make([]Box, 100)
	for i := range boxes {
		x, y := rng.Float32()*1000, rng.Float32()*1000
		boxes[i] = Box{x, y, x + rng.Float32()*200, y + rng.Float32()*200}
	}

	assertBoxesInDelta(t, boxes, CenterToCorner(CornerToCenter(boxes)), 1e-3)

	centers := CornerToCenter(boxes)
	assertBoxesInDelta(t, centers, CornerToCenter(CenterToCorner(centers)), 1e-3)
}

func TestFormat_DoesNotModifyInput(t *testing.T) {
	in := []Box{{10, 10, 4, 4}}
	_ = CenterToCorner(in)
	_ = CornerToCenter(in)
	assert.Equal(t, []Box{{10, 10, 4, 4}}, in)
}

func TestNormalizedCenterToCorner(t *testing.T) {
	in := []Box{{0.5, 0.5, 0.2, 0.4}}

	assertBoxesInDelta(t, []Box{{256, 144, 384, 336}}, NormalizedCenterToCorner(in, 640, 480, 0, 0), 1e-3)
	assertBoxesInDelta(t, []Box{{266, 164, 394, 356}}, NormalizedCenterToCorner(in, 640, 480, 10, 20), 1e-3)
}

func TestCornerToNormalizedCenter(t *testing.T) {
	t.Run("inverse of NormalizedCenterToCorner", func(t *testing.T) {
		norm := []Box{{0.5, 0.5, 0.2, 0.4}, {0.1, 0.9, 0.05, 0.1}}
		abs := NormalizedCenterToCorner(norm, 640, 480, 0, 0)
		assertBoxesInDelta(t, norm, CornerToNormalizedCenter(abs, 640, 480, false, 0), 1e-5)
	})

	t.Run("no clip leaves input untouched", func(t *testing.T) {
		in := []Box{{-10, -10, 50, 50}}
		out := CornerToNormalizedCenter(in, 100, 100, false, 0)
		assert.Equal(t, []Box{{-10, -10, 50, 50}}, in)
		assertBoxesInDelta(t, []Box{{0.2, 0.2, 0.6, 0.6}}, out, 1e-6)
	})

	t.Run("clip mutates input", func(t *testing.T) {
		in := []Box{{-10, -10, 150, 50}}
		out := CornerToNormalizedCenter(in, 100, 100, true, 1)
		assert.Equal(t, []Box{{0, 0, 99, 50}}, in)
		assertBoxesInDelta(t, []Box{{0.495, 0.25, 0.99, 0.5}}, out, 1e-6)
	})
}
