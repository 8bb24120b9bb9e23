package images

import (
	"image"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestIoU_Correctness validates the IoU implementation against known test cases
func TestIoU_Correctness(t *testing.T) {
	tests := []struct {
		name     string
		r1       Rect
		r2       Rect
		expected float32
		epsilon  float32
	}{
		{
			name:     "Identical rectangles",
			r1:       Rect{0, 0, 100, 100},
			r2:       Rect{0, 0, 100, 100},
			expected: 1.0,
			epsilon:  0.001,
		},
		{
			name:     "No overlap",
			r1:       Rect{0, 0, 100, 100},
			r2:       Rect{200, 200, 300, 300},
			expected: 0.0,
			epsilon:  0.001,
		},
		{
			name:     "Touching edges",
			r1:       Rect{0, 0, 100, 100},
			r2:       Rect{100, 0, 200, 100},
			expected: 0.0,
			epsilon:  0.001,
		},
		{
			name:     "Half overlap",
			r1:       Rect{0, 0, 100, 100},
			r2:       Rect{50, 50, 150, 150},
			expected: 0.142857, // 2500 / (10000+10000-2500)
			epsilon:  0.001,
		},
		{
			name:     "One inside other",
			r1:       Rect{0, 0, 100, 100},
			r2:       Rect{25, 25, 75, 75},
			expected: 0.25,
			epsilon:  0.001,
		},
		{
			name:     "Sub-pixel overlap",
			r1:       Rect{0, 0, 1.5, 1.5},
			r2:       Rect{0.5, 0.5, 2, 2},
			expected: 1.0 / 3.5, // 1 / (2.25+2.25-1)
			epsilon:  0.0001,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateIoU(tt.r1, tt.r2)
			assert.InDelta(t, tt.expected, result, float64(tt.epsilon))

			// IoU(A, B) should equal IoU(B, A)
			reverse := CalculateIoU(tt.r2, tt.r1)
			assert.InDelta(t, result, reverse, float64(tt.epsilon), "IoU not symmetric")
		})
	}
}

// TestIoU_vs_ImageRectangle compares integral boxes against image.Rectangle.
func TestIoU_vs_ImageRectangle(t *testing.T) {
	testCases := []struct {
		name   string
		r1, r2 image.Rectangle
	}{
		{"No overlap", image.Rect(0, 0, 100, 100), image.Rect(200, 200, 300, 300)},
		{"Partial overlap", image.Rect(0, 0, 100, 100), image.Rect(50, 50, 150, 150)},
		{"Full overlap", image.Rect(50, 50, 150, 150), image.Rect(50, 50, 150, 150)},
		{"One inside other", image.Rect(0, 0, 100, 100), image.Rect(25, 25, 75, 75)},
		{"Large boxes", image.Rect(0, 0, 1920, 1080), image.Rect(960, 540, 1920, 1080)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			custom := CalculateIoU(fromImageRect(tc.r1), fromImageRect(tc.r2))
			assert.InDelta(t, imageRectangleIoU(tc.r1, tc.r2), custom, 0.0001)
		})
	}
}

func fromImageRect(r image.Rectangle) Rect {
	return Rect{X1: float32(r.Min.X), Y1: float32(r.Min.Y), X2: float32(r.Max.X), Y2: float32(r.Max.Y)}
}

// imageRectangleIoU implements IoU using Go's standard library image.Rectangle
func imageRectangleIoU(r1, r2 image.Rectangle) float32 {
	intersect := r1.Intersect(r2)
	if intersect.Empty() {
		return 0.0
	}

	intersectArea := intersect.Dx() * intersect.Dy()
	union := r1.Dx()*r1.Dy() + r2.Dx()*r2.Dy() - intersectArea

	return float32(intersectArea) / float32(union)
}

// TestIoU_EdgeCases tests edge cases and boundary conditions
func TestIoU_EdgeCases(t *testing.T) {
	tests := []struct {
		name string
		r1   Rect
		r2   Rect
	}{
		{"Zero area rectangle 1", Rect{0, 0, 0, 0}, Rect{0, 0, 100, 100}},
		{"Zero area rectangle 2", Rect{0, 0, 100, 100}, Rect{50, 50, 50, 50}},
		{"Both zero area", Rect{0, 0, 0, 0}, Rect{10, 10, 10, 10}},
		{"Identical zero area", Rect{5, 5, 5, 5}, Rect{5, 5, 5, 5}},
		{"Negative coordinates", Rect{-100, -100, 0, 0}, Rect{-50, -50, 50, 50}},
		{"Very large coordinates", Rect{0, 0, 999999, 999999}, Rect{500000, 500000, 999999, 999999}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CalculateIoU(tt.r1, tt.r2)
			assert.False(t, math.IsNaN(float64(result)))
			assert.GreaterOrEqual(t, result, float32(0))
			assert.LessOrEqual(t, result, float32(1))

			reverse := CalculateIoU(tt.r2, tt.r1)
			assert.GreaterOrEqual(t, reverse, float32(0))
			assert.LessOrEqual(t, reverse, float32(1))
		})
	}
}

func TestIoUMatrix(t *testing.T) {
	a := []Rect{{0, 0, 10, 10}, {20, 20, 30, 30}}
	b := []Rect{{0, 0, 10, 10}, {5, 0, 15, 10}, {100, 100, 110, 110}}

	m := IoUMatrix(a, b)
	assert.Len(t, m, 2)
	assert.Len(t, m[0], 3)
	assert.InDelta(t, 1.0, m[0][0], 1e-6)
	assert.InDelta(t, 50.0/150.0, m[0][1], 1e-6)
	assert.Zero(t, m[0][2])
	assert.Zero(t, m[1][0])

	mt := IoUMatrix(b, a)
	for i := range a {
		for j := range b {
			assert.InDelta(t, m[i][j], mt[j][i], 1e-6)
		}
	}
}

func TestRect_Helpers(t *testing.T) {
	r := Rect{X1: 1, Y1: 2, X2: 4, Y2: 8}
	assert.Equal(t, float32(3), r.Width())
	assert.Equal(t, float32(6), r.Height())
	assert.Equal(t, float32(18), r.Area())
	assert.False(t, r.Empty())
	assert.True(t, Rect{X1: 1, Y1: 1, X2: 1, Y2: 5}.Empty())
	assert.Equal(t, Rect{X1: 11, Y1: 12, X2: 14, Y2: 18}, r.Offset(10))
	assert.Equal(t, r, r.Box().Rect())
}
