// Package images - Box geometry and coordinate-format utilities.
package images

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Rect is a corner-form bounding box (x1,y1 top-left, x2,y2 bottom-right).
type Rect struct {
	X1, Y1, X2, Y2 float32
}

// Width returns x2-x1. It is negative for mis-ordered boxes.
func (r Rect) Width() float32 {
	return r.X2 - r.X1
}

// Height returns y2-y1. It is negative for mis-ordered boxes.
func (r Rect) Height() float32 {
	return r.Y2 - r.Y1
}

// Area returns (x2-x1)*(y2-y1).
func (r Rect) Area() float32 {
	return r.Width() * r.Height()
}

// Empty reports whether the rectangle has no positive area.
func (r Rect) Empty() bool {
	return r.X2 <= r.X1 || r.Y2 <= r.Y1
}

// Offset returns the rectangle translated by d along both axes.
func (r Rect) Offset(d float32) Rect {
	return Rect{X1: r.X1 + d, Y1: r.Y1 + d, X2: r.X2 + d, Y2: r.Y2 + d}
}

// Box returns the rectangle as a corner-form Box row.
func (r Rect) Box() Box {
	return Box{r.X1, r.Y1, r.X2, r.Y2}
}

func (r Rect) String() string {
	return fmt.Sprintf("(%.2f, %.2f), (%.2f, %.2f)", r.X1, r.Y1, r.X2, r.Y2)
}

// CalculateIoU returns the Intersection over Union of two corner-form boxes.
//
// IoU is a value between 0.0 and 1.0 that answers "how much do these two
// rectangles overlap?":
//
//	IoU = Area of Intersection / Area of Union
//
// The intersection is bounded by the maximum of the top-left corners and the
// minimum of the bottom-right corners. When its width or height is zero or
// negative the boxes do not overlap and 0 is returned before any division.
// The union uses inclusion-exclusion: Area(A) + Area(B) - Area(A ∩ B).
//
// Arguments:
//   - r: The first rectangle.
//   - o: The other rectangle to compare against.
//
// Returns:
//   - float32: A value between 0.0 and 1.0 representing the IoU score.
//
// Example Usage:
// ```go
//
//	rect1 := Rect{X1: 0, Y1: 0, X2: 10, Y2: 10}
//	rect2 := Rect{X1: 5, Y1: 5, X2: 15, Y2: 15}
//
//	iouScore := CalculateIoU(rect1, rect2) // 25 / 175 = 0.142857
//
// ```
func CalculateIoU(r, o Rect) float32 {
	ix1 := math32.Max(r.X1, o.X1)
	iy1 := math32.Max(r.Y1, o.Y1)
	ix2 := math32.Min(r.X2, o.X2)
	iy2 := math32.Min(r.Y2, o.Y2)

	interW := ix2 - ix1
	interH := iy2 - iy1
	if interW <= 0 || interH <= 0 {
		return 0.0
	}
	interArea := interW * interH

	unionArea := r.Area() + o.Area() - interArea
	if unionArea <= 0 {
		return 0.0
	}

	return interArea / unionArea
}

// IoUMatrix returns the pairwise IoU of every box in a against every box in b,
// indexed [i][j] for a[i], b[j].
func IoUMatrix(a, b []Rect) [][]float32 {
	out := make([][]float32, len(a))
	for i := range a {
		row := make([]float32, len(b))
		for j := range b {
			row[j] = CalculateIoU(a[i], b[j])
		}
		out[i] = row
	}
	return out
}
