package images

import (
	"github.com/chewxy/math32"
	"gonum.org/v1/gonum/floats"
)

// Point is a polygon or segment vertex.
type Point struct {
	X, Y float32
}

// NormalizedPointsToPixels scales normalized points into pixel coordinates and
// adds the padding offset afterwards.
func NormalizedPointsToPixels(points []Point, width, height int, padX, padY float32) []Point {
	w, h := float32(width), float32(height)
	out := make([]Point, len(points))
	for i, p := range points {
		out[i] = Point{X: w*p.X + padX, Y: h*p.Y + padY}
	}
	return out
}

// PointsToBox returns the corner-form bounding box of the points that lie
// inside [0,width] x [0,height]. Points outside the image are dropped; if
// none remain the zero Rect is returned.
//
// Example:
//
// ```go
//
//	r := PointsToBox([]Point{{-1, 5}, {5, 5}, {5, 50}, {100, 100}}, 10, 10)
//	// r == Rect{5, 5, 5, 5}
//
// ```
func PointsToBox(points []Point, width, height int) Rect {
	w, h := float32(width), float32(height)

	var out Rect
	found := false
	for _, p := range points {
		if p.X < 0 || p.Y < 0 || p.X > w || p.Y > h {
			continue
		}
		if !found {
			out = Rect{X1: p.X, Y1: p.Y, X2: p.X, Y2: p.Y}
			found = true
			continue
		}
		out.X1 = math32.Min(out.X1, p.X)
		out.Y1 = math32.Min(out.Y1, p.Y)
		out.X2 = math32.Max(out.X2, p.X)
		out.Y2 = math32.Max(out.Y2, p.Y)
	}

	return out
}

// SegmentsToBoxes returns the bounding box of every segment in center form.
// Unlike PointsToBox no bounds filtering is applied. Empty segments yield a
// zero box.
func SegmentsToBoxes(segments [][]Point) []Box {
	corners := make([]Box, len(segments))
	for i, s := range segments {
		if len(s) == 0 {
			continue
		}
		r := Rect{X1: s[0].X, Y1: s[0].Y, X2: s[0].X, Y2: s[0].Y}
		for _, p := range s[1:] {
			r.X1 = math32.Min(r.X1, p.X)
			r.Y1 = math32.Min(r.Y1, p.Y)
			r.X2 = math32.Max(r.X2, p.X)
			r.Y2 = math32.Max(r.Y2, p.Y)
		}
		corners[i] = r.Box()
	}
	return CornerToCenter(corners)
}

// ResampleCurve re-parameterizes an open polyline to exactly n points by
// linear interpolation over n evenly spaced parameters spanning
// [0, len(points)-1]. The first and last points are preserved.
//
// Arguments:
//   - points: The polyline vertices, in order.
//   - n: The number of output points.
//
// Returns:
//   - A new slice with n points, or nil when points is empty or n <= 0.
func ResampleCurve(points []Point, n int) []Point {
	if len(points) == 0 || n <= 0 {
		return nil
	}

	out := make([]Point, n)
	if len(points) == 1 {
		for i := range out {
			out[i] = points[0]
		}
		return out
	}

	last := float64(len(points) - 1)
	grid := make([]float64, n)
	if n == 1 {
		grid[0] = 0
	} else {
		floats.Span(grid, 0, last)
	}

	for i, t := range grid {
		lo := int(t)
		if lo >= len(points)-1 {
			out[i] = points[len(points)-1]
			continue
		}
		frac := float32(t - float64(lo))
		a, b := points[lo], points[lo+1]
		out[i] = Point{
			X: a.X + (b.X-a.X)*frac,
			Y: a.Y + (b.Y-a.Y)*frac,
		}
	}

	return out
}

// ResampleSegments applies ResampleCurve to every segment.
func ResampleSegments(segments [][]Point, n int) [][]Point {
	out := make([][]Point, len(segments))
	for i, s := range segments {
		out[i] = ResampleCurve(s, n)
	}
	return out
}
