package images

// Box is a 4-coordinate box row. Whether it holds corner form (x1,y1,x2,y2)
// or center form (cx,cy,w,h) is decided by the caller; the conversion
// functions below name the form they expect.
type Box [4]float32

// Rect interprets the box as corner form.
func (b Box) Rect() Rect {
	return Rect{X1: b[0], Y1: b[1], X2: b[2], Y2: b[3]}
}

// CenterToCorner converts (cx,cy,w,h) boxes to (x1,y1,x2,y2).
//
// Arguments:
//   - boxes: Center-form boxes. The slice is not modified.
//
// Returns:
//   - A new slice of corner-form boxes.
func CenterToCorner(boxes []Box) []Box {
	out := make([]Box, len(boxes))
	for i, b := range boxes {
		out[i] = Box{
			b[0] - b[2]/2,
			b[1] - b[3]/2,
			b[0] + b[2]/2,
			b[1] + b[3]/2,
		}
	}
	return out
}

// CornerToCenter converts (x1,y1,x2,y2) boxes to (cx,cy,w,h).
//
// Widths and heights are not clamped; mis-ordered corners produce negative
// sizes.
func CornerToCenter(boxes []Box) []Box {
	out := make([]Box, len(boxes))
	for i, b := range boxes {
		out[i] = Box{
			(b[0] + b[2]) / 2,
			(b[1] + b[3]) / 2,
			b[2] - b[0],
			b[3] - b[1],
		}
	}
	return out
}

// NormalizedCenterToCorner converts normalized (cx,cy,w,h) boxes into
// absolute corner-form pixel boxes for an image of the given size. The
// padding offset is added after scaling.
//
// Arguments:
//   - boxes: Normalized center-form boxes.
//   - width: Target image width in pixels.
//   - height: Target image height in pixels.
//   - padX: Horizontal offset in pixels.
//   - padY: Vertical offset in pixels.
//
// Returns:
//   - A new slice of absolute corner-form boxes.
//
// Example:
//
// ```go
//
//	boxes := NormalizedCenterToCorner([]Box{{0.5, 0.5, 0.2, 0.4}}, 640, 480, 0, 0)
//	// boxes[0] == Box{256, 144, 384, 336}
//
// ```
func NormalizedCenterToCorner(boxes []Box, width, height int, padX, padY float32) []Box {
	w, h := float32(width), float32(height)
	out := make([]Box, len(boxes))
	for i, b := range boxes {
		out[i] = Box{
			w*(b[0]-b[2]/2) + padX,
			h*(b[1]-b[3]/2) + padY,
			w*(b[0]+b[2]/2) + padX,
			h*(b[1]+b[3]/2) + padY,
		}
	}
	return out
}

// CornerToNormalizedCenter converts absolute corner-form boxes into
// normalized (cx,cy,w,h).
//
// When clip is set the input boxes are clamped in place to
// [0, width-eps] x [0, height-eps] before normalizing, so the caller's slice
// is modified.
func CornerToNormalizedCenter(boxes []Box, width, height int, clip bool, eps float32) []Box {
	w, h := float32(width), float32(height)
	if clip {
		for i := range boxes {
			clampBox(&boxes[i], w-eps, h-eps)
		}
	}

	out := make([]Box, len(boxes))
	for i, b := range boxes {
		out[i] = Box{
			((b[0] + b[2]) / 2) / w,
			((b[1] + b[3]) / 2) / h,
			(b[2] - b[0]) / w,
			(b[3] - b[1]) / h,
		}
	}
	return out
}
