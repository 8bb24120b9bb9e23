package images

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

// ErrInvalidFrame is returned when a frame or letterbox mapping cannot be used.
var ErrInvalidFrame = errors.New("invalid image frame")

// Frame describes a pixel coordinate space.
type Frame struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

// Valid reports whether both dimensions are positive.
func (f Frame) Valid() bool {
	return f.Width > 0 && f.Height > 0
}

// RatioPad maps one frame onto another: a point p in the destination frame is
// p*Gain + Pad in the source frame.
type RatioPad struct {
	Gain float32 `json:"gain" yaml:"gain"`
	PadX float32 `json:"pad_x" yaml:"pad_x"`
	PadY float32 `json:"pad_y" yaml:"pad_y"`
}

// Letterbox returns the mapping produced by an aspect-preserving resize of
// `to` into `from` with symmetric padding.
//
// Arguments:
//   - from: The padded frame (usually the model input).
//   - to: The frame that was resized into it (usually the original image).
//
// Returns:
//   - The gain min(from.H/to.H, from.W/to.W) and the centered padding.
//   - ErrInvalidFrame if either frame has a non-positive dimension.
func Letterbox(from, to Frame) (RatioPad, error) {
	if !from.Valid() || !to.Valid() {
		return RatioPad{}, errors.Wrapf(ErrInvalidFrame, "letterbox %dx%d -> %dx%d",
			from.Width, from.Height, to.Width, to.Height)
	}

	gain := math32.Min(
		float32(from.Height)/float32(to.Height),
		float32(from.Width)/float32(to.Width),
	)

	return RatioPad{
		Gain: gain,
		PadX: (float32(from.Width) - float32(to.Width)*gain) / 2,
		PadY: (float32(from.Height) - float32(to.Height)*gain) / 2,
	}, nil
}

// ClipRect clamps r in place to [0, frame.Width] x [0, frame.Height].
func ClipRect(r *Rect, frame Frame) {
	w, h := float32(frame.Width), float32(frame.Height)
	r.X1 = clamp(r.X1, 0, w)
	r.Y1 = clamp(r.Y1, 0, h)
	r.X2 = clamp(r.X2, 0, w)
	r.Y2 = clamp(r.Y2, 0, h)
}

// ClipRects clamps every rectangle in place to the frame bounds.
func ClipRects(rects []Rect, frame Frame) {
	for i := range rects {
		ClipRect(&rects[i], frame)
	}
}

// ClipBoxes clamps corner-form boxes in place to the frame bounds.
func ClipBoxes(boxes []Box, frame Frame) {
	for i := range boxes {
		clampBox(&boxes[i], float32(frame.Width), float32(frame.Height))
	}
}

// Rescale maps corner-form rectangles from the `from` frame into the `to`
// frame: subtract the padding, divide by the gain, then clip to `to`.
//
// When ratioPad is nil the mapping is derived with Letterbox(from, to);
// otherwise its gain and padding are used verbatim.
//
// Arguments:
//   - from: The frame the rectangles are expressed in.
//   - rects: The rectangles to map. The slice is not modified.
//   - to: The destination frame.
//   - ratioPad: Optional caller-supplied mapping.
//
// Returns:
//   - A new slice of rectangles in `to` coordinates.
//   - ErrInvalidFrame if a frame is invalid or the gain is not positive.
//
// Example:
//
// ```go
//
//	out, _ := Rescale(Frame{100, 100}, []Rect{{10, 10, 20, 20}}, Frame{50, 50}, nil)
//	// out[0] == Rect{5, 5, 10, 10}
//
// ```
func Rescale(from Frame, rects []Rect, to Frame, ratioPad *RatioPad) ([]Rect, error) {
	if !to.Valid() {
		return nil, errors.Wrapf(ErrInvalidFrame, "destination frame %dx%d", to.Width, to.Height)
	}

	var rp RatioPad
	if ratioPad != nil {
		rp = *ratioPad
	} else {
		var err error
		if rp, err = Letterbox(from, to); err != nil {
			return nil, err
		}
	}
	if rp.Gain <= 0 {
		return nil, errors.Wrapf(ErrInvalidFrame, "gain %f must be positive", rp.Gain)
	}

	out := make([]Rect, len(rects))
	for i, r := range rects {
		out[i] = Rect{
			X1: (r.X1 - rp.PadX) / rp.Gain,
			Y1: (r.Y1 - rp.PadY) / rp.Gain,
			X2: (r.X2 - rp.PadX) / rp.Gain,
			Y2: (r.Y2 - rp.PadY) / rp.Gain,
		}
	}
	ClipRects(out, to)

	return out, nil
}

// MakeDivisible returns the smallest multiple of divisor that is >= x.
func MakeDivisible(x, divisor int) int {
	if divisor <= 0 {
		return x
	}
	if x <= 0 {
		return x / divisor * divisor
	}
	return (x + divisor - 1) / divisor * divisor
}

// CheckImageSize rounds size up to a multiple of stride, but never below
// floor. The boolean reports whether the size had to change.
func CheckImageSize(size, stride, floor int) (int, bool) {
	adjusted := max(MakeDivisible(size, stride), floor)
	return adjusted, adjusted != size
}

func clampBox(b *Box, maxX, maxY float32) {
	b[0] = clamp(b[0], 0, maxX)
	b[1] = clamp(b[1], 0, maxY)
	b[2] = clamp(b[2], 0, maxX)
	b[3] = clamp(b[3], 0, maxY)
}

func clamp(v, lo, hi float32) float32 {
	return math32.Min(math32.Max(v, lo), hi)
}
