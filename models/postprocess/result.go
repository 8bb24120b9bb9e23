// Package postprocess - Postprocessing utilities for models.
package postprocess

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/nvr-ai/go-nms/images"
)

// Detection represents a single detection result.
type Detection struct {
	// The corner-form bounding box of the detection.
	Box images.Rect
	// The confidence score of the detection.
	Score float32
	// The predicted class index of the detection.
	Class int
}

// Row returns the detection as an (x1, y1, x2, y2, confidence, class) row.
func (d Detection) Row() [6]float32 {
	return [6]float32{d.Box.X1, d.Box.Y1, d.Box.X2, d.Box.Y2, d.Score, float32(d.Class)}
}

func (d Detection) String() string {
	return fmt.Sprintf("class %d (confidence %f): %s", d.Class, d.Score, d.Box)
}

// ResultSet is the ordered output of suppression for one image.
type ResultSet []Detection

// Rows returns every detection as an output row.
func (rs ResultSet) Rows() [][6]float32 {
	out := make([][6]float32, len(rs))
	for i, d := range rs {
		out[i] = d.Row()
	}
	return out
}

// Rects returns the boxes of the result set in order.
func (rs ResultSet) Rects() []images.Rect {
	out := make([]images.Rect, len(rs))
	for i, d := range rs {
		out[i] = d.Box
	}
	return out
}

// Rescale maps every box from the `from` frame to the `to` frame (see
// images.Rescale) and returns a new result set. Scores and classes are kept.
func (rs ResultSet) Rescale(from, to images.Frame, ratioPad *images.RatioPad) (ResultSet, error) {
	rects, err := images.Rescale(from, rs.Rects(), to, ratioPad)
	if err != nil {
		return nil, err
	}

	out := make(ResultSet, len(rs))
	for i, d := range rs {
		d.Box = rects[i]
		out[i] = d
	}
	return out, nil
}

// DetectionRowSize is the width of an (x1, y1, x2, y2, confidence, class) row.
const DetectionRowSize = 6

// DetectionsFromRows decodes a flat buffer of corner-form detection rows as
// produced by end-to-end detectors.
//
// Arguments:
//   - output: The raw output, DetectionRowSize values per row.
//
// Returns:
//   - The detections in row order.
//   - ErrInvalidShape if the length is not a multiple of DetectionRowSize.
func DetectionsFromRows(output []float32) ([]Detection, error) {
	if len(output)%DetectionRowSize != 0 {
		return nil, errors.Wrapf(ErrInvalidShape, "%d values is not a multiple of %d",
			len(output), DetectionRowSize)
	}

	rows := len(output) / DetectionRowSize
	out := make([]Detection, rows)
	for i := range out {
		row := output[i*DetectionRowSize : (i+1)*DetectionRowSize]
		out[i] = Detection{
			Box:   images.Rect{X1: row[0], Y1: row[1], X2: row[2], Y2: row[3]},
			Score: row[4],
			Class: int(row[5]),
		}
	}
	return out, nil
}
