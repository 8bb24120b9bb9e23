package postprocess

import (
	"github.com/pkg/errors"
	"gorgonia.org/tensor"

	"github.com/nvr-ai/go-nms/images"
)

const (
	// Columns before the class scores: cx, cy, w, h, objectness.
	predictionHeader = 5
	objectnessCol    = 4
)

// Predictions holds one image's raw detector rows. Each row is
// [cx, cy, w, h, objectness, class_0 ... class_{C-1}].
type Predictions struct {
	Data []float32
	Rows int
	Cols int
}

// NewPredictions wraps a flat row-major buffer with cols values per row.
//
// Arguments:
//   - data: The raw output buffer. It is not copied.
//   - cols: Values per row; at least 6 (box, objectness and one class).
//
// Returns:
//   - The predictions view.
//   - ErrInvalidShape if cols is too small or does not divide len(data).
func NewPredictions(data []float32, cols int) (Predictions, error) {
	if cols <= predictionHeader {
		return Predictions{}, errors.Wrapf(ErrInvalidShape, "%d columns, need at least %d", cols, predictionHeader+1)
	}
	if len(data)%cols != 0 {
		return Predictions{}, errors.Wrapf(ErrInvalidShape, "%d values is not a multiple of %d columns", len(data), cols)
	}
	return Predictions{Data: data, Rows: len(data) / cols, Cols: cols}, nil
}

// NumClasses returns the number of class score columns.
func (p Predictions) NumClasses() int {
	return p.Cols - predictionHeader
}

// Row returns the i-th row without copying.
func (p Predictions) Row(i int) []float32 {
	return p.Data[i*p.Cols : (i+1)*p.Cols]
}

// PredictionsFromTensor splits a dense detector output into per-image
// predictions. Accepted shapes are [batch, rows, cols] and [rows, cols] with
// float32 or float64 values.
func PredictionsFromTensor(t *tensor.Dense) ([]Predictions, error) {
	if t == nil {
		return nil, errors.Wrap(ErrInvalidShape, "nil tensor")
	}
	if t.IsMaterializable() {
		m, ok := t.Materialize().(*tensor.Dense)
		if !ok {
			return nil, errors.Wrap(ErrInvalidShape, "tensor view cannot be materialized")
		}
		t = m
	}

	shape := t.Shape()
	var batch, rows, cols int
	switch len(shape) {
	case 2:
		batch, rows, cols = 1, shape[0], shape[1]
	case 3:
		batch, rows, cols = shape[0], shape[1], shape[2]
	default:
		return nil, errors.Wrapf(ErrInvalidShape, "tensor shape %v", shape)
	}

	var data []float32
	switch backing := t.Data().(type) {
	case []float32:
		data = backing
	case []float64:
		data = make([]float32, len(backing))
		for i, v := range backing {
			data[i] = float32(v)
		}
	default:
		return nil, errors.Wrapf(ErrInvalidShape, "tensor dtype %v", t.Dtype())
	}
	if len(data) != batch*rows*cols {
		return nil, errors.Wrapf(ErrInvalidShape, "tensor holds %d values for shape %v", len(data), shape)
	}

	out := make([]Predictions, batch)
	stride := rows * cols
	for b := 0; b < batch; b++ {
		p, err := NewPredictions(data[b*stride:(b+1)*stride], cols)
		if err != nil {
			return nil, err
		}
		out[b] = p
	}
	return out, nil
}

// PriorLabel is a known box injected as a forced candidate during
// auto-labelling. Box is in center form, in the same frame as the predictions.
type PriorLabel struct {
	Class int       `json:"class" yaml:"class"`
	Box   images.Box `json:"box" yaml:"box"`
}
