// Package yolov4 - postprocess YOLOv4 model outputs.
package yolov4

import (
	"github.com/nvr-ai/go-nms/models/postprocess"
)

// PostProcess postprocesses the output of the YOLOv4 model.
//
// Arguments:
//   - output: The raw output of the YOLOv4 model for one image.
//
// Returns:
//   - The detections ordered by descending confidence.
//   - ErrInvalidShape if the output is not made of 85-column rows.
func (m *YOLOv4) PostProcess(output []float32) (postprocess.ResultSet, error) {
	return PostProcess(output, m.suppressor)
}

// PostProcess decodes 85-column [cx, cy, w, h, objectness, class scores]
// rows and runs the full suppressor over them.
func PostProcess(output []float32, s *postprocess.Suppressor) (postprocess.ResultSet, error) {
	pred, err := postprocess.NewPredictions(output, NumColumns)
	if err != nil {
		return nil, err
	}
	return s.Suppress(pred, nil)
}
