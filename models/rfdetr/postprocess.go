// Package rfdetr - postprocess RF-DETR model outputs.
package rfdetr

import (
	"github.com/nvr-ai/go-nms/models/postprocess"
)

// PostProcess postprocesses the output of the RF-DETR model.
//
// Arguments:
//   - output: (x1, y1, x2, y2, score, class) rows for one image.
//
// Returns:
//   - The detections ordered by descending confidence.
//   - ErrInvalidShape if the output is not made of 6-column rows.
func (m *RFDETR) PostProcess(output []float32) (postprocess.ResultSet, error) {
	detections, err := postprocess.DetectionsFromRows(output)
	if err != nil {
		return nil, err
	}
	return m.suppressor.SuppressDetections(detections), nil
}
