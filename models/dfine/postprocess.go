// Package dfine - postprocess D-FINE model outputs.
package dfine

import (
	"github.com/nvr-ai/go-nms/models/postprocess"
)

// PostProcess transforms the output of the D-FINE model inference into
// final detections by:
//   - Decoding the (x1, y1, x2, y2, score, class) rows.
//   - Dropping rows at or below the confidence threshold.
//   - Running class filtering, NMS and optional merge-NMS.
//
// Arguments:
//   - output: The output of the D-FINE model for one image.
//
// Returns:
//   - The detections ordered by descending confidence.
//   - ErrInvalidShape if the output is not made of 6-column rows.
func (m *DFINE) PostProcess(output []float32) (postprocess.ResultSet, error) {
	detections, err := postprocess.DetectionsFromRows(output)
	if err != nil {
		return nil, err
	}
	return m.suppressor.SuppressDetections(detections), nil
}
