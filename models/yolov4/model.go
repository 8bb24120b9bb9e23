// Package yolov4 - YOLOv4 model.
package yolov4

import (
	"github.com/nvr-ai/go-nms/models/model"
	"github.com/nvr-ai/go-nms/models/postprocess"
)

// NumColumns is the YOLOv4 row width: cx, cy, w, h, objectness and 80 class scores.
const NumColumns = 85

// YOLOv4 is the instance of the YOLOv4 model.
type YOLOv4 struct {
	options    model.BaseModel
	suppressor *postprocess.Suppressor
}

// Options returns the options for the YOLOv4 model.
//
// Returns:
//   - The options for the YOLOv4 model.
func (m *YOLOv4) Options() model.BaseModel {
	return m.options
}

// Suppressor returns the suppressor used by PostProcess.
func (m *YOLOv4) Suppressor() *postprocess.Suppressor {
	return m.suppressor
}

// NewModel creates a new model.
//
// Arguments:
//   - args: The arguments for creating a new model.
//
// Returns:
//   - The model.
//   - An error if the NMS configuration is invalid.
func NewModel(args model.NewModelArgs) (*YOLOv4, error) {
	base, s, err := args.Base(model.ModelNameYOLOv4, model.ModelFamilyYOLO)
	if err != nil {
		return nil, err
	}
	return &YOLOv4{options: base, suppressor: s}, nil
}
