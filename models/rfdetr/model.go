// Package rfdetr - RF-DETR model.
package rfdetr

import (
	"github.com/nvr-ai/go-nms/models/model"
	"github.com/nvr-ai/go-nms/models/postprocess"
)

// RFDETR is the instance of the RF-DETR model.
type RFDETR struct {
	options    model.BaseModel
	suppressor *postprocess.Suppressor
}

// Options returns the options for the RF-DETR model.
//
// Returns:
//   - The options for the RF-DETR model.
func (m *RFDETR) Options() model.BaseModel {
	return m.options
}

// Suppressor returns the suppressor used by PostProcess.
func (m *RFDETR) Suppressor() *postprocess.Suppressor {
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
func NewModel(args model.NewModelArgs) (*RFDETR, error) {
	base, s, err := args.Base(model.ModelNameRFDETR, model.ModelFamilyCOCO)
	if err != nil {
		return nil, err
	}
	return &RFDETR{options: base, suppressor: s}, nil
}
