// Package dfine - D-FINE model.
package dfine

import (
	"github.com/nvr-ai/go-nms/models/model"
	"github.com/nvr-ai/go-nms/models/postprocess"
)

// DFINE is the instance of the D-FINE model.
type DFINE struct {
	options    model.BaseModel
	suppressor *postprocess.Suppressor
}

// Options returns the options for the D-FINE model.
func (m *DFINE) Options() model.BaseModel {
	return m.options
}

// Suppressor returns the suppressor used by PostProcess.
func (m *DFINE) Suppressor() *postprocess.Suppressor {
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
func NewModel(args model.NewModelArgs) (*DFINE, error) {
	base, s, err := args.Base(model.ModelNameDFINE, model.ModelFamilyCOCO)
	if err != nil {
		return nil, err
	}
	return &DFINE{options: base, suppressor: s}, nil
}
