// Package models - registry for models.
package models

import (
	"github.com/pkg/errors"

	"github.com/nvr-ai/go-nms/models/dfine"
	"github.com/nvr-ai/go-nms/models/model"
	"github.com/nvr-ai/go-nms/models/rfdetr"
	"github.com/nvr-ai/go-nms/models/yolov4"
)

// ErrUnsupportedModel is returned by NewModel for unknown model names.
var ErrUnsupportedModel = errors.New("unsupported model")

// NewModel creates a new detection model instance based on the specified model type.
//
// This factory function is the entry point for model creation, routing
// requests to the model-specific constructors. Each model owns a suppressor
// built from args.NMS (or the defaults when nil).
//
// Arguments:
//   - args: Configuration parameters specifying the model type and NMS settings.
//
// Returns:
//   - model.Model: A configured model instance implementing the Model interface.
//   - error: ErrUnsupportedModel for unknown names, or a configuration error.
//
// Example:
//
// ```go
//
//	detectionModel, err := NewModel(model.NewModelArgs{
//	    Name: model.ModelNameRFDETR,
//	    Path: "/models/rfdetr_coco.onnx",
//	})
//	if err != nil {
//	    log.Fatalf("Failed to create detection model: %v", err)
//	}
//
//	results, err := detectionModel.PostProcess(output)
//
// ```
func NewModel(args model.NewModelArgs) (model.Model, error) {
	switch args.Name {
	case model.ModelNameRFDETR:
		m, err := rfdetr.NewModel(args)
		if err != nil {
			return nil, err
		}
		return m, nil
	case model.ModelNameDFINE:
		m, err := dfine.NewModel(args)
		if err != nil {
			return nil, err
		}
		return m, nil
	case model.ModelNameYOLOv4:
		m, err := yolov4.NewModel(args)
		if err != nil {
			return nil, err
		}
		return m, nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedModel, "model name %q", args.Name)
	}
}
