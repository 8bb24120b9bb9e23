// Package model - Definitions shared by the detector output adapters.
package model

import (
	"github.com/nvr-ai/go-nms/models/postprocess"
)

// Family is the family of models.
type Family string

const (
	// ModelFamilyCOCO is the COCO model family.
	ModelFamilyCOCO Family = "coco"
	// ModelFamilyYOLO is the YOLO model family.
	ModelFamilyYOLO Family = "yolo"
	// ModelFamilyTF is the TensorFlow model family.
	ModelFamilyTF Family = "tf"
	// ModelFamilyVOC is the Pascal VOC model family.
	ModelFamilyVOC Family = "voc"
)

// Name is the unique identifier of a model.
type Name string

const (
	// ModelNameRFDETR is the name of the RF-DETR model.
	ModelNameRFDETR Name = "rfdetr"
	// ModelNameDFINE is the name of the D-FINE model.
	ModelNameDFINE Name = "dfine"
	// ModelNameYOLOv4 is the name of the YOLOv4 model.
	ModelNameYOLOv4 Name = "yolov4"
)

// BaseModel is the description shared by all models.
type BaseModel struct {
	Name    Name
	Family  Family
	Path    string
	Inputs  []string
	Outputs []string
	NMS     postprocess.NMSConfig
}

// Model turns raw detector output for one image into final detections.
type Model interface {
	Options() BaseModel
	Suppressor() *postprocess.Suppressor
	PostProcess(output []float32) (postprocess.ResultSet, error)
}

// NewModelArgs is the arguments for creating a new model.
type NewModelArgs struct {
	Name    Name                   `json:"name" yaml:"name"`
	Path    string                 `json:"path" yaml:"path"`
	NMS     *postprocess.NMSConfig `json:"nms" yaml:"nms"`
	Family  Family                 `json:"family" yaml:"family"`
	Inputs  []string               `json:"inputs" yaml:"inputs"`
	Outputs []string               `json:"outputs" yaml:"outputs"`
	// Logger and observer options passed to the suppressor.
	Options []postprocess.Option `json:"-" yaml:"-"`
}

// Base resolves the arguments into a BaseModel and builds its suppressor.
// A nil NMS uses postprocess.DefaultNMSConfig; an empty family uses family.
//
// Arguments:
//   - name: The model name.
//   - family: The default family of the model's class indices.
//
// Returns:
//   - The model description.
//   - The suppressor configured from it.
//   - An error if the NMS configuration is invalid.
func (a NewModelArgs) Base(name Name, family Family) (BaseModel, *postprocess.Suppressor, error) {
	config := postprocess.DefaultNMSConfig()
	if a.NMS != nil {
		config = *a.NMS
	}
	if a.Family != "" {
		family = a.Family
	}

	s, err := postprocess.NewSuppressor(config, a.Options...)
	if err != nil {
		return BaseModel{}, nil, err
	}

	return BaseModel{
		Name:    name,
		Family:  family,
		Path:    a.Path,
		Inputs:  a.Inputs,
		Outputs: a.Outputs,
		NMS:     config,
	}, s, nil
}
