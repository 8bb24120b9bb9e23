package postprocess

import (
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// MergeWeighting selects how candidates are weighted in merge-NMS.
type MergeWeighting string

const (
	// MergeWeightScore weights every candidate whose IoU with the kept box
	// exceeds the IoU threshold by its score.
	MergeWeightScore MergeWeighting = "score"
	// MergeWeightIoUScore weights the same candidates by IoU * score.
	MergeWeightIoUScore MergeWeighting = "iou_score"
)

const (
	// DefaultConfThreshold is the default minimum confidence.
	DefaultConfThreshold = 0.25
	// DefaultIoUThreshold is the default suppression overlap.
	DefaultIoUThreshold = 0.45
	// DefaultMaxDetections caps the detections kept per image.
	DefaultMaxDetections = 300
	// DefaultMaxCandidates caps the candidates entering suppression per image.
	DefaultMaxCandidates = 30000
	// DefaultMergeWindowMax is the exclusive upper candidate count for merge-NMS.
	DefaultMergeWindowMax = 3000
	// DefaultClassOffset is the per-class coordinate shift used for
	// class-aware suppression. It must exceed any real box coordinate.
	DefaultClassOffset = 7680
	// DefaultTimeLimitBase is the fixed part of the batch deadline.
	DefaultTimeLimitBase = 300 * time.Millisecond
	// DefaultTimeLimitPerImage is added to the batch deadline per image.
	DefaultTimeLimitPerImage = 30 * time.Millisecond
)

// NMSConfig defines parameters for Non-Maximum Suppression.
type NMSConfig struct {
	// Minimum objectness and class confidence for a candidate to survive.
	ConfThreshold float32 `json:"conf_threshold" yaml:"conf_threshold"`
	// Overlap threshold for suppression.
	IoUThreshold float32 `json:"iou_threshold" yaml:"iou_threshold"`
	// If non-empty, only these class ids are kept.
	Classes []int `json:"classes" yaml:"classes"`
	// If true, suppress across classes.
	Agnostic bool `json:"agnostic" yaml:"agnostic"`
	// If true, every class above the threshold yields its own detection.
	MultiLabel bool `json:"multi_label" yaml:"multi_label"`
	// Maximum detections kept per image.
	MaxDetections int `json:"max_detections" yaml:"max_detections"`
	// If true, kept boxes are replaced with a weighted mean of their overlaps.
	Merge bool `json:"merge" yaml:"merge"`
	// If true, merged boxes supported by a single candidate are dropped.
	RequireRedundancy bool `json:"require_redundancy" yaml:"require_redundancy"`
	// Candidate weighting used by merge-NMS.
	MergeWeighting MergeWeighting `json:"merge_weighting" yaml:"merge_weighting"`
	// Maximum candidates per image entering suppression.
	MaxCandidates int `json:"max_candidates" yaml:"max_candidates"`
	// Merge-NMS runs only when 1 < candidates < MergeWindowMax.
	MergeWindowMax int `json:"merge_window_max" yaml:"merge_window_max"`
	// Coordinate shift per class id for class-aware suppression.
	ClassOffset float32 `json:"class_offset" yaml:"class_offset"`
	// If true, class-aware suppression runs one pass per class instead of
	// shifting boxes by ClassOffset.
	PartitionByClass bool `json:"partition_by_class" yaml:"partition_by_class"`
	// Batch deadline is TimeLimitBase + TimeLimitPerImage * batch size.
	TimeLimitBase     time.Duration `json:"time_limit_base" yaml:"time_limit_base"`
	TimeLimitPerImage time.Duration `json:"time_limit_per_image" yaml:"time_limit_per_image"`
	// Number of goroutines processing images of a batch. Values < 2 run serially.
	NumWorkers int `json:"workers" yaml:"workers"`
}

// DefaultNMSConfig returns the default suppression settings.
func DefaultNMSConfig() NMSConfig {
	return NMSConfig{
		ConfThreshold:     DefaultConfThreshold,
		IoUThreshold:      DefaultIoUThreshold,
		MaxDetections:     DefaultMaxDetections,
		RequireRedundancy: true,
		MergeWeighting:    MergeWeightScore,
		MaxCandidates:     DefaultMaxCandidates,
		MergeWindowMax:    DefaultMergeWindowMax,
		ClassOffset:       DefaultClassOffset,
		TimeLimitBase:     DefaultTimeLimitBase,
		TimeLimitPerImage: DefaultTimeLimitPerImage,
		NumWorkers:        1,
	}
}

// Validate checks the configuration before any processing.
//
// Returns:
//   - ErrInvalidThreshold (wrapped) if a threshold is outside [0, 1].
//   - ErrInvalidConfig (wrapped) for negative limits, a non-positive class
//     offset or an unknown merge weighting.
func (c *NMSConfig) Validate() error {
	if !(c.ConfThreshold >= 0 && c.ConfThreshold <= 1) {
		return errors.Wrapf(ErrInvalidThreshold, "confidence threshold %v", c.ConfThreshold)
	}
	if !(c.IoUThreshold >= 0 && c.IoUThreshold <= 1) {
		return errors.Wrapf(ErrInvalidThreshold, "iou threshold %v", c.IoUThreshold)
	}
	if c.MaxDetections <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "max detections %d", c.MaxDetections)
	}
	if c.MaxCandidates <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "max candidates %d", c.MaxCandidates)
	}
	if c.MergeWindowMax < 0 {
		return errors.Wrapf(ErrInvalidConfig, "merge window %d", c.MergeWindowMax)
	}
	if c.ClassOffset <= 0 {
		return errors.Wrapf(ErrInvalidConfig, "class offset %v", c.ClassOffset)
	}
	if c.TimeLimitBase < 0 || c.TimeLimitPerImage < 0 {
		return errors.Wrapf(ErrInvalidConfig, "time limit %s + %s per image",
			c.TimeLimitBase, c.TimeLimitPerImage)
	}
	switch c.MergeWeighting {
	case MergeWeightScore, MergeWeightIoUScore:
	default:
		return errors.Wrapf(ErrInvalidConfig, "merge weighting %q", c.MergeWeighting)
	}
	return nil
}

// TimeLimit returns the wall-clock budget for a batch of the given size.
func (c *NMSConfig) TimeLimit(batchSize int) time.Duration {
	return c.TimeLimitBase + time.Duration(batchSize)*c.TimeLimitPerImage
}

// LoadNMSConfig reads a YAML file over DefaultNMSConfig and validates the result.
//
// Arguments:
//   - path: Path to the YAML file.
//
// Returns:
//   - The loaded configuration.
//   - An error if the file cannot be read, parsed or validated.
//
// @example
//
//	conf_threshold: 0.4
//	iou_threshold: 0.5
//	classes: [0, 2]
//	time_limit_base: 500ms
func LoadNMSConfig(path string) (NMSConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return NMSConfig{}, errors.Wrapf(err, "read nms config %s", path)
	}
	return ParseNMSConfig(data)
}

// ParseNMSConfig decodes YAML bytes over DefaultNMSConfig and validates the result.
func ParseNMSConfig(data []byte) (NMSConfig, error) {
	config := DefaultNMSConfig()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return NMSConfig{}, errors.Wrap(err, "parse nms config")
	}
	if err := config.Validate(); err != nil {
		return NMSConfig{}, err
	}
	return config, nil
}
