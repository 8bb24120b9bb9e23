package postprocess

import "github.com/pkg/errors"

var (
	// ErrInvalidThreshold is returned when a confidence or IoU threshold is outside [0, 1].
	ErrInvalidThreshold = errors.New("threshold must be within [0, 1]")
	// ErrInvalidConfig is returned for any other unusable NMS setting.
	ErrInvalidConfig = errors.New("invalid nms config")
	// ErrInvalidShape is returned when a prediction buffer or tensor has an unusable layout.
	ErrInvalidShape = errors.New("invalid prediction shape")
)
