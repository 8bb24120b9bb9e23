package postprocess

import "time"

// ImageStats describes the suppression of one image.
type ImageStats struct {
	// Raw prediction rows (or pre-decoded detections) received.
	Rows int
	// Candidates that passed the confidence threshold and class filter.
	Candidates int
	// Detections kept.
	Detections int
	Duration   time.Duration
}

// BatchStats describes one BatchProcessor call.
type BatchStats struct {
	BatchID    string
	BatchSize  int
	Processed  int
	Detections int
	TimeLimit  time.Duration
	Duration   time.Duration
	// True when the deadline stopped the batch before every image was processed.
	Truncated bool
}

// Observer receives suppression statistics. Implementations must be safe
// for concurrent use when batches run with more than one worker.
type Observer interface {
	ObserveImage(stats ImageStats)
	ObserveBatch(stats BatchStats)
}

// NopObserver discards all statistics.
type NopObserver struct{}

// ObserveImage implements Observer.
func (NopObserver) ObserveImage(ImageStats) {}

// ObserveBatch implements Observer.
func (NopObserver) ObserveBatch(BatchStats) {}
