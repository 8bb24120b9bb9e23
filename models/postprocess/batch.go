package postprocess

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorgonia.org/tensor"

	"github.com/nvr-ai/go-nms/images"
)

// Image is one batch entry.
type Image struct {
	// The raw detector rows for the image.
	Predictions Predictions
	// Optional known boxes injected as forced candidates.
	Priors []PriorLabel
	// When both frames are valid, results are mapped from ModelFrame to
	// OriginalFrame with images.Rescale.
	ModelFrame    images.Frame
	OriginalFrame images.Frame
	// Optional letterbox mapping; derived from the frames when nil.
	RatioPad *images.RatioPad
}

func (img Image) rescales() bool {
	return img.ModelFrame.Valid() && img.OriginalFrame.Valid()
}

// BatchProcessor runs a Suppressor over every image of a batch under a
// shared wall-clock budget of TimeLimitBase + TimeLimitPerImage * batch size.
//
// The budget is checked after each image completes. Once it is exceeded no
// further images are started: finished images keep their results and the
// rest get empty result sets.
type BatchProcessor struct {
	suppressor *Suppressor
	options    options
}

// NewBatchProcessor validates the configuration and returns a processor.
//
// Arguments:
//   - config: The NMS configuration shared by every image.
//   - opts: Optional logger, observer and clock.
//
// Returns:
//   - The processor.
//   - A wrapped ErrInvalidThreshold or ErrInvalidConfig when validation fails.
func NewBatchProcessor(config NMSConfig, opts ...Option) (*BatchProcessor, error) {
	s, err := NewSuppressor(config, opts...)
	if err != nil {
		return nil, err
	}
	return &BatchProcessor{suppressor: s, options: s.options}, nil
}

// Suppressor returns the per-image suppressor.
func (p *BatchProcessor) Suppressor() *Suppressor {
	return p.suppressor
}

// ProcessTensor splits a [batch, rows, cols] tensor into images and calls
// Process. priors may be nil or hold one entry per image.
func (p *BatchProcessor) ProcessTensor(t *tensor.Dense, priors [][]PriorLabel) ([]ResultSet, BatchStats, error) {
	preds, err := PredictionsFromTensor(t)
	if err != nil {
		return nil, BatchStats{}, err
	}
	if priors != nil && len(priors) != len(preds) {
		return nil, BatchStats{}, errors.Wrapf(ErrInvalidShape, "%d prior label sets for %d images",
			len(priors), len(preds))
	}

	batch := make([]Image, len(preds))
	for i, pred := range preds {
		batch[i].Predictions = pred
		if priors != nil {
			batch[i].Priors = priors[i]
		}
	}
	return p.Process(batch)
}

// Process suppresses every image of the batch.
//
// Arguments:
//   - batch: The images, in order.
//
// Returns:
//   - One result set per image, in batch order. Images skipped because of
//     the deadline get an empty result set.
//   - Statistics for the call.
//   - An error if any image has a malformed shape, prior label or frame.
//     Inputs are checked before processing starts; a deadline is never an error.
func (p *BatchProcessor) Process(batch []Image) ([]ResultSet, BatchStats, error) {
	for i, img := range batch {
		if err := checkInput(img.Predictions, img.Priors); err != nil {
			return nil, BatchStats{}, errors.Wrapf(err, "image %d", i)
		}
		if img.RatioPad != nil && img.RatioPad.Gain <= 0 {
			return nil, BatchStats{}, errors.Wrapf(images.ErrInvalidFrame, "image %d: gain %f", i, img.RatioPad.Gain)
		}
	}

	stats := BatchStats{
		BatchID:   uuid.NewString(),
		BatchSize: len(batch),
		TimeLimit: p.suppressor.config.TimeLimit(len(batch)),
	}
	logger := p.options.logger.WithFields(logrus.Fields{
		"batch_id":   stats.BatchID,
		"batch_size": stats.BatchSize,
	})

	results := make([]ResultSet, len(batch))
	for i := range results {
		results[i] = ResultSet{}
	}

	start := p.options.clock()
	var (
		next      atomic.Int64
		processed atomic.Int64
		exceeded  atomic.Bool
		errOnce   sync.Once
		firstErr  error
	)

	work := func() {
		for !exceeded.Load() {
			i := int(next.Add(1) - 1)
			if i >= len(batch) {
				return
			}

			rs, err := p.processImage(batch[i])
			if err != nil {
				errOnce.Do(func() { firstErr = errors.Wrapf(err, "image %d", i) })
				exceeded.Store(true)
				return
			}
			results[i] = rs
			processed.Add(1)

			if p.options.clock().Sub(start) > stats.TimeLimit {
				exceeded.Store(true)
			}
		}
	}

	workers := min(max(p.suppressor.config.NumWorkers, 1), len(batch))
	if workers <= 1 {
		work()
	} else {
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				work()
			}()
		}
		wg.Wait()
	}

	if firstErr != nil {
		return nil, BatchStats{}, firstErr
	}

	stats.Processed = int(processed.Load())
	stats.Duration = p.options.clock().Sub(start)
	stats.Truncated = stats.Processed < stats.BatchSize
	for _, rs := range results {
		stats.Detections += len(rs)
	}

	if exceeded.Load() {
		logger.WithFields(logrus.Fields{
			"time_limit": stats.TimeLimit,
			"processed":  stats.Processed,
		}).Warnf("NMS time limit %.3fs exceeded", stats.TimeLimit.Seconds())
	}
	logger.WithFields(logrus.Fields{
		"processed":  stats.Processed,
		"detections": stats.Detections,
		"duration":   stats.Duration,
	}).Debug("nms batch complete")

	p.options.observer.ObserveBatch(stats)
	return results, stats, nil
}

func (p *BatchProcessor) processImage(img Image) (ResultSet, error) {
	rs, err := p.suppressor.Suppress(img.Predictions, img.Priors)
	if err != nil {
		return nil, err
	}
	if !img.rescales() || len(rs) == 0 {
		return rs, nil
	}
	return rs.Rescale(img.ModelFrame, img.OriginalFrame, img.RatioPad)
}
