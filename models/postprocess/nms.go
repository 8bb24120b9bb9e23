// Package postprocess - provides Non-Maximum Suppression for detection results.
package postprocess

import (
	"io"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/nvr-ai/go-nms/images"
)

// Option configures a Suppressor or BatchProcessor.
type Option func(*options)

type options struct {
	logger   logrus.FieldLogger
	observer Observer
	clock    func() time.Time
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithObserver sets the observer notified after every image and batch.
func WithObserver(observer Observer) Option {
	return func(o *options) {
		if observer != nil {
			o.observer = observer
		}
	}
}

// WithClock replaces time.Now for deadline checks.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

func newOptions(opts []Option) options {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	o := options{
		logger:   discard,
		observer: NopObserver{},
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Suppressor runs confidence filtering and greedy NMS on one image at a time.
// It holds no mutable state and is safe for concurrent use.
type Suppressor struct {
	config  NMSConfig
	classes map[int]struct{}
	options options
}

// NewSuppressor validates the configuration and returns a Suppressor.
//
// Arguments:
//   - config: The NMS configuration.
//   - opts: Optional logger and observer.
//
// Returns:
//   - The suppressor.
//   - A wrapped ErrInvalidThreshold or ErrInvalidConfig when validation fails.
func NewSuppressor(config NMSConfig, opts ...Option) (*Suppressor, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	s := &Suppressor{
		config:  config,
		options: newOptions(opts),
	}
	if len(config.Classes) > 0 {
		s.classes = make(map[int]struct{}, len(config.Classes))
		for _, c := range config.Classes {
			s.classes[c] = struct{}{}
		}
	}
	return s, nil
}

// Config returns a copy of the configuration.
func (s *Suppressor) Config() NMSConfig {
	return s.config
}

// Suppress reduces one image's raw predictions to its final detections.
//
// Rows whose objectness does not exceed the confidence threshold are
// dropped, prior labels are appended as forced candidates, class scores are
// scaled by objectness, boxes are converted to corner form, and the
// surviving candidates go through class filtering, greedy NMS and optional
// merge-NMS.
//
// Arguments:
//   - pred: The image's prediction rows.
//   - priors: Optional known boxes for auto-labelling.
//
// Returns:
//   - The detections ordered by descending confidence. Empty, not nil, when
//     nothing survives.
//   - ErrInvalidShape if a prior label's class is outside the prediction's classes.
func (s *Suppressor) Suppress(pred Predictions, priors []PriorLabel) (ResultSet, error) {
	start := s.options.clock()

	candidates, err := s.candidates(pred, priors)
	if err != nil {
		return nil, err
	}

	out := s.suppress(candidates)
	s.options.observer.ObserveImage(ImageStats{
		Rows:       pred.Rows,
		Candidates: len(candidates),
		Detections: len(out),
		Duration:   s.options.clock().Sub(start),
	})
	return out, nil
}

// SuppressDetections runs class filtering, greedy NMS and optional merge-NMS
// on detections that were already decoded into corner form. Detections
// whose score does not exceed the confidence threshold are dropped first.
func (s *Suppressor) SuppressDetections(detections []Detection) ResultSet {
	start := s.options.clock()

	candidates := make([]Detection, 0, len(detections))
	for _, d := range detections {
		if d.Score > s.config.ConfThreshold {
			candidates = append(candidates, d)
		}
	}
	candidates = s.filterClasses(candidates)

	out := s.suppress(candidates)
	s.options.observer.ObserveImage(ImageStats{
		Rows:       len(detections),
		Candidates: len(candidates),
		Detections: len(out),
		Duration:   s.options.clock().Sub(start),
	})
	return out
}

// candidates decodes prediction rows into detections that pass the
// confidence threshold and class filter, in row order.
func (s *Suppressor) candidates(pred Predictions, priors []PriorLabel) ([]Detection, error) {
	if err := checkInput(pred, priors); err != nil {
		return nil, err
	}

	nc := pred.NumClasses()
	conf := s.config.ConfThreshold
	multiLabel := s.config.MultiLabel && nc > 1

	out := make([]Detection, 0)
	emit := func(box images.Box, objectness float32, score func(c int) float32) {
		rect := images.CenterToCorner([]images.Box{box})[0].Rect()
		if multiLabel {
			for c := 0; c < nc; c++ {
				if v := score(c) * objectness; v > conf {
					out = append(out, Detection{Box: rect, Score: v, Class: c})
				}
			}
			return
		}

		best, bestClass := score(0)*objectness, 0
		for c := 1; c < nc; c++ {
			if v := score(c) * objectness; v > best {
				best, bestClass = v, c
			}
		}
		if best > conf {
			out = append(out, Detection{Box: rect, Score: best, Class: bestClass})
		}
	}

	for i := 0; i < pred.Rows; i++ {
		row := pred.Row(i)
		if row[objectnessCol] <= conf {
			continue
		}
		classScores := row[predictionHeader:]
		emit(images.Box{row[0], row[1], row[2], row[3]}, row[objectnessCol], func(c int) float32 {
			return classScores[c]
		})
	}

	for _, p := range priors {
		class := p.Class
		emit(p.Box, 1.0, func(c int) float32 {
			if c == class {
				return 1.0
			}
			return 0
		})
	}

	return s.filterClasses(out), nil
}

func checkInput(pred Predictions, priors []PriorLabel) error {
	if pred.Cols <= predictionHeader || pred.Rows < 0 || pred.Rows*pred.Cols > len(pred.Data) {
		return errors.Wrapf(ErrInvalidShape, "%d rows of %d columns over %d values",
			pred.Rows, pred.Cols, len(pred.Data))
	}
	nc := pred.NumClasses()
	for _, p := range priors {
		if p.Class < 0 || p.Class >= nc {
			return errors.Wrapf(ErrInvalidShape, "prior label class %d outside [0, %d)", p.Class, nc)
		}
	}
	return nil
}

func (s *Suppressor) filterClasses(detections []Detection) []Detection {
	if s.classes == nil {
		return detections
	}
	kept := detections[:0]
	for _, d := range detections {
		if _, ok := s.classes[d.Class]; ok {
			kept = append(kept, d)
		}
	}
	return kept
}

// suppress applies the candidate cap, greedy NMS, the detection cap and
// merge-NMS to decoded candidates.
func (s *Suppressor) suppress(candidates []Detection) ResultSet {
	n := len(candidates)
	if n == 0 {
		return ResultSet{}
	}

	order := sortByScore(candidates)
	if n > s.config.MaxCandidates {
		trimmed := make([]Detection, s.config.MaxCandidates)
		for i := range trimmed {
			trimmed[i] = candidates[order[i]]
		}
		candidates = trimmed
		order = order[:s.config.MaxCandidates]
		for i := range order {
			order[i] = i
		}
	}

	var keep []int
	if s.config.PartitionByClass && !s.config.Agnostic {
		keep = s.partitionedNMS(candidates, order)
	} else {
		keep = ApplyGreedyNMS(candidates, order, s.overlap, s.config.IoUThreshold, s.config.MaxDetections)
	}

	if s.config.Merge && n > 1 && n < s.config.MergeWindowMax {
		return s.merge(candidates, keep)
	}

	out := make(ResultSet, len(keep))
	for i, k := range keep {
		out[i] = candidates[k]
	}
	return out
}

// overlap is the IoU used for suppression. Unless agnostic, boxes of
// different classes are shifted ClassOffset*class apart before comparison;
// for the same class the shifts cancel and the raw boxes are compared.
func (s *Suppressor) overlap(a, b Detection) float32 {
	if s.config.Agnostic || a.Class == b.Class {
		return images.CalculateIoU(a.Box, b.Box)
	}
	if s.config.PartitionByClass {
		return 0
	}
	return images.CalculateIoU(
		a.Box.Offset(float32(a.Class)*s.config.ClassOffset),
		b.Box.Offset(float32(b.Class)*s.config.ClassOffset),
	)
}

// partitionedNMS runs one greedy pass per class and interleaves the kept
// boxes back into global score order.
func (s *Suppressor) partitionedNMS(candidates []Detection, order []int) []int {
	rank := make([]int, len(candidates))
	groups := make(map[int][]int)
	classOrder := make([]int, 0)
	for r, i := range order {
		rank[i] = r
		c := candidates[i].Class
		if _, ok := groups[c]; !ok {
			classOrder = append(classOrder, c)
		}
		groups[c] = append(groups[c], i)
	}

	keep := make([]int, 0)
	for _, c := range classOrder {
		keep = append(keep, ApplyGreedyNMS(candidates, groups[c], s.overlap, s.config.IoUThreshold, s.config.MaxDetections)...)
	}

	sort.Slice(keep, func(a, b int) bool {
		return rank[keep[a]] < rank[keep[b]]
	})
	if len(keep) > s.config.MaxDetections {
		keep = keep[:s.config.MaxDetections]
	}
	return keep
}

// ApplyGreedyNMS performs standard greedy Non-Maximum Suppression.
//
// Arguments:
//   - detections: The candidate detections.
//   - order: Indices into detections by descending confidence.
//   - overlap: Returns the suppression IoU of two detections.
//   - iouThreshold: IoU above which the lower-ranked detection is removed.
//   - limit: Maximum number of indices to return.
//
// Returns:
//   - Indices of the kept detections, in the order they were kept.
func ApplyGreedyNMS(
	detections []Detection,
	order []int,
	overlap func(a, b Detection) float32,
	iouThreshold float32,
	limit int,
) []int {
	keep := make([]int, 0, min(len(order), limit))
	used := make([]bool, len(order))

	for i := 0; i < len(order) && len(keep) < limit; i++ {
		if used[i] {
			continue
		}

		anchor := detections[order[i]]
		keep = append(keep, order[i])
		used[i] = true

		for j := i + 1; j < len(order); j++ {
			if used[j] {
				continue
			}
			if overlap(anchor, detections[order[j]]) > iouThreshold {
				used[j] = true
			}
		}
	}

	return keep
}

// sortByScore returns indices of detections by descending score. Ties keep
// their original order.
func sortByScore(detections []Detection) []int {
	order := make([]int, len(detections))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return detections[order[a]].Score > detections[order[b]].Score
	})
	return order
}
