package postprocess

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/nvr-ai/go-nms/images"
)

// merge replaces every kept box with the weighted mean of the candidates
// overlapping it by more than the IoU threshold:
//
//	boxes(k,4) = weights(k,n) * boxes(n,4) / rowsum(weights)
//
// With RequireRedundancy, kept boxes supported by a single candidate are dropped.
func (s *Suppressor) merge(candidates []Detection, keep []int) ResultSet {
	n, k := len(candidates), len(keep)

	boxes := mat.NewDense(n, 4, nil)
	for j, c := range candidates {
		boxes.SetRow(j, []float64{
			float64(c.Box.X1), float64(c.Box.Y1), float64(c.Box.X2), float64(c.Box.Y2),
		})
	}

	weights := mat.NewDense(k, n, nil)
	support := make([]int, k)
	for i, ki := range keep {
		anchor := candidates[ki]
		for j, c := range candidates {
			iou := s.overlap(anchor, c)
			if iou <= s.config.IoUThreshold {
				continue
			}
			support[i]++
			w := float64(c.Score)
			if s.config.MergeWeighting == MergeWeightIoUScore {
				w *= float64(iou)
			}
			weights.Set(i, j, w)
		}
	}

	var merged mat.Dense
	merged.Mul(weights, boxes)

	out := make(ResultSet, 0, k)
	for i, ki := range keep {
		if s.config.RequireRedundancy && support[i] <= 1 {
			continue
		}

		d := candidates[ki]
		if total := floats.Sum(weights.RawRowView(i)); total > 0 {
			d.Box = images.Rect{
				X1: float32(merged.At(i, 0) / total),
				Y1: float32(merged.At(i, 1) / total),
				X2: float32(merged.At(i, 2) / total),
				Y2: float32(merged.At(i, 3) / total),
			}
		}
		out = append(out, d)
	}

	return out
}
