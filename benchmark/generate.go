package benchmark

import (
	"math/rand"

	"github.com/nvr-ai/go-nms/models/postprocess"
)

type cluster struct {
	cx, cy, w, h float32
	class        int
}

// Generate builds one batch of synthetic detector output for the scenario.
//
// Every image holds Clusters objects; each prediction row is a jittered copy
// of one object with a random objectness and a dominant score for the
// object's class, so suppression has overlapping boxes to remove. The same
// scenario (including Seed) always yields the same batch.
//
// Arguments:
//   - s: The scenario.
//
// Returns:
//   - BatchSize images in the scenario's resolution, rescaled into Source
//     when it is set.
//   - An error if the scenario is invalid.
func Generate(s Scenario) ([]postprocess.Image, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	rng := rand.New(rand.NewSource(s.Seed))
	w, h := float32(s.Resolution.Width), float32(s.Resolution.Height)
	cols := 5 + s.Classes

	batch := make([]postprocess.Image, s.BatchSize)
	for b := range batch {
		objects := make([]cluster, s.Clusters)
		for k := range objects {
			objects[k] = cluster{
				cx:    rng.Float32() * w,
				cy:    rng.Float32() * h,
				w:     (0.05 + 0.25*rng.Float32()) * w,
				h:     (0.05 + 0.25*rng.Float32()) * h,
				class: rng.Intn(s.Classes),
			}
		}

		data := make([]float32, s.Candidates*cols)
		for i := 0; i < s.Candidates; i++ {
			o := objects[i%len(objects)]
			row := data[i*cols : (i+1)*cols]
			row[0] = o.cx + (rng.Float32()-0.5)*0.1*o.w
			row[1] = o.cy + (rng.Float32()-0.5)*0.1*o.h
			row[2] = o.w * (0.9 + 0.2*rng.Float32())
			row[3] = o.h * (0.9 + 0.2*rng.Float32())
			row[4] = rng.Float32()
			for c := 5; c < cols; c++ {
				row[c] = 0.1 * rng.Float32()
			}
			row[5+o.class] = 0.5 + 0.5*rng.Float32()
		}

		pred, err := postprocess.NewPredictions(data, cols)
		if err != nil {
			return nil, err
		}
		batch[b] = postprocess.Image{
			Predictions:   pred,
			ModelFrame:    s.Resolution,
			OriginalFrame: s.Source,
		}
	}

	return batch, nil
}

