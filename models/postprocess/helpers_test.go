package postprocess

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// predictions builds a Predictions value from rows of cols values each.
func predictions(t testing.TB, cols int, rows ...[]float32) Predictions {
	t.Helper()
	data := make([]float32, 0, len(rows)*cols)
	for _, r := range rows {
		require.Len(t, r, cols)
		data = append(data, r...)
	}
	p, err := NewPredictions(data, cols)
	require.NoError(t, err)
	return p
}

// randomPredictions returns n rows over numClasses classes in a 640x640 frame.
func randomPredictions(t testing.TB, seed int64, n, numClasses int) Predictions {
	t.Helper()
	rng := rand.New(rand.NewSource(seed))
	cols := predictionHeader + numClasses
	data := make([]float32, 0, n*cols)
	for i := 0; i < n; i++ {
		data = append(data,
			rng.Float32()*640,
			rng.Float32()*640,
			10+rng.Float32()*90,
			10+rng.Float32()*90,
			rng.Float32(),
		)
		for c := 0; c < numClasses; c++ {
			data = append(data, rng.Float32())
		}
	}
	p, err := NewPredictions(data, cols)
	require.NoError(t, err)
	return p
}

func newSuppressor(t testing.TB, config NMSConfig, opts ...Option) *Suppressor {
	t.Helper()
	s, err := NewSuppressor(config, opts...)
	require.NoError(t, err)
	return s
}

type recordingObserver struct {
	mu      sync.Mutex
	images  []ImageStats
	batches []BatchStats
}

func (o *recordingObserver) ObserveImage(stats ImageStats) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.images = append(o.images, stats)
}

func (o *recordingObserver) ObserveBatch(stats BatchStats) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.batches = append(o.batches, stats)
}

// steppingClock advances by step every time it is read.
type steppingClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func newSteppingClock(step time.Duration) *steppingClock {
	return &steppingClock{now: time.Unix(0, 0), step: step}
}

func (c *steppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(c.step)
	return c.now
}
