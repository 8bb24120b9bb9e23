package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvr-ai/go-nms/models/postprocess"
)

func TestCollector_ObserveImage(t *testing.T) {
	c := New()
	c.ObserveImage(postprocess.ImageStats{Rows: 100, Candidates: 12, Detections: 3, Duration: time.Millisecond})
	c.ObserveImage(postprocess.ImageStats{Rows: 100, Candidates: 8, Detections: 2, Duration: time.Millisecond})

	assert.Equal(t, uint64(2), c.Images.Load())
	assert.Equal(t, uint64(20), c.Candidates.Load())
	assert.Equal(t, uint64(5), c.Detections.Load())
	assert.Equal(t, 1, testutil.CollectAndCount(c.imageLatency))
}

func TestCollector_ObserveBatch(t *testing.T) {
	c := New()
	c.ObserveBatch(postprocess.BatchStats{BatchSize: 4, Processed: 4})
	c.ObserveBatch(postprocess.BatchStats{BatchSize: 4, Processed: 1, Truncated: true})

	assert.Equal(t, uint64(2), c.Batches.Load())
	assert.Equal(t, uint64(1), c.TruncatedBatches.Load())
}

func TestCollector_Handler(t *testing.T) {
	c := New()
	c.ObserveBatch(postprocess.BatchStats{BatchSize: 1, Processed: 1})

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "nms_batches_total 1"), body)
	assert.True(t, strings.Contains(body, "nms_batch_duration_seconds_count 1"), body)
}

func TestCollector_WithBatchProcessor(t *testing.T) {
	c := New()
	p, err := postprocess.NewBatchProcessor(postprocess.DefaultNMSConfig(), postprocess.WithObserver(c))
	require.NoError(t, err)

	pred, err := postprocess.NewPredictions([]float32{50, 50, 20, 20, 0.9, 1.0}, 6)
	require.NoError(t, err)

	_, _, err = p.Process([]postprocess.Image{{Predictions: pred}, {Predictions: pred}})
	require.NoError(t, err)

	assert.Equal(t, uint64(2), c.Images.Load())
	assert.Equal(t, uint64(2), c.Detections.Load())
	assert.Equal(t, uint64(1), c.Batches.Load())
}
