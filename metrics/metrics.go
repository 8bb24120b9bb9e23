// Package metrics exports suppression statistics to Prometheus.
package metrics

import (
	"net/http"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nvr-ai/go-nms/models/postprocess"
)

// Collector implements postprocess.Observer on a private Prometheus registry.
type Collector struct {
	// Running totals, readable without scraping.
	Images           atomic.Uint64
	Candidates       atomic.Uint64
	Detections       atomic.Uint64
	Batches          atomic.Uint64
	TruncatedBatches atomic.Uint64

	imageLatency prometheus.Histogram
	batchLatency prometheus.Histogram
	registry     *prometheus.Registry
}

// New creates a Collector with all collectors registered.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		imageLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "nms_image_duration_seconds",
			Help:    "Suppression time per image",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
		}),
		batchLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "nms_batch_duration_seconds",
			Help:    "Suppression time per batch",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		}),
	}
	c.register()
	return c
}

func (c *Collector) register() {
	c.registry.MustRegister(c.imageLatency, c.batchLatency)

	counters := []struct {
		name, help string
		value      *atomic.Uint64
	}{
		{"nms_images_total", "Images suppressed", &c.Images},
		{"nms_candidates_total", "Candidates entering suppression", &c.Candidates},
		{"nms_detections_total", "Detections kept", &c.Detections},
		{"nms_batches_total", "Batches processed", &c.Batches},
		{"nms_batches_truncated_total", "Batches stopped by the time limit", &c.TruncatedBatches},
	}
	for _, ctr := range counters {
		value := ctr.value
		c.registry.MustRegister(prometheus.NewCounterFunc(
			prometheus.CounterOpts{Name: ctr.name, Help: ctr.help},
			func() float64 { return float64(value.Load()) },
		))
	}
}

// ObserveImage implements postprocess.Observer.
func (c *Collector) ObserveImage(stats postprocess.ImageStats) {
	c.Images.Add(1)
	c.Candidates.Add(uint64(stats.Candidates))
	c.Detections.Add(uint64(stats.Detections))
	c.imageLatency.Observe(stats.Duration.Seconds())
}

// ObserveBatch implements postprocess.Observer.
func (c *Collector) ObserveBatch(stats postprocess.BatchStats) {
	c.Batches.Add(1)
	if stats.Truncated {
		c.TruncatedBatches.Add(1)
	}
	c.batchLatency.Observe(stats.Duration.Seconds())
}

// Registry returns the registry holding the collectors.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler returns the Prometheus HTTP handler
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
