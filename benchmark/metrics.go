// Package benchmark - Functionality for running benchmarks.
package benchmark

import "time"

// PerformanceMetrics captures detailed performance data
type PerformanceMetrics struct {
	Scenario        Scenario         `json:"scenario"`
	Timestamp       time.Time        `json:"timestamp"`
	TotalDuration   time.Duration    `json:"total_duration"`
	BatchLatency    LatencyMetrics   `json:"batch_latency"`
	ImagesPerSecond float64          `json:"images_per_second"`
	MemoryStats     MemoryMetrics    `json:"memory_stats"`
	CPUStats        CPUMetrics       `json:"cpu_stats"`
	DetectionCount  int              `json:"detection_count"`
	Suppression     SuppressionStats `json:"suppression"`
}

// LatencyMetrics summarizes per-batch wall time.
type LatencyMetrics struct {
	Min  time.Duration `json:"min"`
	Mean time.Duration `json:"mean"`
	P50  time.Duration `json:"p50"`
	P95  time.Duration `json:"p95"`
	Max  time.Duration `json:"max"`
}

// SuppressionStats counts what the processor did over all iterations.
type SuppressionStats struct {
	Batches          int `json:"batches"`
	TruncatedBatches int `json:"truncated_batches"`
	SkippedImages    int `json:"skipped_images"`
}

// MemoryMetrics captures memory usage statistics
type MemoryMetrics struct {
	AllocBytes      uint64 `json:"alloc_bytes"`
	TotalAllocBytes uint64 `json:"total_alloc_bytes"`
	SysBytes        uint64 `json:"sys_bytes"`
	NumGC           uint32 `json:"num_gc"`
	HeapAllocBytes  uint64 `json:"heap_alloc_bytes"`
	HeapSysBytes    uint64 `json:"heap_sys_bytes"`
}

// CPUMetrics captures CPU usage statistics
type CPUMetrics struct {
	NumCPU     int `json:"num_cpu"`
	GOMAXPROCS int `json:"gomaxprocs"`
}
