package benchmark

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"

	"github.com/nvr-ai/go-nms/models/postprocess"
)

// Run executes a single scenario against a batch processor.
//
// The batch is generated once and processed WarmupRuns times untimed, then
// Iterations times timed.
//
// Arguments:
//   - ctx: Cancels the run between iterations.
//   - scenario: The workload.
//   - processor: The processor under test.
//
// Returns:
//   - The collected metrics.
//   - An error if the scenario is invalid, processing fails or ctx is done.
func Run(ctx context.Context, scenario Scenario, processor *postprocess.BatchProcessor) (*PerformanceMetrics, error) {
	batch, err := Generate(scenario)
	if err != nil {
		return nil, err
	}

	for i := 0; i < scenario.WarmupRuns; i++ {
		if _, _, err := processor.Process(batch); err != nil {
			return nil, errors.Wrapf(err, "scenario %q warmup", scenario.Name)
		}
	}

	metrics := &PerformanceMetrics{
		Scenario:  scenario,
		Timestamp: time.Now(),
	}

	// Capture initial memory stats
	var startMem runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&startMem)

	latencies := make([]float64, 0, scenario.Iterations)
	startTime := time.Now()

	for i := 0; i < scenario.Iterations; i++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrapf(err, "scenario %q interrupted after %d iterations", scenario.Name, i)
		}

		batchStart := time.Now()
		_, stats, err := processor.Process(batch)
		if err != nil {
			return nil, errors.Wrapf(err, "scenario %q iteration %d", scenario.Name, i)
		}
		latencies = append(latencies, float64(time.Since(batchStart)))

		metrics.DetectionCount += stats.Detections
		metrics.Suppression.Batches++
		metrics.Suppression.SkippedImages += stats.BatchSize - stats.Processed
		if stats.Truncated {
			metrics.Suppression.TruncatedBatches++
		}
	}

	metrics.TotalDuration = time.Since(startTime)

	// Capture final memory stats
	var endMem runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&endMem)

	metrics.BatchLatency = summarize(latencies)
	if metrics.TotalDuration > 0 {
		metrics.ImagesPerSecond = float64(scenario.Iterations*scenario.BatchSize) / metrics.TotalDuration.Seconds()
	}

	metrics.MemoryStats = MemoryMetrics{
		AllocBytes:      endMem.Alloc,
		TotalAllocBytes: endMem.TotalAlloc - startMem.TotalAlloc,
		SysBytes:        endMem.Sys,
		NumGC:           endMem.NumGC - startMem.NumGC,
		HeapAllocBytes:  endMem.HeapAlloc,
		HeapSysBytes:    endMem.HeapSys,
	}

	metrics.CPUStats = CPUMetrics{
		NumCPU:     runtime.NumCPU(),
		GOMAXPROCS: runtime.GOMAXPROCS(0),
	}

	return metrics, nil
}

func summarize(latencies []float64) LatencyMetrics {
	if len(latencies) == 0 {
		return LatencyMetrics{}
	}
	sort.Float64s(latencies)

	return LatencyMetrics{
		Min:  time.Duration(latencies[0]),
		Mean: time.Duration(stat.Mean(latencies, nil)),
		P50:  time.Duration(stat.Quantile(0.5, stat.Empirical, latencies, nil)),
		P95:  time.Duration(stat.Quantile(0.95, stat.Empirical, latencies, nil)),
		Max:  time.Duration(latencies[len(latencies)-1]),
	}
}

// Suite manages and executes benchmark scenarios
type Suite struct {
	scenarios []Scenario
	processor *postprocess.BatchProcessor
	outputDir string
	logger    logrus.FieldLogger
	mu        sync.RWMutex
	results   []PerformanceMetrics
}

// NewSuiteArgs represents the arguments for creating a new benchmark suite.
type NewSuiteArgs struct {
	NMS        postprocess.NMSConfig `json:"nms"        yaml:"nms"`
	OutputPath string                `json:"outputPath" yaml:"outputPath"`
	Logger     logrus.FieldLogger    `json:"-"          yaml:"-"`
	Observer   postprocess.Observer  `json:"-"          yaml:"-"`
}

// NewSuite creates a new benchmark suite.
//
// Arguments:
//   - args: The arguments for creating a new benchmark suite.
//
// Returns:
//   - *Suite: The benchmark suite.
//   - An error if the NMS configuration is invalid.
func NewSuite(args NewSuiteArgs) (*Suite, error) {
	logger := args.Logger
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}

	processor, err := postprocess.NewBatchProcessor(args.NMS,
		postprocess.WithLogger(logger),
		postprocess.WithObserver(args.Observer),
	)
	if err != nil {
		return nil, err
	}

	return &Suite{
		processor: processor,
		outputDir: args.OutputPath,
		logger:    logger,
		scenarios: make([]Scenario, 0),
		results:   make([]PerformanceMetrics, 0),
	}, nil
}

// AddScenario adds a test scenario to the benchmark suite
func (bs *Suite) AddScenario(scenario Scenario) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.scenarios = append(bs.scenarios, scenario)
}

// RunScenario executes a single benchmark scenario
func (bs *Suite) RunScenario(ctx context.Context, scenario Scenario) (*PerformanceMetrics, error) {
	return Run(ctx, scenario, bs.processor)
}

// RunAllScenarios executes all configured benchmark scenarios. Failed
// scenarios are logged and skipped; cancellation stops the run.
func (bs *Suite) RunAllScenarios(ctx context.Context) error {
	bs.mu.RLock()
	scenarios := make([]Scenario, len(bs.scenarios))
	copy(scenarios, bs.scenarios)
	bs.mu.RUnlock()

	for _, scenario := range scenarios {
		if err := ctx.Err(); err != nil {
			return err
		}

		log := bs.logger.WithField("scenario", scenario.Name)
		metrics, err := bs.RunScenario(ctx, scenario)
		if err != nil {
			log.WithError(err).Error("scenario failed")
			continue
		}

		bs.mu.Lock()
		bs.results = append(bs.results, *metrics)
		bs.mu.Unlock()

		log.WithFields(logrus.Fields{
			"images_per_second": metrics.ImagesPerSecond,
			"p95":               metrics.BatchLatency.P95,
			"detections":        metrics.DetectionCount,
			"truncated_batches": metrics.Suppression.TruncatedBatches,
		}).Info("scenario completed")
	}

	return nil
}

// SaveResults persists benchmark results to the output directory as JSON
// and a CSV summary.
//
// Returns:
//   - The JSON and CSV file paths.
//   - An error if a file cannot be written.
func (bs *Suite) SaveResults() (string, string, error) {
	results := bs.GetResults()

	if err := os.MkdirAll(bs.outputDir, 0o755); err != nil {
		return "", "", errors.Wrap(err, "create output directory")
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	resultsFile := filepath.Join(bs.outputDir, fmt.Sprintf("benchmark_results_%s.json", timestamp))

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return "", "", errors.Wrap(err, "marshal results")
	}
	if err := os.WriteFile(resultsFile, data, 0o644); err != nil {
		return "", "", errors.Wrap(err, "write results file")
	}

	summaryFile := filepath.Join(bs.outputDir, fmt.Sprintf("benchmark_summary_%s.csv", timestamp))
	if err := saveSummaryCSV(summaryFile, results); err != nil {
		return "", "", errors.Wrap(err, "save summary CSV")
	}

	bs.logger.WithFields(logrus.Fields{
		"results": resultsFile,
		"summary": summaryFile,
	}).Info("benchmark results saved")

	return resultsFile, summaryFile, nil
}

func saveSummaryCSV(filename string, results []PerformanceMetrics) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write([]string{
		"Scenario", "Candidates", "Classes", "Batch", "Images_Per_Second",
		"P50_ms", "P95_ms", "Detections", "Truncated_Batches",
	}); err != nil {
		return err
	}

	ms := func(d time.Duration) string {
		return strconv.FormatFloat(float64(d)/float64(time.Millisecond), 'f', 3, 64)
	}
	for _, r := range results {
		if err := w.Write([]string{
			r.Scenario.Name,
			strconv.Itoa(r.Scenario.Candidates),
			strconv.Itoa(r.Scenario.Classes),
			strconv.Itoa(r.Scenario.BatchSize),
			strconv.FormatFloat(r.ImagesPerSecond, 'f', 2, 64),
			ms(r.BatchLatency.P50),
			ms(r.BatchLatency.P95),
			strconv.Itoa(r.DetectionCount),
			strconv.Itoa(r.Suppression.TruncatedBatches),
		}); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

// GetResults returns all benchmark results
func (bs *Suite) GetResults() []PerformanceMetrics {
	bs.mu.RLock()
	defer bs.mu.RUnlock()

	results := make([]PerformanceMetrics, len(bs.results))
	copy(results, bs.results)
	return results
}
