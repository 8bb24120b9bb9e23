package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/nvr-ai/go-nms/benchmark"
	"github.com/nvr-ai/go-nms/metrics"
	"github.com/nvr-ai/go-nms/models/postprocess"
)

func main() {
	var (
		configFile   = flag.String("config", "", "Path to NMS configuration YAML file")
		scenarioFile = flag.String("scenarios", "", "Path to scenario set YAML file")
		outputDir    = flag.String("output", "./benchmark_results", "Output directory for results")
		metricsAddr  = flag.String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9090)")
		batchSize    = flag.Int("batch", 1, "Images per batch for the ad-hoc scenario")
		candidates   = flag.Int("candidates", 1000, "Prediction rows per image for the ad-hoc scenario")
		classes      = flag.Int("classes", 80, "Classes for the ad-hoc scenario")
		iterations   = flag.Int("iterations", 100, "Timed iterations for the ad-hoc scenario")
		quick        = flag.Bool("quick", false, "Run the quick predefined scenarios")
		timeout      = flag.Duration("timeout", 30*time.Minute, "Benchmark timeout duration")
		verbose      = flag.Bool("verbose", false, "Enable debug logging")
	)
	flag.Parse()

	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	}

	config := postprocess.DefaultNMSConfig()
	if *configFile != "" {
		var err error
		if config, err = postprocess.LoadNMSConfig(*configFile); err != nil {
			logger.WithError(err).Fatal("failed to load NMS config")
		}
	}

	collector := metrics.New()
	if *metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		server := &http.Server{Addr: *metricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			logger.WithField("addr", *metricsAddr).Info("starting metrics server")
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.WithError(err).Error("metrics server error")
			}
		}()
		defer server.Close()
	}

	suite, err := benchmark.NewSuite(benchmark.NewSuiteArgs{
		NMS:        config,
		OutputPath: *outputDir,
		Logger:     logger,
		Observer:   collector,
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to create benchmark suite")
	}

	switch {
	case *scenarioFile != "":
		scenarios, err := benchmark.LoadScenarios(*scenarioFile)
		if err != nil {
			logger.WithError(err).Fatal("failed to load scenario file")
		}
		for _, scenario := range scenarios {
			suite.AddScenario(scenario)
		}
		logger.Infof("loaded %d scenarios from %s", len(scenarios), *scenarioFile)
	case *quick:
		scenarios := (&benchmark.PredefinedScenarios{}).GetQuickScenarios()
		for _, scenario := range scenarios.Scenarios {
			suite.AddScenario(scenario)
		}
		logger.Infof("added %d quick scenarios", len(scenarios.Scenarios))
	default:
		scenario := benchmark.NewScenarioBuilder(fmt.Sprintf("adhoc_b%d_n%d_c%d", *batchSize, *candidates, *classes)).
			WithBatchSize(*batchSize).
			WithCandidates(*candidates).
			WithClasses(*classes).
			WithClusters(max(*candidates/50, 1)).
			WithIterations(*iterations).
			Build()
		if err := scenario.Validate(); err != nil {
			logger.WithError(err).Fatal("invalid scenario flags")
		}
		suite.AddScenario(scenario)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting benchmark execution")
	start := time.Now()

	if err := suite.RunAllScenarios(ctx); err != nil {
		logger.WithError(err).Error("benchmark interrupted")
	}
	if _, _, err := suite.SaveResults(); err != nil {
		logger.WithError(err).Fatal("failed to save results")
	}

	results := suite.GetResults()
	logger.WithFields(logrus.Fields{
		"duration":  time.Since(start),
		"scenarios": len(results),
		"output":    *outputDir,
	}).Info("benchmark completed")

	var best benchmark.PerformanceMetrics
	for _, result := range results {
		if result.ImagesPerSecond > best.ImagesPerSecond {
			best = result
		}
		fmt.Printf("  %s: %.2f images/s (p95 %s, %d detections, %d truncated batches)\n",
			result.Scenario.Name,
			result.ImagesPerSecond,
			result.BatchLatency.P95,
			result.DetectionCount,
			result.Suppression.TruncatedBatches)
	}
	if best.Scenario.Name != "" {
		fmt.Printf("\nBest performing scenario: %s (%.2f images/s)\n", best.Scenario.Name, best.ImagesPerSecond)
	}
}

func init() {
	flag.Usage = func() {
		name := filepath.Base(os.Args[0])
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", name)
		fmt.Fprintf(os.Stderr, "Benchmark tool for detection post-processing (NMS) performance.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -batch 8 -candidates 5000 -classes 80\n", name)
		fmt.Fprintf(os.Stderr, "  %s -config ./nms.yaml -scenarios ./scenarios.yaml -metrics-addr :9090\n", name)
	}
}
