package benchmark

import (
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/nvr-ai/go-nms/images"
)

// Scenario defines one synthetic post-processing workload.
type Scenario struct {
	Name string `json:"name" yaml:"name"`
	// Model input frame the synthetic boxes are drawn in.
	Resolution images.Frame `json:"resolution" yaml:"resolution"`
	// Optional camera frame; when set, results are rescaled into it.
	Source images.Frame `json:"source" yaml:"source"`
	// Prediction rows per image.
	Candidates int `json:"candidates" yaml:"candidates"`
	// Class score columns per row.
	Classes int `json:"classes" yaml:"classes"`
	// Objects per image; candidates are jittered copies of these.
	Clusters   int   `json:"clusters" yaml:"clusters"`
	BatchSize  int   `json:"batch_size" yaml:"batch_size"`
	Iterations int   `json:"iterations" yaml:"iterations"`
	WarmupRuns int   `json:"warmup_runs" yaml:"warmup_runs"`
	Seed       int64 `json:"seed" yaml:"seed"`
}

// Validate reports whether the scenario can be generated and run.
func (s Scenario) Validate() error {
	switch {
	case !s.Resolution.Valid():
		return errors.Errorf("scenario %q: invalid resolution %dx%d", s.Name, s.Resolution.Width, s.Resolution.Height)
	case s.Source != (images.Frame{}) && !s.Source.Valid():
		return errors.Errorf("scenario %q: invalid source %dx%d", s.Name, s.Source.Width, s.Source.Height)
	case s.Candidates < 0:
		return errors.Errorf("scenario %q: negative candidates", s.Name)
	case s.Classes < 1:
		return errors.Errorf("scenario %q: at least one class is required", s.Name)
	case s.Clusters < 1:
		return errors.Errorf("scenario %q: at least one cluster is required", s.Name)
	case s.BatchSize < 1:
		return errors.Errorf("scenario %q: batch size must be positive", s.Name)
	case s.Iterations < 1:
		return errors.Errorf("scenario %q: iterations must be positive", s.Name)
	case s.WarmupRuns < 0:
		return errors.Errorf("scenario %q: negative warmup runs", s.Name)
	}
	return nil
}

// ScenarioBuilder helps build test scenarios with fluent API
type ScenarioBuilder struct {
	scenario Scenario
}

// NewScenarioBuilder creates a new scenario builder
func NewScenarioBuilder(name string) *ScenarioBuilder {
	return &ScenarioBuilder{
		scenario: Scenario{
			Name:       name,
			Resolution: images.Frame{Width: 640, Height: 640},
			Candidates: 1000,
			Classes:    80,
			Clusters:   20,
			BatchSize:  1,
			Iterations: 100,
			WarmupRuns: 10,
			Seed:       1,
		},
	}
}

// WithResolution sets the model input frame
func (sb *ScenarioBuilder) WithResolution(width, height int) *ScenarioBuilder {
	sb.scenario.Resolution = images.Frame{Width: width, Height: height}
	return sb
}

// WithSource sets the camera frame results are rescaled into
func (sb *ScenarioBuilder) WithSource(source images.Frame) *ScenarioBuilder {
	sb.scenario.Source = source
	return sb
}

// WithCandidates sets the prediction rows per image
func (sb *ScenarioBuilder) WithCandidates(candidates int) *ScenarioBuilder {
	sb.scenario.Candidates = candidates
	return sb
}

// WithClasses sets the number of classes
func (sb *ScenarioBuilder) WithClasses(classes int) *ScenarioBuilder {
	sb.scenario.Classes = classes
	return sb
}

// WithClusters sets the number of objects per image
func (sb *ScenarioBuilder) WithClusters(clusters int) *ScenarioBuilder {
	sb.scenario.Clusters = clusters
	return sb
}

// WithIterations sets the number of test iterations
func (sb *ScenarioBuilder) WithIterations(iterations int) *ScenarioBuilder {
	sb.scenario.Iterations = iterations
	return sb
}

// WithWarmupRuns sets the number of warmup runs
func (sb *ScenarioBuilder) WithWarmupRuns(warmups int) *ScenarioBuilder {
	sb.scenario.WarmupRuns = warmups
	return sb
}

// WithBatchSize sets the batch size for processing
func (sb *ScenarioBuilder) WithBatchSize(batchSize int) *ScenarioBuilder {
	sb.scenario.BatchSize = batchSize
	return sb
}

// WithSeed sets the generator seed
func (sb *ScenarioBuilder) WithSeed(seed int64) *ScenarioBuilder {
	sb.scenario.Seed = seed
	return sb
}

// Build returns the configured test scenario
func (sb *ScenarioBuilder) Build() Scenario {
	return sb.scenario
}

// ScenarioSet represents a collection of related test scenarios
type ScenarioSet struct {
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description" yaml:"description"`
	Scenarios   []Scenario `json:"scenarios" yaml:"scenarios"`
}

// PredefinedScenarios contains common benchmark scenario sets
type PredefinedScenarios struct{}

// GetQuickScenarios returns a smaller set for quick testing
func (ps *PredefinedScenarios) GetQuickScenarios() *ScenarioSet {
	scenarios := make([]Scenario, 0)

	for _, candidates := range []int{100, 1000} {
		scenarios = append(scenarios, NewScenarioBuilder(fmt.Sprintf("quick_%d", candidates)).
			WithCandidates(candidates).
			WithIterations(20).
			WithWarmupRuns(2).
			Build())
	}

	return &ScenarioSet{
		Name:        "Quick Performance Test",
		Description: "Single image batches at low and medium candidate counts",
		Scenarios:   scenarios,
	}
}

// GetCandidateScalingScenarios grows the candidates per image up to the
// point where candidate truncation kicks in.
func (ps *PredefinedScenarios) GetCandidateScalingScenarios(classes int) *ScenarioSet {
	scenarios := make([]Scenario, 0)

	for _, candidates := range []int{100, 1000, 5000, 10000, 30000} {
		scenarios = append(scenarios, NewScenarioBuilder(fmt.Sprintf("candidates_%d_classes_%d", candidates, classes)).
			WithCandidates(candidates).
			WithClasses(classes).
			WithClusters(max(candidates/50, 1)).
			Build())
	}

	return &ScenarioSet{
		Name:        fmt.Sprintf("Candidate Scaling - %d classes", classes),
		Description: "Compares suppression cost as candidates per image grow",
		Scenarios:   scenarios,
	}
}

// GetBatchScalingScenarios compares batch sizes for a fixed per-image load.
func (ps *PredefinedScenarios) GetBatchScalingScenarios(candidates int) *ScenarioSet {
	scenarios := make([]Scenario, 0)

	for _, batch := range []int{1, 4, 8, 16, 32} {
		scenarios = append(scenarios, NewScenarioBuilder(fmt.Sprintf("batch_%d_candidates_%d", batch, candidates)).
			WithCandidates(candidates).
			WithBatchSize(batch).
			WithIterations(50).
			WithWarmupRuns(5).
			Build())
	}

	return &ScenarioSet{
		Name:        fmt.Sprintf("Batch Scaling @ %d candidates", candidates),
		Description: "Compares batch sizes against the batch time limit",
		Scenarios:   scenarios,
	}
}

// GetSourceResolutionScenarios letterboxes every supported camera
// resolution into the model frame and rescales the results back.
func (ps *PredefinedScenarios) GetSourceResolutionScenarios(candidates int) *ScenarioSet {
	scenarios := make([]Scenario, 0)

	for _, r := range images.SupportedResolutions() {
		scenarios = append(scenarios, NewScenarioBuilder(fmt.Sprintf("source_%dx%d_candidates_%d", r.Frame.Width, r.Frame.Height, candidates)).
			WithCandidates(candidates).
			WithSource(r.Frame).
			WithIterations(50).
			WithWarmupRuns(5).
			Build())
	}

	return &ScenarioSet{
		Name:        fmt.Sprintf("Source Resolution Comparison @ %d candidates", candidates),
		Description: "Includes rescaling into each supported camera resolution",
		Scenarios:   scenarios,
	}
}

// SaveScenarioSet saves a scenario set to a YAML file
func SaveScenarioSet(scenarioSet *ScenarioSet, filename string) error {
	data, err := yaml.Marshal(scenarioSet)
	if err != nil {
		return errors.Wrap(err, "marshal scenario set")
	}

	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return errors.Wrap(err, "write scenario file")
	}

	return nil
}

// LoadScenarioSet loads a scenario set from a YAML (or JSON) file. Missing
// scenario fields take the NewScenarioBuilder defaults.
func LoadScenarioSet(filename string) (*ScenarioSet, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "read scenario file")
	}

	var raw struct {
		Name        string      `yaml:"name"`
		Description string      `yaml:"description"`
		Scenarios   []yaml.Node `yaml:"scenarios"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "unmarshal scenario set")
	}

	set := &ScenarioSet{
		Name:        raw.Name,
		Description: raw.Description,
		Scenarios:   make([]Scenario, 0, len(raw.Scenarios)),
	}
	for i := range raw.Scenarios {
		scenario := NewScenarioBuilder(fmt.Sprintf("scenario_%d", i)).Build()
		if err := raw.Scenarios[i].Decode(&scenario); err != nil {
			return nil, errors.Wrapf(err, "decode scenario %d", i)
		}
		if err := scenario.Validate(); err != nil {
			return nil, err
		}
		set.Scenarios = append(set.Scenarios, scenario)
	}

	return set, nil
}

// LoadScenarios returns the scenarios of a scenario set file.
func LoadScenarios(filename string) ([]Scenario, error) {
	set, err := LoadScenarioSet(filename)
	if err != nil {
		return nil, err
	}
	return set.Scenarios, nil
}
