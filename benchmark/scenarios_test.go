package benchmark

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredefinedScenarios(t *testing.T) {
	ps := &PredefinedScenarios{}

	for _, set := range []*ScenarioSet{
		ps.GetQuickScenarios(),
		ps.GetCandidateScalingScenarios(80),
		ps.GetBatchScalingScenarios(1000),
		ps.GetSourceResolutionScenarios(1000),
	} {
		assert.NotEmpty(t, set.Name)
		require.NotEmpty(t, set.Scenarios)
		names := make(map[string]bool)
		for _, s := range set.Scenarios {
			assert.NoError(t, s.Validate(), s.Name)
			assert.False(t, names[s.Name], "duplicate %s", s.Name)
			names[s.Name] = true
		}
	}

	batch := ps.GetBatchScalingScenarios(500).Scenarios
	assert.Equal(t, 1, batch[0].BatchSize)
	assert.Equal(t, 32, batch[len(batch)-1].BatchSize)
}

func TestSaveLoadScenarioSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	set := (&PredefinedScenarios{}).GetQuickScenarios()

	require.NoError(t, SaveScenarioSet(set, path))
	loaded, err := LoadScenarioSet(path)
	require.NoError(t, err)
	assert.Equal(t, set, loaded)
}

func TestLoadScenariosDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: custom
scenarios:
  - name: dense
    candidates: 20000
    classes: 3
  - batch_size: 8
    resolution: {width: 1280, height: 736}
`), 0o600))

	scenarios, err := LoadScenarios(path)
	require.NoError(t, err)
	require.Len(t, scenarios, 2)

	assert.Equal(t, "dense", scenarios[0].Name)
	assert.Equal(t, 20000, scenarios[0].Candidates)
	assert.Equal(t, 3, scenarios[0].Classes)
	assert.Equal(t, 100, scenarios[0].Iterations, "default iterations")

	assert.Equal(t, "scenario_1", scenarios[1].Name)
	assert.Equal(t, 8, scenarios[1].BatchSize)
	assert.Equal(t, 1280, scenarios[1].Resolution.Width)
	assert.Equal(t, 80, scenarios[1].Classes, "default classes")
}

func TestLoadScenariosInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scenarios.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scenarios:\n  - name: bad\n    batch_size: 0\n"), 0o600))
	_, err := LoadScenarios(path)
	assert.Error(t, err)

	_, err = LoadScenarios(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
