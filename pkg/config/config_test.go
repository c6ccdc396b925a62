package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
graph_path: PA_VTDs.json
output_dir: out
columns:
  population: TOT_POP
  dem_votes: PRES12D
  rep_votes: PRES12R
plans:
  - name: Dem-favoring
    column: 538DEM_PL
  - name: Compactness-favoring
    column: 538CPCT__1
starting_plan: 538CPCT__1
ensemble:
  target_samples: 50
  population_tolerance: 0.02
  thinning_interval: 3
  seed: 7
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "PA_VTDs.json", cfg.GraphPath)
	assert.Equal(t, "out", cfg.OutputDir)
	assert.Equal(t, 50, cfg.Ensemble.TargetSamples)
	assert.Equal(t, 0.02, cfg.Ensemble.PopulationTolerance)
	assert.Equal(t, 3, cfg.Ensemble.ThinningInterval)
	assert.Equal(t, int64(7), cfg.Ensemble.Seed)

	// Unset knobs pick up defaults.
	assert.Equal(t, 5, cfg.Ensemble.MaxStepsMultiplier)
	assert.Equal(t, 1, cfg.Ensemble.Chains)
	assert.Equal(t, 20, cfg.Ensemble.GapBins)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	path := writeConfig(t, "graph_path: [unclosed")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := Default()
		return cfg
	}

	require.NoError(t, base().Validate())

	tests := []struct {
		name string
		mod  func(c *Config)
		want string
	}{
		{"missing graph path", func(c *Config) { c.GraphPath = "" }, "graph_path is required"},
		{"missing columns", func(c *Config) { c.Columns.Population = "" }, "columns.population"},
		{"missing starting plan", func(c *Config) { c.StartingPlan = "" }, "starting_plan is required"},
		{"bad target", func(c *Config) { c.Ensemble.TargetSamples = -1 }, "target_samples"},
		{"bad tolerance", func(c *Config) { c.Ensemble.PopulationTolerance = -0.5 }, "population_tolerance"},
		{"bad thinning", func(c *Config) { c.Ensemble.ThinningInterval = -2 }, "thinning_interval"},
		{"bad chains", func(c *Config) { c.Ensemble.Chains = -1 }, "chains"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mod(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestDefaultMatchesReferenceRun(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "TOT_POP", cfg.Columns.Population)
	assert.Equal(t, "PRES12D", cfg.Columns.DemVotes)
	assert.Equal(t, "PRES12R", cfg.Columns.RepVotes)
	assert.Equal(t, "538CPCT__1", cfg.StartingPlan)
	assert.Equal(t, 100, cfg.Ensemble.TargetSamples)
	assert.Equal(t, 0.01, cfg.Ensemble.PopulationTolerance)
	assert.Equal(t, 2, cfg.Ensemble.ThinningInterval)
	assert.Equal(t, int64(42), cfg.Ensemble.Seed)
	assert.Len(t, cfg.Plans, 3)
}

func TestPlanColumnsIncludesStartingPlan(t *testing.T) {
	cfg := Default()
	assert.ElementsMatch(t, []string{"538DEM_PL", "538GOP_PL", "538CPCT__1"}, cfg.PlanColumns())

	cfg.StartingPlan = "SOME_OTHER"
	assert.Contains(t, cfg.PlanColumns(), "SOME_OTHER")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("ENSEMBLE_SIZE", "25")
	t.Setenv("RECOM_EPSILON", "0.05")
	t.Setenv("GRAPH_PATH", "other.json")

	cfg := Default()
	assert.Equal(t, 25, cfg.Ensemble.TargetSamples)
	assert.Equal(t, 0.05, cfg.Ensemble.PopulationTolerance)
	assert.Equal(t, "other.json", cfg.GraphPath)
}
