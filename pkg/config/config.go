package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	GraphPath    string   `yaml:"graph_path"`
	OutputDir    string   `yaml:"output_dir"`
	Columns      Columns  `yaml:"columns"`
	Plans        []Plan   `yaml:"plans"`
	StartingPlan string   `yaml:"starting_plan"`
	Ensemble     Ensemble `yaml:"ensemble"`
}

type Columns struct {
	Population string `yaml:"population"`
	DemVotes   string `yaml:"dem_votes"`
	RepVotes   string `yaml:"rep_votes"`
}

// Plan is a fixed district plan stored as an assignment column on the graph.
type Plan struct {
	Name   string `yaml:"name"`
	Column string `yaml:"column"`
}

type Ensemble struct {
	TargetSamples       int     `yaml:"target_samples"`
	PopulationTolerance float64 `yaml:"population_tolerance"`
	ThinningInterval    int     `yaml:"thinning_interval"`
	MaxStepsMultiplier  int     `yaml:"max_steps_multiplier"`
	Seed                int64   `yaml:"seed"`
	Chains              int     `yaml:"chains"`
	GapBins             int     `yaml:"gap_bins"`
}

func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", configPath, err)
	}

	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func Default() *Config {
	config := &Config{
		GraphPath: getEnv("GRAPH_PATH", "PA_VTDs.json"),
		OutputDir: getEnv("OUTPUT_DIR", "."),
		Columns: Columns{
			Population: getEnv("POP_COL", "TOT_POP"),
			DemVotes:   getEnv("DEM_COL", "PRES12D"),
			RepVotes:   getEnv("GOP_COL", "PRES12R"),
		},
		Plans: []Plan{
			{Name: "FiveThirtyEight - Dem-favoring plan", Column: "538DEM_PL"},
			{Name: "FiveThirtyEight - GOP-favoring plan", Column: "538GOP_PL"},
			{Name: "FiveThirtyEight - Compactness-favoring plan", Column: "538CPCT__1"},
		},
		StartingPlan: getEnv("STARTING_PLAN", "538CPCT__1"),
		Ensemble: Ensemble{
			TargetSamples:       getEnvInt("ENSEMBLE_SIZE", 100),
			PopulationTolerance: getEnvFloat("RECOM_EPSILON", 0.01),
			ThinningInterval:    getEnvInt("STEPS_BETWEEN_SAMPLES", 2),
			MaxStepsMultiplier:  getEnvInt("MAX_STEPS_MULTIPLIER", 5),
			Seed:                int64(getEnvInt("SEED", 42)),
			Chains:              getEnvInt("CHAINS", 1),
			GapBins:             getEnvInt("GAP_BINS", 20),
		},
	}
	config.applyDefaults()
	return config
}

func (c *Config) applyDefaults() {
	if c.OutputDir == "" {
		c.OutputDir = "."
	}
	if c.Ensemble.TargetSamples == 0 {
		c.Ensemble.TargetSamples = 100
	}
	if c.Ensemble.PopulationTolerance == 0 {
		c.Ensemble.PopulationTolerance = 0.01
	}
	if c.Ensemble.ThinningInterval == 0 {
		c.Ensemble.ThinningInterval = 2
	}
	if c.Ensemble.MaxStepsMultiplier == 0 {
		c.Ensemble.MaxStepsMultiplier = 5
	}
	if c.Ensemble.Chains == 0 {
		c.Ensemble.Chains = 1
	}
	if c.Ensemble.GapBins == 0 {
		c.Ensemble.GapBins = 20
	}
}

func (c *Config) Validate() error {
	if c.GraphPath == "" {
		return fmt.Errorf("graph_path is required")
	}
	if c.Columns.Population == "" || c.Columns.DemVotes == "" || c.Columns.RepVotes == "" {
		return fmt.Errorf("columns.population, columns.dem_votes and columns.rep_votes are required")
	}
	if c.StartingPlan == "" {
		return fmt.Errorf("starting_plan is required")
	}
	if c.Ensemble.TargetSamples < 1 {
		return fmt.Errorf("ensemble.target_samples must be at least 1, got %d", c.Ensemble.TargetSamples)
	}
	if c.Ensemble.PopulationTolerance <= 0 {
		return fmt.Errorf("ensemble.population_tolerance must be positive, got %g", c.Ensemble.PopulationTolerance)
	}
	if c.Ensemble.ThinningInterval < 1 {
		return fmt.Errorf("ensemble.thinning_interval must be at least 1, got %d", c.Ensemble.ThinningInterval)
	}
	if c.Ensemble.MaxStepsMultiplier < 1 {
		return fmt.Errorf("ensemble.max_steps_multiplier must be at least 1, got %d", c.Ensemble.MaxStepsMultiplier)
	}
	if c.Ensemble.MaxStepsMultiplier < 1 {
		return fmt.Errorf("ensemble.max_steps_multiplier must be at least 1, got %d", c.Ensemble.MaxStepsMultiplier)
	}
	if c.Ensemble.Chains < 1 {
		return fmt.Errorf("ensemble.chains must be at least 1, got %d", c.Ensemble.Chains)
	}
	return nil
}

// PlanColumns lists every assignment column the graph must carry.
func (c *Config) PlanColumns() []string {
	columns := make([]string, 0, len(c.Plans)+1)
	for _, plan := range c.Plans {
		columns = append(columns, plan.Column)
	}

	for _, col := range columns {
		if col == c.StartingPlan {
			return columns
		}
	}
	return append(columns, c.StartingPlan)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
