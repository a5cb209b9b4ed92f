// Package config provides configuration for a pipeline run: input and
// output locations, seeds, split ratios, and model hyperparameter
// knobs. Values come from defaults, an optional YAML file, and
// OUTBREAKS_* environment overrides, in that order.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config represents a full pipeline run configuration.
type Config struct {
	// Input/output locations
	DataPath  string `yaml:"data_path"`  // outbreak report CSV
	OutputDir string `yaml:"output_dir"` // plots and reports
	ModelPath string `yaml:"model_path"` // serialized model bundle

	// Reproducibility and partitioning
	Seed      int64   `yaml:"seed"`
	TestRatio float64 `yaml:"test_ratio"`

	// Descriptive analytics
	TopN int `yaml:"top_n"`

	// Tree ensemble
	Trees int `yaml:"trees"`

	// Network training
	Epochs    int `yaml:"epochs"`
	BatchSize int `yaml:"batch_size"`

	// Hyperparameter search
	SearchIterations int `yaml:"search_iterations"`
	CVFolds          int `yaml:"cv_folds"`

	// Worker pool size (0 = number of CPUs)
	Workers int `yaml:"workers"`
}

// Default configuration values.
const (
	DefaultDataPath  = "outbreaks.csv"
	DefaultOutputDir = "out"
	DefaultModelPath = "model.gob"
	DefaultSeed      = 42
	DefaultTestRatio = 0.3
	DefaultTopN      = 10
	DefaultTrees     = 100
	DefaultEpochs    = 50
	DefaultBatchSize = 32
	DefaultSearch    = 20
	DefaultCVFolds   = 3
)

// NewConfig creates a configuration with default values.
func NewConfig() Config {
	return Config{
		DataPath:         DefaultDataPath,
		OutputDir:        DefaultOutputDir,
		ModelPath:        DefaultModelPath,
		Seed:             DefaultSeed,
		TestRatio:        DefaultTestRatio,
		TopN:             DefaultTopN,
		Trees:            DefaultTrees,
		Epochs:           DefaultEpochs,
		BatchSize:        DefaultBatchSize,
		SearchIterations: DefaultSearch,
		CVFolds:          DefaultCVFolds,
	}
}

// LoadFromFile loads configuration from a YAML file over the defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := NewConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// LoadWithEnvironment applies OUTBREAKS_* environment variables over an
// existing configuration.
func (c *Config) LoadWithEnvironment() {
	if v := os.Getenv("OUTBREAKS_DATA_PATH"); v != "" {
		c.DataPath = v
	}
	if v := os.Getenv("OUTBREAKS_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
	if v := os.Getenv("OUTBREAKS_MODEL_PATH"); v != "" {
		c.ModelPath = v
	}
	if v := os.Getenv("OUTBREAKS_SEED"); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	if v := os.Getenv("OUTBREAKS_TEST_RATIO"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			c.TestRatio = parsed
		}
	}
	if v := os.Getenv("OUTBREAKS_WORKERS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			c.Workers = parsed
		}
	}
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if c.DataPath == "" {
		return fmt.Errorf("DataPath must not be empty")
	}
	if c.TestRatio <= 0 || c.TestRatio >= 1 {
		return fmt.Errorf("TestRatio must be in (0, 1), got %g", c.TestRatio)
	}
	if c.TopN <= 0 {
		return fmt.Errorf("TopN must be positive, got %d", c.TopN)
	}
	if c.Trees <= 0 {
		return fmt.Errorf("Trees must be positive, got %d", c.Trees)
	}
	if c.Epochs <= 0 {
		return fmt.Errorf("Epochs must be positive, got %d", c.Epochs)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("BatchSize must be positive, got %d", c.BatchSize)
	}
	if c.SearchIterations <= 0 {
		return fmt.Errorf("SearchIterations must be positive, got %d", c.SearchIterations)
	}
	if c.CVFolds < 2 {
		return fmt.Errorf("CVFolds must be at least 2, got %d", c.CVFolds)
	}
	if c.Workers < 0 {
		return fmt.Errorf("Workers must be non-negative, got %d", c.Workers)
	}
	return nil
}
