// Package config loads the winebench run configuration from YAML.
package config

import (
	"os"

	"gopkg.in/yaml.v2"

	"github.com/oenolab/winebench/pkg/errors"
)

// Config is the top-level run configuration.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	Data       DataConfig       `yaml:"data"`
	Evaluation EvaluationConfig `yaml:"evaluation"`
	Models     ModelsConfig     `yaml:"models"`
	Report     ReportConfig     `yaml:"report"`
}

// DataConfig locates the input file and selects the wine colors to run.
type DataConfig struct {
	// Path is the combined wine-quality CSV with a leading type column.
	Path string `yaml:"path"`
	// Colors selects which wine types to evaluate, e.g. [red, white].
	Colors []string `yaml:"colors"`
}

// EvaluationConfig parameterizes the repeated cross-validation harness.
type EvaluationConfig struct {
	// Seeds are the random seeds; each seed is one full k-fold repeat.
	Seeds []int64 `yaml:"seeds"`
	// Folds is k.
	Folds int `yaml:"folds"`
	// SkipDegenerateAUC excludes single-class folds from the AUC mean
	// instead of aborting the model's evaluation.
	SkipDegenerateAUC bool `yaml:"skip_degenerate_auc"`
}

// ModelsConfig toggles benchmark entries and sets their hyperparameters.
type ModelsConfig struct {
	// Enabled lists the models to run; empty means all registered models.
	Enabled []string `yaml:"enabled"`

	Forest   ForestConfig   `yaml:"forest"`
	Boosting BoostingConfig `yaml:"boosting"`
	Penalty  PenaltyConfig  `yaml:"penalty"`
}

// ForestConfig covers random forest and its bagging degenerate case.
type ForestConfig struct {
	// Trees is the ensemble size.
	Trees int `yaml:"trees"`
	// Width is the feature-subsampling width per split; 0 means sqrt(p),
	// and width >= p degenerates to bagging.
	Width int `yaml:"width"`
}

// BoostingConfig covers the gradient-boosted trees.
type BoostingConfig struct {
	Rounds    int     `yaml:"rounds"`
	Shrinkage float64 `yaml:"shrinkage"`
	MaxDepth  int     `yaml:"max_depth"`
}

// ReportConfig controls the rendered output.
type ReportConfig struct {
	// ChartDir is the directory the per-color metric charts are written
	// to. Empty disables chart output; the -charts flag overrides it.
	ChartDir string `yaml:"chart_dir"`
}

// PenaltyConfig is the λ grid searched by the nested CV of ridge and lasso.
type PenaltyConfig struct {
	// Grid is the candidate penalty strengths; empty uses the default
	// logarithmic grid.
	Grid []float64 `yaml:"grid"`
	// InnerFolds is the nested cross-validation fold count.
	InnerFolds int `yaml:"inner_folds"`
}

// Default returns the configuration matching the reference analysis:
// seeds {1, 10, 100, 1000, 10000} with 5 folds, all models enabled.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		Data: DataConfig{
			Path:   "testdata/winequality.csv",
			Colors: []string{"red", "white"},
		},
		Evaluation: EvaluationConfig{
			Seeds: []int64{1, 10, 100, 1000, 10000},
			Folds: 5,
		},
		Models: ModelsConfig{
			Forest:   ForestConfig{Trees: 100, Width: 0},
			Boosting: BoostingConfig{Rounds: 100, Shrinkage: 0.1, MaxDepth: 3},
			Penalty:  PenaltyConfig{InnerFolds: 5},
		},
		Report: ReportConfig{ChartDir: ""},
	}
}

// Load reads a YAML config file, applying defaults for omitted fields.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "config: reading %s", path)
	}
	cfg := Default()
	if err := yaml.UnmarshalStrict(raw, cfg); err != nil {
		return nil, errors.Wrapf(err, "config: parsing %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations the evaluator cannot run.
func (c *Config) Validate() error {
	if len(c.Evaluation.Seeds) == 0 {
		return errors.NewValidationError("evaluation.seeds", "must not be empty", c.Evaluation.Seeds)
	}
	if c.Evaluation.Folds < 2 {
		return errors.NewValidationError("evaluation.folds", "must be at least 2", c.Evaluation.Folds)
	}
	if c.Data.Path == "" {
		return errors.NewValidationError("data.path", "must not be empty", c.Data.Path)
	}
	for _, color := range c.Data.Colors {
		if color != "red" && color != "white" {
			return errors.NewValidationError("data.colors", "must be red or white", color)
		}
	}
	if c.Models.Boosting.Shrinkage <= 0 || c.Models.Boosting.Shrinkage > 1 {
		return errors.NewValidationError("models.boosting.shrinkage", "must be in (0, 1]", c.Models.Boosting.Shrinkage)
	}
	return nil
}
