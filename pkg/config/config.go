// Package config loads the pipeline configuration with layered sources:
// built-in defaults, an optional YAML file, then environment variables
// (prefix WINE_), in increasing precedence.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix for environment variable overrides, e.g.
// WINE_SPLIT_TEST_RATIO=0.3 sets split.test_ratio.
const EnvPrefix = "WINE_"

// Config is the full pipeline configuration.
type Config struct {
	Data   DataConfig   `koanf:"data"`
	Clean  CleanConfig  `koanf:"clean"`
	Split  SplitConfig  `koanf:"split"`
	Tree   TreeConfig   `koanf:"tree"`
	Forest ForestConfig `koanf:"forest"`
	Eval   EvalConfig   `koanf:"eval"`
	Log    LogConfig    `koanf:"log"`
	Report ReportConfig `koanf:"report"`
}

// DataConfig locates the two source files.
type DataConfig struct {
	RedPath   string `koanf:"red_path" validate:"required"`
	WhitePath string `koanf:"white_path" validate:"required"`
	Delimiter string `koanf:"delimiter" validate:"required,len=1"`
}

// CleanConfig controls cleaning and outcome derivation.
type CleanConfig struct {
	QualityColumn string `koanf:"quality_column" validate:"required"`
	SourceColumn  string `koanf:"source_column" validate:"required"`
	// QualityCutoff derives the outcome: quality <= cutoff is low quality.
	QualityCutoff int `koanf:"quality_cutoff" validate:"gte=0,lte=10"`
}

// SplitConfig controls partitioning and rebalancing.
type SplitConfig struct {
	TestRatio float64 `koanf:"test_ratio" validate:"gt=0,lt=1"`
	Seed      int64   `koanf:"seed"`
	// Rebalance applies to the training subset before the forest fit:
	// "up", "down" or "none".
	Rebalance string `koanf:"rebalance" validate:"oneof=up down none"`
}

// TreeConfig holds the conditional inference tree hyperparameters.
type TreeConfig struct {
	Alpha     float64 `koanf:"alpha" validate:"gt=0,lte=1"`
	MaxDepth  int     `koanf:"max_depth" validate:"gte=0"`
	MinSplit  int     `koanf:"min_split" validate:"gte=2"`
	MinBucket int     `koanf:"min_bucket" validate:"gte=1"`
}

// ForestConfig holds the random forest hyperparameters.
type ForestConfig struct {
	Trees       int   `koanf:"trees" validate:"gte=1"`
	MaxDepth    int   `koanf:"max_depth" validate:"gte=0"`
	MaxFeatures int   `koanf:"max_features" validate:"gte=0"`
	Seed        int64 `koanf:"seed"`
}

// EvalConfig controls probability thresholding.
type EvalConfig struct {
	Threshold float64 `koanf:"threshold" validate:"gt=0,lt=1"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `koanf:"level" validate:"oneof=debug info warn error"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// ReportConfig controls the JSON report output.
type ReportConfig struct {
	// Path of the report file; empty disables writing.
	Path string `koanf:"path"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			RedPath:   "winequality-red.csv",
			WhitePath: "winequality-white.csv",
			Delimiter: ";",
		},
		Clean: CleanConfig{
			QualityColumn: "quality",
			SourceColumn:  "type",
			QualityCutoff: 5,
		},
		Split: SplitConfig{
			TestRatio: 0.25,
			Seed:      42,
			Rebalance: "up",
		},
		Tree: TreeConfig{
			Alpha:     0.05,
			MaxDepth:  0,
			MinSplit:  20,
			MinBucket: 7,
		},
		Forest: ForestConfig{
			Trees:       100,
			MaxDepth:    0,
			MaxFeatures: 0, // sqrt(p)
			Seed:        42,
		},
		Eval: EvalConfig{
			Threshold: 0.5,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// path (skipped when path is empty or missing) and WINE_* environment
// variables, then validates it.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("config: load %s: %w", path, err)
			}
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envTransform maps WINE_SPLIT_TEST_RATIO to split.test_ratio: the first
// underscore after the prefix separates the section from the key.
func envTransform(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

// Validate checks the struct tags.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: validation failed: %w", err)
	}
	return nil
}

// DelimiterRune returns the CSV delimiter as a rune.
func (c *Config) DelimiterRune() rune {
	return []rune(c.Data.Delimiter)[0]
}
