package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadDefaultsOnly(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ";", cfg.Data.Delimiter)
	assert.Equal(t, 5, cfg.Clean.QualityCutoff)
	assert.Equal(t, 0.25, cfg.Split.TestRatio)
	assert.Equal(t, "up", cfg.Split.Rebalance)
	assert.Equal(t, 0.05, cfg.Tree.Alpha)
	assert.Equal(t, 100, cfg.Forest.Trees)
	assert.Equal(t, ';', cfg.DelimiterRune())
}

func TestLoadYAMLOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "split:\n  test_ratio: 0.3\n  rebalance: down\nforest:\n  trees: 10\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0.3, cfg.Split.TestRatio)
	assert.Equal(t, "down", cfg.Split.Rebalance)
	assert.Equal(t, 10, cfg.Forest.Trees)
	// untouched sections keep defaults
	assert.Equal(t, 0.05, cfg.Tree.Alpha)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("WINE_SPLIT_TEST_RATIO", "0.4")
	t.Setenv("WINE_CLEAN_QUALITY_CUTOFF", "6")
	t.Setenv("WINE_LOG_LEVEL", "debug")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 0.4, cfg.Split.TestRatio)
	assert.Equal(t, 6, cfg.Clean.QualityCutoff)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoadMissingFileIsIgnored(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 0.25, cfg.Split.TestRatio)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := Default()
	cfg.Split.TestRatio = 1.5
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Split.Rebalance = "sideways"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Tree.Alpha = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Forest.Trees = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Data.Delimiter = ";;"
	assert.Error(t, cfg.Validate())
}
