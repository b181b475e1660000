package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meenmo/bondval/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, 2, cfg.Defaults.Frequency)
	require.Equal(t, 365.0, cfg.Defaults.DayCount)
	require.Equal(t, 100.0, cfg.Defaults.FaceValue)
	require.Equal(t, uint32(10), cfg.Output.Precision)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("BONDPRICE_DEFAULTS_FREQUENCY", "4")
	t.Setenv("BONDPRICE_OUTPUT_PRECISION", "6")

	cfg, err := config.Load()
	require.NoError(t, err)

	require.Equal(t, 4, cfg.Defaults.Frequency)
	require.Equal(t, uint32(6), cfg.Output.Precision)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := []byte("defaults:\n  frequency: 1\n  day_count: 360\noutput:\n  precision: 4\n")
	require.NoError(t, os.WriteFile(path, doc, 0o644))

	cfg, err := config.LoadFromFile(path)
	require.NoError(t, err)

	require.Equal(t, 1, cfg.Defaults.Frequency)
	require.Equal(t, 360.0, cfg.Defaults.DayCount)
	// Unset keys keep their built-in defaults.
	require.Equal(t, 100.0, cfg.Defaults.FaceValue)
	require.Equal(t, uint32(4), cfg.Output.Precision)
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := config.LoadFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}
