// Package config handles configuration loading for the bondprice CLI.
// It supports YAML config files with environment variable overrides.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the quoting-convention defaults applied to input rows
// that leave the corresponding field unset, plus output formatting.
type Config struct {
	Defaults DefaultsConfig `mapstructure:"defaults" yaml:"defaults"`
	Output   OutputConfig   `mapstructure:"output"   yaml:"output"`
}

// DefaultsConfig holds per-market quoting conventions.
type DefaultsConfig struct {
	Frequency int     `mapstructure:"frequency"  yaml:"frequency"`
	DayCount  float64 `mapstructure:"day_count"  yaml:"day_count"`
	FaceValue float64 `mapstructure:"face_value" yaml:"face_value"`
}

// OutputConfig controls result formatting.
type OutputConfig struct {
	// Precision is the number of decimal places in emitted prices.
	Precision uint32 `mapstructure:"precision" yaml:"precision"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("defaults.frequency", 2)
	v.SetDefault("defaults.day_count", 365.0)
	v.SetDefault("defaults.face_value", 100.0)
	v.SetDefault("output.precision", 10)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("BONDPRICE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// Load returns the built-in defaults with environment overrides applied.
func Load() (*Config, error) {
	return unmarshal(newViper())
}

// LoadFromFile reads a YAML config file, layering it over the built-in
// defaults and below environment overrides.
func LoadFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return unmarshal(v)
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.Defaults.Frequency < 0 || cfg.Defaults.DayCount < 0 || cfg.Defaults.FaceValue < 0 {
		return nil, fmt.Errorf("config defaults must be non-negative")
	}
	return &cfg, nil
}
