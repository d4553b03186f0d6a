// Package config provides the ktlsprobe CLI's own configuration. It has no
// bearing on pkg/ktls, which reads no environment variables or files per
// the core's no-ambient-environment design.
package config

import (
	"bytes"
	"fmt"

	"github.com/spf13/viper"
)

// defaultConfig is parsed by viper as a single string rather than built as
// a struct literal, so a user config file only needs to override the keys
// it cares about.
var defaultConfig = `
outputFormat: table
verbose: false
includeUnsupported: true
`

// Config is the ktlsprobe CLI's configuration.
type Config struct {
	// OutputFormat is "table" or "json". ktlsprobe does not read it and
	// always prints a table.
	OutputFormat string `mapstructure:"outputFormat"`
	// Verbose enables debug-level logging.
	Verbose bool `mapstructure:"verbose"`
	// IncludeUnsupported lists suites the kernel rejected, not just the ones it accepted.
	IncludeUnsupported bool `mapstructure:"includeUnsupported"`
}

// Load reads defaultConfig, then overlays configPath if non-empty.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(bytes.NewBufferString(defaultConfig)); err != nil {
		return nil, fmt.Errorf("failed to parse default config: %w", err)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %q: %w", configPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
