// FILE: elklog/src/internal/config/logging.go
package config

import (
	"fmt"
	"strings"

	lconfig "github.com/lixenwraith/config"
)

// DiagConfig holds the CLI's own settings: where to find the logging
// config and how chatty the tool's internal diagnostics are.
type DiagConfig struct {
	// Path of the YAML logging config
	ConfigFile string `toml:"config_file"`

	// Internal diagnostics level: "debug", "info", "warn", "error"
	Level string `toml:"level"`

	// Suppress all diagnostics and console output
	Quiet bool `toml:"quiet"`
}

func diagDefaults() *DiagConfig {
	return &DiagConfig{
		ConfigFile: "config.yaml",
		Level:      "warn",
		Quiet:      false,
	}
}

// LoadDiag resolves CLI settings from ELKLOG_* environment variables over
// defaults. Command-line flags are applied on top by the caller.
func LoadDiag() (*DiagConfig, error) {
	cfg, err := lconfig.NewBuilder().
		WithDefaults(diagDefaults()).
		WithEnvPrefix("ELKLOG_").
		WithEnvTransform(customEnvTransform).
		WithSources(
			lconfig.SourceEnv,
			lconfig.SourceDefault,
		).
		Build()

	if err != nil {
		if !strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("failed to load settings: %w", err)
		}
	}

	finalConfig := &DiagConfig{}
	if err := cfg.Scan(finalConfig, ""); err != nil {
		return nil, fmt.Errorf("failed to scan settings: %w", err)
	}

	return finalConfig, finalConfig.validate()
}

func customEnvTransform(path string) string {
	env := strings.ReplaceAll(path, ".", "_")
	env = strings.ToUpper(env)
	env = "ELKLOG_" + env
	return env
}

func (d *DiagConfig) validate() error {
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[strings.ToLower(d.Level)] {
		return fmt.Errorf("invalid diagnostics level: %s", d.Level)
	}
	return nil
}
