// FILE: elklog/src/internal/config/validation.go
package config

import (
	"fmt"
)

// validateConfig is the single validator for a decoded configuration
func validateConfig(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}

	if err := validateFileConfig(cfg.FileLogging); err != nil {
		return fmt.Errorf("file_logging: %w", err)
	}

	if cfg.ElkLogging != nil {
		if err := validateElkConfig(cfg.ElkLogging); err != nil {
			return fmt.Errorf("elk_logging: %w", err)
		}
	}

	if cfg.ConsoleLogging != nil {
		if err := validateConsoleConfig(cfg.ConsoleLogging); err != nil {
			return fmt.Errorf("console_logging: %w", err)
		}
	}

	return nil
}

func validateFileConfig(fc *FileConfig) error {
	if fc.Filename == "" {
		return fmt.Errorf("missing filename")
	}
	if fc.MaxFileSize < 0 {
		return fmt.Errorf("max_file_size must be >= 0, got %d", fc.MaxFileSize)
	}
	if fc.BackupCount < 0 {
		return fmt.Errorf("backup_count must be >= 0, got %d", fc.BackupCount)
	}
	return nil
}

func validateElkConfig(ec *ElkConfig) error {
	// Omitted URL disables the remote sink
	if ec.LogstashURL == "" {
		return nil
	}

	// An unusable URL is not fatal here: the remote sink reports it and
	// every record falls back to the file

	if ec.Index == "" {
		return fmt.Errorf("missing index")
	}
	if ec.TimeoutMS < 0 {
		return fmt.Errorf("timeout_ms must be > 0, got %d", ec.TimeoutMS)
	}
	return nil
}

func validateConsoleConfig(cc *ConsoleConfig) error {
	validTargets := map[string]bool{
		"stdout": true, "stderr": true,
	}
	if !validTargets[cc.Target] {
		return fmt.Errorf("invalid console target: %s", cc.Target)
	}
	return nil
}
