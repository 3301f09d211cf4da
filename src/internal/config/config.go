// FILE: elklog/src/internal/config/config.go
package config

import (
	"time"

	"elklog/src/internal/core"
)

// Config is the process-wide logging configuration. It is read once at
// startup and never mutated afterwards.
type Config struct {
	// Minimum severity: DEBUG, INFO, WARNING, ERROR, CRITICAL
	LogLevel string `yaml:"log_level"`

	// Name stamped into every record's logger_name field
	LoggerName string `yaml:"logger_name"`

	FileLogging    *FileConfig    `yaml:"file_logging"`
	ElkLogging     *ElkConfig     `yaml:"elk_logging"`
	ConsoleLogging *ConsoleConfig `yaml:"console_logging"`
}

// FileConfig describes the local rotating file sink.
type FileConfig struct {
	Filename string `yaml:"filename"`

	// Rotation threshold in bytes, 0 disables rotation
	MaxFileSize int64 `yaml:"max_file_size"`

	// Number of numbered backups kept after rotation
	BackupCount int `yaml:"backup_count"`
}

// ElkConfig describes the remote log store. An empty LogstashURL
// disables the remote sink.
type ElkConfig struct {
	LogstashURL string `yaml:"logstash_url"`
	Index       string `yaml:"index"`
	TimeoutMS   int64  `yaml:"timeout_ms"`
}

// ConsoleConfig controls the optional console echo of records.
type ConsoleConfig struct {
	Enabled bool `yaml:"enabled"`

	// "stdout" or "stderr"
	Target string `yaml:"target"`
}

func defaults() *Config {
	return &Config{
		LogLevel:    core.LevelInfo.String(),
		LoggerName:  core.DefaultLoggerName,
		FileLogging: defaultFileConfig(),
	}
}

func defaultFileConfig() *FileConfig {
	return &FileConfig{
		Filename:    core.DefaultFilename,
		MaxFileSize: core.DefaultMaxFileSize,
		BackupCount: core.DefaultBackupCount,
	}
}

// Default returns a configuration with every default applied and the
// remote sink disabled.
func Default() *Config {
	cfg := defaults()
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills blocks that were present but left keys empty.
func (c *Config) applyDefaults() {
	// Unknown or missing levels fall back to INFO
	c.LogLevel = c.Level().String()
	if c.LoggerName == "" {
		c.LoggerName = core.DefaultLoggerName
	}
	if c.FileLogging == nil {
		c.FileLogging = defaultFileConfig()
	}
	if c.FileLogging.Filename == "" {
		c.FileLogging.Filename = core.DefaultFilename
	}
	if c.ElkLogging != nil {
		if c.ElkLogging.Index == "" {
			c.ElkLogging.Index = core.DefaultIndex
		}
		if c.ElkLogging.TimeoutMS == 0 {
			c.ElkLogging.TimeoutMS = core.DefaultTimeoutMS
		}
	}
	if c.ConsoleLogging != nil && c.ConsoleLogging.Target == "" {
		c.ConsoleLogging.Target = "stderr"
	}
}

// Level returns the configured threshold, INFO when absent or unknown.
func (c *Config) Level() core.Level {
	return core.ParseLevelOr(c.LogLevel, core.LevelInfo)
}

// RemoteEnabled reports whether a remote sink should be attached.
func (c *Config) RemoteEnabled() bool {
	return c.ElkLogging != nil && c.ElkLogging.LogstashURL != ""
}

// Timeout returns the bounded remote request timeout.
func (e *ElkConfig) Timeout() time.Duration {
	if e.TimeoutMS <= 0 {
		return core.DefaultTimeoutMS * time.Millisecond
	}
	return time.Duration(e.TimeoutMS) * time.Millisecond
}
