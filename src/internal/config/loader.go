// FILE: elklog/src/internal/config/loader.go
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrNotFound is returned when the config file does not exist.
var ErrNotFound = errors.New("config not found")

// ParseError wraps a syntax or type error from the YAML decoder.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Hooks used by MustLoad, replaced in tests
var (
	exitFunc             = os.Exit
	stderr     io.Writer = os.Stderr
	readConfig           = os.ReadFile
)

// Load reads and validates the YAML document at path.
func Load(path string) (*Config, error) {
	data, err := readConfig(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	return Parse(path, data)
}

// Parse decodes a YAML document. path is only used in error messages.
func Parse(path string, data []byte) (*Config, error) {
	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	cfg.applyDefaults()

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// MustLoad loads the config or terminates the process with status 1
// after printing a diagnostic. It never returns a partial config.
func MustLoad(path string) *Config {
	cfg, err := Load(path)
	if err == nil {
		return cfg
	}

	var parseErr *ParseError
	switch {
	case errors.Is(err, ErrNotFound):
		fmt.Fprintf(stderr, "Error: Configuration file not found: %s\n", path)
	case errors.As(err, &parseErr):
		fmt.Fprintf(stderr, "Error: Failed to parse YAML file: %v\n", parseErr.Err)
	default:
		fmt.Fprintf(stderr, "Error: An unexpected error occurred while loading the configuration: %v\n", err)
	}
	exitFunc(1)
	return nil
}
