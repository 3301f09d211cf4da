// FILE: elklog/src/cmd/elklog/commands/check.go
package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"elklog/src/internal/config"
)

// CheckCommand validates a config file and prints the effective settings
type CheckCommand struct {
	env Env
}

// NewCheckCommand creates a new check command
func NewCheckCommand(env Env) *CheckCommand {
	return &CheckCommand{env: env}
}

func (c *CheckCommand) Execute(args []string) error {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	fs.SetOutput(c.env.stderr())

	var configPath string
	fs.StringVar(&configPath, "c", c.env.ConfigFile, "Config file path")
	fs.StringVar(&configPath, "config", c.env.ConfigFile, "Config file path")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		var parseErr *config.ParseError
		switch {
		case errors.Is(err, config.ErrNotFound):
			return fmt.Errorf("configuration file not found: %s", configPath)
		case errors.As(err, &parseErr):
			return fmt.Errorf("failed to parse YAML file: %v", parseErr.Err)
		default:
			return err
		}
	}

	printConfig(c.env.stdout(), configPath, cfg)
	return nil
}

func printConfig(out io.Writer, path string, cfg *config.Config) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "config\t%s\n", path)
	fmt.Fprintf(w, "log_level\t%s\n", cfg.Level())
	fmt.Fprintf(w, "logger_name\t%s\n", cfg.LoggerName)
	fmt.Fprintf(w, "file\t%s\n", cfg.FileLogging.Filename)
	fmt.Fprintf(w, "max_file_size\t%d\n", cfg.FileLogging.MaxFileSize)
	fmt.Fprintf(w, "backup_count\t%d\n", cfg.FileLogging.BackupCount)
	if cfg.RemoteEnabled() {
		fmt.Fprintf(w, "remote\t%s/%s\n", cfg.ElkLogging.LogstashURL, cfg.ElkLogging.Index)
		fmt.Fprintf(w, "remote_timeout\t%s\n", cfg.ElkLogging.Timeout())
	} else {
		fmt.Fprintf(w, "remote\tdisabled\n")
	}
	if cfg.ConsoleLogging != nil && cfg.ConsoleLogging.Enabled {
		fmt.Fprintf(w, "console\t%s\n", cfg.ConsoleLogging.Target)
	} else {
		fmt.Fprintf(w, "console\tdisabled\n")
	}
}

func (c *CheckCommand) Description() string {
	return "Validate a config file and show effective settings"
}

func (c *CheckCommand) Help() string {
	return `Check Command - Validate a config file

Usage:
  elklog check [-c <path>]

Loads the YAML config, applies defaults and validation, and prints the
settings a dispatcher would use. Exits with status 1 on any error.
`
}
