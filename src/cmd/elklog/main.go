// FILE: elklog/src/cmd/elklog/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"elklog/src/cmd/elklog/commands"
	"elklog/src/internal/config"

	"github.com/lixenwraith/log"
)

func main() {
	// ELKLOG_* settings govern the tool itself, records come from the YAML file
	diagCfg, err := config.LoadDiag()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logger, err := newDiagLogger(diagCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	os.Exit(run(diagCfg, logger, os.Args))
}

// run routes args and returns the process exit status.
func run(diagCfg *config.DiagConfig, logger *log.Logger, args []string) int {
	defer shutdownLogger(logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigHandler := NewSignalHandler(logger)
	sigHandler.Watch(cancel)
	defer sigHandler.Stop()

	router := commands.NewCommandRouter(commands.Env{
		Ctx:        ctx,
		Logger:     logger,
		ConfigFile: diagCfg.ConfigFile,
		Quiet:      diagCfg.Quiet,
	})

	handled, err := router.Route(args)
	switch {
	case err != nil:
		if !diagCfg.Quiet {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	case !handled:
		router.ShowCommands()
		return 2
	}
	return 0
}

// newDiagLogger builds the stderr-only logger for the tool's own diagnostics.
// It never writes a file: the log file on disk belongs to the records.
func newDiagLogger(cfg *config.DiagConfig) (*log.Logger, error) {
	logger := log.NewLogger()

	if cfg.Quiet {
		if err := logger.ApplyConfigString(
			"disable_file=true",
			"enable_console=false",
			"level=255"); err != nil {
			return logger, err
		}
		return logger, logger.Start()
	}

	var level int
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = int(log.LevelDebug)
	case "info":
		level = int(log.LevelInfo)
	case "warn", "warning":
		level = int(log.LevelWarn)
	case "error":
		level = int(log.LevelError)
	default:
		return nil, fmt.Errorf("unknown log level: %s", cfg.Level)
	}

	if err := logger.ApplyConfigString(
		fmt.Sprintf("level=%d", level),
		"disable_file=true",
		"enable_console=true",
		"console_target=stderr"); err != nil {
		return logger, err
	}
	return logger, logger.Start()
}

func shutdownLogger(logger *log.Logger) {
	if err := logger.Shutdown(2 * time.Second); err != nil {
		fmt.Fprintf(os.Stderr, "Logger shutdown error: %v\n", err)
	}
}
