// FILE: elklog/src/internal/sink/console.go
package sink

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"elklog/src/internal/core"
	"elklog/src/internal/format"

	"github.com/lixenwraith/log"
	"golang.org/x/term"
)

// ConsoleSinkOptions configures the console echo.
type ConsoleSinkOptions struct {
	Target   string // "stdout" or "stderr"
	MinLevel core.Level

	// Writer overrides Target when set
	Writer io.Writer
}

// ConsoleSink writes human-readable records to stdout or stderr
type ConsoleSink struct {
	threshold
	target    string
	output    io.Writer
	color     bool
	mu        sync.Mutex
	logger    *log.Logger
	formatter format.Formatter

	stats *counters
}

var levelColors = map[core.Level]string{
	core.LevelDebug:    "\033[90m",
	core.LevelInfo:     "\033[36m",
	core.LevelWarning:  "\033[33m",
	core.LevelError:    "\033[31m",
	core.LevelCritical: "\033[1;31m",
}

const colorReset = "\033[0m"

// NewConsoleSink creates a new console sink
func NewConsoleSink(opts ConsoleSinkOptions, logger *log.Logger, formatter format.Formatter) (*ConsoleSink, error) {
	s := &ConsoleSink{
		threshold: threshold{min: opts.MinLevel},
		target:    opts.Target,
		logger:    logger,
		formatter: formatter,
		stats:     newCounters(),
	}

	switch {
	case opts.Writer != nil:
		s.output = opts.Writer
	case opts.Target == "stdout":
		s.output = os.Stdout
	case opts.Target == "stderr", opts.Target == "":
		s.target = "stderr"
		s.output = os.Stderr
	default:
		return nil, fmt.Errorf("invalid console target: %s", opts.Target)
	}

	// Colour only when writing straight to a terminal
	if f, ok := s.output.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		s.color = true
	}

	return s, nil
}

func (s *ConsoleSink) Name() string {
	return "console"
}

func (s *ConsoleSink) Write(_ context.Context, rec core.LogRecord) error {
	formatted, err := s.formatter.Format(rec)
	if err != nil {
		s.stats.record(err)
		return fmt.Errorf("failed to format log record: %w", err)
	}

	if s.color {
		if c, ok := levelColors[rec.Level]; ok {
			line := formatted[:len(formatted)-1]
			formatted = []byte(c + string(line) + colorReset + "\n")
		}
	}

	s.mu.Lock()
	_, err = s.output.Write(formatted)
	s.mu.Unlock()

	s.stats.record(err)
	return err
}

func (s *ConsoleSink) Close() error {
	return nil
}

func (s *ConsoleSink) GetStats() SinkStats {
	return s.stats.stats("console", map[string]any{
		"target": s.target,
		"color":  s.color,
	})
}
