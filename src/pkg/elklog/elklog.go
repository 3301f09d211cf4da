// FILE: elklog/src/pkg/elklog/elklog.go

// Package elklog is a structured logging facade that writes every record
// to a local rotating file and, when configured, posts it to an HTTP log
// store. A record the log store does not accept is written to the local
// file a second time, annotated with the failure reason, so no call is
// ever lost and no call ever returns an error to its caller.
//
// Basic usage:
//
//	d, err := elklog.NewFromFile("config.yaml")
//	if err != nil {
//		...
//	}
//	defer d.Close()
//
//	d.Info("service started")
//	d.Error("payment failed", elklog.Fields{Status: 502, Function: "Charge"})
//
// Each call runs synchronously: file write, then the optional network
// round-trip, then the optional fallback write. A Dispatcher is safe for
// concurrent use.
package elklog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"

	"elklog/src/internal/config"
	"elklog/src/internal/core"
	"elklog/src/internal/format"
	"elklog/src/internal/sink"

	"github.com/lixenwraith/log"
)

type (
	Config    = config.Config
	Fields    = core.Fields
	Level     = core.Level
	SinkStats = sink.SinkStats
)

const (
	LevelDebug    = core.LevelDebug
	LevelInfo     = core.LevelInfo
	LevelWarning  = core.LevelWarning
	LevelError    = core.LevelError
	LevelCritical = core.LevelCritical
)

// Dispatcher owns the sinks and fans every accepted record out to them.
type Dispatcher struct {
	name   string
	level  core.Level
	file   *sink.FileSink
	remote *sink.RemoteSink
	sinks  []sink.Sink
	logger *log.Logger

	diagMu sync.Mutex
	diag   io.Writer

	// Overrides console_logging.target when set
	consoleOut io.Writer

	fallbacks atomic.Uint64
	dropped   atomic.Uint64
	closeOnce sync.Once
}

// Stats summarises delivery since construction.
type Stats struct {
	Sinks     []SinkStats
	Fallbacks uint64
	Dropped   uint64
}

// Option customises a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger used for the dispatcher's own diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithConsoleWriter sends the console echo to w instead of the configured
// target. It has no effect unless console_logging is enabled.
func WithConsoleWriter(w io.Writer) Option {
	return func(d *Dispatcher) {
		d.consoleOut = w
	}
}

// WithDiagnostics redirects the one-line failure reports, os.Stderr by default.
func WithDiagnostics(w io.Writer) Option {
	return func(d *Dispatcher) {
		if w != nil {
			d.diag = w
		}
	}
}

// NewFromFile loads the YAML config at path and builds a Dispatcher. A
// missing or malformed config terminates the process with status 1.
func NewFromFile(path string, opts ...Option) (*Dispatcher, error) {
	return New(config.MustLoad(path), opts...)
}

// New builds a Dispatcher from an already loaded config. A nil config
// selects the defaults (INFO, app.log, no remote sink).
func New(cfg *Config, opts ...Option) (*Dispatcher, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	d := &Dispatcher{
		name:   cfg.LoggerName,
		level:  cfg.Level(),
		logger: log.NewLogger(),
		diag:   os.Stderr,
	}
	if d.name == "" {
		d.name = core.DefaultLoggerName
	}
	for _, opt := range opts {
		opt(d)
	}

	if err := d.attachSinks(cfg); err != nil {
		d.Close()
		return nil, err
	}

	d.logger.Info("msg", "Log dispatcher ready",
		"component", "dispatcher",
		"logger_name", d.name,
		"level", d.level.String(),
		"sinks", len(d.sinks))

	return d, nil
}

func (d *Dispatcher) attachSinks(cfg *Config) error {
	jsonFormatter := format.NewJSONFormatter(d.logger)

	fc := cfg.FileLogging
	if fc == nil {
		fc = config.Default().FileLogging
	}
	fileSink, err := sink.NewFileSink(sink.FileSinkOptions{
		Path:        fc.Filename,
		MaxSize:     fc.MaxFileSize,
		BackupCount: fc.BackupCount,
		MinLevel:    d.level,
	}, d.logger, jsonFormatter)
	if err != nil {
		return fmt.Errorf("file sink: %w", err)
	}
	d.file = fileSink
	d.sinks = append(d.sinks, fileSink)

	if cc := cfg.ConsoleLogging; cc != nil && cc.Enabled {
		textFormatter, err := format.NewTextFormatter(nil, d.logger)
		if err != nil {
			return fmt.Errorf("console sink: %w", err)
		}
		consoleSink, err := sink.NewConsoleSink(sink.ConsoleSinkOptions{
			Target:   cc.Target,
			MinLevel: d.level,
			Writer:   d.consoleOut,
		}, d.logger, textFormatter)
		if err != nil {
			return fmt.Errorf("console sink: %w", err)
		}
		d.sinks = append(d.sinks, consoleSink)
	}

	if cfg.RemoteEnabled() {
		remoteSink, err := sink.NewRemoteSink(sink.RemoteSinkOptions{
			URL:      cfg.ElkLogging.LogstashURL,
			Index:    cfg.ElkLogging.Index,
			Timeout:  cfg.ElkLogging.Timeout(),
			MinLevel: d.level,
		}, d.logger, jsonFormatter)
		if err != nil {
			return fmt.Errorf("remote sink: %w", err)
		}
		d.remote = remoteSink
		d.sinks = append(d.sinks, remoteSink)
	}

	return nil
}

// Debug logs msg at DEBUG.
func (d *Dispatcher) Debug(msg string, fields ...Fields) {
	d.Log(core.LevelDebug, msg, first(fields))
}

// Info logs msg at INFO.
func (d *Dispatcher) Info(msg string, fields ...Fields) {
	d.Log(core.LevelInfo, msg, first(fields))
}

// Warning logs msg at WARNING.
func (d *Dispatcher) Warning(msg string, fields ...Fields) {
	d.Log(core.LevelWarning, msg, first(fields))
}

// Error logs msg at ERROR.
func (d *Dispatcher) Error(msg string, fields ...Fields) {
	d.Log(core.LevelError, msg, first(fields))
}

// Critical logs msg at CRITICAL.
func (d *Dispatcher) Critical(msg string, fields ...Fields) {
	d.Log(core.LevelCritical, msg, first(fields))
}

// Log dispatches one record at an arbitrary level.
func (d *Dispatcher) Log(level Level, msg string, fields Fields) {
	d.LogContext(context.Background(), level, msg, fields)
}

// LogContext is Log with a context bounding the remote round-trip.
func (d *Dispatcher) LogContext(ctx context.Context, level Level, msg string, fields Fields) {
	if !d.Enabled(level) {
		return
	}

	rec := core.NewRecord(level, d.name, msg, fields)
	for _, s := range d.sinks {
		if !s.Accepts(level) {
			continue
		}
		if err := s.Write(ctx, rec); err != nil {
			d.handleError(ctx, s, rec, err)
		}
	}
}

// Enabled reports whether records at level pass the threshold.
func (d *Dispatcher) Enabled(level Level) bool {
	return level >= d.level
}

// Level returns the configured minimum severity.
func (d *Dispatcher) Level() Level {
	return d.level
}

func (d *Dispatcher) handleError(ctx context.Context, s sink.Sink, rec core.LogRecord, err error) {
	var de *sink.DeliveryError
	if errors.As(err, &de) {
		d.fallback(ctx, rec, de)
		return
	}

	// The file copy is the record of truth, a failed echo loses nothing
	if s != sink.Sink(d.file) {
		d.logger.Warn("msg", "Log record echo failed",
			"component", "dispatcher",
			"sink", s.Name(),
			"error", err)
		return
	}

	// The file has nowhere else to go: drop and report
	d.dropped.Add(1)
	d.diagnose("elklog: dropped %s record, %s sink failed: %v", rec.Level, s.Name(), err)
	d.logger.Error("msg", "Failed to write log record",
		"component", "dispatcher",
		"sink", s.Name(),
		"error", err)
}

// fallback writes an annotated copy of rec to the local file.
func (d *Dispatcher) fallback(ctx context.Context, rec core.LogRecord, de *sink.DeliveryError) {
	d.fallbacks.Add(1)
	d.diagnose("elklog: %s (%v), record written to %s", core.FallbackMarker, de, d.file.Path())
	d.logger.Warn("msg", "Remote delivery failed, falling back to file",
		"component", "dispatcher",
		"endpoint", de.Endpoint,
		"status_code", de.StatusCode,
		"error", de)

	if err := d.file.Write(ctx, rec.Fallback(de.Reason())); err != nil {
		d.dropped.Add(1)
		d.diagnose("elklog: dropped %s record, fallback write failed: %v", rec.Level, err)
	}
}

func (d *Dispatcher) diagnose(msg string, args ...any) {
	d.diagMu.Lock()
	defer d.diagMu.Unlock()
	fmt.Fprintf(d.diag, msg+"\n", args...)
}

// Stats returns per-sink counters plus fallback and drop totals.
func (d *Dispatcher) Stats() Stats {
	st := Stats{
		Fallbacks: d.fallbacks.Load(),
		Dropped:   d.dropped.Load(),
	}
	for _, s := range d.sinks {
		st.Sinks = append(st.Sinks, s.GetStats())
	}
	return st
}

// Close releases every sink. Logging after Close drops records with a
// diagnostic.
func (d *Dispatcher) Close() error {
	var errs []error
	d.closeOnce.Do(func() {
		for _, s := range d.sinks {
			if err := s.Close(); err != nil {
				errs = append(errs, fmt.Errorf("%s sink: %w", s.Name(), err))
			}
		}
	})
	return errors.Join(errs...)
}

func first(fields []Fields) Fields {
	if len(fields) == 0 {
		return Fields{}
	}
	return fields[0]
}
