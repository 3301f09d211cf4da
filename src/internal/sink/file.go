// FILE: elklog/src/internal/sink/file.go
package sink

import (
	"context"
	"errors"
	"fmt"

	"elklog/src/internal/core"
	"elklog/src/internal/format"
	"elklog/src/internal/rotate"

	"github.com/lixenwraith/log"
)

// FileSinkOptions configures the local rotating file sink.
type FileSinkOptions struct {
	Path        string
	MaxSize     int64
	BackupCount int
	MinLevel    core.Level
}

// FileSink appends formatted records to a size-rotated file
type FileSink struct {
	threshold
	opts      FileSinkOptions
	writer    *rotate.File
	logger    *log.Logger // Application logger
	formatter format.Formatter

	// Statistics
	stats *counters
}

// NewFileSink opens the target file and returns a ready sink.
func NewFileSink(opts FileSinkOptions, logger *log.Logger, formatter format.Formatter) (*FileSink, error) {
	if opts.Path == "" {
		opts.Path = core.DefaultFilename
		logger.Warn("msg", fmt.Sprintf("No filename provided, %s will be used", opts.Path),
			"component", "file_sink")
	}

	writer, err := rotate.Open(opts.Path, opts.MaxSize, opts.BackupCount)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize file writer: %w", err)
	}

	fs := &FileSink{
		threshold: threshold{min: opts.MinLevel},
		opts:      opts,
		writer:    writer,
		logger:    logger,
		formatter: formatter,
		stats:     newCounters(),
	}

	logger.Debug("msg", "File sink opened",
		"component", "file_sink",
		"path", opts.Path,
		"max_size", opts.MaxSize,
		"backup_count", opts.BackupCount)

	return fs, nil
}

func (fs *FileSink) Name() string {
	return "file"
}

// Write formats rec and appends it. A failed rollover is logged, not
// returned, once the record itself is on disk. Other I/O errors are
// returned unchanged.
func (fs *FileSink) Write(_ context.Context, rec core.LogRecord) error {
	formatted, err := fs.formatter.Format(rec)
	if err != nil {
		fs.stats.record(err)
		return fmt.Errorf("failed to format log record: %w", err)
	}

	n, err := fs.writer.Write(formatted)
	if errors.Is(err, rotate.ErrRotate) && n == len(formatted) {
		// Record landed in the active file, only the rollover is pending
		fs.logger.Warn("msg", "Log rotation failed, continuing on active file",
			"component", "file_sink",
			"path", fs.opts.Path,
			"error", err)
		err = nil
	}
	fs.stats.record(err)
	return err
}

func (fs *FileSink) Close() error {
	return fs.writer.Close()
}

// Path returns the active log file path.
func (fs *FileSink) Path() string {
	return fs.writer.Path()
}

func (fs *FileSink) GetStats() SinkStats {
	return fs.stats.stats("file", map[string]any{
		"path":         fs.opts.Path,
		"size":         fs.writer.Size(),
		"backups":      len(fs.writer.Backups()),
		"backup_count": fs.opts.BackupCount,
	})
}
