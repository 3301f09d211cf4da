// FILE: elklog/src/internal/sink/sink.go
package sink

import (
	"context"
	"sync/atomic"
	"time"

	"elklog/src/internal/core"
)

// Sink represents an output destination for log records
type Sink interface {
	// Name identifies the sink in diagnostics and stats
	Name() string

	// Accepts reports whether records at level reach this sink
	Accepts(level core.Level) bool

	// Write delivers one record synchronously
	Write(ctx context.Context, rec core.LogRecord) error

	// Close releases the sink's resources
	Close() error

	// GetStats returns sink statistics
	GetStats() SinkStats
}

// SinkStats contains statistics about a sink
type SinkStats struct {
	Type           string
	TotalProcessed uint64
	TotalFailed    uint64
	StartTime      time.Time
	LastProcessed  time.Time
	Details        map[string]any
}

// threshold is the minimum-severity filter shared by all sinks.
type threshold struct {
	min core.Level
}

func (t threshold) Accepts(level core.Level) bool {
	return level >= t.min
}

// counters tracks per-sink delivery statistics.
type counters struct {
	startTime      time.Time
	totalProcessed atomic.Uint64
	totalFailed    atomic.Uint64
	lastProcessed  atomic.Value // time.Time
}

func newCounters() *counters {
	c := &counters{startTime: time.Now()}
	c.lastProcessed.Store(time.Time{})
	return c
}

func (c *counters) record(err error) {
	c.totalProcessed.Add(1)
	c.lastProcessed.Store(time.Now())
	if err != nil {
		c.totalFailed.Add(1)
	}
}

func (c *counters) stats(kind string, details map[string]any) SinkStats {
	lastProc, _ := c.lastProcessed.Load().(time.Time)
	return SinkStats{
		Type:           kind,
		TotalProcessed: c.totalProcessed.Load(),
		TotalFailed:    c.totalFailed.Load(),
		StartTime:      c.startTime,
		LastProcessed:  lastProc,
		Details:        details,
	}
}
