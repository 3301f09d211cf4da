// FILE: elklog/src/internal/core/record.go
package core

import "time"

// Fields carries the optional per-call annotations of a record.
// Zero values serialize as null.
type Fields struct {
	// Status is a string or an integer code.
	Status   any
	Function string
	Variable string
	// Value is any scalar: string, bool, integer or float.
	Value any
}

// LogRecord is a single structured log entry. It is built once per call
// and never mutated by sinks.
type LogRecord struct {
	Time       time.Time
	Level      Level
	LoggerName string
	Message    string
	Fields     Fields
}

// NewRecord stamps a record with the current UTC time.
func NewRecord(level Level, loggerName, message string, fields Fields) LogRecord {
	return LogRecord{
		Time:       time.Now().UTC(),
		Level:      level,
		LoggerName: loggerName,
		Message:    message,
		Fields:     fields,
	}
}

// Timestamp returns the record time in the canonical wire layout.
func (r LogRecord) Timestamp() string {
	return r.Time.UTC().Format(TimestampLayout)
}

// Fallback returns a copy annotated with the reason the remote sink
// could not take it.
func (r LogRecord) Fallback(reason string) LogRecord {
	fb := r
	fb.LoggerName = r.LoggerName + FallbackSuffix
	if reason == "" {
		fb.Message = r.Message + " [" + FallbackMarker + "]"
	} else {
		fb.Message = r.Message + " [" + FallbackMarker + ": " + reason + "]"
	}
	return fb
}
