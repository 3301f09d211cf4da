// FILE: elklog/src/internal/format/format.go
package format

import (
	"fmt"

	"elklog/src/internal/core"

	"github.com/lixenwraith/log"
)

// Formatter defines the interface for transforming a LogRecord into a byte slice.
type Formatter interface {
	// Format takes a LogRecord and returns one newline-terminated line.
	Format(rec core.LogRecord) ([]byte, error)

	// Name returns the formatter type name
	Name() string
}

// New creates a new Formatter by name.
func New(name string, logger *log.Logger) (Formatter, error) {
	// Default to json, the canonical record shape
	if name == "" {
		name = "json"
	}

	switch name {
	case "json":
		return NewJSONFormatter(logger), nil
	case "txt", "text":
		return NewTextFormatter(nil, logger)
	default:
		return nil, fmt.Errorf("unknown formatter type: %s", name)
	}
}
