// FILE: elklog/src/internal/core/level.go
package core

import (
	"fmt"
	"strings"
)

// Level is the severity of a record. Higher values are more severe.
type Level int

const (
	LevelDebug    Level = 10
	LevelInfo     Level = 20
	LevelWarning  Level = 30
	LevelError    Level = 40
	LevelCritical Level = 50
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	case LevelError:
		return "ERROR"
	case LevelCritical:
		return "CRITICAL"
	default:
		return fmt.Sprintf("LEVEL(%d)", int(l))
	}
}

// ParseLevel maps a level name to a Level, case-insensitively.
func ParseLevel(name string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return LevelDebug, nil
	case "INFO":
		return LevelInfo, nil
	case "WARNING", "WARN":
		return LevelWarning, nil
	case "ERROR":
		return LevelError, nil
	case "CRITICAL", "FATAL":
		return LevelCritical, nil
	default:
		return 0, fmt.Errorf("unknown log level: %s", name)
	}
}

// ParseLevelOr returns def when name is empty or not a known level.
func ParseLevelOr(name string, def Level) Level {
	l, err := ParseLevel(name)
	if err != nil {
		return def
	}
	return l
}
