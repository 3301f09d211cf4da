// FILE: elklog/src/internal/core/const.go
package core

const (
	DefaultLoggerName  = "ELK_Logger"
	DefaultFilename    = "app.log"
	DefaultMaxFileSize = 5 * 1024 * 1024
	DefaultBackupCount = 5
	DefaultIndex       = "logs"
	DefaultTimeoutMS   = 5000
)

// FallbackMarker is appended to records rerouted to local storage after
// the remote sink rejected them.
const FallbackMarker = "remote log sink unavailable"

// FallbackSuffix is appended to the logger name of rerouted records.
const FallbackSuffix = ".fallback"

// TimestampLayout renders UTC time as ISO-8601 with a trailing Z.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"
