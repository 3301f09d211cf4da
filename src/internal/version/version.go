// FILE: elklog/src/internal/version/version.go
package version

import (
	"fmt"
	"runtime"
)

// Set at link time: -ldflags "-X elklog/src/internal/version.Version=v1.2.0"
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

// String returns the full build description shown by `elklog version`.
func String() string {
	return fmt.Sprintf("elklog %s (commit: %s, built: %s, %s)",
		Version, GitCommit, BuildTime, runtime.Version())
}

// UserAgent identifies the remote sink's requests to the log store.
func UserAgent() string {
	return "elklog/" + Version
}
