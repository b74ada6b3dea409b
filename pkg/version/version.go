// Package version provides build and version information for cjkfts.
package version

import (
	"fmt"
	"runtime"
)

// Version is the current version of cjkfts.
// Set via ldflags at build time, or defaults to dev:
// -X github.com/Aman-CERP/cjkfts/pkg/version.Version=$(VERSION)
var Version = "dev"

// Build information set via ldflags at build time.
var (
	// Commit is the git commit hash.
	Commit = "unknown"

	// Date is the build date in RFC3339 format.
	Date = "unknown"

	// GoVersion is the Go version used to build the binary (set at runtime).
	GoVersion = runtime.Version()
)

// IndexFormat is the on-disk index layout version this build reads and writes.
const IndexFormat = 1

// BuildInfo is structured version information for JSON output.
type BuildInfo struct {
	Version     string `json:"version"`
	Commit      string `json:"commit"`
	Date        string `json:"date"`
	GoVersion   string `json:"go_version"`
	OS          string `json:"os"`
	Arch        string `json:"arch"`
	IndexFormat int    `json:"index_format"`
}

// String returns a one-line version string with all build info.
func String() string {
	return fmt.Sprintf("cjkfts %s (commit: %s, built: %s, go: %s, index format: %d)",
		Version, Commit, Date, GoVersion, IndexFormat)
}

// Short returns just the version string.
func Short() string {
	return Version
}

// GetInfo returns structured version information.
func GetInfo() BuildInfo {
	return BuildInfo{
		Version:     Version,
		Commit:      Commit,
		Date:        Date,
		GoVersion:   GoVersion,
		OS:          runtime.GOOS,
		Arch:        runtime.GOARCH,
		IndexFormat: IndexFormat,
	}
}
