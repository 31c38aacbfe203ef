// Package version reports build metadata for the command line tools
package version

import "fmt"

// BuildInfo describes one binary build
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Set at build time:
// -ldflags "-X 'qabundle/internal/core/version.version=v0.1.0' -X 'qabundle/internal/core/version.commit=abcd'
// -X 'qabundle/internal/core/version.date=2026-01-02'"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Info returns build metadata stamped with the binary name
func Info(service string) BuildInfo {
	return BuildInfo{
		Service: service,
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

// String renders "service version (commit, date)"
func (b BuildInfo) String() string {
	return fmt.Sprintf("%s %s (%s, %s)", b.Service, b.Version, b.Commit, b.Date)
}

// Tag is the short service/version form used in client identifiers
func (b BuildInfo) Tag() string { return b.Service + "/" + b.Version }
