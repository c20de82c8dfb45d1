// Package version provides information about the build version of the service.
package version

// BuildInfo holds version information about the service build.
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the build information. The version, commit, and date variables
// are intended to be set at build time using -ldflags.
func Info() BuildInfo {
	// Set via -ldflags "-X 'gridwatch/internal/core/version.version=v0.3.0'
	// -X 'gridwatch/internal/core/version.commit=abcd' -X 'gridwatch/internal/core/version.date=2026-10-16'"
	return BuildInfo{
		Service: Service,
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

// Service is the API process name reported by meta endpoints and logs
const Service = "gridwatch-api"

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
