// Package version reports the build of the running binary
package version

// BuildInfo holds the build stamp of the service
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Service is the name reported by the API binary
const Service = "stashbox-api"

// set with -ldflags "-X stashbox/internal/core/version.version=v0.3.0 -X stashbox/internal/core/version.commit=abcd"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Info returns the build stamp
func Info() BuildInfo {
	return BuildInfo{Service: Service, Version: version, Commit: commit, Date: date}
}
