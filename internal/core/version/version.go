// Package version reports what build is running
package version

// BuildInfo is returned by /health and labels the build_info metric
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// Info returns the build stamp for service. Set the fields with
// -ldflags "-X 'matchlog/internal/core/version.version=v0.1.0' -X 'matchlog/internal/core/version.commit=abcd'"
func Info(service string) BuildInfo {
	return BuildInfo{
		Service: service,
		Version: version,
		Commit:  commit,
		Date:    date,
	}
}

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)
