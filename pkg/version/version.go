// Package version provides version information for the application.
package version

// Build information (set via ldflags during build)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

// UserAgent returns the User-Agent value sent with outbound requests.
func UserAgent() string {
	return "show-picker/" + Version
}
