// Package meta holds build information for the announcer binary.
package meta

// Version is the announcer version, set at build time with
// -ldflags "-X github.com/nicholas-fedor/announcer/internal/meta.Version=<version>".
var Version = "v0.0.0-unknown"

// UserAgent returns the User-Agent sent with webhook requests.
func UserAgent() string {
	return "announcer/" + Version
}
