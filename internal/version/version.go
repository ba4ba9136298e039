// Package version reports the salonsite build.
package version

import "fmt"

// Version is set at build time:
// go build -ldflags "-X git.home.luguber.info/inful/salonsite/internal/version.Version=v1.2.0".
var Version = "dev"

// Build metadata, also set through ldflags.
var (
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// String formats the version line printed by --version.
func String() string {
	return fmt.Sprintf("salonsite %s (commit %s, built %s)", Version, GitCommit, BuildTime)
}
