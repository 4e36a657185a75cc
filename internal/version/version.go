// Package version carries build metadata injected with
// -ldflags "-X nft-floor-alerts/internal/version.Version=...".
package version

import "fmt"

var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// String renders the build metadata on one line.
func String() string {
	return fmt.Sprintf("floorwatch %s (commit %s, built %s)", Version, Commit, BuildDate)
}
