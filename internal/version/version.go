// Package version holds build information injected with ldflags:
//
//	-X bennypowers.dev/coloradjust/internal/version.Version=v0.1.0
package version

import (
	"fmt"
	"runtime/debug"
)

// Build information, set at build time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Get returns the release version. Without ldflags it falls back to the
// module version recorded by `go install`.
func Get() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return v
		}
	}
	return Version
}

// Full returns the version with its commit and build date.
func Full() string {
	return fmt.Sprintf("%s (commit: %s, built: %s)", Get(), Commit, Date)
}
