// Package version provides build version information.
package version

import (
	"fmt"
	"runtime"
)

// Set via ldflags at build time.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Info returns a one-line version banner.
func Info() string {
	commit := Commit
	if len(commit) > 7 {
		commit = commit[:7]
	}
	kind := "release"
	if IsDevBuild() {
		kind = "dev build"
	}
	return fmt.Sprintf("skillshub %s (%s, %s) built on %s with %s %s/%s",
		Version, commit, kind, BuildDate, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
