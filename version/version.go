// Package version reports build details, set at link time with -ldflags
// "-X github.com/ohsu-comp-bio/yatamana/version.Version=...".
package version

import (
	"fmt"
	"runtime/debug"
)

// Build and version details
var (
	GitCommit = ""
	GitBranch = ""
	BuildDate = ""
	Version   = ""
)

var tpl = `git commit: %s
git branch: %s
build date: %s
version: %s`

// Get returns Version, falling back to the module version recorded by
// "go install", or "unknown".
func Get() string {
	if Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}
	return "unknown"
}

// String formats a string with version details.
func String() string {
	return fmt.Sprintf(tpl, GitCommit, GitBranch, BuildDate, Get())
}

// LogFields returns build and version information as logger arguments.
func LogFields() []interface{} {
	return []interface{}{
		"GitCommit", GitCommit,
		"GitBranch", GitBranch,
		"BuildDate", BuildDate,
		"Version", Get(),
	}
}
