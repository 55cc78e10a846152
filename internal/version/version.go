// Package version holds build-time version information.
package version

import (
	"fmt"
	"runtime"
)

// Values here are stamped at build time via -ldflags.
var (
	GitVersion   = "v0.0.0-dev"
	GitCommit    = "unknown"
	GitTreeState = "unknown"
)

// GetVersion returns the semantic version of the binary.
func GetVersion() string {
	return GitVersion
}

// GetVersionInfo returns detailed version information.
func GetVersionInfo() map[string]string {
	return map[string]string{
		"version":      GitVersion,
		"gitCommit":    GitCommit,
		"gitTreeState": GitTreeState,
		"goVersion":    runtime.Version(),
		"platform":     fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}
