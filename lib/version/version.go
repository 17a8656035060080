// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set via -ldflags at build time.
var (
	Version   = "0.1.0-dev"
	GitCommit = ""
	BuildTime = ""
)

// Commit returns the short commit, from -ldflags or the embedded VCS
// stamp, or "unknown".
func Commit() string {
	if GitCommit != "" {
		return GitCommit
	}
	return fromBuildInfo("vcs.revision", "unknown", 12)
}

// Info returns "version (commit, time)" for --version output.
func Info() string {
	built := BuildTime
	if built == "" {
		built = fromBuildInfo("vcs.time", "unknown", 0)
	}
	dirty := ""
	if GitCommit == "" && fromBuildInfo("vcs.modified", "false", 0) == "true" {
		dirty = "-dirty"
	}
	return fmt.Sprintf("%s (%s%s, %s)", Version, Commit(), dirty, built)
}

// Full adds the Go version and platform to Info.
func Full() string {
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

// UserAgent is the User-Agent sent to the course service.
func UserAgent() string {
	return "eduforge/" + Version
}

func fromBuildInfo(key, fallback string, limit int) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return fallback
	}
	for _, setting := range info.Settings {
		if setting.Key == key && setting.Value != "" {
			if limit > 0 && len(setting.Value) > limit {
				return setting.Value[:limit]
			}
			return setting.Value
		}
	}
	return fallback
}
