// Copyright 2026 The Stagehand Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports what build of stagehand is running.
//
// Release builds inject Version via -ldflags; everything else is read
// from the binary's embedded build info, so a plain `go build` still
// reports its commit.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version is the semantic version, set via -ldflags for releases:
//
//	go build -ldflags "-X github.com/blocstage/stagehand/lib/version.Version=1.2.0"
var Version = "0.1.0-dev"

// revision extracts the VCS commit from the embedded build info.
// Returns "unknown" for binaries built outside a checkout.
func revision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	commit, dirty := "unknown", false
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			commit = setting.Value
			if len(commit) > 12 {
				commit = commit[:12]
			}
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if dirty {
		commit += "-dirty"
	}
	return commit
}

// Info returns the one-line version string for --version output.
func Info() string {
	return fmt.Sprintf("%s (%s)", Version, revision())
}

// Full returns Info plus the toolchain and platform, for the version
// subcommand.
func Full() string {
	return fmt.Sprintf("%s\n  Go: %s\n  Platform: %s/%s",
		Info(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
