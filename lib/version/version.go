// Copyright 2026 The Fixflow Authors
// SPDX-License-Identifier: Apache-2.0

// Package version exposes the build version of fixflow binaries.
package version

import "runtime/debug"

// Version is the semantic version of this build. Release builds
// override it via:
//
//	-ldflags "-X github.com/fixflow-project/fixflow/lib/version.Version=v1.2.3"
var Version = "0.1.0-dev"

// Full returns the version string, with the VCS revision appended
// when the binary was built from a checkout with module info
// embedded (a plain "go build" does this automatically).
func Full() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return Version
	}
	for _, setting := range info.Settings {
		if setting.Key == "vcs.revision" && len(setting.Value) >= 12 {
			return Version + "+" + setting.Value[:12]
		}
	}
	return Version
}
