// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

// Package version reports build information for eduforge binaries.
//
// Release builds inject values with -ldflags:
//
//	go build -ldflags "-X github.com/xayahn/eduforge/lib/version.Version=1.2.0 \
//	    -X github.com/xayahn/eduforge/lib/version.GitCommit=$(git rev-parse --short HEAD)"
//
// Without them the VCS stamp embedded by the Go toolchain is used.
package version
