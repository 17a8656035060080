// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides helpers shared by the package tests: bounded
// channel waits, a discarding logger, and JSON fixtures for fake API
// servers.
package testutil
