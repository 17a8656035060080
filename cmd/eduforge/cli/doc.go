// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli is the command framework for the eduforge binary: a tree
// of pflag-parsed commands, categorized errors with exit codes, and
// the command logger.
package cli
