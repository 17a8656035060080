// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

// Package config loads client configuration for EduForge components.
//
// Configuration comes from a single file named by the --config flag or
// the EDUFORGE_CONFIG environment variable. Unlike a server, the client
// must also run with no file at all, so a missing path yields [Default].
// Files ending in .json or .jsonc are read as JSON with comments; every
// other file is YAML.
//
// Precedence, lowest to highest: built-in defaults, the file's base
// values, the file's section for the selected environment
// (development or production), then the EDUFORGE_API_ROOT and
// EDUFORGE_SESSION_FILE environment variables.
package config
