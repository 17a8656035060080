// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

// Package tui renders course dashboards, grade lists, and notifications
// for the terminal. Every renderer takes a Theme so the command layer
// can switch to an uncolored theme when output is not a terminal.
package tui
