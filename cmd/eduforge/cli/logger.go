// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"golang.org/x/term"
)

// NewCommandLogger creates the logger for command output on stderr.
// Format "auto" picks text on a terminal and JSON otherwise.
func NewCommandLogger(level, format string) (*slog.Logger, error) {
	return newLogger(os.Stderr, term.IsTerminal(int(os.Stderr.Fd())), level, format)
}

func newLogger(w io.Writer, terminal bool, level, format string) (*slog.Logger, error) {
	var slogLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		slogLevel = slog.LevelDebug
	case "", "info":
		slogLevel = slog.LevelInfo
	case "warn", "warning":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return nil, fmt.Errorf("unknown log level %q", level)
	}

	options := &slog.HandlerOptions{Level: slogLevel}
	switch format {
	case "text":
		return slog.New(slog.NewTextHandler(w, options)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, options)), nil
	case "", "auto":
		if terminal {
			return slog.New(slog.NewTextHandler(w, options)), nil
		}
		return slog.New(slog.NewJSONHandler(w, options)), nil
	}
	return nil, fmt.Errorf("unknown log format %q", format)
}

// IsTerminal reports whether stdout is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
