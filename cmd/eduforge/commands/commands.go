// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands builds the eduforge command tree.
package commands

import (
	"io"

	"github.com/xayahn/eduforge/cmd/eduforge/cli"
	"github.com/xayahn/eduforge/lib/version"
)

// Root returns the top-level command writing results to stdout.
func Root(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:    "eduforge",
		Summary: "Course platform client",
		Description: `eduforge signs in to the course platform and works with courses,
lessons, projects, submissions, grades, and notifications.

Configuration is read from --config or $EDUFORGE_CONFIG (YAML or JSONC).
Without either, the hosted service and ~/.config/eduforge are used.`,
		Subcommands: []*cli.Command{
			loginCommand(stdout),
			registerCommand(stdout),
			logoutCommand(stdout),
			whoamiCommand(stdout),
			coursesCommand(stdout),
			courseCommand(stdout),
			joinCommand(stdout),
			completeCommand(stdout),
			commentCommand(stdout),
			lessonCommand(stdout),
			projectCommand(stdout),
			announceCommand(stdout),
			deleteCommand(stdout),
			submitCommand(stdout),
			gradesCommand(stdout),
			gradeCommand(stdout),
			notificationsCommand(stdout),
			pushCommand(stdout),
			keygenCommand(stdout),
			versionCommand(stdout),
		},
	}
}

func versionCommand(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:    "version",
		Summary: "Print build information",
		Run: func(args []string) error {
			if err := requireArgs(args); err != nil {
				return err
			}
			_, err := io.WriteString(stdout, "eduforge "+version.Full()+"\n")
			return err
		},
	}
}
