// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

// Command eduforge is the command-line client for the course platform.
package main

import (
	"fmt"
	"os"

	"github.com/xayahn/eduforge/cmd/eduforge/commands"
)

func main() {
	if err := commands.Root(os.Stdout).Execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		os.Exit(1)
	}
}
