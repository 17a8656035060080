// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestExecuteDispatchesNestedSubcommands(t *testing.T) {
	var called string
	var receivedArgs []string

	root := &Command{
		Name:   "eduforge",
		Output: &bytes.Buffer{},
		Subcommands: []*Command{
			{
				Name: "lesson",
				Subcommands: []*Command{
					{
						Name: "create",
						Run: func(args []string) error {
							called = "lesson create"
							receivedArgs = args
							return nil
						},
					},
				},
			},
		},
	}

	if err := root.Execute([]string{"lesson", "create", "extra"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if called != "lesson create" {
		t.Errorf("dispatched to %q, want lesson create", called)
	}
	if len(receivedArgs) != 1 || receivedArgs[0] != "extra" {
		t.Errorf("args = %v, want [extra]", receivedArgs)
	}
}

func TestExecuteParsesFlags(t *testing.T) {
	var title string
	var positional []string

	command := &Command{
		Name: "course",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("course", pflag.ContinueOnError)
			flagSet.StringVar(&title, "title", "", "course title")
			return flagSet
		},
		Run: func(args []string) error {
			positional = args
			return nil
		},
	}

	if err := command.Execute([]string{"--title", "Go 101", "12"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if title != "Go 101" {
		t.Errorf("title = %q, want Go 101", title)
	}
	if len(positional) != 1 || positional[0] != "12" {
		t.Errorf("args = %v, want [12]", positional)
	}
}

func TestExecuteSuggestsFlag(t *testing.T) {
	command := &Command{
		Name: "grade",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("grade", pflag.ContinueOnError)
			flagSet.String("feedback", "", "")
			return flagSet
		},
		Run: func(args []string) error { return nil },
	}

	err := command.Execute([]string{"--feedbak", "nice"})
	if err == nil || !strings.Contains(err.Error(), "did you mean --feedback?") {
		t.Fatalf("error = %v, want flag suggestion", err)
	}
	var toolErr *ToolError
	if !errors.As(err, &toolErr) || toolErr.Category != CategoryValidation {
		t.Errorf("error = %#v, want validation ToolError", err)
	}
}

func TestExecuteSuggestsCommand(t *testing.T) {
	root := &Command{
		Name:   "eduforge",
		Output: &bytes.Buffer{},
		Subcommands: []*Command{
			{Name: "courses", Run: func(args []string) error { return nil }},
			{Name: "grades", Run: func(args []string) error { return nil }},
		},
	}
	err := root.Execute([]string{"cuorses"})
	if err == nil || !strings.Contains(err.Error(), `did you mean "courses"?`) {
		t.Fatalf("error = %v, want command suggestion", err)
	}
}

func TestExecuteSubcommandRequired(t *testing.T) {
	var help bytes.Buffer
	root := &Command{
		Name:        "eduforge",
		Output:      &help,
		Subcommands: []*Command{{Name: "login", Summary: "Sign in"}},
	}
	if err := root.Execute(nil); err == nil {
		t.Fatal("Execute with no args succeeded, want error")
	}
	if !strings.Contains(help.String(), "login") || !strings.Contains(help.String(), "Sign in") {
		t.Errorf("help output missing subcommand listing:\n%s", help.String())
	}
}

func TestHelpFlagPrintsUsage(t *testing.T) {
	var help bytes.Buffer
	command := &Command{
		Name:     "submit",
		Summary:  "Submit project work",
		Output:   &help,
		Examples: []Example{{Description: "Submit a link", Command: "eduforge submit 3 --link https://x"}},
		Run:      func(args []string) error { t.Fatal("Run called for --help"); return nil },
	}
	if err := command.Execute([]string{"--help"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	for _, want := range []string{"Submit project work", "Usage:", "eduforge submit 3 --link"} {
		if !strings.Contains(help.String(), want) {
			t.Errorf("help missing %q:\n%s", want, help.String())
		}
	}
}

func TestLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"", "abc", 3},
		{"grade", "grade", 0},
		{"grade", "grades", 1},
		{"kitten", "sitting", 3},
	}
	for _, test := range tests {
		if got := levenshtein(test.a, test.b); got != test.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", test.a, test.b, got, test.want)
		}
	}
}
