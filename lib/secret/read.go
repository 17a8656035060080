// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ReadFile reads a secret from path, trimming surrounding whitespace.
// An empty secret is an error.
func ReadFile(path string) (*Buffer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		Zero(data)
		return nil, fmt.Errorf("%s is empty", path)
	}
	buffer, err := NewFromBytes(trimmed)
	Zero(data)
	return buffer, err
}

// ErrNoTerminal is returned by ReadTerminal when the descriptor is not a
// terminal and echo cannot be disabled.
var ErrNoTerminal = errors.New("secret: no terminal available for interactive prompt")

// ReadTerminal writes prompt to output and reads one line from the
// terminal fd with echo disabled.
func ReadTerminal(fd int, prompt string, output io.Writer) (*Buffer, error) {
	if !term.IsTerminal(fd) {
		return nil, ErrNoTerminal
	}
	fmt.Fprint(output, prompt)
	data, err := term.ReadPassword(fd)
	fmt.Fprintln(output)
	if err != nil {
		return nil, fmt.Errorf("secret: reading password: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("secret: empty password")
	}
	return NewFromBytes(data)
}
