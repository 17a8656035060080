// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"errors"
	"fmt"

	"github.com/xayahn/eduforge/lib/auth"
	"github.com/xayahn/eduforge/lib/capability"
	"github.com/xayahn/eduforge/lib/classroom"
	"github.com/xayahn/eduforge/lms"
)

// ErrorCategory classifies command errors so scripts can decide
// whether to fix input, sign in again, or retry.
type ErrorCategory string

const (
	// CategoryValidation: the input was invalid. Fix it and retry.
	CategoryValidation ErrorCategory = "validation"

	// CategoryNotFound: a referenced course, lesson, or submission does
	// not exist.
	CategoryNotFound ErrorCategory = "not_found"

	// CategoryUnauthenticated: no session, or the server refused it.
	CategoryUnauthenticated ErrorCategory = "unauthenticated"

	// CategoryForbidden: the signed-in role may not do this.
	CategoryForbidden ErrorCategory = "forbidden"

	// CategoryTransient: the service could not be reached or failed.
	// Retrying later may help.
	CategoryTransient ErrorCategory = "transient"

	// CategoryInternal: an unexpected local failure.
	CategoryInternal ErrorCategory = "internal"
)

// exitCodes maps categories to process exit codes.
var exitCodes = map[ErrorCategory]int{
	CategoryValidation:      2,
	CategoryNotFound:        3,
	CategoryUnauthenticated: 4,
	CategoryForbidden:       5,
	CategoryTransient:       6,
	CategoryInternal:        1,
}

// ToolError is a categorized command error.
type ToolError struct {
	Category ErrorCategory
	Err      error
}

func (e *ToolError) Error() string { return e.Err.Error() }

func (e *ToolError) Unwrap() error { return e.Err }

// ExitCode returns the process exit code for the category.
func (e *ToolError) ExitCode() int {
	if code, ok := exitCodes[e.Category]; ok {
		return code
	}
	return 1
}

// Validation creates a validation error.
func Validation(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryValidation, Err: fmt.Errorf(format, args...)}
}

// NotFound creates a not-found error.
func NotFound(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryNotFound, Err: fmt.Errorf(format, args...)}
}

// Transient creates a transient error.
func Transient(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryTransient, Err: fmt.Errorf(format, args...)}
}

// Internal creates an internal error.
func Internal(format string, args ...any) *ToolError {
	return &ToolError{Category: CategoryInternal, Err: fmt.Errorf(format, args...)}
}

// Categorize wraps err in a ToolError chosen from the error taxonomy.
// Errors that are already ToolErrors and nil pass through.
func Categorize(err error) error {
	if err == nil {
		return nil
	}
	var toolErr *ToolError
	if errors.As(err, &toolErr) {
		return err
	}
	return &ToolError{Category: categoryOf(err), Err: err}
}

func categoryOf(err error) ErrorCategory {
	switch {
	case errors.Is(err, classroom.ErrNotSignedIn),
		errors.Is(err, auth.ErrInvalidCredentials),
		lms.IsUnauthorized(err):
		return CategoryUnauthenticated
	case errors.Is(err, capability.ErrNotPermitted), lms.IsForbidden(err):
		return CategoryForbidden
	case errors.Is(err, auth.ErrUsernameTaken):
		return CategoryValidation
	case lms.IsNotFound(err):
		return CategoryNotFound
	}

	switch lms.KindOf(err) {
	case lms.KindValidation, lms.KindServerRejected:
		return CategoryValidation
	case lms.KindNetworkUnavailable, lms.KindServerFault:
		return CategoryTransient
	case lms.KindPermissionDenied:
		return CategoryForbidden
	}
	return CategoryInternal
}
