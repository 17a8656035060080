// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"time"
)

// TB is the subset of testing.TB the helpers need.
type TB interface {
	Helper()
	Fatalf(format string, args ...any)
}

// RequireReceive reads one value from ch within timeout, or fails the
// test.
//
//	registration := testutil.RequireReceive(t, results, time.Second, "push result")
func RequireReceive[T any](t TB, ch <-chan T, timeout time.Duration, msgAndArgs ...any) T {
	t.Helper()
	select {
	case value, ok := <-ch:
		if !ok {
			t.Fatalf("channel closed without a value: %s", formatMessage(msgAndArgs))
		}
		return value
	case <-time.After(timeout):
		t.Fatalf("timed out after %v: %s", timeout, formatMessage(msgAndArgs))
	}
	panic("unreachable")
}

// RequireClosed waits for ch to close (or deliver) within timeout.
//
//	testutil.RequireClosed(t, registrar.Start(ctx), time.Second, "registration finished")
func RequireClosed(t TB, ch <-chan struct{}, timeout time.Duration, msgAndArgs ...any) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(timeout):
		t.Fatalf("timed out after %v waiting for close: %s", timeout, formatMessage(msgAndArgs))
	}
}

// RequireNotClosed fails if ch closes or delivers within wait.
func RequireNotClosed(t TB, ch <-chan struct{}, wait time.Duration, msgAndArgs ...any) {
	t.Helper()
	select {
	case <-ch:
		t.Fatalf("channel closed early: %s", formatMessage(msgAndArgs))
	case <-time.After(wait):
	}
}

func formatMessage(msgAndArgs []any) string {
	switch {
	case len(msgAndArgs) == 0:
		return "(no message)"
	case len(msgAndArgs) == 1:
		return fmt.Sprint(msgAndArgs[0])
	}
	if format, ok := msgAndArgs[0].(string); ok {
		return fmt.Sprintf(format, msgAndArgs[1:]...)
	}
	return fmt.Sprint(msgAndArgs...)
}
