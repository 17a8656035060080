// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source so that bounded waits
// (push-registration step timeouts, HTTP deadlines) can be driven
// deterministically in tests.
//
// Production code holds a [Clock] field set to [Real]. Tests construct a
// [FakeClock] with [Fake], start the goroutine under test, call
// WaitForTimers until it has registered its wait, then Advance past the
// deadline:
//
//	fake := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	go func() { <-fake.After(10 * time.Second); close(done) }()
//	fake.WaitForTimers(1)
//	fake.Advance(10 * time.Second)
package clock
