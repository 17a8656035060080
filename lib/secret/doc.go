// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

// Package secret holds passwords typed into the CLI outside the Go heap.
//
// A [Buffer] is an anonymous mmap region excluded from core dumps and,
// where RLIMIT_MEMLOCK allows, locked against swap. Close zeroes and
// unmaps it. The password is converted to a string only at the JSON
// serialization boundary of the login or registration request.
package secret
