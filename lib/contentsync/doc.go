// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

// Package contentsync reconciles the independently fetched course
// catalog, enrollment list, and notification list into what a user sees.
//
// [Syncer.Refresh] fetches the catalog and (for students) the enrollments
// concurrently and joins them by course id. The catalog is required; a
// failed enrollment fetch degrades to "not enrolled anywhere" rather
// than failing the refresh.
//
// [Dashboard] is the live form: each collection is its own slice that
// updates whenever its fetch lands, with no barrier between them. A
// failed fetch leaves its slice at the last good value.
//
// [Cache] keeps the last successful views per user on disk so they can
// be shown offline.
package contentsync
