// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

// Package submission validates, encodes, and uploads learner work and
// lesson attachments.
//
// Every call is one attempt: validation runs before any request, the
// form is encoded once, and exactly one POST is made. Failures after
// validation are reported as *[UploadError]. Repeating a call creates a
// second server record; there is no deduplication.
package submission
