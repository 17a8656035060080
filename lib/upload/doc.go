// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

// Package upload describes binary attachments and encodes them into
// multipart/form-data bodies.
//
// A [Descriptor] is built one of two ways. [FromBuffer] materializes the
// referenced content into memory up front through a [Fetcher], for
// sources that are only reachable at pick time (a remote URL, a
// temporary picker file). [FromURI] records the location and opens it
// only when the body is encoded. Both kinds flow through the same
// [Form] encoder, which also computes a BLAKE3 digest of the file bytes.
package upload
