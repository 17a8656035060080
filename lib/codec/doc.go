// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec holds the shared local encoding configuration.
//
// JSON is the wire format for the learning-platform API and CLI output.
// CBOR is used for local state that never leaves the machine, such as
// the offline snapshot of course views. The encoder uses Core
// Deterministic Encoding (RFC 8949 §4.2) so the same data always
// produces identical bytes, which keeps snapshot digests stable.
//
// Types carry `json` tags; fxamacker/cbor falls back to them when no
// `cbor` tag is present, so one tag set controls both formats.
//
// [Pack] and [Unpack] add zstd compression on top of CBOR for files.
package codec
