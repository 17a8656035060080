// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

// Package netutil provides bounded HTTP body reads for the course-service
// client. Every JSON response and every fetched attachment goes through
// these helpers so that a misbehaving server cannot exhaust memory.
package netutil

import (
	"fmt"
	"io"
)

// MaxResponseSize bounds JSON API response reads: 32 MB.
const MaxResponseSize int64 = 32 << 20

// MaxAttachmentSize bounds attachment bytes materialized in memory for a
// multipart upload: 256 MB.
const MaxAttachmentSize int64 = 256 << 20

// ReadResponse reads a JSON API response body up to MaxResponseSize bytes.
func ReadResponse(body io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(body, MaxResponseSize))
}

// ReadAttachment reads attachment content up to MaxAttachmentSize bytes.
// Content longer than the limit is an error rather than a silent
// truncation, since a truncated upload would corrupt the submitted file.
func ReadAttachment(content io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(content, MaxAttachmentSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > MaxAttachmentSize {
		return nil, fmt.Errorf("attachment exceeds %d bytes", MaxAttachmentSize)
	}
	return data, nil
}

// ErrorBody reads an error response body for diagnostics. Read errors
// are ignored: a partial body is still useful in an error message.
func ErrorBody(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, MaxResponseSize))
	return string(data)
}
