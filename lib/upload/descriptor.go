// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// DefaultMIMEType is used when a descriptor is created without one.
const DefaultMIMEType = "application/octet-stream"

// Descriptor is one binary attachment: a display name, a MIME type, and
// either buffered bytes or a local URI opened on demand.
type Descriptor struct {
	name     string
	mimeType string
	uri      string

	buffered bool
	data     []byte
}

// FromBuffer fetches reference into memory and returns a buffered
// descriptor. An empty name defaults to the reference's base name and an
// empty mimeType to DefaultMIMEType.
func FromBuffer(ctx context.Context, fetcher Fetcher, reference, name, mimeType string) (*Descriptor, error) {
	if reference == "" {
		return nil, fmt.Errorf("upload: reference is required")
	}
	if fetcher == nil {
		fetcher = DefaultFetcher()
	}
	data, err := fetcher.Fetch(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("upload: fetching %s: %w", reference, err)
	}
	return &Descriptor{
		name:     defaultName(name, reference),
		mimeType: defaultMIMEType(mimeType),
		uri:      reference,
		buffered: true,
		data:     data,
	}, nil
}

// FromBytes wraps data already in memory.
func FromBytes(data []byte, name, mimeType string) *Descriptor {
	return &Descriptor{
		name:     defaultName(name, "upload"),
		mimeType: defaultMIMEType(mimeType),
		buffered: true,
		data:     data,
	}
}

// FromURI returns a descriptor that opens uri when encoded. uri is a
// local path or a file:// URI.
func FromURI(uri, name, mimeType string) (*Descriptor, error) {
	if _, err := localPath(uri); err != nil {
		return nil, err
	}
	return &Descriptor{
		name:     defaultName(name, uri),
		mimeType: defaultMIMEType(mimeType),
		uri:      uri,
	}, nil
}

// Name is the file name sent in the multipart part.
func (d *Descriptor) Name() string { return d.name }

// MIMEType is the part's Content-Type.
func (d *Descriptor) MIMEType() string { return d.mimeType }

// URI is the reference the descriptor was built from.
func (d *Descriptor) URI() string { return d.uri }

// Buffered reports whether the content is already in memory.
func (d *Descriptor) Buffered() bool { return d.buffered }

// Open returns the content. Buffered descriptors read from memory;
// URI descriptors open the file.
func (d *Descriptor) Open(ctx context.Context) (io.ReadCloser, error) {
	if d.buffered {
		return io.NopCloser(bytes.NewReader(d.data)), nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	filePath, err := localPath(d.uri)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("upload: opening %s: %w", d.uri, err)
	}
	return file, nil
}

// localPath resolves a plain path or file:// URI to a filesystem path.
func localPath(uri string) (string, error) {
	if uri == "" {
		return "", fmt.Errorf("upload: uri is required")
	}
	if !strings.Contains(uri, "://") {
		return filepath.Clean(uri), nil
	}
	parsed, err := url.Parse(uri)
	if err != nil {
		return "", fmt.Errorf("upload: invalid uri %q: %w", uri, err)
	}
	if parsed.Scheme != "file" {
		return "", fmt.Errorf("upload: uri %q is not a local file; use FromBuffer for %s content", uri, parsed.Scheme)
	}
	if parsed.Path == "" {
		return "", fmt.Errorf("upload: uri %q has no path", uri)
	}
	return filepath.FromSlash(parsed.Path), nil
}

func defaultName(name, reference string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	if parsed, err := url.Parse(reference); err == nil && parsed.Path != "" {
		reference = parsed.Path
	}
	base := path.Base(filepath.ToSlash(reference))
	if base == "." || base == "/" || base == "" {
		return "upload"
	}
	return base
}

func defaultMIMEType(mimeType string) string {
	if mimeType = strings.TrimSpace(mimeType); mimeType != "" {
		return mimeType
	}
	return DefaultMIMEType
}
