// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package upload

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/xayahn/eduforge/lib/netutil"
)

// Fetcher materializes a reference into bytes.
type Fetcher interface {
	Fetch(ctx context.Context, reference string) ([]byte, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, reference string) ([]byte, error)

func (f FetcherFunc) Fetch(ctx context.Context, reference string) ([]byte, error) {
	return f(ctx, reference)
}

// SourceFetcher reads local paths, file:// URIs, and http(s) URLs.
type SourceFetcher struct {
	// HTTPClient fetches remote references. If nil, http.DefaultClient
	// is used.
	HTTPClient *http.Client
}

// DefaultFetcher returns a SourceFetcher using http.DefaultClient.
func DefaultFetcher() *SourceFetcher {
	return &SourceFetcher{}
}

func (f *SourceFetcher) Fetch(ctx context.Context, reference string) ([]byte, error) {
	if strings.HasPrefix(reference, "http://") || strings.HasPrefix(reference, "https://") {
		return f.fetchRemote(ctx, reference)
	}

	filePath, err := localPath(reference)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(filePath)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return netutil.ReadAttachment(file)
}

func (f *SourceFetcher) fetchRemote(ctx context.Context, reference string) ([]byte, error) {
	if _, err := url.Parse(reference); err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", reference, err)
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, reference, nil)
	if err != nil {
		return nil, err
	}
	client := f.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	response, err := client.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	if response.StatusCode < 200 || response.StatusCode >= 300 {
		return nil, fmt.Errorf("HTTP %d: %s", response.StatusCode, netutil.ErrorBody(response.Body))
	}
	return netutil.ReadAttachment(response.Body)
}
