// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package lms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/xayahn/eduforge/lib/netutil"
)

// Authorizer stamps credentials on outgoing requests. The session store
// implements it.
type Authorizer interface {
	// Attach sets the credential header and reports whether one was set.
	Attach(request *http.Request) bool

	// Invalidate drops the credentials after the server rejected the
	// ones attached to request. Credentials replaced since the request
	// was stamped must survive.
	Invalidate(ctx context.Context, request *http.Request)
}

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	// APIRoot is the base URL of the API, e.g.
	// "https://finalsexam.onrender.com/api". Paths are joined under it.
	APIRoot string

	// HTTPClient is used for all requests. If nil, http.DefaultClient is used.
	HTTPClient *http.Client

	// Authorizer attaches credentials. If nil, requests are anonymous.
	Authorizer Authorizer

	// UserAgent, if set, is sent on every request.
	UserAgent string

	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Client talks to the course-management API. It is safe for concurrent
// use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	authorizer Authorizer
	userAgent  string
	logger     *slog.Logger
}

// NewClient creates a Client.
func NewClient(config ClientConfig) (*Client, error) {
	if config.APIRoot == "" {
		return nil, fmt.Errorf("lms: APIRoot is required")
	}
	parsed, err := url.Parse(config.APIRoot)
	if err != nil {
		return nil, fmt.Errorf("lms: invalid APIRoot %q: %w", config.APIRoot, err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("lms: APIRoot %q must be an http or https URL", config.APIRoot)
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(config.APIRoot, "/"),
		httpClient: httpClient,
		authorizer: config.Authorizer,
		userAgent:  config.UserAgent,
		logger:     logger,
	}, nil
}

// APIRoot returns the base URL requests are issued against.
func (c *Client) APIRoot() string {
	return c.baseURL
}

// CloseIdleConnections closes pooled connections in the transport.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

// call describes one request.
type call struct {
	method string
	path   string
	query  url.Values

	// body is JSON-encoded unless contentType is set, in which case it
	// must be a []byte sent verbatim.
	body        any
	contentType string

	// anonymous suppresses the credential header. The auth endpoints
	// are called this way so a stale token cannot fail a fresh login.
	anonymous bool
}

// doJSON issues a JSON request and decodes a 2xx body into out when out
// is non-nil.
func (c *Client) doJSON(ctx context.Context, method, path string, body, out any) error {
	return c.do(ctx, call{method: method, path: path, body: body}, out)
}

func (c *Client) do(ctx context.Context, request call, out any) error {
	requestURL := c.baseURL + "/" + strings.TrimLeft(request.path, "/")
	if len(request.query) > 0 {
		requestURL += "?" + request.query.Encode()
	}

	var bodyReader io.Reader
	contentType := request.contentType
	switch {
	case request.body == nil:
	case contentType != "":
		raw, ok := request.body.([]byte)
		if !ok {
			return fmt.Errorf("lms: %s body must be []byte, got %T", contentType, request.body)
		}
		bodyReader = bytes.NewReader(raw)
	default:
		encoded, err := json.Marshal(request.body)
		if err != nil {
			return fmt.Errorf("lms: encoding %s %s body: %w", request.method, request.path, err)
		}
		bodyReader = bytes.NewReader(encoded)
		contentType = "application/json"
	}

	httpRequest, err := http.NewRequestWithContext(ctx, request.method, requestURL, bodyReader)
	if err != nil {
		return fmt.Errorf("lms: creating %s %s request: %w", request.method, request.path, err)
	}
	requestID := uuid.NewString()
	httpRequest.Header.Set("Accept", "application/json")
	httpRequest.Header.Set("X-Request-ID", requestID)
	if contentType != "" {
		httpRequest.Header.Set("Content-Type", contentType)
	}
	if c.userAgent != "" {
		httpRequest.Header.Set("User-Agent", c.userAgent)
	}

	authorized := false
	if !request.anonymous && c.authorizer != nil {
		authorized = c.authorizer.Attach(httpRequest)
	}

	response, err := c.httpClient.Do(httpRequest)
	if err != nil {
		return &NetworkError{Method: request.method, Path: request.path, Err: err}
	}
	defer response.Body.Close()

	responseBody, err := netutil.ReadResponse(response.Body)
	if err != nil {
		return &NetworkError{Method: request.method, Path: request.path, Err: fmt.Errorf("reading response body: %w", err)}
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		if out == nil || len(bytes.TrimSpace(responseBody)) == 0 && response.StatusCode == http.StatusNoContent {
			return nil
		}
		if err := json.Unmarshal(responseBody, out); err != nil {
			return fmt.Errorf("%w: %s %s: %v", ErrMalformedResponse, request.method, request.path, err)
		}
		return nil
	}

	apiErr := parseAPIError(response.StatusCode, request.method, request.path, responseBody)
	apiErr.RequestID = requestID

	if response.StatusCode == http.StatusUnauthorized && authorized {
		c.logger.Warn("server rejected credentials, clearing session",
			"method", request.method,
			"path", request.path,
			"request_id", requestID,
		)
		c.authorizer.Invalidate(ctx, httpRequest)
	}
	return apiErr
}

func idPath(collection string, id int64) string {
	return fmt.Sprintf("%s/%d/", collection, id)
}
