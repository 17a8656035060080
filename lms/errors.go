// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package lms

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"sort"
	"strings"
)

var (
	// ErrNetworkUnavailable matches every *NetworkError.
	ErrNetworkUnavailable = errors.New("lms: network unavailable")

	// ErrMalformedResponse is wrapped when a successful response body is
	// missing required fields or does not decode.
	ErrMalformedResponse = errors.New("lms: malformed server response")

	// ErrPermissionDenied is reported when the user declines notification
	// permission.
	ErrPermissionDenied = errors.New("lms: notification permission denied")
)

// Kind classifies an error for callers that branch on failure category.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNetworkUnavailable
	KindMalformedResponse
	KindServerRejected
	KindServerFault
	KindPermissionDenied
)

func (kind Kind) String() string {
	switch kind {
	case KindValidation:
		return "validation"
	case KindNetworkUnavailable:
		return "network_unavailable"
	case KindMalformedResponse:
		return "malformed_response"
	case KindServerRejected:
		return "server_rejected"
	case KindServerFault:
		return "server_fault"
	case KindPermissionDenied:
		return "permission_denied"
	default:
		return "unknown"
	}
}

// KindOf classifies err. A nil error is KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}

	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return KindValidation
	}
	if errors.Is(err, ErrNetworkUnavailable) {
		return KindNetworkUnavailable
	}
	if errors.Is(err, ErrMalformedResponse) {
		return KindMalformedResponse
	}
	if errors.Is(err, ErrPermissionDenied) {
		return KindPermissionDenied
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.StatusCode == http.StatusBadRequest && len(apiErr.FieldErrors) > 0:
			return KindValidation
		case apiErr.StatusCode >= 500:
			return KindServerFault
		case apiErr.StatusCode >= 400:
			return KindServerRejected
		}
	}
	return KindUnknown
}

// ValidationError is a client-side input check that failed before any
// request was sent.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("lms: invalid %s: %s", e.Field, e.Reason)
}

// Invalid returns a *ValidationError for field.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NetworkError is a transport failure: DNS, connection refused, TLS,
// timeout, or a cancelled context.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("lms: %s %s: network unavailable: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// Is makes every NetworkError match ErrNetworkUnavailable.
func (e *NetworkError) Is(target error) bool {
	return target == ErrNetworkUnavailable
}

// APIError is a non-2xx response from the service. The service answers
// errors in one of three shapes: {"error": "..."}, {"detail": "..."}, or
// a map of field name to a list of messages. All three are folded into
// Message and FieldErrors.
type APIError struct {
	StatusCode int
	Method     string
	Path       string

	// Message is the top-level description, when the body carried one.
	Message string

	// FieldErrors maps request fields to the server's complaints.
	FieldErrors map[string][]string

	// RequestID is the X-Request-ID sent with the failed request.
	RequestID string
}

func (e *APIError) Error() string {
	var builder strings.Builder
	fmt.Fprintf(&builder, "lms: %s %s: HTTP %d", e.Method, e.Path, e.StatusCode)
	if e.Message != "" {
		fmt.Fprintf(&builder, ": %s", e.Message)
	}
	fields := make([]string, 0, len(e.FieldErrors))
	for field := range e.FieldErrors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	for _, field := range fields {
		fmt.Fprintf(&builder, "; %s: %s", field, strings.Join(e.FieldErrors[field], " "))
	}
	return builder.String()
}

// FieldError returns the server's messages for field.
func (e *APIError) FieldError(field string) ([]string, bool) {
	messages, ok := e.FieldErrors[field]
	return messages, ok
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsUnauthorized reports whether err is a 401 response.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

// IsForbidden reports whether err is a 403 response.
func IsForbidden(err error) bool {
	return hasStatus(err, http.StatusForbidden)
}

func hasStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// messageKeys are the top-level keys that carry a human-readable
// message, in order of preference.
var messageKeys = []string{"error", "detail", "message"}

// parseAPIError builds an APIError from a non-2xx body. Bodies that are
// not JSON objects become the Message verbatim.
func parseAPIError(statusCode int, method, path string, body []byte) *APIError {
	apiErr := &APIError{StatusCode: statusCode, Method: method, Path: path}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		apiErr.Message = strings.TrimSpace(string(body))
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(statusCode)
		}
		return apiErr
	}

	for _, key := range messageKeys {
		var message string
		if json.Unmarshal(fields[key], &message) == nil && message != "" {
			apiErr.Message = message
			break
		}
	}

	for key, raw := range fields {
		if slices.Contains(messageKeys, key) {
			continue
		}
		messages := decodeMessages(raw)
		if len(messages) == 0 {
			continue
		}
		if apiErr.FieldErrors == nil {
			apiErr.FieldErrors = make(map[string][]string)
		}
		apiErr.FieldErrors[key] = messages
	}
	return apiErr
}

// decodeMessages accepts either a string or a list of strings.
func decodeMessages(raw json.RawMessage) []string {
	var list []string
	if json.Unmarshal(raw, &list) == nil {
		return list
	}
	var single string
	if json.Unmarshal(raw, &single) == nil && single != "" {
		return []string{single}
	}
	return nil
}
