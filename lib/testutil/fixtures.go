// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
)

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// WriteJSON writes status and body as a JSON response. Used by fake API
// handlers in httptest servers.
func WriteJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
