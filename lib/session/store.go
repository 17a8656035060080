// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
)

// StoreConfig holds configuration for creating a Store.
type StoreConfig struct {
	// Backend persists the session. If nil, a MemoryBackend is used.
	Backend Backend

	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Store owns the process's current session.
type Store struct {
	backend Backend
	logger  *slog.Logger

	// writeMu serializes Save, Clear, and Load so that the memory copy
	// and the backend change in the same order.
	writeMu sync.Mutex

	mu      sync.RWMutex
	current *Session
}

// NewStore creates a Store with no session installed.
func NewStore(config StoreConfig) *Store {
	backend := config.Backend
	if backend == nil {
		backend = NewMemoryBackend()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{backend: backend, logger: logger}
}

// Load restores the persisted session and installs it. Any failure to
// read or decode the record yields (Session{}, false). A record holding
// only one of the two keys is also deleted.
func (s *Store) Load(ctx context.Context) (Session, bool) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	record, err := s.backend.Read(ctx)
	if err != nil {
		s.logger.Warn("reading persisted session failed", "error", err)
		return Session{}, false
	}
	if record.Empty() {
		return Session{}, false
	}
	if record.Token == "" || record.User == "" {
		s.logger.Warn("persisted session is missing a key, discarding",
			"has_token", record.Token != "",
			"has_user", record.User != "",
		)
		if err := s.backend.Delete(ctx); err != nil {
			s.logger.Warn("removing partial session failed", "error", err)
		}
		return Session{}, false
	}

	var user User
	if err := json.Unmarshal([]byte(record.User), &user); err != nil {
		s.logger.Warn("persisted user does not decode", "error", err)
		return Session{}, false
	}
	restored := Session{Token: record.Token, User: user}
	if !restored.Complete() {
		s.logger.Warn("persisted user is incomplete", "user_id", user.ID)
		return Session{}, false
	}

	s.install(&restored)
	s.logger.Debug("restored session", "user_id", user.ID, "username", user.Username)
	return restored, true
}

// Save installs session and persists it. Only an incomplete session is
// an error; a backend failure is logged and the in-memory session stays
// installed.
func (s *Store) Save(ctx context.Context, session Session) error {
	if !session.Complete() {
		return ErrIncompleteSession
	}

	userJSON, err := json.Marshal(session.User)
	if err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.install(&session)
	if err := s.backend.Write(ctx, Record{Token: session.Token, User: string(userJSON)}); err != nil {
		s.logger.Warn("persisting session failed, keeping it in memory only",
			"user_id", session.User.ID,
			"error", err,
		)
	}
	return nil
}

// Clear removes the session from memory and from the backend.
func (s *Store) Clear(ctx context.Context) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	s.clearLocked(ctx)
}

// Invalidate clears the session after the server rejected the token
// attached to request. A rejection of a token that is no longer
// installed (the user signed in again while the request was in flight)
// leaves the current session alone.
func (s *Store) Invalidate(ctx context.Context, request *http.Request) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	current, ok := s.Current()
	if !ok {
		return
	}
	if request == nil || request.Header.Get("Authorization") != "Token "+current.Token {
		s.logger.Debug("ignoring rejection of a superseded token", "user_id", current.User.ID)
		return
	}
	s.logger.Info("session token rejected by server, signing out",
		"user_id", current.User.ID,
	)
	s.clearLocked(ctx)
}

func (s *Store) clearLocked(ctx context.Context) {
	s.install(nil)
	if err := s.backend.Delete(ctx); err != nil {
		s.logger.Warn("removing persisted session failed", "error", err)
	}
}

// Current returns the installed session.
func (s *Store) Current() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}

// Attach sets "Authorization: Token <value>" on request when a session
// is installed and reports whether it did.
func (s *Store) Attach(request *http.Request) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return false
	}
	request.Header.Set("Authorization", "Token "+s.current.Token)
	return true
}

func (s *Store) install(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = session
}
