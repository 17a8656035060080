// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"sync"
)

// Record is the durable form of a session. User holds the user as JSON
// text. An empty field means the key is absent.
type Record struct {
	Token string `json:"token,omitempty"`
	User  string `json:"user,omitempty"`
}

// Empty reports whether neither key is present.
func (r Record) Empty() bool {
	return r.Token == "" && r.User == ""
}

// Backend is durable key storage for a Record. Write must store both
// keys together or neither.
type Backend interface {
	// Read returns the stored record, or an empty Record when nothing
	// has been stored.
	Read(ctx context.Context) (Record, error)
	Write(ctx context.Context, record Record) error
	Delete(ctx context.Context) error
}

// MemoryBackend keeps the record in process memory.
type MemoryBackend struct {
	mu     sync.Mutex
	record Record

	// Fail, when non-nil, is returned by every operation.
	Fail error
}

// NewMemoryBackend returns an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (b *MemoryBackend) Read(ctx context.Context) (Record, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Fail != nil {
		return Record{}, b.Fail
	}
	return b.record, nil
}

func (b *MemoryBackend) Write(ctx context.Context, record Record) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Fail != nil {
		return b.Fail
	}
	b.record = record
	return nil
}

func (b *MemoryBackend) Delete(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.Fail != nil {
		return b.Fail
	}
	b.record = Record{}
	return nil
}

// Set replaces the stored record directly, bypassing the store. Tests
// use it to plant damaged records.
func (b *MemoryBackend) Set(record Record) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record = record
}
