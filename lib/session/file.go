// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/xayahn/eduforge/lib/atomicfile"
	"github.com/xayahn/eduforge/lib/sealed"
)

// FileBackend stores the record as one JSON file with mode 0600. When
// Identity is set the file is age-encrypted to the identity's recipient
// and only that identity can read it back.
type FileBackend struct {
	path     string
	identity *sealed.Keypair
}

// NewFileBackend returns a backend for path. identity may be nil.
func NewFileBackend(path string, identity *sealed.Keypair) *FileBackend {
	return &FileBackend{path: path, identity: identity}
}

// Path returns the session file location.
func (b *FileBackend) Path() string {
	return b.path
}

func (b *FileBackend) Read(ctx context.Context) (Record, error) {
	data, err := os.ReadFile(b.path)
	if os.IsNotExist(err) {
		return Record{}, nil
	}
	if err != nil {
		return Record{}, fmt.Errorf("reading session file %s: %w", b.path, err)
	}

	if b.identity != nil {
		data, err = sealed.Open(data, b.identity.PrivateKey)
		if err != nil {
			return Record{}, fmt.Errorf("unsealing session file %s: %w", b.path, err)
		}
	}

	var record Record
	if err := json.Unmarshal(data, &record); err != nil {
		return Record{}, fmt.Errorf("parsing session file %s: %w", b.path, err)
	}
	return record, nil
}

func (b *FileBackend) Write(ctx context.Context, record Record) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding session record: %w", err)
	}
	data = append(data, '\n')

	if b.identity != nil {
		data, err = sealed.Seal(data, b.identity.PublicKey)
		if err != nil {
			return fmt.Errorf("sealing session record: %w", err)
		}
	}
	return atomicfile.WriteFile(b.path, data, 0600)
}

func (b *FileBackend) Delete(ctx context.Context) error {
	if err := atomicfile.Remove(b.path); err != nil {
		return fmt.Errorf("removing session file %s: %w", b.path, err)
	}
	return nil
}
