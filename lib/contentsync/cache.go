// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package contentsync

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xayahn/eduforge/lib/atomicfile"
	"github.com/xayahn/eduforge/lib/codec"
)

// ErrNoSnapshot is returned by Cache.Load when nothing is stored.
var ErrNoSnapshot = errors.New("contentsync: no cached snapshot")

// snapshot is the on-disk record: deterministic CBOR, zstd-compressed.
type snapshot struct {
	UserID  int64            `cbor:"user_id"`
	SavedAt int64            `cbor:"saved_at"`
	Views   []EnrollmentView `cbor:"views"`
}

// Cache stores the last successful views per user under a directory.
type Cache struct {
	directory string
	now       func() time.Time
}

// NewCache returns a Cache rooted at directory. The directory is created
// on first save.
func NewCache(directory string) *Cache {
	return &Cache{directory: directory, now: time.Now}
}

func (c *Cache) path(userID int64) string {
	return filepath.Join(c.directory, fmt.Sprintf("views-%d.cbor.zst", userID))
}

// Save replaces userID's snapshot.
func (c *Cache) Save(userID int64, views []EnrollmentView) error {
	packed, err := codec.Pack(snapshot{
		UserID:  userID,
		SavedAt: c.now().Unix(),
		Views:   views,
	})
	if err != nil {
		return fmt.Errorf("encoding view snapshot: %w", err)
	}
	return atomicfile.WriteFile(c.path(userID), packed, 0600)
}

// Load returns userID's snapshot and when it was saved.
func (c *Cache) Load(userID int64) ([]EnrollmentView, time.Time, error) {
	packed, err := os.ReadFile(c.path(userID))
	if os.IsNotExist(err) {
		return nil, time.Time{}, ErrNoSnapshot
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("reading view snapshot: %w", err)
	}

	var stored snapshot
	if err := codec.Unpack(packed, &stored); err != nil {
		return nil, time.Time{}, fmt.Errorf("decoding view snapshot: %w", err)
	}
	if stored.UserID != userID {
		return nil, time.Time{}, fmt.Errorf("view snapshot belongs to user %d, not %d", stored.UserID, userID)
	}
	return stored.Views, time.Unix(stored.SavedAt, 0), nil
}

// Remove deletes userID's snapshot.
func (c *Cache) Remove(userID int64) error {
	return atomicfile.Remove(c.path(userID))
}
