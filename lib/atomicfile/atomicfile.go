// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

// Package atomicfile replaces files so that readers see either the old
// content or the new content, never a partial write.
package atomicfile

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteFile writes data to a temporary file next to path, syncs it, and
// renames it over path. The parent directory is created with mode 0700
// if missing. The file is created with perm.
func WriteFile(path string, data []byte, perm os.FileMode) error {
	directory := filepath.Dir(path)
	if err := os.MkdirAll(directory, 0700); err != nil {
		return fmt.Errorf("creating directory %s: %w", directory, err)
	}

	file, err := os.CreateTemp(directory, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	temporaryPath := file.Name()

	// Write, chmod, sync, close. On any failure the temporary file is
	// removed and the first error reported.
	fail := func(step string, err error) error {
		file.Close()
		os.Remove(temporaryPath)
		return fmt.Errorf("%s temporary file for %s: %w", step, path, err)
	}
	if _, err := file.Write(data); err != nil {
		return fail("writing", err)
	}
	if err := file.Chmod(perm); err != nil {
		return fail("setting mode on", err)
	}
	if err := file.Sync(); err != nil {
		return fail("syncing", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("closing temporary file for %s: %w", path, err)
	}

	if err := os.Rename(temporaryPath, path); err != nil {
		os.Remove(temporaryPath)
		return fmt.Errorf("renaming into %s: %w", path, err)
	}
	return nil
}

// Remove deletes path. A missing file is not an error.
func Remove(path string) error {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
