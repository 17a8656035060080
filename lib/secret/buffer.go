// Copyright 2026 The EduForge Authors
// SPDX-License-Identifier: Apache-2.0

package secret

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sys/unix"
)

// Buffer holds sensitive bytes in memory allocated outside the Go heap.
// A Buffer must not be copied. Access after Close panics.
type Buffer struct {
	mu     sync.Mutex
	data   []byte
	length int
	locked bool
	closed bool
}

// New allocates a zeroed buffer of size bytes.
func New(size int) (*Buffer, error) {
	if size <= 0 {
		return nil, fmt.Errorf("secret: buffer size must be positive, got %d", size)
	}

	data, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANONYMOUS)
	if err != nil {
		return nil, fmt.Errorf("secret: mmap failed: %w", err)
	}

	// Desktop sessions often run with a tiny RLIMIT_MEMLOCK. An unlocked
	// region is still invisible to the garbage collector and still
	// zeroed on Close, so a failed mlock is not fatal here.
	locked := unix.Mlock(data) == nil

	if err := unix.Madvise(data, unix.MADV_DONTDUMP); err != nil {
		if locked {
			unix.Munlock(data)
		}
		unix.Munmap(data)
		return nil, fmt.Errorf("secret: madvise(MADV_DONTDUMP) failed: %w", err)
	}

	return &Buffer{data: data, length: size, locked: locked}, nil
}

// NewFromBytes copies source into a new Buffer and zeroes source.
func NewFromBytes(source []byte) (*Buffer, error) {
	if len(source) == 0 {
		return nil, errors.New("secret: cannot create buffer from empty source")
	}
	buffer, err := New(len(source))
	if err != nil {
		return nil, err
	}
	copy(buffer.data, source)
	Zero(source)
	return buffer, nil
}

// String returns a heap copy of the secret. Use only where an API
// requires a string.
func (b *Buffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		panic("secret: read from closed buffer")
	}
	return string(b.data[:b.length])
}

// Len returns the secret's length in bytes.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.length
}

// Close zeroes and releases the memory. Idempotent.
func (b *Buffer) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true

	Zero(b.data)

	var firstError error
	if b.locked {
		if err := unix.Munlock(b.data); err != nil {
			firstError = fmt.Errorf("secret: munlock failed: %w", err)
		}
	}
	if err := unix.Munmap(b.data); err != nil && firstError == nil {
		firstError = fmt.Errorf("secret: munmap failed: %w", err)
	}
	b.data = nil
	return firstError
}

// Zero overwrites data with zeros.
func Zero(data []byte) {
	for index := range data {
		data[index] = 0
	}
}
