// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the local chat session store for the nexus client.
package storage

import (
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"github.com/nexus-campus/nexus-tui/internal/util"
)

// =============================================================================
// BLOB INTERFACE
// =============================================================================

// Blob is durable key/value storage, the terminal counterpart of the
// browser's localStorage. Get returns ErrKeyNotFound for absent keys.
type Blob interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Close() error
}

var validKey = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

func checkKey(key string) error {
	if !validKey.MatchString(key) {
		return &StoreError{Message: "invalid storage key: " + key}
	}
	return nil
}

// =============================================================================
// FILE BLOB
// =============================================================================

// FileBlob stores each key as <dir>/<key>.json, written atomically so a
// crash mid-write leaves either the old or the new value on disk.
type FileBlob struct {
	Dir string
}

// NewFileBlob creates a file-backed blob rooted at dir.
func NewFileBlob(dir string) (*FileBlob, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, err
	}
	return &FileBlob{Dir: dir}, nil
}

// Get reads the value stored under key.
func (b *FileBlob) Get(key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(b.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrKeyNotFound
		}
		return nil, err
	}
	return data, nil
}

// Set replaces the value stored under key.
func (b *FileBlob) Set(key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	return util.AtomicWriteFile(b.path(key), value, 0600)
}

// Close is a no-op for files.
func (b *FileBlob) Close() error { return nil }

// Path returns the file that holds key.
func (b *FileBlob) Path(key string) string {
	return b.path(key)
}

func (b *FileBlob) path(key string) string {
	return filepath.Join(b.Dir, key+".json")
}

// =============================================================================
// MEMORY BLOB
// =============================================================================

// MemoryBlob keeps values in memory. Useful for tests and for --ephemeral runs.
type MemoryBlob struct {
	mu     sync.Mutex
	values map[string][]byte
	writes int

	// FailWrites makes Set return ErrWriteFailed when true.
	FailWrites bool
}

// NewMemoryBlob creates an empty in-memory blob.
func NewMemoryBlob() *MemoryBlob {
	return &MemoryBlob{values: make(map[string][]byte)}
}

// Get returns a copy of the stored value.
func (b *MemoryBlob) Get(key string) ([]byte, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.values[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

// Set stores a copy of value.
func (b *MemoryBlob) Set(key string, value []byte) error {
	if err := checkKey(key); err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FailWrites {
		return ErrWriteFailed
	}
	b.values[key] = append([]byte(nil), value...)
	b.writes++
	return nil
}

// Close is a no-op.
func (b *MemoryBlob) Close() error { return nil }

// Writes returns how many successful Set calls were made.
func (b *MemoryBlob) Writes() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.writes
}

// =============================================================================
// BACKEND SELECTION
// =============================================================================

// OpenBlob opens the named backend at path: "file" takes a directory,
// "sqlite" a database file. An empty backend means "file".
func OpenBlob(backend, path string) (Blob, error) {
	switch backend {
	case "", "file":
		return NewFileBlob(path)
	case "sqlite":
		return NewSQLiteBlob(path)
	default:
		return nil, &StoreError{Message: "unknown storage backend: " + backend}
	}
}
