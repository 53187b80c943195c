// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the local chat session store for the nexus client.
package storage

// =============================================================================
// ERRORS
// =============================================================================

// ErrKeyNotFound is returned by Blob.Get when nothing is stored under a key.
var ErrKeyNotFound = &StoreError{Message: "key not found"}

// ErrConversationNotFound is returned when a conversation id is unknown.
var ErrConversationNotFound = &StoreError{Message: "conversation not found"}

// ErrWriteFailed is returned by MemoryBlob when FailWrites is set.
var ErrWriteFailed = &StoreError{Message: "write failed"}

// StoreError represents a storage-related error.
// It implements the error interface and can be compared using errors.Is.
type StoreError struct {
	Message string
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return e.Message
}

// Is implements errors.Is support for comparing store errors.
func (e *StoreError) Is(target error) bool {
	t, ok := target.(*StoreError)
	if !ok {
		return false
	}
	return e.Message == t.Message
}
