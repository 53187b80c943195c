// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage provides the local chat session store for the nexus client.
//
// The store owns an ordered collection of conversations (newest first) and
// the id of the active one. After every mutation the whole collection is
// serialized under a single key of a Blob, the local-storage abstraction;
// it is read back once at startup and the first conversation becomes
// active.
//
// # Key Types
//
//   - ChatStore: the conversation collection and its operations
//   - Blob: key/value durable storage (FileBlob, SQLiteBlob, MemoryBlob)
//   - Change: notification delivered to OnChange observers
//
// # Usage
//
//	blob, err := storage.NewFileBlob(dataDir)
//	store, err := storage.OpenChatStore(blob)
//	store.CreateConversation()
//	store.AppendMessage(model.RoleUser, "What is recursion?")
//
// # Storage Location
//
// With the file backend the collection lives in ~/.nexus/nexus_chats.json;
// with the sqlite backend in the local_storage table of ~/.nexus/nexus.db.
package storage
