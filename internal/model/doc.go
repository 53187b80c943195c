// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for chat conversations and
// messages held by the local chat store.
//
// # Key Types
//
//   - Conversation: one chat thread with id, display title and message log
//   - Message: one turn, tagged with a Role and text content
//   - Role: user or assistant
//
// # Title Rules
//
// A new conversation carries DefaultTitle. The first user message appended
// while the title is still the default sets the title to the first
// AutoTitleRunes runes of that message. Renames are trimmed and capped at
// MaxTitleRunes; a blank rename is ignored.
//
// # Usage
//
//	conv := model.NewConversation()
//	conv.Append(model.RoleUser, "What is recursion?")
//	conv.Title // "What is recursion?"
package model
