// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared by the nexus client packages.
//
// # Key Functions
//
// String Utilities:
//   - FirstRunes: UTF-8 safe prefix without ellipsis (conversation titles)
//   - TruncateRunes: UTF-8 safe truncation with ellipsis
//   - TruncateWidth: display-width truncation for terminal columns
//   - DigitsOnly: strips everything but ASCII digits
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
//
// # Usage
//
//	title := util.FirstRunes(firstMessage, 30)
//	cell := util.TruncateWidth(title, 24)
//	err := util.AtomicWriteFile(path, data, 0600)
package util
