// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session holds the authenticated user's session for nexus.
//
// A Session is the single source of the bearer token and role. It moves
// between two states only through Login and Logout, and is persisted to
// ~/.nexus/session.json with 0600 permissions so CLI commands and the TUI
// share one login.
//
// # Key Types
//
//   - Session: token, role and mobile number with Login/Logout transitions
//   - Claims: role, user id, branch and expiry read from the access token
//   - Watcher: fsnotify watcher that reloads the session when another
//     process logs in or out
//
// # Usage
//
//	sess, err := session.Open(path)
//	if err := sess.Login(resp.AccessToken, session.Role(resp.Role), mobile); err != nil {
//	    return err
//	}
//	if tok, ok := sess.BearerToken(); ok {
//	    req.Header.Set("Authorization", "Bearer "+tok)
//	}
package session
