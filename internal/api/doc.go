// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the HTTP client for the NEXUS REST API.
//
// Every call takes a context and is bounded by the client timeout (15s by
// default). Requests carry "Authorization: Bearer <token>" only when the
// TokenSource yields a usable token. There are no automatic retries.
//
// # Errors
//
//   - Transport failures and timeouts wrap ErrTransport.
//   - Non-2xx responses become *APIError with the server's "detail" text.
//   - Detail(err, fallback) extracts the text to show the user.
//
// # Usage
//
//	client := api.NewClient(cfg.API.BaseURL).
//	    WithTimeout(cfg.Timeout()).
//	    WithTokenSource(sess)
//	err := client.MarkAttendance(ctx, api.MarkAttendanceRequest{DigitCode: "123456"})
//	msg := api.Detail(err, "Failed to mark attendance")
package api
