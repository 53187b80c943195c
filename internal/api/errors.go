// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api is the HTTP client for the NEXUS REST API.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrTransport wraps network failures, timeouts and unreadable responses.
	ErrTransport = errors.New("transport error")

	// ErrUnauthorized matches *APIError values with status 401.
	ErrUnauthorized = &APIError{Status: http.StatusUnauthorized}

	// ErrForbidden matches *APIError values with status 403.
	ErrForbidden = &APIError{Status: http.StatusForbidden}
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status int
	// Detail is the server's human-readable reason, "" if none was given.
	Detail string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("API error (HTTP %d): %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("API error (HTTP %d)", e.Status)
}

// Is matches another *APIError by status code.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return t.Status == e.Status
}

// Detail returns the server-provided reason carried by err, or fallback
// when err has none. Transport failures always yield fallback.
func Detail(err error, fallback string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}

// errorBody is the FastAPI error envelope. detail is a string for
// HTTPException and a list of {loc, msg} objects for validation failures.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type validationItem struct {
	Msg string `json:"msg"`
}

// parseDetail pulls the reason out of an error response body.
func parseDetail(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(eb.Detail, &s); err == nil {
		return s
	}

	var items []validationItem
	if err := json.Unmarshal(eb.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}
