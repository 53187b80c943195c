// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package attendance implements the attendance capture flow.
//
// A Capture is a small state machine for one attendance modal:
//
//	idle ──StartScanning──▶ scanning
//	idle/scanning ──Scanned(url with ?session=)──▶ submitting
//	idle/scanning ──SubmitManual(6 digits)──▶ submitting
//	submitting ──Resolve(nil)──▶ success ──(close delay)──▶ closed
//	submitting ──Resolve(err)──▶ error ──Acknowledge──▶ idle or scanning
//
// Input arriving while submitting or after success is rejected with
// ErrBusy, which is what keeps one scan from producing two submissions.
//
// Scanned text comes from a Scanner: PollScanner polls a camera Decoder at
// a fixed frame rate, LineScanner reads text typed by a USB/HID reader or
// printed by a decoder process.
package attendance
