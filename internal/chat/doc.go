// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the assistant exchange and progressive reveal.
//
// Exchange.Send turns one user message into exactly one reply string: the
// server's text, "No response from AI." when the server answered without
// text, or "Error getting response" when the request failed. It never
// returns an error.
//
// A Revealer writes a reply into the last message of a conversation a few
// runes at a time. A reveal belongs to one conversation; when that
// conversation stops being active the remaining text is written at once
// and the reveal ends.
//
// # Usage
//
//	reply := exchange.Send(ctx, text)
//	store.AppendMessage(model.RoleAssistant, "")
//	gen := revealer.Begin(store.ActiveID(), reply)
//	return chat.TickCmd(revealer.Interval(), store.ActiveID(), gen)
package chat
