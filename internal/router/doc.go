// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package router decides which page the TUI shows.
//
// Pages form a closed set. Every page is guarded by the roles allowed to
// see it, and Resolve maps a requested page plus the current session role
// to the page that is actually rendered:
//
//	d := router.Resolve(router.PageChat, sess.Role())
//	switch d.Outcome {
//	case router.Render:
//	    // show d.Page
//	case router.NeedLogin:
//	    // show the login form
//	case router.Unauthorized:
//	    // show "Unauthorized" with a way back to router.Home(role)
//	}
package router
