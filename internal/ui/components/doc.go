// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides shared UI pieces for the nexus TUI.

  - Markdown: glamour renderer for assistant messages, cached per width
  - Confirm: yes/no dialog used before destructive actions
  - StatusBar: bottom line with role, status text and key hints
  - KeyValues / List: aligned tables for dashboards

Components render strings; the page models own state and input handling.
*/
package components
