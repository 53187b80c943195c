// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for nexus.
//
// # Key Types
//
//   - Config: Main configuration structure with all settings
//   - APIConfig: REST API base URL and timeout
//   - ChatConfig: chat storage backend and progressive reveal pacing
//   - AttendanceConfig: scan rate, success close delay, QR URL base
//
// # Configuration Precedence
//
// Configuration is loaded from (in order of precedence):
//   - Environment variables (NEXUS_*), including ones set by .env files
//   - ~/.nexus/config.toml
//   - ~/.nexus/config.json
//   - Built-in defaults
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	client := api.NewClient(cfg.API.BaseURL).WithTimeout(cfg.Timeout())
package config
