// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for nexus.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// .env files, environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.nexus/config.toml
//   - ~/.nexus/config.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/nexus-campus/nexus-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete nexus configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// REST API connection
	API APIConfig `toml:"api" json:"api"`

	// Chat assistant and local chat storage
	Chat ChatConfig `toml:"chat" json:"chat"`

	// Attendance capture
	Attendance AttendanceConfig `toml:"attendance" json:"attendance"`

	// Terminal UI
	UI UIConfig `toml:"ui" json:"ui"`
}

// APIConfig contains REST API connection settings.
type APIConfig struct {
	// BaseURL is the NEXUS API root, e.g. http://localhost:8000
	BaseURL string `toml:"base_url" json:"base_url"`
	// TimeoutSecs is the per-request timeout.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
}

// ChatConfig contains chat assistant settings.
type ChatConfig struct {
	// Backend selects local storage: "file" or "sqlite"
	Backend string `toml:"backend" json:"backend"`
	// StorePath overrides the storage location (directory for file, db file for sqlite).
	StorePath string `toml:"store_path" json:"store_path"`
	// RevealChunk is how many runes each reveal step adds.
	RevealChunk int `toml:"reveal_chunk" json:"reveal_chunk"`
	// RevealIntervalMs is the delay between reveal steps.
	RevealIntervalMs int `toml:"reveal_interval_ms" json:"reveal_interval_ms"`
	// TitleMax is the sidebar title width in cells.
	TitleMax int `toml:"title_max" json:"title_max"`
}

// AttendanceConfig contains attendance capture settings.
type AttendanceConfig struct {
	// CloseDelayMs is how long the success state is shown before closing.
	CloseDelayMs int `toml:"close_delay_ms" json:"close_delay_ms"`
	// ScanFPS is how often the camera decoder is polled.
	ScanFPS int `toml:"scan_fps" json:"scan_fps"`
	// ScanURLBase prefixes the session code in generated QR codes.
	ScanURLBase string `toml:"scan_url_base" json:"scan_url_base"`
	// DecodeCmd is run per camera frame by the TUI scanner, e.g.
	// "zbarimg --raw -q /dev/shm/frame.png". Empty disables scanning.
	DecodeCmd string `toml:"decode_cmd" json:"decode_cmd"`
}

// UIConfig contains UI-related configuration.
type UIConfig struct {
	// Theme is "dark", "light", or "auto"
	Theme string `toml:"theme" json:"theme"`
	// Markdown renders assistant replies with glamour when true.
	Markdown bool `toml:"markdown" json:"markdown"`
}

// Storage backends.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Version: "1",
		API: APIConfig{
			BaseURL:     "http://localhost:8000",
			TimeoutSecs: 15,
		},
		Chat: ChatConfig{
			Backend:          BackendFile,
			RevealChunk:      8,
			RevealIntervalMs: 4,
			TitleMax:         28,
		},
		Attendance: AttendanceConfig{
			CloseDelayMs: 1200,
			ScanFPS:      10,
			ScanURLBase:  "http://localhost:3000/student/attendance",
		},
		UI: UIConfig{
			Theme:    "auto",
			Markdown: true,
		},
	}
}

// =============================================================================
// DERIVED VALUES
// =============================================================================

// Timeout returns the API request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSecs) * time.Second
}

// RevealInterval returns the delay between progressive reveal steps.
func (c *Config) RevealInterval() time.Duration {
	return time.Duration(c.Chat.RevealIntervalMs) * time.Millisecond
}

// CloseDelay returns how long a successful attendance mark stays visible.
func (c *Config) CloseDelay() time.Duration {
	return time.Duration(c.Attendance.CloseDelayMs) * time.Millisecond
}

// ChatStorePath resolves where chats are stored for the configured backend.
func (c *Config) ChatStorePath() (string, error) {
	if c.Chat.StorePath != "" {
		return c.Chat.StorePath, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	if c.Chat.Backend == BackendSQLite {
		return filepath.Join(dir, "nexus.db"), nil
	}
	return dir, nil
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the nexus configuration directory path.
// NEXUS_HOME replaces ~/.nexus when set.
func ConfigDir() (string, error) {
	if home := os.Getenv("NEXUS_HOME"); home != "" {
		return home, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".nexus"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0700)
}

// ensureSecurePermissions tightens config files to 0600.
func ensureSecurePermissions(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if mode := info.Mode().Perm(); mode != 0600 {
		if err := os.Chmod(path, 0600); err != nil {
			return fmt.Errorf("failed to fix insecure permissions (was %o): %w", mode, err)
		}
	}
	return nil
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults. .env files and
// environment overrides are applied last. A file that fails to parse is
// reported alongside the defaults.
func Load() (*Config, error) {
	cfg := Default()
	var loadErr error

	loaded := false
	if tomlPath, err := ConfigPathTOML(); err == nil && fileExists(tomlPath) {
		if err := LoadTOML(cfg, tomlPath); err != nil {
			loadErr = fmt.Errorf("failed to load TOML config: %w", err)
			cfg = Default()
		} else {
			loaded = true
		}
	}
	if !loaded {
		if jsonPath, err := ConfigPathJSON(); err == nil && fileExists(jsonPath) {
			if err := LoadJSON(cfg, jsonPath); err != nil {
				loadErr = fmt.Errorf("failed to load JSON config: %w", err)
				cfg = Default()
			}
		}
	}

	if err := finish(cfg); err != nil {
		return nil, err
	}
	return cfg, loadErr
}

// LoadFromPath loads configuration from a specific file path with full validation.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	if err := finish(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// finish applies .env files, environment overrides, defaults and validation.
func finish(cfg *Config) error {
	LoadDotEnv()
	cfg.ApplyEnvOverrides()
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LoadTOML decodes a TOML file over cfg.
func LoadTOML(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	return nil
}

// LoadJSON decodes a JSON file over cfg.
func LoadJSON(cfg *Config, path string) error {
	if err := ensureSecurePermissions(path); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not ensure secure permissions on %s: %v\n", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	return nil
}

// LoadDotEnv loads ./.env and ~/.nexus/.env into the process environment.
// Variables already set are never overwritten. Missing files are skipped.
func LoadDotEnv() {
	candidates := []string{".env"}
	if dir, err := ConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, ".env"))
	}
	for _, path := range candidates {
		if !fileExists(path) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not load %s: %v\n", path, err)
		}
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save saves the configuration to the default TOML file.
func Save(cfg *Config) error {
	path, err := ConfigPathTOML()
	if err != nil {
		return err
	}
	return SaveTOML(cfg, path)
}

// SaveTOML saves the configuration to a TOML file with 0600 permissions.
func SaveTOML(cfg *Config, path string) error {
	var buf strings.Builder
	buf.WriteString("# nexus configuration file\n")
	buf.WriteString("# Generated by nexus - edit with care\n\n")

	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, []byte(buf.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// ==========================================================================
	// API
	// ==========================================================================

	if err := validateHTTPURL(c.API.BaseURL); err != nil {
		errs = append(errs, ValidationError{Field: "api.base_url", Message: err.Error()})
	}
	if c.API.TimeoutSecs < 1 || c.API.TimeoutSecs > 300 {
		errs = append(errs, ValidationError{
			Field:   "api.timeout_secs",
			Message: fmt.Sprintf("must be between 1 and 300, got %d", c.API.TimeoutSecs),
		})
	}

	// ==========================================================================
	// Chat
	// ==========================================================================

	switch strings.ToLower(c.Chat.Backend) {
	case BackendFile, BackendSQLite:
	default:
		errs = append(errs, ValidationError{
			Field:   "chat.backend",
			Message: fmt.Sprintf("invalid backend '%s', must be one of: file, sqlite", c.Chat.Backend),
		})
	}
	if c.Chat.RevealChunk < 1 {
		errs = append(errs, ValidationError{Field: "chat.reveal_chunk", Message: "must be at least 1"})
	}
	if c.Chat.RevealIntervalMs < 0 || c.Chat.RevealIntervalMs > 1000 {
		errs = append(errs, ValidationError{
			Field:   "chat.reveal_interval_ms",
			Message: fmt.Sprintf("must be between 0 and 1000, got %d", c.Chat.RevealIntervalMs),
		})
	}
	if c.Chat.TitleMax < 8 {
		errs = append(errs, ValidationError{Field: "chat.title_max", Message: "must be at least 8"})
	}

	// ==========================================================================
	// Attendance
	// ==========================================================================

	if c.Attendance.CloseDelayMs < 0 {
		errs = append(errs, ValidationError{Field: "attendance.close_delay_ms", Message: "must not be negative"})
	}
	if c.Attendance.ScanFPS < 1 || c.Attendance.ScanFPS > 60 {
		errs = append(errs, ValidationError{
			Field:   "attendance.scan_fps",
			Message: fmt.Sprintf("must be between 1 and 60, got %d", c.Attendance.ScanFPS),
		})
	}
	if err := validateHTTPURL(c.Attendance.ScanURLBase); err != nil {
		errs = append(errs, ValidationError{Field: "attendance.scan_url_base", Message: err.Error()})
	}

	// ==========================================================================
	// UI
	// ==========================================================================

	switch strings.ToLower(c.UI.Theme) {
	case "dark", "light", "auto":
	default:
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: dark, light, auto", c.UI.Theme),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateHTTPURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid URL: %v", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("URL must use http or https, got '%s'", raw)
	}
	if u.Host == "" {
		return fmt.Errorf("URL has no host: '%s'", raw)
	}
	return nil
}

// SetDefaults fills zero values and normalizes case.
func (c *Config) SetDefaults() {
	d := Default()

	if c.Version == "" {
		c.Version = d.Version
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = d.API.BaseURL
	}
	c.API.BaseURL = strings.TrimRight(c.API.BaseURL, "/")
	if c.API.TimeoutSecs == 0 {
		c.API.TimeoutSecs = d.API.TimeoutSecs
	}

	if c.Chat.Backend == "" {
		c.Chat.Backend = d.Chat.Backend
	}
	c.Chat.Backend = strings.ToLower(c.Chat.Backend)
	if c.Chat.RevealChunk == 0 {
		c.Chat.RevealChunk = d.Chat.RevealChunk
	}
	if c.Chat.TitleMax == 0 {
		c.Chat.TitleMax = d.Chat.TitleMax
	}

	if c.Attendance.ScanFPS == 0 {
		c.Attendance.ScanFPS = d.Attendance.ScanFPS
	}
	if c.Attendance.ScanURLBase == "" {
		c.Attendance.ScanURLBase = d.Attendance.ScanURLBase
	}

	if c.UI.Theme == "" {
		c.UI.Theme = d.UI.Theme
	}
	c.UI.Theme = strings.ToLower(c.UI.Theme)
}

// ApplyEnvOverrides applies environment variable overrides.
//
// Supported variables:
//   - NEXUS_API_URL: overrides api.base_url
//   - NEXUS_TIMEOUT_SECS: overrides api.timeout_secs
//   - NEXUS_CHAT_BACKEND: overrides chat.backend
//   - NEXUS_THEME: overrides ui.theme
//
// NEXUS_HOME is read by ConfigDir.
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("NEXUS_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("NEXUS_TIMEOUT_SECS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			c.API.TimeoutSecs = secs
		}
	}
	if v := os.Getenv("NEXUS_CHAT_BACKEND"); v != "" {
		c.Chat.Backend = v
	}
	if v := os.Getenv("NEXUS_THEME"); v != "" {
		c.UI.Theme = v
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "api.base_url").
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.lookup(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set sets a configuration value using dot notation (e.g., "chat.backend").
func (c *Config) Set(key string, value interface{}) error {
	field, err := c.lookup(key)
	if err != nil {
		return err
	}
	if !field.CanSet() {
		return fmt.Errorf("cannot set field: %s", key)
	}
	return setFieldValue(field, value)
}

func (c *Config) lookup(key string) (reflect.Value, error) {
	if key == "" {
		return reflect.Value{}, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		fieldName := normalizeFieldName(part)
		field := v.FieldByNameFunc(func(name string) bool {
			return strings.EqualFold(name, fieldName)
		})
		if !field.IsValid() {
			return reflect.Value{}, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field, nil
		}
		if field.Kind() != reflect.Struct {
			return reflect.Value{}, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return reflect.Value{}, fmt.Errorf("invalid key: %s", key)
}

// normalizeFieldName converts a snake_case or kebab-case name to its Go field equivalent.
func normalizeFieldName(name string) string {
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '-'
	})

	var result strings.Builder
	for _, part := range parts {
		if len(part) > 0 {
			result.WriteString(strings.ToUpper(string(part[0])))
			result.WriteString(strings.ToLower(part[1:]))
		}
	}
	return result.String()
}

// setFieldValue sets a reflect.Value from an interface{} value with type conversion.
func setFieldValue(field reflect.Value, value interface{}) error {
	if strVal, ok := value.(string); ok {
		switch field.Kind() {
		case reflect.String:
			field.SetString(strVal)
			return nil
		case reflect.Int, reflect.Int64:
			intVal, err := strconv.ParseInt(strVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer value: %v", err)
			}
			field.SetInt(intVal)
			return nil
		case reflect.Bool:
			lower := strings.ToLower(strVal)
			field.SetBool(lower == "1" || lower == "true" || lower == "yes")
			return nil
		}
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return fmt.Errorf("cannot assign nil to %s", field.Type())
	}
	if val.Type().AssignableTo(field.Type()) {
		field.Set(val)
		return nil
	}
	if val.Type().ConvertibleTo(field.Type()) {
		field.Set(val.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", value, field.Type())
}

// GetAllKeys returns all configuration keys in dot notation.
func GetAllKeys() []string {
	return []string{
		"version",
		"api.base_url",
		"api.timeout_secs",
		"chat.backend",
		"chat.store_path",
		"chat.reveal_chunk",
		"chat.reveal_interval_ms",
		"chat.title_max",
		"attendance.close_delay_ms",
		"attendance.scan_fps",
		"attendance.scan_url_base",
		"attendance.decode_cmd",
		"ui.theme",
		"ui.markdown",
	}
}

// String returns the config as indented JSON for debugging.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}
