// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/nexus-campus/nexus-tui/internal/config"
)

const configUsage = "nexus config [show | get <key> | set <key> <value> | path]"

// ErrJSONConfig is returned when asked to save into a --config JSON file.
var ErrJSONConfig = errors.New("nexus writes TOML config only; use a .toml --config file")

// loadConfig reads the --config file, or the default location.
func (e *Env) loadConfig() (*config.Config, error) {
	if e.ConfigFile != "" {
		return config.LoadFromPath(e.ConfigFile)
	}
	return config.Load()
}

// saveConfig writes cfg back where loadConfig reads it.
func (e *Env) saveConfig(cfg *config.Config) error {
	if e.ConfigFile == "" {
		if err := config.EnsureConfigDir(); err != nil {
			return err
		}
		return config.Save(cfg)
	}
	if strings.HasSuffix(e.ConfigFile, ".json") {
		return ErrJSONConfig
	}
	return config.SaveTOML(cfg, e.ConfigFile)
}

// configFile returns the path loadConfig reads.
func (e *Env) configFile() (string, error) {
	if e.ConfigFile != "" {
		return e.ConfigFile, nil
	}
	return config.ConfigPathTOML()
}

// HandleConfig runs `nexus config` subcommands.
func HandleConfig(env *Env, args Args) error {
	switch args.Subcommand {
	case "", "show":
		return configShow(env, args)
	case "get":
		return configGet(env, args)
	case "set":
		return configSet(env, args)
	case "path":
		return configPath(env, args)
	default:
		return &UsageError{Reason: "unknown config command: " + args.Subcommand, Usage: configUsage}
	}
}

type configEntry struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

func configShow(env *Env, args Args) error {
	return OutputJSON(env.Stdout, args.JSON, "config show", func() (interface{}, error) {
		if args.JSON {
			return env.Config, nil
		}
		fmt.Fprintln(env.Stdout, TitleStyle.Render("nexus configuration"))
		fmt.Fprintln(env.Stdout, RenderSeparator())

		section := ""
		for _, key := range config.GetAllKeys() {
			value, err := env.Config.Get(key)
			if err != nil {
				return nil, err
			}
			if head, _, ok := strings.Cut(key, "."); ok && head != section {
				section = head
				fmt.Fprintln(env.Stdout, DimStyle.Render("["+section+"]"))
			}
			fmt.Fprintln(env.Stdout, RenderField(key, formatConfigValue(value)))
		}

		if path, err := env.configFile(); err == nil {
			fmt.Fprintln(env.Stdout, RenderSeparator())
			fmt.Fprintln(env.Stdout, "Config file: "+path)
		}
		return nil, nil
	})
}

func formatConfigValue(v interface{}) string {
	if s, ok := v.(string); ok && s == "" {
		return "(not set)"
	}
	return fmt.Sprint(v)
}

func configGet(env *Env, args Args) error {
	return OutputJSON(env.Stdout, args.JSON, "config get", func() (interface{}, error) {
		if args.ConfigKey == "" {
			return nil, ErrMissingArgument("key", "nexus config get <key>")
		}
		value, err := env.Config.Get(args.ConfigKey)
		if err != nil {
			return nil, &UsageError{Reason: err.Error(), Usage: "keys: " + strings.Join(config.GetAllKeys(), ", ")}
		}
		if !args.JSON {
			fmt.Fprintln(env.Stdout, fmt.Sprint(value))
		}
		return configEntry{Key: args.ConfigKey, Value: value}, nil
	})
}

// configSet changes one key in the saved file. It starts from a fresh load,
// so an --api override for this run is not written back.
func configSet(env *Env, args Args) error {
	return OutputJSON(env.Stdout, args.JSON, "config set", func() (interface{}, error) {
		const usage = "nexus config set <key> <value>"
		if args.ConfigKey == "" {
			return nil, ErrMissingArgument("key", usage)
		}
		if args.ConfigVal == "" {
			return nil, ErrMissingArgument("value", usage)
		}

		cfg, err := env.loadConfig()
		if err != nil {
			return nil, fmt.Errorf("current config is invalid, fix it first: %w", err)
		}
		if err := cfg.Set(args.ConfigKey, args.ConfigVal); err != nil {
			return nil, &UsageError{Reason: err.Error(), Usage: usage}
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		if err := env.saveConfig(cfg); err != nil {
			return nil, err
		}

		value, _ := cfg.Get(args.ConfigKey)
		if !args.JSON && !args.Quiet {
			fmt.Fprintf(env.Stdout, "%s %s = %v\n", SuccessStyle.Render("[OK]"), args.ConfigKey, value)
		}
		return configEntry{Key: args.ConfigKey, Value: value}, nil
	})
}

func configPath(env *Env, args Args) error {
	return OutputJSON(env.Stdout, args.JSON, "config path", func() (interface{}, error) {
		path, err := env.configFile()
		if err != nil {
			return nil, err
		}
		_, statErr := os.Stat(path)
		exists := statErr == nil
		if !args.JSON {
			fmt.Fprintln(env.Stdout, path)
			if !exists && !args.Quiet {
				fmt.Fprintln(env.Stderr, DimStyle.Render("(file does not exist, defaults are in use)"))
			}
		}
		return map[string]interface{}{"path": path, "exists": exists}, nil
	})
}
