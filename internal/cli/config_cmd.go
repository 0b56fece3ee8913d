// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - config show/get/set/path commands.
package cli

import (
	"fmt"
	"strings"

	"github.com/shahryar908/agentify-sub000/internal/config"
)

// HandleConfig dispatches the "config" subcommands.
func HandleConfig(args Args) error {
	cfg := config.Global()

	switch strings.ToLower(args.Subcommand) {
	case "", "show", "list":
		return configShow(cfg)
	case "get":
		if args.ConfigKey == "" {
			return fmt.Errorf("usage: agentify config get <key>")
		}
		value, err := cfg.Get(args.ConfigKey)
		if err != nil {
			return err
		}
		fmt.Println(value)
		return nil
	case "set":
		if args.ConfigKey == "" {
			return fmt.Errorf("usage: agentify config set <key> <value>")
		}
		if err := cfg.Set(args.ConfigKey, args.ConfigVal); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("rejected: %w", err)
		}
		if err := config.Save(cfg); err != nil {
			return err
		}
		fmt.Printf("%s %s = %s\n", SuccessStyle.Render("Set"), args.ConfigKey, args.ConfigVal)
		return nil
	case "path":
		path, err := config.ConfigPath()
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	default:
		return fmt.Errorf("unknown config subcommand %q, try: show, get, set, path", args.Subcommand)
	}
}

func configShow(cfg *config.Config) error {
	fmt.Println(TitleStyle.Render("Configuration"))
	for _, key := range config.AllKeys() {
		value, err := cfg.Get(key)
		if err != nil {
			continue
		}
		fmt.Printf("%s%s\n", LabelStyle.Render(key), value)
	}
	return nil
}
