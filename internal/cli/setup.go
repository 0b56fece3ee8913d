// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// setup.go - First-run interactive configuration wizard.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/shahryar908/agentify-sub000/internal/api"
	"github.com/shahryar908/agentify-sub000/internal/config"
)

// HandleSetup walks through the common settings and saves them.
func HandleSetup(args Args) error {
	if err := RequiresTTY("setup"); err != nil {
		return err
	}

	cfg := config.Global()
	reader := bufio.NewReader(os.Stdin)

	fmt.Println(TitleStyle.Render("Agentify Setup"))
	fmt.Println(DimStyle.Render("Press Enter to keep the current value."))
	fmt.Println()

	baseURL, err := promptValue(reader, "Backend URL", cfg.API.BaseURL)
	if err != nil {
		return err
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return fmt.Errorf("invalid backend URL %q: %w", baseURL, err)
	}
	cfg.API.BaseURL = baseURL

	agentType, err := promptChoice(reader, "Default agent type", cfg.Chat.DefaultAgentType,
		[]string{api.AgentTypeMath, api.AgentTypeIntelligent, api.AgentTypeAutonomous})
	if err != nil {
		return err
	}
	cfg.Chat.DefaultAgentType = agentType

	theme, err := promptChoice(reader, "Theme", cfg.UI.Theme,
		[]string{"auto", "dark", "light"})
	if err != nil {
		return err
	}
	cfg.UI.Theme = theme

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := config.Save(cfg); err != nil {
		return err
	}

	path, _ := config.ConfigPath()
	fmt.Println()
	fmt.Printf("%s %s\n", SuccessStyle.Render("Saved:"), path)

	// A quick reachability probe so a typo'd URL surfaces now, not on
	// the first chat.
	fmt.Fprint(os.Stderr, "Checking backend... ")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	client := api.NewClient(cfg.API.BaseURL)
	if _, err := client.Health(ctx); err != nil {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("unreachable"))
		fmt.Fprintln(os.Stderr, DimStyle.Render("The backend is not responding. Settings were saved anyway."))
		return nil
	}
	fmt.Fprintln(os.Stderr, SuccessStyle.Render("ok"))
	return nil
}

func promptValue(reader *bufio.Reader, label, current string) (string, error) {
	fmt.Printf("%s [%s]: ", label, current)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("reading input: %w", err)
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return current, nil
	}
	return line, nil
}

func promptChoice(reader *bufio.Reader, label, current string, choices []string) (string, error) {
	for {
		value, err := promptValue(reader,
			fmt.Sprintf("%s (%s)", label, strings.Join(choices, "/")), current)
		if err != nil {
			return "", err
		}
		value = strings.ToLower(value)
		for _, c := range choices {
			if value == c {
				return value, nil
			}
		}
		fmt.Println(WarningStyle.Render("Pick one of: " + strings.Join(choices, ", ")))
	}
}
