// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// session_cmd.go - login, logout, and whoami commands.
package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/shahryar908/agentify-sub000/internal/session"
)

// HandleLogin prompts for credentials and stores the local session.
func HandleLogin(args Args) error {
	if err := RequiresTTY("login"); err != nil {
		return err
	}

	manager, err := session.NewManager()
	if err != nil {
		return fmt.Errorf("cannot open session store: %w", err)
	}

	email := args.Options["email"]
	name := args.Options["name"]

	reader := bufio.NewReader(os.Stdin)
	if email == "" {
		fmt.Print("Email: ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading email: %w", err)
		}
		email = strings.TrimSpace(line)
	}
	if name == "" {
		fmt.Print("Name (optional): ")
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("reading name: %w", err)
		}
		name = strings.TrimSpace(line)
	}

	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return fmt.Errorf("reading password: %w", err)
	}

	sess, err := manager.Login(name, email, string(password))
	if err != nil {
		if errors.Is(err, session.ErrBadCredentials) {
			return fmt.Errorf("password does not match the existing session for %s", email)
		}
		return err
	}

	fmt.Printf("%s %s\n", SuccessStyle.Render("Logged in as"), sess.User.Name)
	return nil
}

// HandleLogout removes the stored session.
func HandleLogout(args Args) error {
	manager, err := session.NewManager()
	if err != nil {
		return fmt.Errorf("cannot open session store: %w", err)
	}
	if !manager.LoggedIn() {
		fmt.Println(DimStyle.Render("Not logged in."))
		return nil
	}
	if err := manager.Logout(); err != nil {
		return err
	}
	fmt.Println(SuccessStyle.Render("Logged out."))
	return nil
}

// HandleWhoami prints the current session, if any.
func HandleWhoami(args Args) error {
	manager, err := session.NewManager()
	if err != nil {
		return fmt.Errorf("cannot open session store: %w", err)
	}

	sess, err := manager.Current()
	if err != nil {
		if errors.Is(err, session.ErrNotLoggedIn) {
			fmt.Println(DimStyle.Render("Not logged in. Run: agentify login"))
			return nil
		}
		return err
	}

	if args.JSON {
		// The auth token and credential hash stay local.
		return json.NewEncoder(os.Stdout).Encode(sess.User)
	}

	fmt.Printf("%s%s\n", LabelStyle.Render("Name"), sess.User.Name)
	fmt.Printf("%s%s\n", LabelStyle.Render("Email"), sess.User.Email)
	fmt.Printf("%s%s\n", LabelStyle.Render("Since"), sess.CreatedAt.Format("2006-01-02 15:04"))
	return nil
}
