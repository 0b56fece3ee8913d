// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session provides the local mock session for the agentify client.
//
// This is a stand-in for a real auth service: it keeps a user record and a
// random auth token in a JSON file under the config directory. The token
// is opaque and carries no server-side meaning; nothing here is a security
// boundary. The stored credential hash only exists so a re-login with the
// same password can be verified locally.
//
// The file is read and written whole, last-writer-wins. Concurrent
// processes are not coordinated; that is a documented limitation, not a
// bug to fix here.
package session

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/shahryar908/agentify-sub000/internal/util"
)

// sessionFile is the file name under the manager's directory.
const sessionFile = "session.json"

// ErrNotLoggedIn indicates no session is stored.
var ErrNotLoggedIn = errors.New("not logged in")

// ErrBadCredentials indicates a re-login password mismatch.
var ErrBadCredentials = errors.New("invalid credentials")

// =============================================================================
// TYPES
// =============================================================================

// User is the locally stored user record.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Session is the persisted mock session.
type Session struct {
	User      User      `json:"user"`
	AuthToken string    `json:"auth_token"`
	CreatedAt time.Time `json:"created_at"`

	// credentialHash is a bcrypt hash of the login password, kept so a
	// later Login with the same email can verify the password locally.
	CredentialHash string `json:"credential_hash,omitempty"`
}

// Manager loads and stores the mock session.
type Manager struct {
	// Dir is the directory holding the session file.
	// Default: ~/.agentify/
	Dir string
}

// NewManager creates a manager under the user's home directory.
func NewManager() (*Manager, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return NewManagerWithDir(filepath.Join(homeDir, ".agentify"))
}

// NewManagerWithDir creates a manager with a custom directory.
func NewManagerWithDir(dir string) (*Manager, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Manager{Dir: dir}, nil
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Login creates (or re-verifies) the mock session. Any email and password
// are accepted for a fresh login; a login against an existing session for
// the same email must present the original password.
func (m *Manager) Login(name, email, password string) (*Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}

	if existing, err := m.Current(); err == nil && existing.User.Email == email {
		if existing.CredentialHash != "" {
			if err := bcrypt.CompareHashAndPassword([]byte(existing.CredentialHash), []byte(password)); err != nil {
				return nil, ErrBadCredentials
			}
		}
		return existing, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash credential: %w", err)
	}

	if name == "" {
		name = email[:strings.IndexByte(email+"@", '@')]
	}

	sess := &Session{
		User: User{
			ID:    uuid.NewString(),
			Name:  name,
			Email: email,
		},
		AuthToken:      generateToken(),
		CreatedAt:      time.Now(),
		CredentialHash: string(hash),
	}
	if err := m.save(sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Current returns the stored session, or ErrNotLoggedIn.
func (m *Manager) Current() (*Session, error) {
	data, err := os.ReadFile(m.filePath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotLoggedIn
		}
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("corrupt session file: %w", err)
	}
	if sess.AuthToken == "" {
		return nil, ErrNotLoggedIn
	}
	return &sess, nil
}

// Logout removes the stored session. Logging out twice is fine.
func (m *Manager) Logout() error {
	err := os.Remove(m.filePath())
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

// LoggedIn reports whether a session is stored.
func (m *Manager) LoggedIn() bool {
	_, err := m.Current()
	return err == nil
}

func (m *Manager) save(sess *Session) error {
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	return util.AtomicWriteFile(m.filePath(), data, 0600)
}

func (m *Manager) filePath() string {
	return filepath.Join(m.Dir, sessionFile)
}

// generateToken creates the opaque mock auth token.
func generateToken() string {
	b := make([]byte, 24)
	if _, err := rand.Read(b); err != nil {
		return "tok_" + uuid.NewString()
	}
	return "tok_" + hex.EncodeToString(b)
}
