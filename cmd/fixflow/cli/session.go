// Copyright 2026 The Fixflow Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Session holds the saved sign-in state for the helpdesk service.
// Stored at the well-known path returned by SessionFilePath and
// loaded automatically by commands that require authentication (the
// ticket browser, whoami). Created by "fixflow login" or
// "fixflow signup", cleared by "fixflow logout".
type Session struct {
	// UserID is the numeric account id on the helpdesk service.
	UserID int `json:"user_id"`

	// Email is the address the session was signed in with. Shown in
	// status output so the operator can tell which account is active.
	Email string `json:"email"`

	// AccessToken is the bearer token sent on every authenticated
	// request.
	AccessToken string `json:"access_token"`

	// RefreshToken is stored alongside the access token. The service
	// exposes no refresh endpoint yet; an expired access token means
	// signing in again.
	RefreshToken string `json:"refresh_token,omitempty"`

	// ServerURL is the base URL of the helpdesk deployment the
	// tokens belong to. Kept in the session so the browser talks to
	// the same server the login went to.
	ServerURL string `json:"server_url"`
}

// SessionFilePath returns the path to the session file. Checks the
// FIXFLOW_SESSION_FILE environment variable first, then falls back
// to ~/.config/fixflow/session.json.
func SessionFilePath() string {
	if envPath := os.Getenv("FIXFLOW_SESSION_FILE"); envPath != "" {
		return envPath
	}

	configDirectory := os.Getenv("XDG_CONFIG_HOME")
	if configDirectory == "" {
		homeDirectory, err := os.UserHomeDir()
		if err != nil {
			// Fallback, should rarely happen.
			return filepath.Join("/tmp", "fixflow-session.json")
		}
		configDirectory = filepath.Join(homeDirectory, ".config")
	}
	return filepath.Join(configDirectory, "fixflow", "session.json")
}

// LoadSession reads the session from the well-known path. Returns a
// clear error directing the user to "fixflow login" if no session
// exists.
func LoadSession() (*Session, error) {
	return LoadSessionFrom(SessionFilePath())
}

// LoadSessionFrom reads a session from a specific file path.
func LoadSessionFrom(path string) (*Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("no session found at %s: run \"fixflow login\" first", path)
		}
		return nil, fmt.Errorf("reading session file %s: %w", path, err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("parsing session file %s: %w", path, err)
	}

	if session.AccessToken == "" {
		return nil, fmt.Errorf("session file %s has no access_token", path)
	}
	if session.ServerURL == "" {
		return nil, fmt.Errorf("session file %s has no server_url", path)
	}

	return &session, nil
}

// SaveSession writes a session to the well-known path. Creates the
// parent directory with mode 0700 if it doesn't exist. The file is
// written with mode 0600 (owner-only read/write) since it contains
// an access token.
func SaveSession(session *Session) error {
	return SaveSessionTo(session, SessionFilePath())
}

// SaveSessionTo writes a session to a specific file path.
func SaveSessionTo(session *Session, path string) error {
	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling session: %w", err)
	}
	data = append(data, '\n')

	directory := filepath.Dir(path)
	if err := os.MkdirAll(directory, 0700); err != nil {
		return fmt.Errorf("creating session directory %s: %w", directory, err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing session file %s: %w", path, err)
	}
	return nil
}

// ClearSession removes the session file at the well-known path.
// Returns (false, nil) if there was no session to remove.
func ClearSession() (bool, error) {
	return ClearSessionAt(SessionFilePath())
}

// ClearSessionAt removes the session file at a specific path.
func ClearSessionAt(path string) (bool, error) {
	err := os.Remove(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("removing session file %s: %w", path, err)
	}
	return true, nil
}
