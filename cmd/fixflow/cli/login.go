// Copyright 2026 The Fixflow Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/fixflow-project/fixflow/lib/helpdesk"
)

// authTimeout bounds the login and signup round trips. Interactive
// commands should fail fast rather than hang on a dead server.
const authTimeout = 30 * time.Second

// LoginCommand returns the "login" command for signing in to a
// helpdesk deployment. It exchanges email + password for a token
// pair, verifies the session via the current-user endpoint, and
// saves it to the well-known path (~/.config/fixflow/session.json).
// Subsequent commands load this session transparently.
func LoginCommand() *Command {
	var serverURL string
	var passwordFile string

	return &Command{
		Name:    "login",
		Summary: "Sign in and save the session locally",
		Description: `Sign in to a helpdesk deployment and save the session locally.

After login, running "fixflow" opens the ticket browser using the
saved session, no flags needed. The session file is stored at
~/.config/fixflow/session.json (or $FIXFLOW_SESSION_FILE if set, or
under $XDG_CONFIG_HOME) with mode 0600 since it contains an access
token.

The password is prompted interactively unless --password-file points
at a file containing it.`,
		Usage: "fixflow login <email> [flags]",
		Examples: []Example{
			{
				Description: "Sign in interactively (prompts for password)",
				Command:     "fixflow login alice@example.com --server https://helpdesk.example.com/fix-flow-api",
			},
			{
				Description: "Sign in with the server taken from the config file",
				Command:     "fixflow login alice@example.com",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("login", pflag.ContinueOnError)
			flagSet.StringVar(&serverURL, "server", "", "helpdesk base URL (default: \"server\" from the config file)")
			flagSet.StringVar(&passwordFile, "password-file", "", "path to a file containing the password (default: prompt)")
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) < 1 {
				return Validation("email is required\n\nUsage: fixflow login <email> [flags]")
			}
			email := args[0]
			if len(args) > 1 {
				return Validation("unexpected argument: %s", args[1])
			}

			resolvedServer, err := resolveServer(serverURL)
			if err != nil {
				return err
			}

			password, err := readPassword(passwordFile, "Password: ")
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(ctx, authTimeout)
			defer cancel()

			client, err := helpdesk.NewClient(helpdesk.Config{BaseURL: resolvedServer})
			if err != nil {
				return fmt.Errorf("create client: %w", err)
			}

			tokens, err := client.SignIn(ctx, email, password)
			if err != nil {
				if helpdesk.IsAuthFailure(err) {
					return fmt.Errorf("invalid credentials for %s", email)
				}
				return fmt.Errorf("login failed: %w", err)
			}

			return saveVerifiedSession(ctx, client, resolvedServer, email, tokens)
		},
	}
}

// saveVerifiedSession verifies a fresh token pair against the
// current-user endpoint and writes the session file. Shared by login
// and signup so both fail loudly instead of persisting a token the
// server won't accept.
func saveVerifiedSession(ctx context.Context, client *helpdesk.Client, serverURL, email string, tokens *helpdesk.Tokens) error {
	user, err := client.WithToken(tokens.AccessToken).CurrentUser(ctx)
	if err != nil {
		return fmt.Errorf("session verification failed: %w", err)
	}

	session := &Session{
		UserID:       tokens.UserID,
		Email:        email,
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
		ServerURL:    serverURL,
	}
	if err := SaveSession(session); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	fmt.Fprintf(os.Stderr, "Signed in as %s (%s)\n", user.Username, user.Role.Label())
	fmt.Fprintf(os.Stderr, "Session saved to %s\n", SessionFilePath())
	return nil
}

// resolveServer picks the helpdesk base URL: the --server flag wins,
// then the config file's "server" entry.
func resolveServer(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	config, err := LoadConfig()
	if err != nil {
		return "", err
	}
	if config.Server != "" {
		return config.Server, nil
	}
	return "", Validation("server URL required: pass --server or set \"server\" in %s", ConfigFilePath())
}

// readPassword reads a password for login or signup. If passwordFile
// is empty or "-", prompts on the terminal with echo disabled.
// Otherwise reads the file, stripping trailing newlines (common with
// echo/printf pipelines).
func readPassword(passwordFile, prompt string) (string, error) {
	if passwordFile != "" && passwordFile != "-" {
		data, err := os.ReadFile(passwordFile)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", passwordFile, err)
		}
		for len(data) > 0 && (data[len(data)-1] == '\n' || data[len(data)-1] == '\r') {
			data = data[:len(data)-1]
		}
		if len(data) == 0 {
			return "", Validation("file %s is empty", passwordFile)
		}
		return string(data), nil
	}

	stdinFileDescriptor := int(os.Stdin.Fd())
	if !term.IsTerminal(stdinFileDescriptor) {
		return "", Validation("no terminal available for interactive password prompt (use --password-file)")
	}

	fmt.Fprint(os.Stderr, prompt)
	passwordBytes, err := term.ReadPassword(stdinFileDescriptor)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(passwordBytes), nil
}
