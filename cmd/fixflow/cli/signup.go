// Copyright 2026 The Fixflow Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/fixflow-project/fixflow/lib/helpdesk"
)

// SignupCommand returns the "signup" command for registering a new
// employee account. The service signs the new account in immediately,
// so signup also saves a session, the same as login.
func SignupCommand() *Command {
	var serverURL string
	var passwordFile string

	return &Command{
		Name:    "signup",
		Summary: "Register a new employee account",
		Description: `Register a new employee account on a helpdesk deployment.

New accounts always get the employee role; support accounts are
provisioned server-side. On success the new account is signed in and
the session saved, exactly as "fixflow login" would.`,
		Usage: "fixflow signup <username> <email> [flags]",
		Examples: []Example{
			{
				Description: "Register and sign in (prompts for password twice)",
				Command:     "fixflow signup alice alice@example.com",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("signup", pflag.ContinueOnError)
			flagSet.StringVar(&serverURL, "server", "", "helpdesk base URL (default: \"server\" from the config file)")
			flagSet.StringVar(&passwordFile, "password-file", "", "path to a file containing the password (default: prompt)")
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) < 2 {
				return Validation("username and email are required\n\nUsage: fixflow signup <username> <email> [flags]")
			}
			username, email := args[0], args[1]
			if len(args) > 2 {
				return Validation("unexpected argument: %s", args[2])
			}

			resolvedServer, err := resolveServer(serverURL)
			if err != nil {
				return err
			}

			password, err := readPassword(passwordFile, "Password: ")
			if err != nil {
				return err
			}
			// Confirm only when the password came from an interactive
			// prompt; a file is already deliberate.
			if passwordFile == "" || passwordFile == "-" {
				confirmation, err := readPassword(passwordFile, "Confirm password: ")
				if err != nil {
					return err
				}
				if confirmation != password {
					return Validation("passwords do not match")
				}
			}

			ctx, cancel := context.WithTimeout(ctx, authTimeout)
			defer cancel()

			client, err := helpdesk.NewClient(helpdesk.Config{BaseURL: resolvedServer})
			if err != nil {
				return fmt.Errorf("create client: %w", err)
			}

			tokens, err := client.SignUp(ctx, username, email, password)
			if err != nil {
				return fmt.Errorf("signup failed: %w", err)
			}

			return saveVerifiedSession(ctx, client, resolvedServer, email, tokens)
		},
	}
}
