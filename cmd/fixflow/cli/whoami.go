// Copyright 2026 The Fixflow Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/fixflow-project/fixflow/lib/helpdesk"
)

// WhoAmICommand returns the "whoami" command. It loads the saved
// session and asks the server who the token belongs to, which makes
// it double as a session health check: an expired token surfaces
// here rather than inside the ticket browser.
func WhoAmICommand() *Command {
	return &Command{
		Name:    "whoami",
		Summary: "Show the signed-in account",
		Usage:   "fixflow whoami",
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return Validation("unexpected argument: %s", args[0])
			}

			session, err := LoadSession()
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(ctx, authTimeout)
			defer cancel()

			client, err := helpdesk.NewClient(helpdesk.Config{
				BaseURL: session.ServerURL,
				Token:   session.AccessToken,
			})
			if err != nil {
				return fmt.Errorf("create client: %w", err)
			}

			user, err := client.CurrentUser(ctx)
			if err != nil {
				if helpdesk.IsAuthFailure(err) {
					fmt.Fprintf(os.Stderr, "session for %s is no longer valid: run \"fixflow login\" again\n", session.Email)
					return &ExitError{Code: 1}
				}
				return err
			}

			fmt.Printf("%s <%s>\n", user.Username, user.Email)
			fmt.Printf("role:   %s\n", user.Role.Label())
			fmt.Printf("server: %s\n", session.ServerURL)
			return nil
		},
	}
}
