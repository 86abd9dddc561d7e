// Copyright 2026 The Fixflow Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"context"
	"fmt"
	"os"
)

// LogoutCommand returns the "logout" command. Logout is purely
// local: the service has no token revocation endpoint, so clearing
// the session file is all there is to do.
func LogoutCommand() *Command {
	return &Command{
		Name:    "logout",
		Summary: "Remove the saved session",
		Usage:   "fixflow logout",
		Run: func(_ context.Context, args []string) error {
			if len(args) > 0 {
				return Validation("unexpected argument: %s", args[0])
			}

			path := SessionFilePath()
			removed, err := ClearSessionAt(path)
			if err != nil {
				return err
			}
			if !removed {
				fmt.Fprintf(os.Stderr, "No session at %s, nothing to do\n", path)
				return nil
			}
			fmt.Fprintf(os.Stderr, "Removed session %s\n", path)
			return nil
		},
	}
}
