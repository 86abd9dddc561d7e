// Copyright 2026 The Fixflow Authors
// SPDX-License-Identifier: Apache-2.0

// Command fixflow is a terminal client for the fix-flow helpdesk
// service. Run with no arguments it opens the ticket browser;
// subcommands manage the saved session.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/fixflow-project/fixflow/cmd/fixflow/cli"
	"github.com/fixflow-project/fixflow/lib/helpdesk"
	"github.com/fixflow-project/fixflow/lib/ticketui"
	"github.com/fixflow-project/fixflow/lib/tui"
	"github.com/fixflow-project/fixflow/lib/version"
)

func main() {
	if err := run(); err != nil {
		// Commands that print their own output return an ExitError
		// with the desired exit code. Don't print a redundant
		// "error:" line for those.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return rootCommand().Execute(context.Background(), os.Args[1:])
}

func rootCommand() *cli.Command {
	var logFile string

	root := &cli.Command{
		Name:    "fixflow",
		Summary: "Terminal client for the fix-flow helpdesk",
		Description: `fixflow: a terminal client for the fix-flow helpdesk service.

Run with no arguments to open the ticket browser using the saved
session. Employees see their own tickets and can open new ones;
support staff see every ticket and work the queue.`,
		Usage: "fixflow [command] [flags]",
		Examples: []cli.Example{
			{
				Description: "Sign in once, then browse",
				Command:     "fixflow login alice@example.com",
			},
			{
				Description: "Open the ticket browser",
				Command:     "fixflow",
			},
			{
				Description: "Check which account is active",
				Command:     "fixflow whoami",
			},
		},
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("fixflow", pflag.ContinueOnError)
			flagSet.StringVar(&logFile, "log-output", "", "write JSON logs to this file instead of the in-app notice bar")
			return flagSet
		},
		Run: func(ctx context.Context, args []string) error {
			if len(args) > 0 {
				return fmt.Errorf("unknown command %q\n\nRun 'fixflow --help' for usage.", args[0])
			}
			return runBrowser(ctx, logFile)
		},
	}

	root.Subcommands = []*cli.Command{
		cli.LoginCommand(),
		cli.SignupCommand(),
		cli.LogoutCommand(),
		cli.WhoAmICommand(),
		{
			Name:    "version",
			Summary: "Print version information",
			Run: func(_ context.Context, _ []string) error {
				fmt.Printf("fixflow %s\n", version.Full())
				return nil
			},
		},
	}
	return root
}

// runBrowser opens the full-screen ticket browser. The saved session
// is verified against the current-user endpoint before the terminal
// is put into the alternate screen, so auth problems surface as a
// plain error message instead of a broken UI.
func runBrowser(ctx context.Context, logOutputFlag string) error {
	config, err := cli.LoadConfig()
	if err != nil {
		return err
	}
	session, err := cli.LoadSession()
	if err != nil {
		return err
	}

	// Logs go to the in-app notice bar by default. Writing to stderr
	// would tear the alternate-screen UI, so a file is the only other
	// destination.
	logFile := logOutputFlag
	if logFile == "" {
		logFile = config.LogFile
	}
	var noticeHandler *ticketui.TUILogHandler
	if logFile != "" {
		file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer file.Close()
		slog.SetDefault(slog.New(slog.NewJSONHandler(file, nil)))
	} else {
		noticeHandler = ticketui.NewTUILogHandler(slog.LevelInfo)
		slog.SetDefault(slog.New(noticeHandler))
	}

	client, err := helpdesk.NewClient(helpdesk.Config{
		BaseURL: session.ServerURL,
		Token:   session.AccessToken,
	})
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	verifyCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	user, err := client.CurrentUser(verifyCtx)
	cancel()
	if err != nil {
		if helpdesk.IsAuthFailure(err) {
			return fmt.Errorf("session for %s is no longer valid: run \"fixflow login\" again", session.Email)
		}
		return fmt.Errorf("cannot reach %s: %w", session.ServerURL, err)
	}

	model := ticketui.NewModel(ticketui.NewClientSource(client), user.Role, tui.DefaultTheme)
	program := tea.NewProgram(model, tea.WithAltScreen())
	if noticeHandler != nil {
		noticeHandler.SetProgram(program)
	}

	_, err = program.Run()
	return err
}
