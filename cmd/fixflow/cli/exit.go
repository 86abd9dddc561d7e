// Copyright 2026 The Fixflow Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import "fmt"

// ExitError signals a non-zero exit code without printing an extra
// error message. When a command returns an ExitError, main exits with
// the given code without printing the error string; the command is
// expected to have already written its own output.
type ExitError struct {
	Code int
}

func (err *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", err.Code)
}

// ExitCode returns the exit code. main checks for this interface on
// returned errors to distinguish "handled non-zero exit" from
// "unexpected error to display".
func (err *ExitError) ExitCode() int {
	return err.Code
}

// UsageError marks an error as caused by invalid command usage:
// missing arguments, malformed values, contradictory flags. The
// message is shown as-is; commands include a usage hint where one
// helps.
type UsageError struct {
	Message string
}

func (err *UsageError) Error() string {
	return err.Message
}

// Validation builds a UsageError from a format string.
func Validation(format string, args ...any) *UsageError {
	return &UsageError{Message: fmt.Sprintf(format, args...)}
}
