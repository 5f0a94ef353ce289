// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import (
	"errors"
	"fmt"
)

// Precondition errors. They are reported once and abort the command quietly.
var (
	ErrNoWorkspace      = errors.New("no workspace folder is open")
	ErrToolNotInstalled = errors.New("policy CLI is not installed")
	ErrNotConfigured    = errors.New("workspace is not linked to a system")
)

// ErrUnattributed is a programming error: a tool invocation that cannot be
// tied to a named user-facing command.
var ErrUnattributed = errors.New("tool invocation has no command attribution")

// ErrNoTerminal is returned by interactive prompts without a TTY.
var ErrNoTerminal = errors.New("interactive prompts require a terminal")

// IsPrecondition reports whether err is an unmet environment precondition.
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrNoWorkspace) ||
		errors.Is(err, ErrToolNotInstalled) ||
		errors.Is(err, ErrNotConfigured)
}

// Exit codes following Unix conventions.
const (
	ExitSuccess        = 0  // Command completed successfully
	ExitGeneralError   = 1  // General errors
	ExitUsageError     = 2  // Invalid arguments/usage
	ExitConfigError    = 3  // Configuration issues
	ExitSystemError    = 12 // Lock or filesystem issues
	ExitInterruptError = 14 // User Ctrl+C interrupt
)

// ExitError provides specific exit codes for different failure modes.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

// NewExitError creates an ExitError with the specified code and message.
func NewExitError(code int, message string, err error) *ExitError {
	return &ExitError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}
