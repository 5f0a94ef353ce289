// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

// Package main provides the CLI entry point for policyctl.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/janderssonse/policyctl/internal/cli"
	"github.com/janderssonse/policyctl/internal/domain"
)

func main() {
	os.Exit(run())
}

func run() int {
	// One policyctl at a time: concurrent runs would interleave prompts and
	// race on the session state file.
	lockPath := filepath.Join(os.TempDir(), "policyctl.lock")
	lock := flock.New(lockPath)

	locked, err := lock.TryLock()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to acquire process lock: %v\n", err)

		return domain.ExitSystemError
	}

	if !locked {
		fmt.Fprintf(os.Stderr, "Another policyctl instance is already running\n")

		return domain.ExitGeneralError
	}

	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to release process lock: %v\n", unlockErr)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewCLI().Run(ctx, os.Args); err != nil {
		exitErr := &domain.ExitError{}
		if errors.As(err, &exitErr) {
			fmt.Fprintf(os.Stderr, "%s\n", exitErr.Message)

			return exitErr.Code
		}

		if errors.Is(err, context.Canceled) {
			return domain.ExitInterruptError
		}

		fmt.Fprintf(os.Stderr, "Unexpected error: %v\n", err)

		return domain.ExitGeneralError
	}

	return domain.ExitSuccess
}
