// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

// Package runner executes the external policy CLI and classifies its outcome.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"syscall"

	"github.com/janderssonse/policyctl/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Kind classifies a finished process.
type Kind int

const (
	// KindSuccess is exit code 0.
	KindSuccess Kind = iota
	// KindExpected is a non-zero exit whose stderr matched the invocation's
	// expected pattern. The stderr text is data, not a failure.
	KindExpected
	// KindFatal is any other failure.
	KindFatal
)

func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindExpected:
		return "expected-error"
	case KindFatal:
		return "fatal-error"
	default:
		return "unknown"
	}
}

// Invocation describes one process lifecycle.
type Invocation struct {
	Executable string
	Args       []string
	// Stdin is written to the child and the stream closed. A trailing
	// newline is added when missing.
	Stdin string
	Dir   string
	Env   []string
	// ExpectedError turns matching non-zero exits into KindExpected results.
	ExpectedError *regexp.Regexp
}

// Result is the classified outcome of an invocation.
type Result struct {
	Kind     Kind
	Stdout   string
	Stderr   string
	ExitCode int

	fatal *FatalError
}

// Output returns the result payload: stdout on success, stderr for an
// expected error, and "" for a fatal error.
func (r Result) Output() string {
	switch r.Kind {
	case KindSuccess:
		return r.Stdout
	case KindExpected:
		return r.Stderr
	default:
		return ""
	}
}

// Err returns the *FatalError of a fatal result and nil otherwise.
func (r Result) Err() error {
	if r.Kind != KindFatal || r.fatal == nil {
		return nil
	}

	return r.fatal
}

// FatalError carries the captured stderr of a failed process.
type FatalError struct {
	Executable string
	ExitCode   int
	Stderr     string
	Cause      error
}

// Error returns the captured stderr, or a description when stderr was empty.
func (e *FatalError) Error() string {
	if msg := strings.TrimRight(e.Stderr, "\r\n"); msg != "" {
		return msg
	}

	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Executable, e.Cause)
	}

	return fmt.Sprintf("%s exited with code %d", e.Executable, e.ExitCode)
}

func (e *FatalError) Unwrap() error {
	return e.Cause
}

// Executor spawns processes through a domain.ProcessSpawner.
type Executor struct {
	spawner domain.ProcessSpawner
}

// NewExecutor creates an executor over spawner.
func NewExecutor(spawner domain.ProcessSpawner) *Executor {
	return &Executor{spawner: spawner}
}

// LookPath resolves an executable through the spawner.
func (e *Executor) LookPath(name string) (string, error) {
	return e.spawner.LookPath(name)
}

// Execute runs inv to completion. Stdout and stderr are drained by their own
// goroutines and the exit status is collected only after both reach EOF, so
// a child filling one pipe never blocks on the other.
func (e *Executor) Execute(ctx context.Context, inv Invocation) Result {
	proc, err := e.spawner.Spawn(ctx, domain.SpawnRequest{
		Executable: inv.Executable,
		Args:       inv.Args,
		Dir:        inv.Dir,
		Env:        inv.Env,
	})
	if err != nil {
		return fatal(inv.Executable, -1, "", err)
	}

	var stdout, stderr bytes.Buffer

	var g errgroup.Group

	g.Go(func() error {
		return writeStdin(proc.Stdin(), inv.Stdin)
	})
	g.Go(func() error {
		if _, err := io.Copy(&stdout, proc.Stdout()); err != nil {
			return fmt.Errorf("failed to read stdout: %w", err)
		}

		return nil
	})
	g.Go(func() error {
		if _, err := io.Copy(&stderr, proc.Stderr()); err != nil {
			return fmt.Errorf("failed to read stderr: %w", err)
		}

		return nil
	})

	drainErr := g.Wait()
	code, waitErr := proc.Wait()

	result := Result{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: code,
	}

	switch {
	case drainErr != nil:
		return withFatal(result, inv.Executable, drainErr)
	case waitErr != nil:
		return withFatal(result, inv.Executable, waitErr)
	case code == 0:
		result.Kind = KindSuccess

		return result
	case inv.ExpectedError != nil && inv.ExpectedError.MatchString(result.Stderr):
		result.Kind = KindExpected

		return result
	default:
		return withFatal(result, inv.Executable, nil)
	}
}

// terminateStdin makes sure a non-empty payload ends with exactly the
// newline it already had, or one added.
func terminateStdin(payload string) string {
	if payload == "" || strings.HasSuffix(payload, "\n") {
		return payload
	}

	return payload + "\n"
}

func writeStdin(stdin io.WriteCloser, payload string) error {
	if stdin == nil {
		return nil
	}

	payload = terminateStdin(payload)

	var writeErr error
	if payload != "" {
		_, writeErr = io.WriteString(stdin, payload)
	}

	closeErr := stdin.Close()

	// A child that exits without reading its input is not a failure.
	if isClosedPipe(writeErr) {
		writeErr = nil
	}

	if isClosedPipe(closeErr) {
		closeErr = nil
	}

	if writeErr != nil {
		return fmt.Errorf("failed to write stdin: %w", writeErr)
	}

	if closeErr != nil {
		return fmt.Errorf("failed to close stdin: %w", closeErr)
	}

	return nil
}

func isClosedPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE) ||
		errors.Is(err, os.ErrClosed) ||
		errors.Is(err, io.ErrClosedPipe)
}

func fatal(executable string, code int, stderr string, cause error) Result {
	return withFatal(Result{ExitCode: code, Stderr: stderr}, executable, cause)
}

func withFatal(result Result, executable string, cause error) Result {
	result.Kind = KindFatal
	result.fatal = &FatalError{
		Executable: executable,
		ExitCode:   result.ExitCode,
		Stderr:     result.Stderr,
		Cause:      cause,
	}

	return result
}
