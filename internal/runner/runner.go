// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/alessio/shellescape"
	"github.com/janderssonse/policyctl/internal/domain"
	"github.com/janderssonse/policyctl/internal/progress"
	"github.com/janderssonse/policyctl/internal/session"
)

// CompletionMarker is logged after every non-quiet run that did not fail.
const CompletionMarker = "✓ Done."

// Options tune one CommandRunner call.
type Options struct {
	Stdin string
	// Dir is the working directory; relative paths are resolved against the
	// workspace root, empty means the root itself.
	Dir           string
	ExpectedError *regexp.Regexp
	// ProgressTitle, when set, wraps the run in a progress ticket.
	ProgressTitle string
	// Quiet suppresses the diagnostic line, output echo and completion marker.
	Quiet bool
}

// CommandRunner executes processes for commands after checking preconditions.
type CommandRunner struct {
	executor  *Executor
	reporter  *progress.Reporter
	log       domain.LogSink
	workspace domain.Workspace
	toolPath  string
	logger    *slog.Logger
}

// Option configures a CommandRunner.
type Option func(*CommandRunner)

// WithReporter enables progress display for titled runs.
func WithReporter(r *progress.Reporter) Option {
	return func(c *CommandRunner) {
		c.reporter = r
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *CommandRunner) {
		c.logger = l
	}
}

// NewCommandRunner creates a runner for the tool at toolPath.
func NewCommandRunner(executor *Executor, log domain.LogSink, workspace domain.Workspace, toolPath string, opts ...Option) *CommandRunner {
	r := &CommandRunner{
		executor:  executor,
		log:       log,
		workspace: workspace,
		toolPath:  toolPath,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// ToolPath returns the configured tool executable.
func (r *CommandRunner) ToolPath() string {
	return r.toolPath
}

// CheckTool returns domain.ErrToolNotInstalled when the tool cannot be found.
func (r *CommandRunner) CheckTool() error {
	if _, err := r.executor.LookPath(r.toolPath); err != nil {
		return fmt.Errorf("%w: %s", domain.ErrToolNotInstalled, r.toolPath)
	}

	return nil
}

// RunProcess executes executable with args. A fatal outcome is returned both
// as Result.Kind and as the *FatalError error; an expected error is not an error.
func (r *CommandRunner) RunProcess(ctx context.Context, executable string, args []string, opts Options) (Result, error) {
	root, err := r.workspace.Root()
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", domain.ErrNoWorkspace, err)
	}

	dir := opts.Dir

	switch {
	case dir == "":
		dir = root
	case !filepath.IsAbs(dir):
		dir = filepath.Join(root, dir)
	}

	inv := Invocation{
		Executable:    executable,
		Args:          args,
		Stdin:         opts.Stdin,
		Dir:           dir,
		ExpectedError: opts.ExpectedError,
	}

	if !opts.Quiet {
		r.log.Info(fmt.Sprintf("Running in %s: %s", dir, shellescape.QuoteCommand(append([]string{executable}, args...))))
	}

	r.logger.Debug("spawning process", "executable", executable, "args", len(args), "dir", dir, "stdin", opts.Stdin != "")

	result, err := progress.Track(ctx, r.reporter, opts.ProgressTitle, func(ctx context.Context) (Result, error) {
		res := r.executor.Execute(ctx, inv)

		return res, res.Err()
	})

	r.logger.Debug("process finished", "executable", executable, "exit_code", result.ExitCode, "kind", result.Kind.String(),
		"stdout_bytes", len(result.Stdout), "stderr_bytes", len(result.Stderr))

	r.report(result, opts.Quiet)

	return result, err
}

// RunTool runs the configured tool. Without an explicit progress title the
// run is attributed to the command carried by ctx; a run with neither is a
// programming error.
func (r *CommandRunner) RunTool(ctx context.Context, args []string, opts Options) (Result, error) {
	if opts.ProgressTitle == "" {
		name, ok := session.CommandFromContext(ctx)
		if !ok {
			return Result{}, fmt.Errorf("%w: %s", domain.ErrUnattributed, strings.Join(args, " "))
		}

		opts.ProgressTitle = name
	}

	return r.RunProcess(ctx, r.toolPath, args, opts)
}

func (r *CommandRunner) report(result Result, quiet bool) {
	if result.Kind == KindFatal {
		r.log.NotifyError(result.Err().Error())

		return
	}

	if quiet {
		return
	}

	if out := strings.TrimRight(result.Output(), "\r\n"); out != "" {
		r.log.Info(out)
	}

	r.log.Info(CompletionMarker)
}
