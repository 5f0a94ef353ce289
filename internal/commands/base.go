// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

// Package commands implements the policyctl operations. Each command
// collects its parameters, assembles the tool arguments and reports the
// outcome through the shared Base orchestration.
package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/janderssonse/policyctl/internal/config"
	"github.com/janderssonse/policyctl/internal/console"
	"github.com/janderssonse/policyctl/internal/domain"
	"github.com/janderssonse/policyctl/internal/progress"
	"github.com/janderssonse/policyctl/internal/runner"
	"github.com/janderssonse/policyctl/internal/session"
	"github.com/janderssonse/policyctl/internal/wizard"
	"github.com/janderssonse/policyctl/internal/workspace"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FailedMarker is logged when a command run did not succeed.
const FailedMarker = "✗ %s failed"

// Command is one user-facing operation.
type Command interface {
	Title() string
	Run(ctx context.Context) error
}

// Requirements are the pre-flight checks of a command.
type Requirements struct {
	Tool      bool // the policy CLI must be installed
	Workspace bool // a workspace folder must be open
	Linked    bool // the workspace must contain the link configuration
}

// LinkedWorkspace is a workspace that can read its link configuration.
type LinkedWorkspace interface {
	domain.Workspace
	Config() (*workspace.Config, error)
}

// Env holds the collaborators shared by all commands.
type Env struct {
	Runner    *runner.CommandRunner
	Reporter  *progress.Reporter
	Log       domain.LogSink
	Host      domain.PromptHost
	Store     domain.SessionStore
	Workspace LinkedWorkspace
	Files     domain.FileManager
	Network   domain.NetworkClient
	Settings  config.Settings
	Logger    *slog.Logger
	Getenv    func(string) string
	Now       func() time.Time
	// Styled enables rich rendering of results.
	Styled bool
}

func (e *Env) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return e.Logger
}

func (e *Env) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}

	return e.Now()
}

func (e *Env) getenv(key string) string {
	if e.Getenv == nil {
		return os.Getenv(key)
	}

	return e.Getenv(key)
}

// Base carries the title and pre-flight requirements of a command and runs
// it inside the common frame.
type Base struct {
	env      *Env
	title    string
	requires Requirements
}

// NewBase creates the frame for the command named name, e.g. "link config git".
func NewBase(env *Env, name string, requires Requirements) Base {
	return Base{env: env, title: TitleFor(name), requires: requires}
}

// TitleFor turns a command name into its display title.
func TitleFor(name string) string {
	return cases.Title(language.English).String(name)
}

// Title returns the display title.
func (b Base) Title() string {
	return b.title
}

// Execute runs cmd: pre-flight, banner, attribution, update check, the
// command itself, and the failure marker. Command outcomes never surface
// as errors; the returned error is reserved for broken wiring.
func (b Base) Execute(ctx context.Context, cmd Command) error {
	title := cmd.Title()
	log := b.env.Log

	if err := b.preflight(); err != nil {
		if !domain.IsPrecondition(err) {
			return err
		}

		log.NotifyWarning(err.Error())

		return nil
	}

	log.Info(console.Banner(title))

	ctx = session.WithCommand(ctx, title)

	b.remember(title)
	defer b.remember("")

	b.checkForUpdate()

	started := b.env.now()
	err := cmd.Run(ctx)

	b.env.logger().Debug("command finished", "command", title, "elapsed", b.env.now().Sub(started), "error", err)

	var fatal *runner.FatalError

	switch {
	case err == nil:
		return nil
	case errors.Is(err, wizard.ErrCancelled):
		// The resume decider has already logged the interruption.
		return nil
	case domain.IsPrecondition(err):
		log.NotifyWarning(err.Error())

		return nil
	case errors.As(err, &fatal):
		// The runner has already reported stderr.
	default:
		log.NotifyError(err.Error())
	}

	log.Info(fmt.Sprintf(FailedMarker, title))

	return nil
}

func (b Base) preflight() error {
	if b.requires.Tool {
		if err := b.env.Runner.CheckTool(); err != nil {
			return fmt.Errorf("%w; run `policyctl install`", err)
		}
	}

	if !b.requires.Workspace && !b.requires.Linked {
		return nil
	}

	if _, err := b.env.Workspace.Root(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrNoWorkspace, err)
	}

	if b.requires.Linked {
		if _, err := b.env.Workspace.Config(); err != nil {
			if domain.IsPrecondition(err) {
				return fmt.Errorf("%w; run `policyctl link init` first", err)
			}

			return err
		}
	}

	return nil
}

func (b Base) remember(title string) {
	if b.env.Store == nil {
		return
	}

	b.setState(session.KeyLastCommand, title)
}

func (b Base) setState(key, value string) {
	if err := b.env.Store.Set(key, value); err != nil {
		b.env.logger().Warn("failed to update session state", "key", key, "error", err)
	}
}

// checkForUpdate suggests reinstalling the tool once per configured interval.
// A zero interval disables the check.
func (b Base) checkForUpdate() {
	days := b.env.Settings.CheckUpdateIntervalDays
	if days <= 0 || b.env.Store == nil {
		return
	}

	now := b.env.now()
	stamp := now.UTC().Format(time.RFC3339)

	last, ok := b.env.Store.Get(session.KeyLastUpdateCheck)
	if !ok {
		b.setState(session.KeyLastUpdateCheck, stamp)

		return
	}

	checked, err := time.Parse(time.RFC3339, last)
	if err == nil && now.Sub(checked) < time.Duration(days)*24*time.Hour {
		return
	}

	b.env.Log.NotifyWarning(fmt.Sprintf("It has been more than %d day(s) since the last update check; run `policyctl install` to get the latest %s.",
		days, b.env.Runner.ToolPath()))

	b.setState(session.KeyLastUpdateCheck, stamp)
}
