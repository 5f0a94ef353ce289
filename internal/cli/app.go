// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

// Package cli wires the command registry into the policyctl command tree.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/janderssonse/policyctl/internal/adapters/network"
	"github.com/janderssonse/policyctl/internal/adapters/platform"
	"github.com/janderssonse/policyctl/internal/adapters/prompt"
	"github.com/janderssonse/policyctl/internal/commands"
	"github.com/janderssonse/policyctl/internal/config"
	"github.com/janderssonse/policyctl/internal/console"
	"github.com/janderssonse/policyctl/internal/domain"
	"github.com/janderssonse/policyctl/internal/progress"
	"github.com/janderssonse/policyctl/internal/runner"
	"github.com/janderssonse/policyctl/internal/session"
	"github.com/janderssonse/policyctl/internal/workspace"
	"github.com/urfave/cli/v3"
)

// Version is stamped at build time.
var Version = "dev"

// Color modes accepted by --color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

var groupUsage = map[string]string{
	"link":          "manage the link between the workspace and a system",
	"link config":   "configure the linked system",
	"link validate": "validate the linked system",
}

// Globals are the parsed global flags.
type Globals struct {
	Dir     string
	Config  string
	Color   string
	Verbose bool
	Quiet   bool
}

// EnvFactory builds the command environment once flags and settings are known.
type EnvFactory func(g Globals, settings config.Settings) (*commands.Env, error)

// CLI is the policyctl command line.
type CLI struct {
	app     *cli.Command
	globals Globals
	env     *commands.Env
	newEnv  EnvFactory
	stdout  io.Writer
	stderr  io.Writer
}

// Option configures a CLI.
type Option func(*CLI)

// WithEnvFactory replaces the production environment.
func WithEnvFactory(f EnvFactory) Option {
	return func(c *CLI) {
		c.newEnv = f
	}
}

// WithWriters redirects help and overview output.
func WithWriters(stdout, stderr io.Writer) Option {
	return func(c *CLI) {
		c.stdout = stdout
		c.stderr = stderr
	}
}

// NewCLI creates the command tree.
func NewCLI(opts ...Option) *CLI {
	app := &CLI{stdout: os.Stdout, stderr: os.Stderr}
	app.newEnv = app.productionEnv

	for _, opt := range opts {
		opt(app)
	}

	app.app = &cli.Command{
		Name:    "policyctl",
		Usage:   "link workspaces to policy systems and preview decisions",
		Version: Version,
		Suggest: true,
		Description: `Drives the policy CLI through guided prompts. Every command asks for
what it needs; press esc to go back a step and ctrl+c to stop.

QUICK START:
  policyctl install            # Download the policy CLI
  policyctl link init          # Link this folder to a system
  policyctl link config git    # Connect the system to a repository
  policyctl link test          # Run the policy tests`,
		Writer:    app.stdout,
		ErrWriter: app.stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "dir",
				Aliases:     []string{"C"},
				Usage:       "workspace folder (default: current directory)",
				Destination: &app.globals.Dir,
			},
			&cli.StringFlag{
				Name:        "config",
				Usage:       "settings file",
				Value:       config.GetConfigPath(),
				Sources:     cli.EnvVars("POLICYCTL_CONFIG"),
				Destination: &app.globals.Config,
			},
			&cli.StringFlag{
				Name:        "color",
				Usage:       "color output mode: auto, always, never",
				Value:       ColorAuto,
				Destination: &app.globals.Color,
			},
			&cli.BoolFlag{
				Name:        "verbose",
				Usage:       "write diagnostics to stderr",
				Destination: &app.globals.Verbose,
			},
			&cli.BoolFlag{
				Name:        "quiet",
				Aliases:     []string{"q"},
				Usage:       "hide progress indicators",
				Destination: &app.globals.Quiet,
			},
		},
		Before:       app.initEnv,
		Action:       app.defaultAction,
		Commands:     append(app.registryCommands(), app.createGuideCommand()),
		OnUsageError: usageError,
	}

	return app
}

// Run executes the CLI application.
func (app *CLI) Run(ctx context.Context, args []string) error {
	return app.app.Run(ctx, args)
}

// registryCommands nests every registered command under its path, creating
// group commands on the way.
func (app *CLI) registryCommands() []*cli.Command {
	root := &cli.Command{}

	for _, spec := range commands.Registry() {
		parent := root

		for i, name := range spec.Path[:len(spec.Path)-1] {
			parent = child(parent, name, groupUsage[strings.Join(spec.Path[:i+1], " ")])
		}

		parent.Commands = append(parent.Commands, app.leaf(spec))
	}

	return root.Commands
}

func child(parent *cli.Command, name, usage string) *cli.Command {
	for _, c := range parent.Commands {
		if c.Name == name {
			return c
		}
	}

	c := &cli.Command{Name: name, Usage: usage}
	parent.Commands = append(parent.Commands, c)

	return c
}

func (app *CLI) leaf(spec commands.Spec) *cli.Command {
	return &cli.Command{
		Name:         spec.Path[len(spec.Path)-1],
		Usage:        spec.Usage,
		OnUsageError: usageError,
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if cmd.Args().Present() {
				return domain.NewExitError(domain.ExitUsageError,
					fmt.Sprintf("%s takes no arguments, got %q", strings.Join(spec.Path, " "), cmd.Args().First()), nil)
			}

			if err := commands.Run(ctx, spec.New(app.env)); err != nil {
				return domain.NewExitError(domain.ExitGeneralError, "command failed", err)
			}

			return nil
		},
	}
}

// defaultAction prints the command overview, or rejects an unknown command.
func (app *CLI) defaultAction(_ context.Context, cmd *cli.Command) error {
	if cmd.Args().Present() {
		return domain.NewExitError(domain.ExitUsageError,
			fmt.Sprintf("'%s' is not a command. Run 'policyctl --help' to see available commands.", cmd.Args().First()), nil)
	}

	app.showOverview()

	return nil
}

func (app *CLI) showOverview() {
	fmt.Fprintf(app.stdout, "policyctl %s\n\nCOMMANDS:\n", Version)

	for _, spec := range commands.Registry() {
		fmt.Fprintf(app.stdout, "  %-26s %s\n", strings.Join(spec.Path, " "), spec.Usage)
	}

	fmt.Fprintf(app.stdout, "\nRun 'policyctl guide' for a walkthrough.\n")
}

// initEnv validates global flags, loads settings and builds the environment.
func (app *CLI) initEnv(ctx context.Context, _ *cli.Command) (context.Context, error) {
	switch app.globals.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return ctx, domain.NewExitError(domain.ExitUsageError, "invalid --color value: must be auto, always, or never", nil)
	}

	switch app.globals.Color {
	case ColorNever:
		_ = os.Setenv("NO_COLOR", "1")
	case ColorAlways:
		_ = os.Unsetenv("NO_COLOR")
	}

	settings, err := config.Load(app.globals.Config)
	if err != nil {
		return ctx, domain.NewExitError(domain.ExitConfigError, err.Error(), err)
	}

	env, err := app.newEnv(app.globals, settings)
	if err != nil {
		return ctx, domain.NewExitError(domain.ExitGeneralError, "failed to initialize", err)
	}

	app.env = env

	return ctx, nil
}

// productionEnv wires the real adapters.
func (app *CLI) productionEnv(g Globals, settings config.Settings) (*commands.Env, error) {
	logger := newLogger(app.stderr, g.Verbose || settings.DiagnosticOutput)
	log := console.NewChannel(app.stdout, app.stderr)
	ws := workspace.New(g.Dir)

	var reporter *progress.Reporter
	if !g.Quiet {
		reporter = progress.NewReporter(display(app.stderr))
	}

	env := &commands.Env{
		Runner: runner.NewCommandRunner(runner.NewExecutor(platform.NewProcessSpawner()), log, ws, settings.Tool.Path,
			runner.WithReporter(reporter), runner.WithLogger(logger)),
		Reporter:  reporter,
		Log:       log,
		Host:      prompt.NewHost(),
		Workspace: ws,
		Files:     platform.NewFileManager(),
		Network:   network.NewHTTPClient(time.Duration(settings.Preview.TimeoutSeconds) * time.Second),
		Settings:  settings,
		Logger:    logger,
		Getenv:    os.Getenv,
		Now:       time.Now,
		Styled:    styled(g.Color, app.stdout),
	}

	// A nil *FileStore must not become a non-nil interface.
	if store, err := session.OpenFileStore(config.GetStatePath()); err != nil {
		logger.Warn("session state unavailable", "error", err)
	} else {
		env.Store = store
	}

	return env, nil
}

func newLogger(w io.Writer, enabled bool) *slog.Logger {
	if !enabled {
		w = io.Discard
	}

	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func display(w io.Writer) progress.Display {
	if f, ok := w.(*os.File); ok {
		return progress.NewTerminalDisplay(f)
	}

	return progress.NewLineDisplay(w)
}

func styled(color string, w io.Writer) bool {
	switch color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	f, ok := w.(*os.File)

	return ok && console.IsTTY(f.Fd())
}

func usageError(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return domain.NewExitError(domain.ExitUsageError, err.Error(), err)
}
