// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

package runner_test

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/janderssonse/policyctl/internal/domain"
	"github.com/janderssonse/policyctl/internal/progress"
	"github.com/janderssonse/policyctl/internal/runner"
	"github.com/janderssonse/policyctl/internal/session"
	"github.com/janderssonse/policyctl/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type titleDisplay struct {
	mu     sync.Mutex
	titles []string
	stops  []error
}

func (d *titleDisplay) Start(title string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.titles = append(d.titles, title)
}
func (d *titleDisplay) Update(string) {}

func (d *titleDisplay) Stop(err error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stops = append(d.stops, err)
}

func newRunner(spawner *testutil.FakeSpawner, log *testutil.LogRecorder, ws domain.Workspace, opts ...runner.Option) *runner.CommandRunner {
	return runner.NewCommandRunner(runner.NewExecutor(spawner), log, ws, "styra", opts...)
}

func TestCommandRunner_LogsDiagnosticOutputAndMarkerInOrder(t *testing.T) {
	t.Parallel()

	log := &testutil.LogRecorder{}
	spawner := scripted(testutil.Script{Stdout: "configured\n"})
	r := newRunner(spawner, log, testutil.StaticWorkspace{Dir: "/ws"})

	result, err := r.RunProcess(context.Background(), "styra",
		[]string{"link", "config", "git", "https://github.com/acme/policies.git", "--branch", "main"}, runner.Options{})

	require.NoError(t, err)
	assert.Equal(t, runner.KindSuccess, result.Kind)
	assert.Equal(t, []string{
		"Running in /ws: styra link config git https://github.com/acme/policies.git --branch main",
		"configured",
		runner.CompletionMarker,
	}, log.Messages())
}

func TestCommandRunner_QuotesArgumentsInDiagnostic(t *testing.T) {
	t.Parallel()

	log := &testutil.LogRecorder{}
	r := newRunner(scripted(testutil.Script{}), log, testutil.StaticWorkspace{Dir: "/ws"})

	_, err := r.RunProcess(context.Background(), "styra", []string{"link", "search", "allow all"}, runner.Options{})
	require.NoError(t, err)

	assert.Equal(t, "Running in /ws: styra link search 'allow all'", log.Messages()[0])
}

func TestCommandRunner_NoWorkspaceFailsBeforeSpawn(t *testing.T) {
	t.Parallel()

	log := &testutil.LogRecorder{}
	spawner := scripted(testutil.Script{})
	r := newRunner(spawner, log, testutil.StaticWorkspace{Err: errors.New("no folder")})

	_, err := r.RunProcess(context.Background(), "styra", []string{"link", "test"}, runner.Options{})

	require.ErrorIs(t, err, domain.ErrNoWorkspace)
	assert.True(t, domain.IsPrecondition(err))
	assert.Empty(t, spawner.Requests())
	assert.Empty(t, log.Entries())
}

func TestCommandRunner_ResolvesWorkingDirectory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		dir  string
		want string
	}{
		{name: "defaults to root", dir: "", want: "/ws"},
		{name: "relative to root", dir: "policy", want: "/ws/policy"},
		{name: "absolute kept", dir: "/elsewhere", want: "/elsewhere"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			spawner := scripted(testutil.Script{})
			r := newRunner(spawner, &testutil.LogRecorder{}, testutil.StaticWorkspace{Dir: "/ws"})

			_, err := r.RunProcess(context.Background(), "styra", nil, runner.Options{Dir: tt.dir, Quiet: true})
			require.NoError(t, err)
			assert.Equal(t, tt.want, spawner.Requests()[0].Dir)
		})
	}
}

func TestCommandRunner_QuietRunLogsNothingOnSuccess(t *testing.T) {
	t.Parallel()

	log := &testutil.LogRecorder{}
	r := newRunner(scripted(testutil.Script{Stdout: "v1.2.3"}), log, testutil.StaticWorkspace{Dir: "/ws"})

	result, err := r.RunProcess(context.Background(), "styra", []string{"version"}, runner.Options{Quiet: true})

	require.NoError(t, err)
	assert.Equal(t, "v1.2.3", result.Output())
	assert.Empty(t, log.Entries())
}

func TestCommandRunner_FatalIsReportedOnce(t *testing.T) {
	t.Parallel()

	log := &testutil.LogRecorder{}
	r := newRunner(scripted(testutil.Script{Stderr: "boom\n", ExitCode: 1}), log, testutil.StaticWorkspace{Dir: "/ws"})

	result, err := r.RunProcess(context.Background(), "styra", []string{"link", "test"}, runner.Options{})

	require.Error(t, err)
	assert.Equal(t, "boom", err.Error())
	assert.Equal(t, runner.KindFatal, result.Kind)
	assert.Equal(t, 1, log.Count(testutil.LevelError))
	assert.NotContains(t, log.Messages(), runner.CompletionMarker)
}

func TestCommandRunner_TrackedRunReturnsOutcomeError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		script    testutil.Script
		wantFatal bool
	}{
		{name: "success", script: testutil.Script{Stdout: "ok\n"}},
		{name: "fatal", script: testutil.Script{Stderr: "boom\n", ExitCode: 2}, wantFatal: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			display := &titleDisplay{}
			r := newRunner(scripted(tt.script), &testutil.LogRecorder{}, testutil.StaticWorkspace{Dir: "/ws"},
				runner.WithReporter(progress.NewReporter(display)))

			result, err := r.RunProcess(context.Background(), "styra", []string{"link", "test"},
				runner.Options{ProgressTitle: "Testing"})

			require.Len(t, display.stops, 1)
			assert.Equal(t, display.stops[0], err)

			if !tt.wantFatal {
				require.NoError(t, err)

				return
			}

			var fatal *runner.FatalError
			require.ErrorAs(t, err, &fatal)
			assert.Equal(t, 2, fatal.ExitCode)
			assert.Equal(t, result.Err(), err)
		})
	}
}

func TestCommandRunner_ExpectedErrorIsData(t *testing.T) {
	t.Parallel()

	log := &testutil.LogRecorder{}
	r := newRunner(scripted(testutil.Script{Stderr: "no results found", ExitCode: 1}), log, testutil.StaticWorkspace{Dir: "/ws"})

	result, err := r.RunProcess(context.Background(), "styra", []string{"link", "search", "x"}, runner.Options{
		ExpectedError: regexp.MustCompile(`no results found`),
	})

	require.NoError(t, err)
	assert.Equal(t, runner.KindExpected, result.Kind)
	assert.Equal(t, []string{"Running in /ws: styra link search x", "no results found", runner.CompletionMarker}, log.Messages())
	assert.Zero(t, log.Count(testutil.LevelError))
}

func TestCommandRunner_RunToolAttribution(t *testing.T) {
	t.Parallel()

	t.Run("unattributed run is rejected", func(t *testing.T) {
		t.Parallel()

		spawner := scripted(testutil.Script{})
		r := newRunner(spawner, &testutil.LogRecorder{}, testutil.StaticWorkspace{Dir: "/ws"})

		_, err := r.RunTool(context.Background(), []string{"link", "test"}, runner.Options{})

		require.ErrorIs(t, err, domain.ErrUnattributed)
		assert.Empty(t, spawner.Requests())
	})

	t.Run("context attribution becomes the progress title", func(t *testing.T) {
		t.Parallel()

		display := &titleDisplay{}
		spawner := scripted(testutil.Script{})
		r := newRunner(spawner, &testutil.LogRecorder{}, testutil.StaticWorkspace{Dir: "/ws"},
			runner.WithReporter(progress.NewReporter(display)))

		ctx := session.WithCommand(context.Background(), "Link Test")
		_, err := r.RunTool(ctx, []string{"link", "test"}, runner.Options{Quiet: true})

		require.NoError(t, err)
		assert.Equal(t, []string{"Link Test"}, display.titles)
		assert.Equal(t, "styra", spawner.Requests()[0].Executable)
	})

	t.Run("explicit title wins", func(t *testing.T) {
		t.Parallel()

		display := &titleDisplay{}
		r := newRunner(scripted(testutil.Script{}), &testutil.LogRecorder{}, testutil.StaticWorkspace{Dir: "/ws"},
			runner.WithReporter(progress.NewReporter(display)))

		ctx := session.WithCommand(context.Background(), "Link Test")
		_, err := r.RunTool(ctx, nil, runner.Options{ProgressTitle: "Running tests", Quiet: true})

		require.NoError(t, err)
		assert.Equal(t, []string{"Running tests"}, display.titles)
	})
}

func TestCommandRunner_CheckTool(t *testing.T) {
	t.Parallel()

	spawner := &testutil.FakeSpawner{Missing: map[string]bool{"styra": true}}
	r := newRunner(spawner, &testutil.LogRecorder{}, testutil.StaticWorkspace{Dir: "/ws"})

	err := r.CheckTool()
	require.ErrorIs(t, err, domain.ErrToolNotInstalled)

	installed := newRunner(&testutil.FakeSpawner{}, &testutil.LogRecorder{}, testutil.StaticWorkspace{Dir: "/ws"})
	assert.NoError(t, installed.CheckTool())
	assert.Equal(t, "styra", installed.ToolPath())
}
