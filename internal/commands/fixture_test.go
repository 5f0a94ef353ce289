// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

package commands_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/janderssonse/policyctl/internal/adapters/platform"
	"github.com/janderssonse/policyctl/internal/commands"
	"github.com/janderssonse/policyctl/internal/config"
	"github.com/janderssonse/policyctl/internal/domain"
	"github.com/janderssonse/policyctl/internal/runner"
	"github.com/janderssonse/policyctl/internal/session"
	"github.com/janderssonse/policyctl/internal/testutil"
	"github.com/janderssonse/policyctl/internal/workspace"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	env     *commands.Env
	log     *testutil.LogRecorder
	spawner *testutil.FakeSpawner
	store   *session.MemoryStore
	network *testutil.MockNetworkClient
	dir     string
	t       *testing.T
}

type fixtureOption func(*fixture)

func linked() fixtureOption {
	return func(f *fixture) {
		content := "url: https://acme.styra.com\nsystem_id: abc123\nname: payments\n"
		writeFile(f.t, filepath.Join(f.dir, workspace.ConfigFileName), content)
	}
}

func withScript(run func(domain.SpawnRequest) (testutil.Script, error)) fixtureOption {
	return func(f *fixture) {
		f.spawner.Run = run
	}
}

func withStdout(stdout string) fixtureOption {
	return withScript(func(domain.SpawnRequest) (testutil.Script, error) {
		return testutil.Script{Stdout: stdout}, nil
	})
}

func withoutTool() fixtureOption {
	return func(f *fixture) {
		f.spawner.Missing = map[string]bool{"styra": true}
	}
}

func newFixture(t *testing.T, host domain.PromptHost, opts ...fixtureOption) *fixture {
	t.Helper()

	f := &fixture{
		log:     &testutil.LogRecorder{},
		spawner: &testutil.FakeSpawner{},
		store:   session.NewMemoryStore(),
		network: &testutil.MockNetworkClient{},
		dir:     t.TempDir(),
		t:       t,
	}

	ws := workspace.New(f.dir)

	settings := config.Default()
	settings.CheckUpdateIntervalDays = 0
	settings.Tool.InstallDir = filepath.Join(f.dir, "bin")

	f.env = &commands.Env{
		Runner:    runner.NewCommandRunner(runner.NewExecutor(f.spawner), f.log, ws, "styra"),
		Log:       f.log,
		Host:      host,
		Store:     f.store,
		Workspace: ws,
		Files:     platform.NewFileManager(),
		Network:   f.network,
		Settings:  settings,
		Getenv:    func(string) string { return "" },
		Now:       func() time.Time { return fixedNow },
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}
