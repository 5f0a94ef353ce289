// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

package wizard_test

import (
	"context"
	"errors"
	"testing"

	"github.com/janderssonse/policyctl/internal/domain"
	"github.com/janderssonse/policyctl/internal/session"
	"github.com/janderssonse/policyctl/internal/testutil"
	"github.com/janderssonse/policyctl/internal/wizard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type systemState struct {
	Name string
	Kind string
	Dir  string
}

type systemResult struct {
	Name, Kind, Dir string
}

var kinds = []domain.PickItem{
	{Label: "Kubernetes", Value: "kubernetes"},
	{Label: "Envoy", Value: "envoy"},
}

func notEmpty(v string) string {
	if v == "" {
		return "a value is required"
	}

	return ""
}

func askName(ctx context.Context, in *wizard.Input, s *systemState) (wizard.Transition[systemState], error) {
	name, err := in.ShowInputBox(ctx, wizard.InputBoxOptions{Prompt: "System name", Value: s.Name}, notEmpty, nil)
	if err != nil {
		return wizard.Transition[systemState]{}, err
	}

	s.Name = name

	return wizard.Continue("kind", askKind), nil
}

func askKind(ctx context.Context, in *wizard.Input, s *systemState) (wizard.Transition[systemState], error) {
	item, err := in.ShowQuickPick(ctx, wizard.QuickPickOptions{Placeholder: "System type", Items: kinds}, nil)
	if err != nil {
		return wizard.Transition[systemState]{}, err
	}

	s.Kind = item.Value

	return wizard.Continue("dir", askDir), nil
}

func askDir(ctx context.Context, in *wizard.Input, s *systemState) (wizard.Transition[systemState], error) {
	dir, err := in.ShowInputBox(ctx, wizard.InputBoxOptions{Prompt: "Policy directory", Value: s.Dir}, nil, nil)
	if err != nil {
		return wizard.Transition[systemState]{}, err
	}

	s.Dir = dir

	return wizard.Done[systemState](), nil
}

func systemFlow(host domain.PromptHost, log domain.LogSink) wizard.Flow[systemState, systemResult] {
	return wizard.Flow[systemState, systemResult]{
		Title:      "Link Init",
		TotalSteps: 3,
		Start:      askName,
		Result: func(s *systemState) systemResult {
			return systemResult{Name: s.Name, Kind: s.Kind, Dir: s.Dir}
		},
		Host: host,
		Log:  log,
	}
}

func TestRun_CompletesForwardFlow(t *testing.T) {
	t.Parallel()

	host := testutil.NewScriptedHost(
		testutil.Accept("payments"),
		testutil.Accept("envoy"),
		testutil.Accept("policy"),
	)

	got, err := wizard.Run(context.Background(), systemFlow(host, &testutil.LogRecorder{}), &systemState{})

	require.NoError(t, err)
	assert.Equal(t, systemResult{Name: "payments", Kind: "envoy", Dir: "policy"}, got)
	assert.Zero(t, host.Remaining())

	prompts := host.Prompts()
	require.Len(t, prompts, 3)

	for i, p := range prompts {
		frame := p.Frame()
		assert.Equal(t, "Link Init", frame.Title)
		assert.Equal(t, i+1, frame.Step)
		assert.Equal(t, 3, frame.TotalSteps)
		assert.Equal(t, i > 0, frame.CanGoBack)
	}
}

func TestRun_BackReinvokesPreviousStepWithSameState(t *testing.T) {
	t.Parallel()

	host := testutil.NewScriptedHost(
		testutil.Accept("payments"),
		testutil.Accept("envoy"),
		testutil.Back(),
		testutil.Back(),
		testutil.Accept("billing"),
		testutil.Accept("kubernetes"),
		testutil.Accept("rego"),
	)

	got, err := wizard.Run(context.Background(), systemFlow(host, nil), &systemState{})

	require.NoError(t, err)
	assert.Equal(t, systemResult{Name: "billing", Kind: "kubernetes", Dir: "rego"}, got)
	assert.Equal(t, []string{
		"System name", "System type", "Policy directory", "System type", "System name", "System type", "Policy directory",
	}, host.Labels())

	// The revisited name prompt is pre-filled from the state.
	assert.Equal(t, "payments", host.Prompts()[4].Input.Value)
}

func TestRun_BackOnFirstStepShowsItAgain(t *testing.T) {
	t.Parallel()

	host := testutil.NewScriptedHost(
		testutil.Back(),
		testutil.Accept("payments"),
		testutil.Accept("envoy"),
		testutil.Accept("policy"),
	)

	got, err := wizard.Run(context.Background(), systemFlow(host, nil), &systemState{})

	require.NoError(t, err)
	assert.Equal(t, "payments", got.Name)
	assert.Equal(t, []string{"System name", "System name", "System type", "Policy directory"}, host.Labels())
	assert.False(t, host.Prompts()[1].Frame().CanGoBack)
}

func TestRun_ValidationRepromptsWithoutAdvancing(t *testing.T) {
	t.Parallel()

	host := testutil.NewScriptedHost(
		testutil.Accept(""),
		testutil.Accept(""),
		testutil.Accept("payments"),
		testutil.Accept("envoy"),
		testutil.Accept("policy"),
	)
	log := &testutil.LogRecorder{}

	_, err := wizard.Run(context.Background(), systemFlow(host, log), &systemState{})
	require.NoError(t, err)

	prompts := host.Prompts()
	require.Len(t, prompts, 5)
	assert.Empty(t, prompts[0].Input.ValidationMessage)
	assert.Equal(t, "a value is required", prompts[1].Input.ValidationMessage)
	assert.Equal(t, "a value is required", prompts[2].Input.ValidationMessage)
	assert.Equal(t, 1, prompts[2].Frame().Step)
	assert.Empty(t, log.Entries(), "validation failures are not logged")
}

func TestRun_ValidationKeepsRejectedValue(t *testing.T) {
	t.Parallel()

	host := testutil.NewScriptedHost(testutil.Accept("ab"), testutil.Accept("abc"))
	minLen := func(v string) string {
		if len(v) < 3 {
			return "at least 3 characters"
		}

		return ""
	}

	step := func(ctx context.Context, in *wizard.Input, s *string) (wizard.Transition[string], error) {
		v, err := in.ShowInputBox(ctx, wizard.InputBoxOptions{Prompt: "Code", Value: "a"}, minLen, nil)
		*s = v

		return wizard.Done[string](), err
	}

	var state string

	got, err := wizard.Run(context.Background(), wizard.Flow[string, string]{
		Start:  step,
		Result: func(s *string) string { return *s },
		Host:   host,
	}, &state)

	require.NoError(t, err)
	assert.Equal(t, "abc", got)
	assert.Equal(t, "a", host.Prompts()[0].Input.Value)
	assert.Equal(t, "ab", host.Prompts()[1].Input.Value)
}

func TestRun_CancelWithDefaultDeciderStops(t *testing.T) {
	t.Parallel()

	host := testutil.NewScriptedHost(testutil.Accept("payments"), testutil.Cancel())
	log := &testutil.LogRecorder{}
	ctx := session.WithCommand(context.Background(), "Link Init")

	_, err := wizard.Run(ctx, systemFlow(host, log), &systemState{})

	require.ErrorIs(t, err, wizard.ErrCancelled)
	assert.Equal(t, []string{"Link Init terminated by user"}, log.Messages())
	assert.Len(t, host.Prompts(), 2)
}

func TestRun_CancelWithResumeShowsPromptAgain(t *testing.T) {
	t.Parallel()

	host := testutil.NewScriptedHost(testutil.Cancel(), testutil.Accept("kubernetes"))

	resumes := 0
	resume := func(context.Context) bool {
		resumes++

		return true
	}

	step := func(ctx context.Context, in *wizard.Input, s *string) (wizard.Transition[string], error) {
		item, err := in.ShowQuickPick(ctx, wizard.QuickPickOptions{Placeholder: "System type", Items: kinds, Active: &kinds[0]}, resume)
		*s = item.Value

		return wizard.Done[string](), err
	}

	var state string

	got, err := wizard.Run(context.Background(), wizard.Flow[string, string]{
		Start:  step,
		Result: func(s *string) string { return *s },
		Host:   host,
	}, &state)

	require.NoError(t, err)
	assert.Equal(t, "kubernetes", got)
	assert.Equal(t, 1, resumes)
	assert.Equal(t, []string{"System type", "System type"}, host.Labels())
	assert.Equal(t, &kinds[0], host.Prompts()[1].Pick.Active)
}

func TestRun_HostErrorEndsFlow(t *testing.T) {
	t.Parallel()

	hostErr := errors.New("no terminal")
	host := testutil.NewScriptedHost(testutil.Answer{Err: hostErr})

	_, err := wizard.Run(context.Background(), systemFlow(host, nil), &systemState{})

	require.ErrorIs(t, err, hostErr)
}

func TestRun_ScriptExhaustedSurfaces(t *testing.T) {
	t.Parallel()

	host := testutil.NewScriptedHost(testutil.Accept("payments"))

	_, err := wizard.Run(context.Background(), systemFlow(host, nil), &systemState{})

	require.ErrorIs(t, err, testutil.ErrScriptExhausted)
}

func TestRun_ContinueWithoutNextStepFails(t *testing.T) {
	t.Parallel()

	broken := func(context.Context, *wizard.Input, *string) (wizard.Transition[string], error) {
		return wizard.Continue[string]("dangling", nil), nil
	}

	var state string

	_, err := wizard.Run(context.Background(), wizard.Flow[string, string]{Start: broken}, &state)

	require.ErrorIs(t, err, wizard.ErrNoNextStep)
	assert.Contains(t, err.Error(), "dangling")
}

func TestRun_CancelledContextStopsBeforePrompting(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	host := testutil.NewScriptedHost()

	_, err := wizard.Run(ctx, systemFlow(host, nil), &systemState{})

	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, host.Prompts())
}
