// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

package commands

import (
	"context"

	"github.com/janderssonse/policyctl/internal/domain"
	"github.com/janderssonse/policyctl/internal/runner"
	"github.com/janderssonse/policyctl/internal/wizard"
)

var decisionWindows = []domain.PickItem{
	{Label: "Last hour", Value: "1h"},
	{Label: "Last 6 hours", Value: "6h"},
	{Label: "Last 24 hours", Value: "24h"},
	{Label: "Last 7 days", Value: "168h"},
}

// DecisionsArgs assembles the tool arguments for link validate decisions.
func DecisionsArgs(since, format string) []string {
	return []string{"link", "validate", "decisions", "--since", since, "--output", format}
}

// LinkValidateDecisions replays recorded decisions against local policies.
type LinkValidateDecisions struct {
	Base
}

// NewLinkValidateDecisions creates the link validate decisions command.
func NewLinkValidateDecisions(env *Env) *LinkValidateDecisions {
	return &LinkValidateDecisions{Base: NewBase(env, "link validate decisions", Requirements{Tool: true, Linked: true})}
}

// Run asks for the time window and validates.
func (c *LinkValidateDecisions) Run(ctx context.Context) error {
	since, err := wizard.Run(ctx, wizard.Flow[string, string]{
		Title:      c.Title(),
		TotalSteps: 1,
		Start:      pickWindow,
		Result:     func(s *string) string { return *s },
		Host:       c.env.Host,
		Log:        c.env.Log,
	}, new(string))
	if err != nil {
		return err
	}

	_, err = c.env.Runner.RunTool(ctx, DecisionsArgs(since, c.env.Settings.OutputFormat), runner.Options{
		ProgressTitle: "Validating decisions",
	})

	return err
}

func pickWindow(ctx context.Context, in *wizard.Input, s *string) (wizard.Transition[string], error) {
	item, err := in.ShowQuickPick(ctx, wizard.QuickPickOptions{
		Placeholder: "Replay decisions from",
		Items:       decisionWindows,
		Active:      activeItem(decisionWindows, "24h"),
	}, nil)
	if err != nil {
		return wizard.Transition[string]{}, err
	}

	*s = item.Value

	return wizard.Done[string](), nil
}
