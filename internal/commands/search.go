// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

package commands

import (
	"context"
	"regexp"
	"strings"

	"github.com/janderssonse/policyctl/internal/runner"
	"github.com/janderssonse/policyctl/internal/wizard"
)

// NoResultsPattern matches the tool's "nothing found" failure.
var NoResultsPattern = regexp.MustCompile(`(?i)no (results|matches) found`)

// SearchArgs assembles the tool arguments for link search.
func SearchArgs(query, format string) []string {
	return []string{"link", "search", strings.TrimSpace(query), "--output", format}
}

// LinkSearch searches the policy library of the linked system.
type LinkSearch struct {
	Base
}

// NewLinkSearch creates the link search command.
func NewLinkSearch(env *Env) *LinkSearch {
	return &LinkSearch{Base: NewBase(env, "link search", Requirements{Tool: true, Linked: true})}
}

// Run asks for the query and searches. An empty result set is not a failure.
func (c *LinkSearch) Run(ctx context.Context) error {
	query, err := wizard.Run(ctx, wizard.Flow[string, string]{
		Title:      c.Title(),
		TotalSteps: 1,
		Start:      askQuery,
		Result:     func(s *string) string { return *s },
		Host:       c.env.Host,
		Log:        c.env.Log,
	}, new(string))
	if err != nil {
		return err
	}

	result, err := c.env.Runner.RunTool(ctx, SearchArgs(query, c.env.Settings.OutputFormat), runner.Options{
		ExpectedError: NoResultsPattern,
	})
	if err != nil {
		return err
	}

	if result.Kind == runner.KindExpected {
		c.env.Log.NotifyInfo("No results for " + query)
	}

	return nil
}

func askQuery(ctx context.Context, in *wizard.Input, s *string) (wizard.Transition[string], error) {
	query, err := in.ShowInputBox(ctx, wizard.InputBoxOptions{
		Value:       *s,
		Prompt:      "Search policies",
		Placeholder: "deny privileged containers",
	}, required("Search text"), nil)
	if err != nil {
		return wizard.Transition[string]{}, err
	}

	*s = strings.TrimSpace(query)

	return wizard.Done[string](), nil
}
