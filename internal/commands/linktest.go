// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

package commands

import (
	"context"

	"github.com/janderssonse/policyctl/internal/runner"
)

// LinkTestArgs assembles the tool arguments for link test.
func LinkTestArgs(format string) []string {
	return []string{"link", "test", "--output", format}
}

// LinkTest runs the policy unit tests of the linked system.
type LinkTest struct {
	Base
}

// NewLinkTest creates the link test command.
func NewLinkTest(env *Env) *LinkTest {
	return &LinkTest{Base: NewBase(env, "link test", Requirements{Tool: true, Linked: true})}
}

// Run runs the tests and echoes the report.
func (c *LinkTest) Run(ctx context.Context) error {
	_, err := c.env.Runner.RunTool(ctx, LinkTestArgs(c.env.Settings.OutputFormat), runner.Options{
		ProgressTitle: "Running policy tests",
	})

	return err
}
