// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

package commands

import (
	"context"
	"strings"

	"github.com/janderssonse/policyctl/internal/runner"
)

// Version reports the installed tool version.
type Version struct {
	Base
}

// NewVersion creates the version command.
func NewVersion(env *Env) *Version {
	return &Version{Base: NewBase(env, "version", Requirements{Tool: true})}
}

// Run queries the tool quietly and logs a single formatted line.
func (c *Version) Run(ctx context.Context) error {
	result, err := c.env.Runner.RunTool(ctx, []string{"version"}, runner.Options{Quiet: true})
	if err != nil {
		return err
	}

	version := strings.TrimSpace(result.Output())
	if version == "" {
		version = "unknown"
	}

	c.env.Log.NotifyInfo(c.env.Runner.ToolPath() + " " + version)

	return nil
}
