// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

package commands

import (
	"context"
	"time"

	"github.com/janderssonse/policyctl/internal/install"
	"github.com/janderssonse/policyctl/internal/progress"
	"github.com/janderssonse/policyctl/internal/session"
)

// Install downloads the policy CLI into the user bin directory.
type Install struct {
	Base

	target install.Target
}

// NewInstall creates the install command for the running platform.
func NewInstall(env *Env) *Install {
	return &Install{
		Base:   NewBase(env, "install", Requirements{}),
		target: install.NewTarget(env.Settings.DownloadURLFor, env.Settings.Tool.InstallDir, env.Settings.Tool.Path),
	}
}

// Run downloads and installs the tool.
func (c *Install) Run(ctx context.Context) error {
	installer := install.NewInstaller(c.env.Network, c.env.Files)

	c.env.Log.Info("Downloading " + c.target.URL)

	path, err := progress.Track(ctx, c.env.Reporter, "Downloading "+c.target.Name, func(ctx context.Context) (string, error) {
		return installer.Install(ctx, c.target)
	})
	if err != nil {
		return err
	}

	if c.env.Store != nil {
		stamp := c.env.now().UTC().Format(time.RFC3339)
		_ = c.env.Store.Set(session.KeyInstalledAt, stamp)
		_ = c.env.Store.Set(session.KeyLastUpdateCheck, stamp)
	}

	c.env.Log.NotifyInfo("Installed " + path)

	return nil
}
