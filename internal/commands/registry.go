// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

package commands

import "context"

// Runnable is a command that runs inside its Base frame.
type Runnable interface {
	Command
	Execute(ctx context.Context, cmd Command) error
}

// Spec registers a command under its name path, e.g. ["link", "config", "git"].
type Spec struct {
	Path  []string
	Usage string
	New   func(env *Env) Runnable
}

// Run executes r in its frame.
func Run(ctx context.Context, r Runnable) error {
	return r.Execute(ctx, r)
}

// Registry lists every command in help order.
func Registry() []Spec {
	return []Spec{
		{
			Path:  []string{"link", "init"},
			Usage: "link the workspace to a new or existing system",
			New:   func(env *Env) Runnable { return NewLinkInit(env) },
		},
		{
			Path:  []string{"link", "config", "git"},
			Usage: "connect the linked system to a git repository",
			New:   func(env *Env) Runnable { return NewLinkConfigGit(env) },
		},
		{
			Path:  []string{"link", "test"},
			Usage: "run the policy tests of the linked system",
			New:   func(env *Env) Runnable { return NewLinkTest(env) },
		},
		{
			Path:  []string{"link", "validate", "decisions"},
			Usage: "replay recorded decisions against the local policies",
			New:   func(env *Env) Runnable { return NewLinkValidateDecisions(env) },
		},
		{
			Path:  []string{"link", "search"},
			Usage: "search the policy library",
			New:   func(env *Env) Runnable { return NewLinkSearch(env) },
		},
		{
			Path:  []string{"preview"},
			Usage: "evaluate a policy file against the control plane",
			New:   func(env *Env) Runnable { return NewPreview(env) },
		},
		{
			Path:  []string{"install"},
			Usage: "download the policy CLI into the user bin directory",
			New:   func(env *Env) Runnable { return NewInstall(env) },
		},
		{
			Path:  []string{"version"},
			Usage: "show the installed policy CLI version",
			New:   func(env *Env) Runnable { return NewVersion(env) },
		},
	}
}
