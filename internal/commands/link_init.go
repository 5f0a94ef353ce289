// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

package commands

import (
	"context"
	"strings"

	"github.com/janderssonse/policyctl/internal/domain"
	"github.com/janderssonse/policyctl/internal/runner"
	"github.com/janderssonse/policyctl/internal/wizard"
)

const defaultPolicyDir = "policy"

// System types offered when creating a system.
var systemTypes = []domain.PickItem{
	{Label: "Kubernetes", Description: "admission control", Value: "kubernetes:v2"},
	{Label: "Envoy", Description: "service mesh authorization", Value: "envoy"},
	{Label: "Terraform", Description: "infrastructure plans", Value: "terraform"},
	{Label: "Custom", Description: "any OPA integration", Value: "custom"},
}

var systemOrigins = []domain.PickItem{
	{Label: "Create a new system", Value: "new"},
	{Label: "Link an existing system", Value: "existing"},
}

// InitOptions are the collected answers of link init.
type InitOptions struct {
	Name      string
	Create    bool
	Type      string
	PolicyDir string
}

// InitArgs assembles the tool arguments for link init.
func InitArgs(opts InitOptions) []string {
	args := []string{"link", "init", "--name", strings.TrimSpace(opts.Name)}

	if opts.Create {
		args = append(args, "--create-system", "--type", opts.Type)
	}

	return append(args, "--policies", strings.TrimSpace(opts.PolicyDir))
}

// LinkInit links the workspace to a new or existing system.
type LinkInit struct {
	Base
}

// NewLinkInit creates the link init command.
func NewLinkInit(env *Env) *LinkInit {
	return &LinkInit{Base: NewBase(env, "link init", Requirements{Tool: true, Workspace: true})}
}

// Run collects the system details and runs link init.
func (c *LinkInit) Run(ctx context.Context) error {
	opts, err := wizard.Run(ctx, wizard.Flow[InitOptions, InitOptions]{
		Title:      c.Title(),
		TotalSteps: 4,
		Start:      c.pickOrigin,
		Result:     func(s *InitOptions) InitOptions { return *s },
		Host:       c.env.Host,
		Log:        c.env.Log,
	}, &InitOptions{PolicyDir: defaultPolicyDir})
	if err != nil {
		return err
	}

	_, err = c.env.Runner.RunTool(ctx, InitArgs(opts), runner.Options{})
	if err != nil {
		return err
	}

	c.env.Log.NotifyInfo("Workspace linked to system " + opts.Name)

	return nil
}

func (c *LinkInit) pickOrigin(ctx context.Context, in *wizard.Input, s *InitOptions) (wizard.Transition[InitOptions], error) {
	active := systemOrigins[1]
	if s.Create {
		active = systemOrigins[0]
	}

	item, err := in.ShowQuickPick(ctx, wizard.QuickPickOptions{
		Placeholder: "Create a new system or link an existing one?",
		Items:       systemOrigins,
		Active:      &active,
	}, nil)
	if err != nil {
		return wizard.Transition[InitOptions]{}, err
	}

	s.Create = item.Value == "new"

	return wizard.Continue("name", c.askName), nil
}

func (c *LinkInit) askName(ctx context.Context, in *wizard.Input, s *InitOptions) (wizard.Transition[InitOptions], error) {
	name, err := in.ShowInputBox(ctx, wizard.InputBoxOptions{
		Value:       s.Name,
		Prompt:      "System name",
		Placeholder: "payments-service",
	}, validateSystemName, nil)
	if err != nil {
		return wizard.Transition[InitOptions]{}, err
	}

	s.Name = strings.TrimSpace(name)

	if s.Create {
		return wizard.Continue("type", c.pickType), nil
	}

	return wizard.Continue("policies", c.askPolicyDir), nil
}

func (c *LinkInit) pickType(ctx context.Context, in *wizard.Input, s *InitOptions) (wizard.Transition[InitOptions], error) {
	opts := wizard.QuickPickOptions{Placeholder: "System type", Items: systemTypes}

	for i := range systemTypes {
		if systemTypes[i].Value == s.Type {
			opts.Active = &systemTypes[i]
		}
	}

	item, err := in.ShowQuickPick(ctx, opts, nil)
	if err != nil {
		return wizard.Transition[InitOptions]{}, err
	}

	s.Type = item.Value

	return wizard.Continue("policies", c.askPolicyDir), nil
}

func (c *LinkInit) askPolicyDir(ctx context.Context, in *wizard.Input, s *InitOptions) (wizard.Transition[InitOptions], error) {
	total := 4
	if !s.Create {
		total = 3
	}

	dir, err := in.ShowInputBox(ctx, wizard.InputBoxOptions{
		TotalSteps: total,
		Value:      s.PolicyDir,
		Prompt:     "Policy directory, relative to the workspace",
	}, validateRelativeDir, nil)
	if err != nil {
		return wizard.Transition[InitOptions]{}, err
	}

	s.PolicyDir = strings.TrimSpace(dir)

	return wizard.Done[InitOptions](), nil
}
