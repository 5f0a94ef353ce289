// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/janderssonse/policyctl/internal/domain"
	"github.com/janderssonse/policyctl/internal/preview"
	"github.com/janderssonse/policyctl/internal/progress"
	"github.com/janderssonse/policyctl/internal/wizard"
)

// TokenEnv names the environment variable holding the API token.
const TokenEnv = "POLICYCTL_TOKEN"

// PreviewOptions are the collected answers of preview.
type PreviewOptions struct {
	PolicyFile string
	InputFile  string
}

// Preview evaluates a policy file against the control plane.
type Preview struct {
	Base
}

// NewPreview creates the preview command.
func NewPreview(env *Env) *Preview {
	return &Preview{Base: NewBase(env, "preview", Requirements{Workspace: true})}
}

// Run collects the files, sends the preview and renders the decision.
func (c *Preview) Run(ctx context.Context) error {
	url := c.env.Settings.Preview.URL
	if url == "" {
		return fmt.Errorf("%w: set preview.url in the config file", domain.ErrNotConfigured)
	}

	root, err := c.env.Workspace.Root()
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrNoWorkspace, err)
	}

	opts, err := wizard.Run(ctx, wizard.Flow[PreviewOptions, PreviewOptions]{
		Title:      c.Title(),
		TotalSteps: 2,
		Start:      c.askPolicy(root),
		Result:     func(s *PreviewOptions) PreviewOptions { return *s },
		Host:       c.env.Host,
		Log:        c.env.Log,
	}, &PreviewOptions{})
	if err != nil {
		return err
	}

	req, err := c.buildRequest(root, url, opts)
	if err != nil {
		return err
	}

	service := preview.NewService(c.env.Network)

	result, err := progress.Track(ctx, c.env.Reporter, "Evaluating "+opts.PolicyFile, func(ctx context.Context) (map[string]any, error) {
		return service.Evaluate(ctx, req)
	})
	if err != nil {
		return err
	}

	rendered, err := preview.Render(result, c.env.Styled)
	if err != nil {
		return err
	}

	c.env.Log.Info(rendered)

	return nil
}

func (c *Preview) buildRequest(root, url string, opts PreviewOptions) (*preview.Request, error) {
	source, err := c.env.Files.ReadFile(resolvePath(root, opts.PolicyFile))
	if err != nil {
		return nil, fmt.Errorf("failed to read policy: %w", err)
	}

	builder := preview.NewBuilder(url).
		WithToken(c.env.getenv(TokenEnv)).
		WithModule(modulePath(root, opts.PolicyFile), string(source))

	if opts.InputFile != "" {
		data, err := c.env.Files.ReadFile(resolvePath(root, opts.InputFile))
		if err != nil {
			return nil, fmt.Errorf("failed to read input: %w", err)
		}

		builder = builder.WithInputDocument(opts.InputFile, data)
	}

	return builder.Build()
}

func (c *Preview) askPolicy(root string) wizard.StepFunc[PreviewOptions] {
	return func(ctx context.Context, in *wizard.Input, s *PreviewOptions) (wizard.Transition[PreviewOptions], error) {
		file, err := in.ShowInputBox(ctx, wizard.InputBoxOptions{
			Value:       s.PolicyFile,
			Prompt:      "Policy file",
			Placeholder: "policy/rules.rego",
		}, existingFile(c.env.Files, root, ".rego"), nil)
		if err != nil {
			return wizard.Transition[PreviewOptions]{}, err
		}

		s.PolicyFile = strings.TrimSpace(file)

		return wizard.Continue("input", c.askInput(root)), nil
	}
}

func (c *Preview) askInput(root string) wizard.StepFunc[PreviewOptions] {
	return func(ctx context.Context, in *wizard.Input, s *PreviewOptions) (wizard.Transition[PreviewOptions], error) {
		file, err := in.ShowInputBox(ctx, wizard.InputBoxOptions{
			Value:       s.InputFile,
			Prompt:      "Input document (JSON or YAML, leave empty for none)",
			Placeholder: "input.json",
		}, optional(existingFile(c.env.Files, root, ".json", ".yaml", ".yml")), nil)
		if err != nil {
			return wizard.Transition[PreviewOptions]{}, err
		}

		s.InputFile = strings.TrimSpace(file)

		return wizard.Done[PreviewOptions](), nil
	}
}

// modulePath names a module by its workspace relative path when possible.
func modulePath(root, file string) string {
	abs := resolvePath(root, file)

	rel, err := filepath.Rel(root, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.Base(abs)
	}

	return rel
}
