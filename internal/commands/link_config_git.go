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

// Git reference kinds.
const (
	RefBranch    = "branch"
	RefReference = "reference"
	RefCommit    = "commit"
)

// Git credential kinds.
const (
	CredentialsNone  = "none"
	CredentialsHTTPS = "https"
	CredentialsSSH   = "ssh"
)

var refKinds = []domain.PickItem{
	{Label: "Branch", Description: "follow the tip of a branch", Value: RefBranch},
	{Label: "Reference", Description: "a full git ref such as refs/tags/v1", Value: RefReference},
	{Label: "Commit", Description: "pin a single commit", Value: RefCommit},
}

var credentialKinds = []domain.PickItem{
	{Label: "None", Description: "public repository", Value: CredentialsNone},
	{Label: "HTTPS", Description: "username and access token", Value: CredentialsHTTPS},
	{Label: "SSH", Description: "private key file", Value: CredentialsSSH},
}

// GitOptions are the collected answers of link config git.
type GitOptions struct {
	URL         string
	RefKind     string
	Ref         string
	Credentials string
	Username    string
	Token       string
	KeyFile     string
}

// GitArgs assembles the tool arguments for link config git. The token is
// never an argument; it is returned as the stdin payload.
func GitArgs(opts GitOptions) (args []string, stdin string) {
	kind := opts.RefKind
	if kind == "" {
		kind = RefBranch
	}

	args = []string{"link", "config", "git", strings.TrimSpace(opts.URL), "--" + kind, strings.TrimSpace(opts.Ref)}

	switch opts.Credentials {
	case CredentialsHTTPS:
		args = append(args, "--username", opts.Username, "--password-stdin")
		stdin = opts.Token
	case CredentialsSSH:
		args = append(args, "--ssh-key-file", opts.KeyFile)
	}

	return args, stdin
}

// LinkConfigGit connects the linked system to a git repository.
type LinkConfigGit struct {
	Base
}

// NewLinkConfigGit creates the link config git command.
func NewLinkConfigGit(env *Env) *LinkConfigGit {
	return &LinkConfigGit{Base: NewBase(env, "link config git", Requirements{Tool: true, Linked: true})}
}

// Run collects the repository details and runs link config git.
func (c *LinkConfigGit) Run(ctx context.Context) error {
	opts, err := wizard.Run(ctx, wizard.Flow[GitOptions, GitOptions]{
		Title:      c.Title(),
		TotalSteps: 5,
		Start:      c.askURL,
		Result:     func(s *GitOptions) GitOptions { return *s },
		Host:       c.env.Host,
		Log:        c.env.Log,
	}, &GitOptions{RefKind: RefBranch, Credentials: CredentialsNone})
	if err != nil {
		return err
	}

	args, stdin := GitArgs(opts)

	_, err = c.env.Runner.RunTool(ctx, args, runner.Options{Stdin: stdin})

	return err
}

func (c *LinkConfigGit) askURL(ctx context.Context, in *wizard.Input, s *GitOptions) (wizard.Transition[GitOptions], error) {
	url, err := in.ShowInputBox(ctx, wizard.InputBoxOptions{
		Value:       s.URL,
		Prompt:      "Repository URL",
		Placeholder: "https://github.com/acme/policies.git",
	}, validateRepositoryURL, nil)
	if err != nil {
		return wizard.Transition[GitOptions]{}, err
	}

	s.URL = strings.TrimSpace(url)

	return wizard.Continue("ref kind", c.pickRefKind), nil
}

func (c *LinkConfigGit) pickRefKind(ctx context.Context, in *wizard.Input, s *GitOptions) (wizard.Transition[GitOptions], error) {
	item, err := in.ShowQuickPick(ctx, wizard.QuickPickOptions{
		Placeholder: "What should the system track?",
		Items:       refKinds,
		Active:      activeItem(refKinds, s.RefKind),
	}, nil)
	if err != nil {
		return wizard.Transition[GitOptions]{}, err
	}

	if item.Value != s.RefKind {
		s.Ref = ""
	}

	s.RefKind = item.Value

	return wizard.Continue("ref", c.askRef), nil
}

func (c *LinkConfigGit) askRef(ctx context.Context, in *wizard.Input, s *GitOptions) (wizard.Transition[GitOptions], error) {
	opts := wizard.InputBoxOptions{Value: s.Ref}
	validate := required("Branch")

	switch s.RefKind {
	case RefReference:
		opts.Prompt = "Git reference"
		opts.Placeholder = "refs/heads/main"
		validate = required("Reference")
	case RefCommit:
		opts.Prompt = "Commit SHA"
		validate = validateCommit
	default:
		opts.Prompt = "Branch name"

		if opts.Value == "" {
			opts.Value = "main"
		}
	}

	ref, err := in.ShowInputBox(ctx, opts, validate, nil)
	if err != nil {
		return wizard.Transition[GitOptions]{}, err
	}

	s.Ref = strings.TrimSpace(ref)

	return wizard.Continue("credentials", c.pickCredentials), nil
}

func (c *LinkConfigGit) pickCredentials(ctx context.Context, in *wizard.Input, s *GitOptions) (wizard.Transition[GitOptions], error) {
	item, err := in.ShowQuickPick(ctx, wizard.QuickPickOptions{
		Placeholder: "Repository credentials",
		Items:       credentialKinds,
		Active:      activeItem(credentialKinds, s.Credentials),
	}, nil)
	if err != nil {
		return wizard.Transition[GitOptions]{}, err
	}

	s.Credentials = item.Value

	switch item.Value {
	case CredentialsHTTPS:
		return wizard.Continue("username", c.askUsername), nil
	case CredentialsSSH:
		return wizard.Continue("key file", c.askKeyFile), nil
	default:
		return wizard.Done[GitOptions](), nil
	}
}

func (c *LinkConfigGit) askUsername(ctx context.Context, in *wizard.Input, s *GitOptions) (wizard.Transition[GitOptions], error) {
	user, err := in.ShowInputBox(ctx, wizard.InputBoxOptions{
		TotalSteps: 6,
		Value:      s.Username,
		Prompt:     "Git username",
	}, required("Username"), nil)
	if err != nil {
		return wizard.Transition[GitOptions]{}, err
	}

	s.Username = strings.TrimSpace(user)

	return wizard.Continue("token", c.askToken), nil
}

func (c *LinkConfigGit) askToken(ctx context.Context, in *wizard.Input, s *GitOptions) (wizard.Transition[GitOptions], error) {
	token, err := in.ShowInputBox(ctx, wizard.InputBoxOptions{
		TotalSteps: 6,
		Prompt:     "Access token",
		Password:   true,
	}, required("Access token"), nil)
	if err != nil {
		return wizard.Transition[GitOptions]{}, err
	}

	s.Token = token

	return wizard.Done[GitOptions](), nil
}

func (c *LinkConfigGit) askKeyFile(ctx context.Context, in *wizard.Input, s *GitOptions) (wizard.Transition[GitOptions], error) {
	root, err := c.env.Workspace.Root()
	if err != nil {
		return wizard.Transition[GitOptions]{}, err
	}

	key, err := in.ShowInputBox(ctx, wizard.InputBoxOptions{
		Value:       s.KeyFile,
		Prompt:      "Private key file",
		Placeholder: "~/.ssh/id_ed25519",
	}, existingFile(c.env.Files, root), nil)
	if err != nil {
		return wizard.Transition[GitOptions]{}, err
	}

	s.KeyFile = resolvePath(root, strings.TrimSpace(key))

	return wizard.Done[GitOptions](), nil
}

func activeItem(items []domain.PickItem, value string) *domain.PickItem {
	for i := range items {
		if items[i].Value == value {
			return &items[i]
		}
	}

	return nil
}
