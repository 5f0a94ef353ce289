// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/glamour"
	"github.com/urfave/cli/v3"
)

const guideMarkdown = `# policyctl

## Getting started

1. ` + "`policyctl install`" + ` downloads the policy CLI into ` + "`~/.local/bin`" + `.
2. ` + "`policyctl link init`" + ` links the workspace folder to a new or existing system
   and writes ` + "`.styra.yaml`" + `.
3. ` + "`policyctl link config git`" + ` connects the system to the repository that
   holds its policies.

## Everyday commands

| command | what it does |
|---------|--------------|
| ` + "`link test`" + ` | runs the policy unit tests |
| ` + "`link validate decisions`" + ` | replays recorded decisions against local policies |
| ` + "`link search`" + ` | searches the policy library |
| ` + "`preview`" + ` | evaluates a policy file against the control plane |
| ` + "`version`" + ` | shows the installed policy CLI version |

## Prompts

Press **esc** to return to the previous step and **ctrl+c** to stop. A
stopped command changes nothing.

## Configuration

Settings live in ` + "`$XDG_CONFIG_HOME/policyctl/config.toml`" + `:

` + "```toml" + `
output_format = "pretty"
check_update_interval_days = 1

[tool]
path = "styra"

[preview]
url = "https://example.styra.com/v1/systems/<id>/data/preview"
` + "```" + `

The preview token is read from ` + "`POLICYCTL_TOKEN`" + `.
`

func (app *CLI) createGuideCommand() *cli.Command {
	return &cli.Command{
		Name:  "guide",
		Usage: "show a walkthrough of the commands",
		Action: func(_ context.Context, _ *cli.Command) error {
			fmt.Fprint(app.stdout, renderGuide(styled(app.globals.Color, app.stdout)))

			return nil
		},
	}
}

// renderGuide returns the guide as styled terminal output, or as plain
// markdown when styling is off or rendering fails.
func renderGuide(styledOutput bool) string {
	if !styledOutput {
		return guideMarkdown
	}

	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80))
	if err != nil {
		return guideMarkdown
	}

	out, err := renderer.Render(guideMarkdown)
	if err != nil {
		return guideMarkdown
	}

	return out
}
