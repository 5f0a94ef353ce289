// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

package wizard

import (
	"context"
	"fmt"

	"github.com/janderssonse/policyctl/internal/domain"
	"github.com/janderssonse/policyctl/internal/session"
)

// Validator returns an error message for value, or "" when it is acceptable.
type Validator func(value string) string

// ResumeDecider is asked after the operator dismissed a prompt. True shows
// the prompt again, false ends the flow with ErrCancelled.
type ResumeDecider func(ctx context.Context) bool

// InputBoxOptions configures a free text prompt. Zero Title, Step and
// TotalSteps are filled in from the running flow.
type InputBoxOptions struct {
	Title       string
	Step        int
	TotalSteps  int
	Value       string
	Prompt      string
	Placeholder string
	Password    bool
}

// QuickPickOptions configures a single choice prompt.
type QuickPickOptions struct {
	Title       string
	Step        int
	TotalSteps  int
	Placeholder string
	Items       []domain.PickItem
	Active      *domain.PickItem
}

// Input is the prompt handle passed to each step.
type Input struct {
	host       domain.PromptHost
	log        domain.LogSink
	title      string
	totalSteps int
	step       int
	canGoBack  bool
}

// ShowInputBox prompts for text until validate accepts it. Back returns
// ErrBack; an unresumed cancel returns ErrCancelled.
func (in *Input) ShowInputBox(ctx context.Context, opts InputBoxOptions, validate Validator, resume ResumeDecider) (string, error) {
	req := domain.InputRequest{
		PromptFrame: in.frame(opts.Title, opts.Step, opts.TotalSteps),
		Value:       opts.Value,
		Prompt:      opts.Prompt,
		Placeholder: opts.Placeholder,
		Password:    opts.Password,
	}

	for {
		value, gesture, err := in.host.Input(ctx, req)
		if err != nil {
			return "", fmt.Errorf("input %q: %w", opts.Prompt, err)
		}

		switch gesture {
		case domain.GestureBack:
			return "", ErrBack
		case domain.GestureCancel:
			if !in.resume(ctx, resume) {
				return "", ErrCancelled
			}

			req.ValidationMessage = ""

			continue
		case domain.GestureAccept:
		}

		if validate != nil {
			if msg := validate(value); msg != "" {
				req.Value = value
				req.ValidationMessage = msg

				continue
			}
		}

		return value, nil
	}
}

// ShowQuickPick prompts for one of opts.Items.
func (in *Input) ShowQuickPick(ctx context.Context, opts QuickPickOptions, resume ResumeDecider) (domain.PickItem, error) {
	req := domain.PickRequest{
		PromptFrame: in.frame(opts.Title, opts.Step, opts.TotalSteps),
		Placeholder: opts.Placeholder,
		Items:       opts.Items,
		Active:      opts.Active,
	}

	for {
		item, gesture, err := in.host.Pick(ctx, req)
		if err != nil {
			return domain.PickItem{}, fmt.Errorf("pick %q: %w", opts.Placeholder, err)
		}

		switch gesture {
		case domain.GestureBack:
			return domain.PickItem{}, ErrBack
		case domain.GestureCancel:
			if !in.resume(ctx, resume) {
				return domain.PickItem{}, ErrCancelled
			}

			continue
		case domain.GestureAccept:
		}

		return item, nil
	}
}

func (in *Input) frame(title string, step, total int) domain.PromptFrame {
	if title == "" {
		title = in.title
	}

	if step == 0 {
		step = in.step
	}

	if total == 0 {
		total = in.totalSteps
	}

	return domain.PromptFrame{
		Title:      title,
		Step:       step,
		TotalSteps: total,
		CanGoBack:  in.canGoBack,
	}
}

func (in *Input) resume(ctx context.Context, decide ResumeDecider) bool {
	if decide != nil {
		return decide(ctx)
	}

	return in.stop(ctx)
}

// stop is the default decider: it records who was interrupted and ends the flow.
func (in *Input) stop(ctx context.Context) bool {
	if in.log != nil {
		name, ok := session.CommandFromContext(ctx)
		if !ok {
			name = in.title
		}

		in.log.Info(name + " terminated by user")
	}

	return false
}
