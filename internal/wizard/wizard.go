// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

// Package wizard drives multi-step interactive prompts over a caller-owned state.
//
// A flow is a chain of steps. Each step shows exactly one prompt through the
// *Input handle and returns either Continue with the next step or Done. The
// engine keeps the visited steps on a stack so the operator can go back and
// revise an earlier answer.
package wizard

import (
	"context"
	"errors"
	"fmt"

	"github.com/janderssonse/policyctl/internal/domain"
)

var (
	// ErrBack is returned by a prompt when the operator asked for the previous step.
	ErrBack = errors.New("wizard: back")
	// ErrCancelled is returned when the operator dismissed a prompt and chose not to resume.
	ErrCancelled = errors.New("wizard: cancelled by user")
	// ErrNoNextStep is returned when a step continues without a successor.
	ErrNoNextStep = errors.New("wizard: step continued without a next step")
)

// StepFunc performs one prompt interaction and decides what comes next.
type StepFunc[S any] func(ctx context.Context, in *Input, state *S) (Transition[S], error)

// Transition is the outcome of a step.
type Transition[S any] struct {
	name string
	next StepFunc[S]
	done bool
}

// Continue advances to next. The name is used for diagnostics only.
func Continue[S any](name string, next StepFunc[S]) Transition[S] {
	return Transition[S]{name: name, next: next}
}

// Done completes the flow.
func Done[S any]() Transition[S] {
	return Transition[S]{done: true}
}

// Flow describes one wizard run.
type Flow[S, R any] struct {
	Title      string
	TotalSteps int
	Start      StepFunc[S]
	// Result freezes the populated state into the value returned by Run.
	Result func(*S) R
	Host   domain.PromptHost
	Log    domain.LogSink
}

// Run drives flow over state until a step returns Done or a prompt fails.
func Run[S, R any](ctx context.Context, flow Flow[S, R], state *S) (R, error) {
	var zero R

	if flow.Start == nil {
		return zero, fmt.Errorf("%w: flow %q has no first step", ErrNoNextStep, flow.Title)
	}

	var history []StepFunc[S]

	current := flow.Start

	for {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		in := &Input{
			host:       flow.Host,
			log:        flow.Log,
			title:      flow.Title,
			totalSteps: flow.TotalSteps,
			step:       len(history) + 1,
			canGoBack:  len(history) > 0,
		}

		next, err := current(ctx, in, state)

		switch {
		case errors.Is(err, ErrBack):
			// Back on the first step shows it again.
			if n := len(history); n > 0 {
				current = history[n-1]
				history = history[:n-1]
			}

			continue
		case err != nil:
			return zero, err
		}

		if next.done {
			if flow.Result == nil {
				return zero, nil
			}

			return flow.Result(state), nil
		}

		if next.next == nil {
			return zero, fmt.Errorf("%w: %q", ErrNoNextStep, next.name)
		}

		history = append(history, current)
		current = next.next
	}
}
