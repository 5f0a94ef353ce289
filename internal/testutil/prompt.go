// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/janderssonse/policyctl/internal/domain"
)

// ErrScriptExhausted is returned when a ScriptedHost runs out of answers.
var ErrScriptExhausted = errors.New("prompt script exhausted")

// Answer is one scripted operator reaction.
type Answer struct {
	Value   string
	Gesture domain.Gesture
	Err     error
}

// Accept answers a prompt with value. For picks, value is the item Value.
func Accept(value string) Answer { return Answer{Value: value, Gesture: domain.GestureAccept} }

// Back presses the back gesture.
func Back() Answer { return Answer{Gesture: domain.GestureBack} }

// Cancel dismisses the prompt.
func Cancel() Answer { return Answer{Gesture: domain.GestureCancel} }

// Prompt is one prompt the host was asked to show.
type Prompt struct {
	Kind  string // "input" or "pick"
	Input domain.InputRequest
	Pick  domain.PickRequest
}

// Label identifies the prompt: the input prompt text or the pick placeholder.
func (p Prompt) Label() string {
	if p.Kind == "pick" {
		return p.Pick.Placeholder
	}

	return p.Input.Prompt
}

// Frame returns the prompt's display metadata.
func (p Prompt) Frame() domain.PromptFrame {
	if p.Kind == "pick" {
		return p.Pick.PromptFrame
	}

	return p.Input.PromptFrame
}

// ScriptedHost is a PromptHost replaying answers in order.
type ScriptedHost struct {
	mu      sync.Mutex
	answers []Answer
	prompts []Prompt
}

// NewScriptedHost creates a host that replays answers.
func NewScriptedHost(answers ...Answer) *ScriptedHost {
	return &ScriptedHost{answers: answers}
}

// Input implements domain.PromptHost.
func (h *ScriptedHost) Input(_ context.Context, req domain.InputRequest) (string, domain.Gesture, error) {
	answer, err := h.next(Prompt{Kind: "input", Input: req})
	if err != nil {
		return "", domain.GestureCancel, err
	}

	return answer.Value, answer.Gesture, answer.Err
}

// Pick implements domain.PromptHost.
func (h *ScriptedHost) Pick(_ context.Context, req domain.PickRequest) (domain.PickItem, domain.Gesture, error) {
	answer, err := h.next(Prompt{Kind: "pick", Pick: req})
	if err != nil {
		return domain.PickItem{}, domain.GestureCancel, err
	}

	if answer.Gesture != domain.GestureAccept || answer.Err != nil {
		return domain.PickItem{}, answer.Gesture, answer.Err
	}

	for _, item := range req.Items {
		if item.Value == answer.Value {
			return item, domain.GestureAccept, nil
		}
	}

	return domain.PickItem{}, domain.GestureCancel, fmt.Errorf("%q is not an item of %q", answer.Value, req.Title)
}

func (h *ScriptedHost) next(p Prompt) (Answer, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.prompts = append(h.prompts, p)

	if len(h.answers) == 0 {
		return Answer{}, ErrScriptExhausted
	}

	answer := h.answers[0]
	h.answers = h.answers[1:]

	return answer, nil
}

// Prompts returns every prompt shown so far.
func (h *ScriptedHost) Prompts() []Prompt {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append([]Prompt(nil), h.prompts...)
}

// Labels returns the labels of every prompt shown so far.
func (h *ScriptedHost) Labels() []string {
	prompts := h.Prompts()
	out := make([]string, 0, len(prompts))

	for _, p := range prompts {
		out = append(out, p.Label())
	}

	return out
}

// Remaining returns how many answers were not consumed.
func (h *ScriptedHost) Remaining() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.answers)
}
