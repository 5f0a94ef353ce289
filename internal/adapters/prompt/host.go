// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

// Package prompt renders wizard prompts in the terminal with huh.
package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/janderssonse/policyctl/internal/domain"
	"golang.org/x/term"
)

// Key bindings handled around the huh form.
const (
	KeyBack   = "esc"
	KeyCancel = "ctrl+c"
)

func getValidationStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("196")).
		Bold(true)
}

// Host implements domain.PromptHost on the terminal.
type Host struct {
	in         io.Reader
	out        io.Writer
	isTerminal func() bool
}

// Option configures a Host.
type Option func(*Host)

// WithIO replaces stdin and stdout.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(h *Host) {
		h.in = in
		h.out = out
	}
}

// WithTerminalCheck replaces the interactive terminal detection.
func WithTerminalCheck(check func() bool) Option {
	return func(h *Host) {
		h.isTerminal = check
	}
}

// NewHost creates a terminal prompt host.
func NewHost(opts ...Option) *Host {
	h := &Host{
		in:  os.Stdin,
		out: os.Stdout,
		isTerminal: func() bool {
			return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
		},
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Input shows a text field.
func (h *Host) Input(ctx context.Context, req domain.InputRequest) (string, domain.Gesture, error) {
	if !h.isTerminal() {
		return "", domain.GestureCancel, domain.ErrNoTerminal
	}

	value := req.Value

	field := huh.NewInput().
		Title(heading(req.PromptFrame)).
		Description(description(req.Prompt, req.ValidationMessage)).
		Placeholder(req.Placeholder).
		Value(&value)

	if req.Password {
		field = field.EchoMode(huh.EchoModePassword)
	}

	gesture, err := h.run(ctx, huh.NewForm(huh.NewGroup(field)), req.CanGoBack)

	return value, gesture, err
}

// Pick shows a single choice list.
func (h *Host) Pick(ctx context.Context, req domain.PickRequest) (domain.PickItem, domain.Gesture, error) {
	if !h.isTerminal() {
		return domain.PickItem{}, domain.GestureCancel, domain.ErrNoTerminal
	}

	if len(req.Items) == 0 {
		return domain.PickItem{}, domain.GestureCancel, fmt.Errorf("pick %q: no items", req.Placeholder)
	}

	selected := req.Items[0].Value
	if req.Active != nil {
		selected = req.Active.Value
	}

	field := huh.NewSelect[string]().
		Title(heading(req.PromptFrame)).
		Description(req.Placeholder).
		Options(options(req.Items)...).
		Value(&selected)

	gesture, err := h.run(ctx, huh.NewForm(huh.NewGroup(field)), req.CanGoBack)
	if err != nil || gesture != domain.GestureAccept {
		return domain.PickItem{}, gesture, err
	}

	item, ok := itemByValue(req.Items, selected)
	if !ok {
		return domain.PickItem{}, domain.GestureCancel, fmt.Errorf("pick %q: unknown selection %q", req.Placeholder, selected)
	}

	return item, domain.GestureAccept, nil
}

func (h *Host) run(ctx context.Context, form *huh.Form, canGoBack bool) (domain.Gesture, error) {
	model := newFormModel(form.WithTheme(huh.ThemeCharm()).WithShowHelp(true), canGoBack)

	program := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(h.in),
		tea.WithOutput(h.out),
	)

	final, err := program.Run()
	if err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return domain.GestureCancel, ctx.Err()
		}

		return domain.GestureCancel, fmt.Errorf("prompt failed: %w", err)
	}

	fm, ok := final.(formModel)
	if !ok {
		return domain.GestureCancel, nil
	}

	return fm.gesture, nil
}

func heading(frame domain.PromptFrame) string {
	if frame.TotalSteps > 0 && frame.Step > 0 {
		return fmt.Sprintf("%s (%d/%d)", frame.Title, frame.Step, frame.TotalSteps)
	}

	return frame.Title
}

func description(prompt, validation string) string {
	if validation == "" {
		return prompt
	}

	return prompt + "\n" + getValidationStyle().Render("✗ "+validation)
}

func options(items []domain.PickItem) []huh.Option[string] {
	opts := make([]huh.Option[string], len(items))

	for i, item := range items {
		label := item.Label
		if item.Description != "" {
			label += "  " + item.Description
		}

		opts[i] = huh.NewOption(label, item.Value)
	}

	return opts
}

func itemByValue(items []domain.PickItem, value string) (domain.PickItem, bool) {
	for _, item := range items {
		if item.Value == value {
			return item, true
		}
	}

	return domain.PickItem{}, false
}
