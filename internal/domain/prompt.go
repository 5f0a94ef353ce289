// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

package domain

import "context"

// Gesture is the operator's reaction to a prompt.
type Gesture int

const (
	// GestureAccept means the operator submitted a value.
	GestureAccept Gesture = iota
	// GestureBack means the operator asked to return to the previous step.
	GestureBack
	// GestureCancel means the operator dismissed the prompt.
	GestureCancel
)

func (g Gesture) String() string {
	switch g {
	case GestureAccept:
		return "accept"
	case GestureBack:
		return "back"
	case GestureCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// PromptFrame is the display metadata shared by every prompt.
type PromptFrame struct {
	Title      string
	Step       int
	TotalSteps int
	CanGoBack  bool
}

// InputRequest asks the host for free text.
type InputRequest struct {
	PromptFrame

	Value       string // pre-filled text
	Prompt      string
	Placeholder string
	Password    bool
	// ValidationMessage is shown when the previous answer was rejected.
	ValidationMessage string
}

// PickItem is one entry of a choice list.
type PickItem struct {
	Label       string
	Description string
	Value       string
}

// PickRequest asks the host for a single choice.
type PickRequest struct {
	PromptFrame

	Placeholder string
	Items       []PickItem
	Active      *PickItem
}

// PromptHost renders prompts and reports operator gestures.
type PromptHost interface {
	// Input shows a text prompt. The value is meaningful only with GestureAccept.
	Input(ctx context.Context, req InputRequest) (string, Gesture, error)

	// Pick shows a choice list. The item is meaningful only with GestureAccept.
	Pick(ctx context.Context, req PickRequest) (PickItem, Gesture, error)
}
