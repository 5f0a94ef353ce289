// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

package prompt

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/janderssonse/policyctl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testForm() *huh.Form {
	value := ""

	return huh.NewForm(huh.NewGroup(huh.NewInput().Title("System name").Value(&value)))
}

func TestFormModel_Gestures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		key       tea.KeyMsg
		canGoBack bool
		want      domain.Gesture
		wantDone  bool
	}{
		{name: "ctrl+c cancels", key: tea.KeyMsg{Type: tea.KeyCtrlC}, want: domain.GestureCancel, wantDone: true},
		{name: "esc goes back when allowed", key: tea.KeyMsg{Type: tea.KeyEsc}, canGoBack: true, want: domain.GestureBack, wantDone: true},
		{name: "esc ignored on first step", key: tea.KeyMsg{Type: tea.KeyEsc}, want: domain.GestureCancel, wantDone: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			model := newFormModel(testForm(), tt.canGoBack)
			updated, cmd := model.Update(tt.key)

			fm, ok := updated.(formModel)
			require.True(t, ok)
			assert.Equal(t, tt.wantDone, fm.done)

			if tt.wantDone {
				assert.Equal(t, tt.want, fm.gesture)
				require.NotNil(t, cmd)
				assert.Equal(t, tea.Quit(), cmd())
				assert.Empty(t, fm.View())
			} else {
				assert.Nil(t, cmd)
			}
		})
	}
}

func TestHost_RequiresTerminal(t *testing.T) {
	t.Parallel()

	host := NewHost(WithTerminalCheck(func() bool { return false }))

	_, _, err := host.Input(context.Background(), domain.InputRequest{Prompt: "System name"})
	require.ErrorIs(t, err, domain.ErrNoTerminal)

	_, _, err = host.Pick(context.Background(), domain.PickRequest{Items: []domain.PickItem{{Value: "a"}}})
	require.ErrorIs(t, err, domain.ErrNoTerminal)
}

func TestHeadingAndDescription(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Link Init (2/4)", heading(domain.PromptFrame{Title: "Link Init", Step: 2, TotalSteps: 4}))
	assert.Equal(t, "Link Init", heading(domain.PromptFrame{Title: "Link Init"}))
	assert.Equal(t, "System name", description("System name", ""))
	assert.Contains(t, description("System name", "a value is required"), "a value is required")
}

func TestOptionsAndLookup(t *testing.T) {
	t.Parallel()

	items := []domain.PickItem{
		{Label: "Branch", Description: "track a branch", Value: "branch"},
		{Label: "Commit", Value: "commit"},
	}

	opts := options(items)
	require.Len(t, opts, 2)
	assert.Equal(t, "Branch  track a branch", opts[0].Key)
	assert.Equal(t, "commit", opts[1].Value)

	item, ok := itemByValue(items, "commit")
	assert.True(t, ok)
	assert.Equal(t, "Commit", item.Label)

	_, ok = itemByValue(items, "tag")
	assert.False(t, ok)
}
