// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

package prompt

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/janderssonse/policyctl/internal/domain"
)

// formModel wraps a huh form so back and cancel keys become gestures.
type formModel struct {
	form      *huh.Form
	canGoBack bool
	gesture   domain.Gesture
	done      bool
}

func newFormModel(form *huh.Form, canGoBack bool) formModel {
	return formModel{form: form, canGoBack: canGoBack, gesture: domain.GestureCancel}
}

func (m formModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m formModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case KeyCancel:
			return m.finish(domain.GestureCancel)
		case KeyBack:
			if m.canGoBack {
				return m.finish(domain.GestureBack)
			}

			return m, nil
		}
	}

	updated, cmd := m.form.Update(msg)
	if f, ok := updated.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		return m.finish(domain.GestureAccept)
	case huh.StateAborted:
		return m.finish(domain.GestureCancel)
	case huh.StateNormal:
	}

	return m, cmd
}

func (m formModel) View() string {
	if m.done {
		return ""
	}

	return m.form.View()
}

func (m formModel) finish(gesture domain.Gesture) (tea.Model, tea.Cmd) {
	m.gesture = gesture
	m.done = true

	return m, tea.Quit
}
