// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

package progress

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// NewTerminalDisplay returns a spinner when out is a terminal and a
// line-per-update display otherwise.
func NewTerminalDisplay(out *os.File) Display {
	if term.IsTerminal(int(out.Fd())) {
		return NewSpinnerDisplay(out)
	}

	return NewLineDisplay(out)
}

// LineDisplay writes one line per status change. Suitable for pipes and logs.
type LineDisplay struct {
	mu    sync.Mutex
	w     io.Writer
	title string
}

// NewLineDisplay creates a line display writing to w.
func NewLineDisplay(w io.Writer) *LineDisplay {
	return &LineDisplay{w: w}
}

// Start shows the operation title.
func (d *LineDisplay) Start(title string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.title = title
	_, _ = fmt.Fprintf(d.w, "⏳ %s\n", title)
}

// Update writes the new status.
func (d *LineDisplay) Update(message string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	_, _ = fmt.Fprintf(d.w, "⏳ %s: %s\n", d.title, message)
}

// Stop is silent; the runner reports completion itself.
func (d *LineDisplay) Stop(error) {}

// SpinnerDisplay animates a spinner next to the latest status text.
type SpinnerDisplay struct {
	out     io.Writer
	program *tea.Program
	done    chan struct{}
}

// NewSpinnerDisplay creates a spinner rendering to out.
func NewSpinnerDisplay(out io.Writer) *SpinnerDisplay {
	return &SpinnerDisplay{out: out}
}

// Start launches the spinner program.
func (d *SpinnerDisplay) Start(title string) {
	d.program = tea.NewProgram(newSpinnerModel(title), tea.WithOutput(d.out), tea.WithInput(nil))
	d.done = make(chan struct{})

	go func() {
		defer close(d.done)

		_, _ = d.program.Run()
	}()
}

// Update replaces the status text next to the spinner.
func (d *SpinnerDisplay) Update(message string) {
	if d.program != nil {
		d.program.Send(statusMsg(message))
	}
}

// Stop renders the final state and waits for the program to exit.
func (d *SpinnerDisplay) Stop(err error) {
	if d.program == nil {
		return
	}

	d.program.Send(doneMsg{err: err})
	<-d.done
	d.program = nil
}

type statusMsg string

type doneMsg struct {
	err error
}

var (
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type spinnerModel struct {
	spinner spinner.Model
	title   string
	status  string
	done    bool
	err     error
}

func newSpinnerModel(title string) *spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return &spinnerModel{
		spinner: s,
		title:   title,
	}
}

func (m *spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusMsg:
		m.status = string(msg)

		return m, nil
	case doneMsg:
		m.done = true
		m.err = msg.err

		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	}

	return m, nil
}

func (m *spinnerModel) View() string {
	if m.done {
		if m.err != nil {
			return fmt.Sprintf("✗ %s\n", m.title)
		}

		return fmt.Sprintf("✓ %s\n", m.title)
	}

	if m.status == "" {
		return fmt.Sprintf("%s %s", m.spinner.View(), m.title)
	}

	return fmt.Sprintf("%s %s %s", m.spinner.View(), m.title, statusStyle.Render(m.status))
}
