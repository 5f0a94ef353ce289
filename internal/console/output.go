// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

// Package console implements the log pane and notification surface.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"
)

// BannerWidth is the display width of command banners.
const BannerWidth = 64

var (
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
)

// Channel is the append-only log sink. Every line goes to the log writer;
// Notify* lines are additionally shown as a toast on the notify writer.
// Safe for use from timer callbacks and drain goroutines.
type Channel struct {
	mu     sync.Mutex
	log    io.Writer
	notify io.Writer
	styled bool
}

// NewChannel creates a channel writing log lines to log and toasts to notify.
// Toasts are styled only when notify is a terminal and NO_COLOR is unset.
func NewChannel(log, notify io.Writer) *Channel {
	return &Channel{
		log:    log,
		notify: notify,
		styled: colorEnabled(notify),
	}
}

// NewStdChannel writes the log to stdout and toasts to stderr.
func NewStdChannel() *Channel {
	return NewChannel(os.Stdout, os.Stderr)
}

// Info appends a line to the log only.
func (c *Channel) Info(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.writeLog(message)
}

// NotifyInfo appends a line and shows an informational toast.
func (c *Channel) NotifyInfo(message string) {
	c.notifyWith("ℹ", infoStyle, message)
}

// NotifyWarning appends a line and shows a warning toast.
func (c *Channel) NotifyWarning(message string) {
	c.notifyWith("⚠", warningStyle, message)
}

// NotifyError appends a line and shows an error toast.
func (c *Channel) NotifyError(message string) {
	c.notifyWith("✗", errorStyle, message)
}

func (c *Channel) notifyWith(symbol string, style lipgloss.Style, message string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.writeLog(message)

	if c.notify == nil {
		return
	}

	toast := symbol + " " + firstLine(message)
	if c.styled {
		toast = style.Render(toast)
	}

	_, _ = fmt.Fprintln(c.notify, toast)
}

func (c *Channel) writeLog(message string) {
	if c.log == nil {
		return
	}

	_, _ = fmt.Fprintln(c.log, strings.TrimRight(message, "\n"))
}

// Banner returns a visually delimited line naming a command, padded with
// box-drawing rules to BannerWidth display cells.
func Banner(title string) string {
	label := " " + title + " "
	rule := BannerWidth - runewidth.StringWidth(label)

	if rule < 8 {
		rule = 8
	}

	left := rule / 2

	return strings.Repeat("─", left) + label + strings.Repeat("─", rule-left)
}

// IsTTY checks if fd refers to a terminal.
func IsTTY(fd uintptr) bool {
	return term.IsTerminal(int(fd))
}

func colorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("TERM") == "dumb" {
		return false
	}

	f, ok := w.(*os.File)

	return ok && IsTTY(f.Fd())
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}

	return s
}
