// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

package testutil

import "sync"

// Log levels recorded by LogRecorder.
const (
	LevelInfo    = "info"
	LevelNotify  = "notify-info"
	LevelWarning = "notify-warning"
	LevelError   = "notify-error"
)

// LogEntry is one recorded log line.
type LogEntry struct {
	Level   string
	Message string
}

// LogRecorder is a LogSink that keeps every line in order.
type LogRecorder struct {
	mu      sync.Mutex
	entries []LogEntry
}

// Info records an info line.
func (r *LogRecorder) Info(message string) { r.add(LevelInfo, message) }

// NotifyInfo records an informational notification.
func (r *LogRecorder) NotifyInfo(message string) { r.add(LevelNotify, message) }

// NotifyWarning records a warning notification.
func (r *LogRecorder) NotifyWarning(message string) { r.add(LevelWarning, message) }

// NotifyError records an error notification.
func (r *LogRecorder) NotifyError(message string) { r.add(LevelError, message) }

func (r *LogRecorder) add(level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, LogEntry{Level: level, Message: message})
}

// Entries returns a copy of the recorded lines.
func (r *LogRecorder) Entries() []LogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]LogEntry(nil), r.entries...)
}

// Messages returns the recorded messages in order.
func (r *LogRecorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Message)
	}

	return out
}

// Count returns how many lines were recorded at level.
func (r *LogRecorder) Count(level string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0

	for _, e := range r.entries {
		if e.Level == level {
			n++
		}
	}

	return n
}
