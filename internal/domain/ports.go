// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

// Package domain holds the ports and shared types of policyctl.
package domain

import (
	"context"
	"io"
)

// ProcessSpawner starts external processes.
// Implemented by the os/exec adapter and by test doubles.
type ProcessSpawner interface {
	// Spawn starts the process described by req. The returned Process must be
	// waited on by the caller.
	Spawn(ctx context.Context, req SpawnRequest) (Process, error)

	// LookPath reports the resolved location of an executable.
	LookPath(name string) (string, error)
}

// SpawnRequest describes one process to start.
type SpawnRequest struct {
	Executable string
	Args       []string
	Dir        string
	Env        []string
}

// Process is a running child process.
type Process interface {
	// Stdin is the child's input stream.
	Stdin() io.WriteCloser

	// Stdout is the child's standard output stream.
	Stdout() io.Reader

	// Stderr is the child's standard error stream.
	Stderr() io.Reader

	// Wait blocks until the process exits and returns its exit code.
	// A non-zero exit code is not an error; err reports wait failures only.
	Wait() (exitCode int, err error)
}

// LogSink is the append-only output surface ("log pane").
// The Notify variants also raise a transient user-facing notification.
type LogSink interface {
	// Info appends a line to the log only.
	Info(message string)

	// NotifyInfo appends a line and shows an informational notification.
	NotifyInfo(message string)

	// NotifyWarning appends a line and shows a warning notification.
	NotifyWarning(message string)

	// NotifyError appends a line and shows an error notification.
	NotifyError(message string)
}

// SessionStore is a key-value store scoped to the running session.
type SessionStore interface {
	// Get returns the value stored under key.
	Get(key string) (string, bool)

	// Set stores value under key.
	Set(key, value string) error
}

// Workspace resolves the project root commands operate on.
type Workspace interface {
	// Root returns the absolute workspace root directory.
	Root() (string, error)
}

// NetworkClient defines the interface for network operations.
type NetworkClient interface {
	// DownloadFile downloads a file from a URL to a destination path.
	DownloadFile(ctx context.Context, url, destPath string) error

	// PostJSON sends body as JSON and decodes the JSON response into out.
	PostJSON(ctx context.Context, url, token string, body, out any) error
}

// FileManager defines the file operations used by commands.
type FileManager interface {
	// FileExists checks if a regular file or directory exists at path.
	FileExists(path string) bool

	// EnsureDir creates path and its parents.
	EnsureDir(path string) error

	// ReadFile reads the whole file.
	ReadFile(path string) ([]byte, error)

	// InstallExecutable moves src to dest with mode 0755, replacing dest atomically.
	InstallExecutable(src, dest string) error

	// RemoveFile removes a file. A missing file is not an error.
	RemoveFile(path string) error
}
