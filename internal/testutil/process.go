// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

package testutil

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sync"

	"github.com/janderssonse/policyctl/internal/domain"
)

// ErrNotFound is returned by FakeSpawner.LookPath for missing executables.
var ErrNotFound = errors.New("executable file not found")

// Script describes what a fake process writes and how it exits.
type Script struct {
	Stdout   string
	Stderr   string
	ExitCode int
	WaitErr  error
	// StderrFirst writes all of stderr before touching stdout. With
	// unbuffered pipes this deadlocks any reader that drains stdout first.
	StderrFirst bool
}

// FakeSpawner starts FakeProcesses from scripts.
type FakeSpawner struct {
	// Run picks the script for a request. Nil means exit 0 with no output.
	Run func(req domain.SpawnRequest) (Script, error)
	// Missing lists executables LookPath must not find.
	Missing map[string]bool

	mu        sync.Mutex
	requests  []domain.SpawnRequest
	processes []*FakeProcess
}

// Spawn records req and starts the scripted process.
func (s *FakeSpawner) Spawn(_ context.Context, req domain.SpawnRequest) (domain.Process, error) {
	script := Script{}

	if s.Run != nil {
		var err error

		script, err = s.Run(req)
		if err != nil {
			return nil, err
		}
	}

	proc := StartFakeProcess(script)

	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.processes = append(s.processes, proc)
	s.mu.Unlock()

	return proc, nil
}

// LookPath reports every executable as installed unless listed in Missing.
func (s *FakeSpawner) LookPath(name string) (string, error) {
	if s.Missing[name] {
		return "", ErrNotFound
	}

	return "/usr/local/bin/" + name, nil
}

// Requests returns the spawn requests seen so far.
func (s *FakeSpawner) Requests() []domain.SpawnRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]domain.SpawnRequest(nil), s.requests...)
}

// Processes returns the processes started so far.
func (s *FakeSpawner) Processes() []*FakeProcess {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]*FakeProcess(nil), s.processes...)
}

// FakeProcess is an in-memory child process backed by unbuffered pipes.
type FakeProcess struct {
	stdin  *CaptureWriter
	stdout *io.PipeReader
	stderr *io.PipeReader
	done   chan struct{}
	script Script
}

// StartFakeProcess starts writing script's output.
func StartFakeProcess(script Script) *FakeProcess {
	outR, outW := io.Pipe()
	errR, errW := io.Pipe()

	p := &FakeProcess{
		stdin:  &CaptureWriter{},
		stdout: outR,
		stderr: errR,
		done:   make(chan struct{}),
		script: script,
	}

	write := func(w *io.PipeWriter, s string) {
		_, _ = io.WriteString(w, s)
		_ = w.Close()
	}

	go func() {
		defer close(p.done)

		if script.StderrFirst {
			write(errW, script.Stderr)
			write(outW, script.Stdout)

			return
		}

		write(outW, script.Stdout)
		write(errW, script.Stderr)
	}()

	return p
}

// Stdin returns the captured input stream.
func (p *FakeProcess) Stdin() io.WriteCloser { return p.stdin }

// Stdout returns the output stream.
func (p *FakeProcess) Stdout() io.Reader { return p.stdout }

// Stderr returns the error stream.
func (p *FakeProcess) Stderr() io.Reader { return p.stderr }

// Wait blocks until all output is written.
func (p *FakeProcess) Wait() (int, error) {
	<-p.done

	return p.script.ExitCode, p.script.WaitErr
}

// StdinData returns what was written to the process input.
func (p *FakeProcess) StdinData() string { return p.stdin.String() }

// StdinClosed reports whether the input stream was closed.
func (p *FakeProcess) StdinClosed() bool { return p.stdin.Closed() }

// CaptureWriter is an io.WriteCloser recording writes.
type CaptureWriter struct {
	mu     sync.Mutex
	buf    bytes.Buffer
	closed bool
}

// Write records p.
func (c *CaptureWriter) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return 0, io.ErrClosedPipe
	}

	return c.buf.Write(p)
}

// Close marks the writer closed.
func (c *CaptureWriter) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closed = true

	return nil
}

// String returns the recorded bytes.
func (c *CaptureWriter) String() string {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.buf.String()
}

// Closed reports whether Close was called.
func (c *CaptureWriter) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.closed
}
