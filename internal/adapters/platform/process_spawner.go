// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

// Package platform provides the operating system adapters for processes and files.
package platform

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"

	"github.com/janderssonse/policyctl/internal/adapters/network"
	"github.com/janderssonse/policyctl/internal/domain"
)

// ProcessSpawner implements the ProcessSpawner port with os/exec.
type ProcessSpawner struct{}

// NewProcessSpawner creates a new process spawner.
func NewProcessSpawner() *ProcessSpawner {
	return &ProcessSpawner{}
}

// Spawn starts req. The child inherits the environment, the proxy settings
// and req.Env, in that order. Cancelling ctx does not kill the child.
func (s *ProcessSpawner) Spawn(ctx context.Context, req domain.SpawnRequest) (domain.Process, error) {
	// #nosec G204 - the executable is the configured tool and args are assembled by commands
	cmd := exec.CommandContext(context.WithoutCancel(ctx), req.Executable, req.Args...)
	cmd.Dir = req.Dir
	cmd.Env = append(append(os.Environ(), network.GetProxyEnv()...), req.Env...)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdin pipe: %w", err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}

	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", req.Executable, err)
	}

	return &process{cmd: cmd, stdin: stdin, stdout: stdout, stderr: stderr}, nil
}

// LookPath checks if a command is available on the system.
func (s *ProcessSpawner) LookPath(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("failed to find %s: %w", name, err)
	}

	return path, nil
}

type process struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout io.Reader
	stderr io.Reader
}

func (p *process) Stdin() io.WriteCloser { return p.stdin }
func (p *process) Stdout() io.Reader     { return p.stdout }
func (p *process) Stderr() io.Reader     { return p.stderr }

// Wait must only be called once both output streams reached EOF.
func (p *process) Wait() (int, error) {
	err := p.cmd.Wait()
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() >= 0 {
		return exitErr.ExitCode(), nil
	}

	return -1, fmt.Errorf("failed to wait for %s: %w", p.cmd.Path, err)
}
