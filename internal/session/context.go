// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

// Package session carries per-run state: the attribution of the running
// command and a small persistent key-value store.
package session

import "context"

type commandKey struct{}

// WithCommand returns a context attributed to the named user-facing command.
func WithCommand(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, commandKey{}, name)
}

// CommandFromContext returns the command the context is attributed to.
func CommandFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(commandKey{}).(string)
	if !ok || name == "" {
		return "", false
	}

	return name, true
}
