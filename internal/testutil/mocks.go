// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

// Package testutil provides test doubles for the domain ports.
package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockNetworkClient mocks the NetworkClient port for testing.
type MockNetworkClient struct {
	mock.Mock
}

// DownloadFile mocks a download.
func (m *MockNetworkClient) DownloadFile(ctx context.Context, url, destPath string) error {
	args := m.Called(ctx, url, destPath)

	return args.Error(0)
}

// PostJSON mocks a JSON request. A non-nil first return value is copied
// into out when out is a *map[string]any.
func (m *MockNetworkClient) PostJSON(ctx context.Context, url, token string, body, out any) error {
	args := m.Called(ctx, url, token, body, out)

	if result, ok := args.Get(0).(map[string]any); ok {
		if target, ok := out.(*map[string]any); ok {
			*target = result
		}
	}

	return args.Error(1)
}

// StaticWorkspace is a Workspace with a fixed root or error.
type StaticWorkspace struct {
	Dir string
	Err error
}

// Root returns the configured root.
func (w StaticWorkspace) Root() (string, error) {
	return w.Dir, w.Err
}
