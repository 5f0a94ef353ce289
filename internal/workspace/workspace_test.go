// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/janderssonse/policyctl/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFolder_Root(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	t.Run("explicit directory", func(t *testing.T) {
		t.Parallel()

		root, err := New(dir).Root()
		require.NoError(t, err)
		assert.Equal(t, dir, root)
	})

	t.Run("working directory fallback", func(t *testing.T) {
		t.Parallel()

		f := &Folder{getwd: func() (string, error) { return dir, nil }}

		root, err := f.Root()
		require.NoError(t, err)
		assert.Equal(t, dir, root)
	})

	t.Run("working directory failure", func(t *testing.T) {
		t.Parallel()

		f := &Folder{getwd: func() (string, error) { return "", errors.New("removed") }}

		_, err := f.Root()
		require.Error(t, err)
	})

	t.Run("missing directory", func(t *testing.T) {
		t.Parallel()

		_, err := New(filepath.Join(dir, "missing")).Root()
		require.Error(t, err)
	})

	t.Run("file is not a workspace", func(t *testing.T) {
		t.Parallel()

		file := filepath.Join(t.TempDir(), "policy.rego")
		require.NoError(t, os.WriteFile(file, []byte("package x"), 0600))

		_, err := New(file).Root()
		require.ErrorIs(t, err, errNotDirectory)
	})
}

func TestFolder_Config(t *testing.T) {
	t.Parallel()

	t.Run("parses link configuration", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		content := "url: https://acme.styra.com\nsystem_id: abc123\nname: payments\npolicies: policy\n"
		require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0600))

		cfg, err := New(dir).Config()
		require.NoError(t, err)
		assert.Equal(t, &Config{URL: "https://acme.styra.com", SystemID: "abc123", Name: "payments", Policies: "policy"}, cfg)
	})

	t.Run("missing file is not configured", func(t *testing.T) {
		t.Parallel()

		_, err := New(t.TempDir()).Config()
		require.ErrorIs(t, err, domain.ErrNotConfigured)
		assert.True(t, domain.IsPrecondition(err))
	})

	t.Run("missing workspace", func(t *testing.T) {
		t.Parallel()

		_, err := New(filepath.Join(t.TempDir(), "gone")).Config()
		require.ErrorIs(t, err, domain.ErrNoWorkspace)
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("url: [unclosed"), 0600))

		_, err := New(dir).Config()
		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrNotConfigured)
	})
}
