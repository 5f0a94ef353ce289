// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func noEnv(string) string { return "" }

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	t.Parallel()

	settings, err := LoadWithEnv(filepath.Join(t.TempDir(), "absent.toml"), noEnv)
	require.NoError(t, err)
	assert.Equal(t, Default(), settings)
	assert.Equal(t, FormatPretty, settings.OutputFormat)
	assert.Equal(t, 1, settings.CheckUpdateIntervalDays)
	assert.Equal(t, "styra", settings.Tool.Path)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
output_format = "json"

[preview]
url = "https://example.styra.com"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	settings, err := LoadWithEnv(path, noEnv)
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, settings.OutputFormat)
	assert.Equal(t, "https://example.styra.com", settings.Preview.URL)
	assert.Equal(t, 30, settings.Preview.TimeoutSeconds)
	assert.Equal(t, "styra", settings.Tool.Path)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		"POLICYCTL_TOOL_PATH":   "/opt/bin/styra",
		"POLICYCTL_PREVIEW_URL": "https://override",
	}

	settings, err := LoadWithEnv("", func(k string) string { return env[k] })
	require.NoError(t, err)
	assert.Equal(t, "/opt/bin/styra", settings.Tool.Path)
	assert.Equal(t, "https://override", settings.Preview.URL)
}

func TestLoad_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "bad format", content: `output_format = "xml"`},
		{name: "negative interval", content: `check_update_interval_days = -1`},
		{name: "syntax error", content: `output_format = `},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(testCase.content), 0o600))

			_, err := LoadWithEnv(path, noEnv)
			assert.Error(t, err)
		})
	}
}

func TestDownloadURLFor(t *testing.T) {
	t.Parallel()

	settings := Default()
	assert.Equal(t, "https://docs.styra.com/v1/docs/bin/linux/amd64/styra", settings.DownloadURLFor("linux", "amd64"))
}
