// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

// Package config loads user-adjustable policyctl settings.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Output formats understood by the policy CLI.
const (
	FormatPretty = "pretty"
	FormatJSON   = "json"
	FormatYAML   = "yaml"
)

// DefaultDownloadURL is the tool download location; {os} and {arch} are expanded.
const DefaultDownloadURL = "https://docs.styra.com/v1/docs/bin/{os}/{arch}/styra"

// ErrInvalidSetting is returned when a settings value is out of range.
var ErrInvalidSetting = errors.New("invalid setting")

// Settings is the read-only configuration source.
type Settings struct {
	OutputFormat            string `toml:"output_format"`
	DiagnosticOutput        bool   `toml:"diagnostic_output"`
	CheckUpdateIntervalDays int    `toml:"check_update_interval_days"`

	Tool    ToolSettings    `toml:"tool"`
	Preview PreviewSettings `toml:"preview"`
}

// ToolSettings locate the external policy CLI.
type ToolSettings struct {
	Path        string `toml:"path"`
	DownloadURL string `toml:"download_url"`
	InstallDir  string `toml:"install_dir"`
}

// PreviewSettings configure the control-plane preview endpoint.
type PreviewSettings struct {
	URL            string `toml:"url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Default returns the documented default for every key.
func Default() Settings {
	return Settings{
		OutputFormat:            FormatPretty,
		DiagnosticOutput:        false,
		CheckUpdateIntervalDays: 1,
		Tool: ToolSettings{
			Path:        "styra",
			DownloadURL: DefaultDownloadURL,
			InstallDir:  GetUserBinDir(),
		},
		Preview: PreviewSettings{
			TimeoutSeconds: 30,
		},
	}
}

// Load reads settings from path, falling back to defaults for absent keys.
// A missing file yields the defaults.
func Load(path string) (Settings, error) {
	return LoadWithEnv(path, os.Getenv)
}

// LoadWithEnv is Load with an injectable environment lookup for testing.
func LoadWithEnv(path string, getenv func(string) string) (Settings, error) {
	settings := Default()

	if path != "" {
		data, err := os.ReadFile(path) //nolint:gosec // user supplied config path
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return settings, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := toml.Unmarshal(data, &settings); err != nil {
				return settings, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	if v := getenv("POLICYCTL_TOOL_PATH"); v != "" {
		settings.Tool.Path = v
	}

	if v := getenv("POLICYCTL_PREVIEW_URL"); v != "" {
		settings.Preview.URL = v
	}

	return settings, settings.Validate()
}

// Validate checks value ranges.
func (s Settings) Validate() error {
	switch strings.ToLower(s.OutputFormat) {
	case FormatPretty, FormatJSON, FormatYAML:
	default:
		return fmt.Errorf("%w: output_format %q (want pretty, json or yaml)", ErrInvalidSetting, s.OutputFormat)
	}

	if s.CheckUpdateIntervalDays < 0 {
		return fmt.Errorf("%w: check_update_interval_days must not be negative", ErrInvalidSetting)
	}

	if s.Tool.Path == "" {
		return fmt.Errorf("%w: tool.path must not be empty", ErrInvalidSetting)
	}

	if s.Preview.TimeoutSeconds < 0 {
		return fmt.Errorf("%w: preview.timeout_seconds must not be negative", ErrInvalidSetting)
	}

	return nil
}

// DownloadURLFor expands the download URL template for a platform.
func (s Settings) DownloadURLFor(goos, goarch string) string {
	return strings.NewReplacer("{os}", goos, "{arch}", goarch).Replace(s.Tool.DownloadURL)
}
