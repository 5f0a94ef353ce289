// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

// Package install downloads the policy CLI into the user's bin directory.
package install

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/janderssonse/policyctl/internal/domain"
)

// ErrNoDownloadURL is returned when tool.download_url is empty.
var ErrNoDownloadURL = errors.New("no download url configured")

// Target describes where the tool comes from and where it goes.
type Target struct {
	// URL is the expanded download location.
	URL string
	// Dir is the install directory.
	Dir string
	// Name is the executable name inside Dir.
	Name string
}

// Path returns the final executable path.
func (t Target) Path() string {
	return filepath.Join(t.Dir, t.Name)
}

// ExecutableName returns name with the platform executable suffix.
func ExecutableName(name, goos string) string {
	if goos == "windows" && filepath.Ext(name) != ".exe" {
		return name + ".exe"
	}

	return name
}

// Installer downloads and installs the tool.
type Installer struct {
	client domain.NetworkClient
	files  domain.FileManager
}

// NewInstaller creates an installer.
func NewInstaller(client domain.NetworkClient, files domain.FileManager) *Installer {
	return &Installer{client: client, files: files}
}

// NewTarget builds the install target for the running platform.
func NewTarget(urlFor func(goos, goarch string) string, dir, tool string) Target {
	return Target{
		URL:  urlFor(runtime.GOOS, runtime.GOARCH),
		Dir:  dir,
		Name: ExecutableName(filepath.Base(tool), runtime.GOOS),
	}
}

// Install downloads target.URL next to the destination and moves it into
// place, so an interrupted download never replaces a working tool.
func (i *Installer) Install(ctx context.Context, target Target) (string, error) {
	if target.URL == "" {
		return "", ErrNoDownloadURL
	}

	if err := i.files.EnsureDir(target.Dir); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", target.Dir, err)
	}

	dest := target.Path()
	partial := dest + ".download"

	if err := i.client.DownloadFile(ctx, target.URL, partial); err != nil {
		_ = i.files.RemoveFile(partial)

		return "", fmt.Errorf("failed to download %s: %w", target.URL, err)
	}

	if err := i.files.InstallExecutable(partial, dest); err != nil {
		_ = i.files.RemoveFile(partial)

		return "", fmt.Errorf("failed to install %s: %w", dest, err)
	}

	return dest, nil
}
