// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

// Package workspace resolves the project folder and its link configuration.
package workspace

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/janderssonse/policyctl/internal/domain"
	"gopkg.in/yaml.v3"
)

// ConfigFileName is the link configuration written by `styra link init`.
const ConfigFileName = ".styra.yaml"

var errNotDirectory = errors.New("not a directory")

// Folder is a workspace rooted at a directory.
type Folder struct {
	dir   string
	getwd func() (string, error)
}

// New creates a workspace rooted at dir, or at the working directory when dir is empty.
func New(dir string) *Folder {
	return &Folder{dir: dir, getwd: os.Getwd}
}

// Root returns the absolute workspace directory.
func (f *Folder) Root() (string, error) {
	dir := f.dir
	if dir == "" {
		wd, err := f.getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}

		dir = wd
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("failed to open workspace: %w", err)
	}

	if !info.IsDir() {
		return "", fmt.Errorf("%s: %w", abs, errNotDirectory)
	}

	return abs, nil
}

// Config is the subset of the link configuration policyctl reads.
type Config struct {
	URL      string `yaml:"url"`
	SystemID string `yaml:"system_id"`
	Name     string `yaml:"name"`
	Policies string `yaml:"policies"`
}

// Config loads the link configuration. A missing file is domain.ErrNotConfigured.
func (f *Folder) Config() (*Config, error) {
	root, err := f.Root()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrNoWorkspace, err)
	}

	return LoadConfig(root)
}

// LoadConfig reads ConfigFileName from root.
func LoadConfig(root string) (*Config, error) {
	path := filepath.Join(root, ConfigFileName)

	// #nosec G304 - the path is the fixed config file of the workspace
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s not found in %s", domain.ErrNotConfigured, ConfigFileName, root)
		}

		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return &cfg, nil
}
