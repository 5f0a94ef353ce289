// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

package commands

import (
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/janderssonse/policyctl/internal/domain"
	"github.com/janderssonse/policyctl/internal/wizard"
)

var (
	systemNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 ._-]*$`)
	scpLikeURLPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+@[A-Za-z0-9.-]+:.+$`)
	commitPattern     = regexp.MustCompile(`^[0-9a-fA-F]{7,40}$`)
)

func required(what string) wizard.Validator {
	return func(value string) string {
		if strings.TrimSpace(value) == "" {
			return what + " is required"
		}

		return ""
	}
}

func validateSystemName(value string) string {
	value = strings.TrimSpace(value)

	switch {
	case value == "":
		return "System name is required"
	case !systemNamePattern.MatchString(value):
		return "Use letters, digits, spaces, '.', '_' or '-'"
	}

	return ""
}

func validateRepositoryURL(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "Repository URL is required"
	}

	if scpLikeURLPattern.MatchString(value) {
		return ""
	}

	u, err := url.Parse(value)
	if err != nil || u.Host == "" {
		return "Enter an HTTPS or SSH repository URL"
	}

	switch u.Scheme {
	case "https", "http", "ssh":
		return ""
	default:
		return "Enter an HTTPS or SSH repository URL"
	}
}

func validateCommit(value string) string {
	if !commitPattern.MatchString(strings.TrimSpace(value)) {
		return "Enter a commit SHA of 7 to 40 hex characters"
	}

	return ""
}

// validateRelativeDir accepts a directory inside the workspace.
func validateRelativeDir(value string) string {
	value = strings.TrimSpace(value)

	switch {
	case value == "":
		return "Policy directory is required"
	case filepath.IsAbs(value):
		return "Use a path relative to the workspace"
	case strings.HasPrefix(filepath.Clean(value), ".."):
		return "The directory must be inside the workspace"
	}

	return ""
}

// existingFile accepts paths to files that exist, relative to root or absolute.
func existingFile(files domain.FileManager, root string, exts ...string) wizard.Validator {
	return func(value string) string {
		value = strings.TrimSpace(value)
		if value == "" {
			return "A file is required"
		}

		if len(exts) > 0 && !hasExt(value, exts) {
			return "Expected a " + strings.Join(exts, ", ") + " file"
		}

		if !files.FileExists(resolvePath(root, value)) {
			return "File not found: " + value
		}

		return ""
	}
}

// optional wraps v so an empty answer is accepted.
func optional(v wizard.Validator) wizard.Validator {
	return func(value string) string {
		if strings.TrimSpace(value) == "" {
			return ""
		}

		return v(value)
	}
}

func hasExt(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}

	return false
}

// resolvePath expands a leading "~/" and joins relative paths to root.
func resolvePath(root, path string) string {
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
	}

	if filepath.IsAbs(path) {
		return path
	}

	return filepath.Join(root, path)
}
