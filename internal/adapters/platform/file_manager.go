// SPDX-FileCopyrightText: 2025 The Karei Authors
// SPDX-License-Identifier: EUPL-1.2

package platform

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// FileManager implements the FileManager port for real file operations.
type FileManager struct{}

// NewFileManager creates a new file manager.
func NewFileManager() *FileManager {
	return &FileManager{}
}

// FileExists checks if a file exists.
func (f *FileManager) FileExists(path string) bool {
	_, err := os.Stat(path)

	return err == nil
}

// EnsureDir creates a directory and all parent directories if they don't exist.
func (f *FileManager) EnsureDir(path string) error {
	// #nosec G301 - Standard directory permissions for application directories
	return os.MkdirAll(path, 0755)
}

// ReadFile reads data from a file.
func (f *FileManager) ReadFile(path string) ([]byte, error) {
	// #nosec G304 - File path is chosen by the operator
	return os.ReadFile(path)
}

// InstallExecutable makes src executable and moves it over dest. When src
// lives on another filesystem it is first copied next to dest so the final
// step is still a rename.
func (f *FileManager) InstallExecutable(src, dest string) error {
	if err := f.EnsureDir(filepath.Dir(dest)); err != nil {
		return fmt.Errorf("failed to create destination directory: %w", err)
	}

	staged := src

	if filepath.Dir(src) != filepath.Dir(dest) {
		staged = dest + ".tmp"
		if err := copyFile(src, staged); err != nil {
			_ = os.Remove(staged)

			return err
		}

		defer func() { _ = os.Remove(src) }()
	}

	// #nosec G302 - installed tools must be executable
	if err := os.Chmod(staged, 0755); err != nil {
		return fmt.Errorf("failed to make %s executable: %w", staged, err)
	}

	if err := os.Rename(staged, dest); err != nil {
		_ = os.Remove(staged)

		return fmt.Errorf("failed to move %s into place: %w", dest, err)
	}

	return nil
}

// RemoveFile removes a file.
func (f *FileManager) RemoveFile(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}

	return nil
}

func copyFile(src, dest string) error {
	// #nosec G304 - File path comes from trusted application code
	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}

	defer func() { _ = srcFile.Close() }()

	// #nosec G304 - File path comes from trusted application code
	destFile, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}

	defer func() { _ = destFile.Close() }()

	if _, err := io.Copy(destFile, srcFile); err != nil {
		return fmt.Errorf("failed to copy file contents: %w", err)
	}

	return destFile.Sync()
}
