// Package storage reads and atomically rewrites target source files.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotRegularFile is returned for targets that are directories, devices or
// otherwise not plain files.
var ErrNotRegularFile = errors.New("not a regular file")

// Store defines the file operations a run needs.
type Store interface {
	Read(path string) (string, error)
	Write(path, content string) error
}

type fileStore struct{}

// NewStore creates a Store on the local filesystem.
func NewStore() Store {
	return fileStore{}
}

// Read loads the whole file.
func (fileStore) Read(path string) (string, error) {
	st, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !st.Mode().IsRegular() {
		return "", fmt.Errorf("%s: %w", path, ErrNotRegularFile)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// Write replaces path with content through a temp file in the same directory and
// a rename, so readers see either the old or the new file. The mode is kept.
func (fileStore) Write(path, content string) error {
	st, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !st.Mode().IsRegular() {
		return fmt.Errorf("%s: %w", path, ErrNotRegularFile)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".srcfix-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer func() {
		if tmpName != "" {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, st.Mode().Perm()); err != nil {
		return fmt.Errorf("failed to set mode on %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	tmpName = ""
	return nil
}
