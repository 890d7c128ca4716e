// Package repository persists key sets as files in the three stage
// directories below a key directory root.
//
// # Layout
//
//	<root>/update/   staging
//	<root>/current/  active
//	<root>/history/  retired
//
// # File System Abstraction
//
// All I/O goes through FileSystem so the rotation algorithm can be exercised
// against an in-memory fake with injected failures. OSFileSystem writes files
// atomically (temp file, fsync, chmod 0600, rename) into 0700 directories.
//
// # Concurrency
//
// The store takes no locks. Writers are expected to be serialized by the
// caller; readers may observe a key set mid-move.
package repository

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	keysetDomain "github.com/allisson/keyrotator/internal/keyset/domain"
)

const (
	// FilePermissions are applied to every key file.
	FilePermissions = 0o600

	// DirPermissions are applied to the key directory tree.
	DirPermissions = 0o700
)

// FileSystem is the subset of filesystem operations used by the key store.
type FileSystem interface {
	// MkdirAll creates dir and any missing parents.
	MkdirAll(dir string) error

	// ReadDir lists the regular files directly inside dir.
	ReadDir(dir string) ([]keysetDomain.FileEntry, error)

	// ReadFile returns the contents of path.
	ReadFile(path string) ([]byte, error)

	// WriteFile atomically replaces path with data.
	WriteFile(path string, data []byte) error

	// Rename moves from to to, replacing to if it exists.
	Rename(from, to string) error

	// Remove deletes path.
	Remove(path string) error
}

// OSFileSystem implements FileSystem on the host operating system.
type OSFileSystem struct{}

// NewOSFileSystem creates an OSFileSystem.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

// MkdirAll creates dir with DirPermissions.
func (o *OSFileSystem) MkdirAll(dir string) error {
	return os.MkdirAll(dir, DirPermissions)
}

// ReadDir lists regular files in dir sorted by name. Temporary files left by an
// interrupted WriteFile are skipped.
func (o *OSFileSystem) ReadDir(dir string) ([]keysetDomain.FileEntry, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	entries := make([]keysetDomain.FileEntry, 0, len(dirEntries))
	for _, de := range dirEntries {
		if !de.Type().IsRegular() || filepath.Ext(de.Name()) == tempSuffix {
			continue
		}

		var modTime time.Time
		if info, err := de.Info(); err == nil {
			modTime = info.ModTime()
		}
		entries = append(entries, keysetDomain.FileEntry{Name: de.Name(), ModTime: modTime})
	}
	return entries, nil
}

// ReadFile returns the contents of path.
func (o *OSFileSystem) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path) // #nosec G304 -- paths are built from the configured key directory
}

const tempSuffix = ".tmp"

// WriteFile writes data to a temporary sibling, syncs it, restricts its
// permissions and renames it over path.
func (o *OSFileSystem) WriteFile(path string, data []byte) error {
	tempPath := path + tempSuffix

	file, err := os.OpenFile(tempPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, FilePermissions) // #nosec G304
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}

	if _, err := file.Write(data); err != nil {
		_ = file.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to write data: %w", err)
	}

	if err := file.Sync(); err != nil {
		_ = file.Close()
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to sync file: %w", err)
	}

	if err := file.Close(); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Chmod(tempPath, FilePermissions); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to set permissions: %w", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// Rename moves from to to.
func (o *OSFileSystem) Rename(from, to string) error {
	return os.Rename(from, to)
}

// Remove deletes path.
func (o *OSFileSystem) Remove(path string) error {
	return os.Remove(path)
}

var _ FileSystem = (*OSFileSystem)(nil)

// isNotExist reports whether err means a file or directory is missing.
func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
