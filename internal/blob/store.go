// Package blob persists raw file bytes on the local filesystem,
// addressed by the (projectID, folderName, fileName) hierarchy. It is
// deliberately independent of the metadata store: callers commit
// metadata first and treat blob failures as recoverable drift.
package blob

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"nexusops/internal/domain"
)

// Store manages file bytes under a single root directory:
// root/{projectID}/{folderName}/{fileName}.
type Store struct {
	root   string
	logger *slog.Logger
}

// New creates a Store rooted at dir, creating the directory if needed.
func New(dir string, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create blob root %s: %w", dir, err)
	}

	return &Store{root: dir, logger: logger}, nil
}

// Save writes the file bytes and returns the number of bytes stored.
// Pattern: temp file, write, fsync, atomic rename. A partially written
// file is never visible under its final name.
func (s *Store) Save(projectID, folderName, fileName string, r io.Reader) (int64, error) {
	path, err := s.filePath(projectID, folderName, fileName)
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return 0, fmt.Errorf("create folder directory: %w", err)
	}

	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}

	size, err := io.Copy(f, r)
	if err != nil {
		f.Close()
		os.Remove(tmpPath)
		return 0, fmt.Errorf("write file data: %w", err)
	}

	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return 0, fmt.Errorf("fsync file: %w", err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("close file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return 0, fmt.Errorf("rename temp file: %w", err)
	}

	s.logger.Debug("blob stored", "project_id", projectID, "folder", folderName, "file", fileName, "size", size)
	return size, nil
}

// Open opens the stored file for reading. The caller must close it.
func (s *Store) Open(projectID, folderName, fileName string) (io.ReadCloser, error) {
	path, err := s.filePath(projectID, folderName, fileName)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("blob %s/%s/%s: %w", projectID, folderName, fileName, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("open blob: %w", err)
	}

	return f, nil
}

// Delete removes one stored file. Deleting a missing file is not an error.
func (s *Store) Delete(projectID, folderName, fileName string) error {
	path, err := s.filePath(projectID, folderName, fileName)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete blob: %w", err)
	}

	return nil
}

// DeleteFolder removes a folder directory and everything in it.
func (s *Store) DeleteFolder(projectID, folderName string) error {
	if err := validateSegments(projectID, folderName); err != nil {
		return err
	}

	path := filepath.Join(s.root, projectID, folderName)
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("delete blob folder: %w", err)
	}

	return nil
}

// DeleteProject removes a project directory and everything in it.
func (s *Store) DeleteProject(projectID string) error {
	if err := validateSegments(projectID); err != nil {
		return err
	}

	path := filepath.Join(s.root, projectID)
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("delete blob project: %w", err)
	}

	return nil
}

// Rename renames a stored file within its folder.
func (s *Store) Rename(projectID, folderName, oldName, newName string) error {
	oldPath, err := s.filePath(projectID, folderName, oldName)
	if err != nil {
		return err
	}
	newPath, err := s.filePath(projectID, folderName, newName)
	if err != nil {
		return err
	}

	if err := os.Rename(oldPath, newPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("blob %s/%s/%s: %w", projectID, folderName, oldName, domain.ErrNotFound)
		}
		return fmt.Errorf("rename blob: %w", err)
	}

	return nil
}

func (s *Store) filePath(projectID, folderName, fileName string) (string, error) {
	if err := validateSegments(projectID, folderName, fileName); err != nil {
		return "", err
	}
	return filepath.Join(s.root, projectID, folderName, fileName), nil
}

// validateSegments rejects path segments that could escape the store root.
func validateSegments(segments ...string) error {
	for _, seg := range segments {
		if seg == "" || seg == "." || seg == ".." ||
			strings.ContainsAny(seg, `/\`) || strings.ContainsRune(seg, 0) {
			return &domain.ValidationError{
				Message: fmt.Sprintf("invalid path segment %q", seg),
			}
		}
	}
	return nil
}
