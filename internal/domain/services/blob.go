package services

import (
	"io"
)

// BlobStore persists raw file bytes addressed by the
// (projectID, folderName, fileName) triple. It is independent of the
// metadata store and not transactionally linked to it: metadata commits
// first, blob failures are logged and surfaced, never rolled back into
// the metadata transaction.
type BlobStore interface {
	// Save writes the file bytes and returns the number of bytes stored
	Save(projectID, folderName, fileName string, r io.Reader) (int64, error)

	// Open opens the stored file for reading; the caller must close it
	Open(projectID, folderName, fileName string) (io.ReadCloser, error)

	// Delete removes one stored file
	Delete(projectID, folderName, fileName string) error

	// DeleteFolder removes a folder directory and everything in it
	DeleteFolder(projectID, folderName string) error

	// DeleteProject removes a project directory and everything in it
	DeleteProject(projectID string) error

	// Rename renames a stored file within its folder
	Rename(projectID, folderName, oldName, newName string) error
}
