package services

import (
	"context"

	"nexusops/internal/domain/models"
)

// CreateFolderRequest represents a request to create a folder
type CreateFolderRequest struct {
	ProjectID string `json:"-"` // set by handler from the URL path
	Name      string `json:"name"`
}

// FolderService defines business logic operations for folders.
// Folders have no rename operation: resources reference them by name,
// and renaming would orphan every resource in the folder.
type FolderService interface {
	// CreateFolder creates a folder under an existing project
	CreateFolder(ctx context.Context, req *CreateFolderRequest) (*models.Folder, error)

	// ListFolders retrieves all folders of a project
	ListFolders(ctx context.Context, projectID string) ([]models.Folder, error)

	// DeleteFolder removes the folder and every resource with the matching
	// (project_id, folder_name) pair in one transaction, then the blob
	// store's folder directory
	DeleteFolder(ctx context.Context, projectID, name string) error
}
