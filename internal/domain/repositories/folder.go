package repositories

import (
	"context"

	"nexusops/internal/domain/models"
)

// FolderRepository defines data access operations for folders
type FolderRepository interface {
	// Create inserts a new folder. Returns a ConflictError when the
	// (project_id, name) pair already exists.
	Create(ctx context.Context, folder *models.Folder) error

	// GetByName retrieves a folder by its (project_id, name) identity
	GetByName(ctx context.Context, projectID, name string) (*models.Folder, error)

	// ListByProject retrieves all folders of a project, by name
	ListByProject(ctx context.Context, projectID string) ([]models.Folder, error)

	// Delete removes a folder by its (project_id, name) identity
	Delete(ctx context.Context, projectID, name string) error

	// DeleteByProject removes all folders of a project (project cascade)
	DeleteByProject(ctx context.Context, projectID string) error
}
