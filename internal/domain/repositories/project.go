package repositories

import (
	"context"

	"nexusops/internal/domain/models"
)

// ProjectRepository defines data access operations for projects
type ProjectRepository interface {
	// Create inserts a new project
	Create(ctx context.Context, project *models.Project) error

	// GetByID retrieves a project by ID
	GetByID(ctx context.Context, id string) (*models.Project, error)

	// List retrieves all projects, newest first
	List(ctx context.Context) ([]models.Project, error)

	// Update updates a project's mutable fields (name, description, manager, status)
	Update(ctx context.Context, project *models.Project) error

	// Delete removes a project row. Folder and resource rows are removed
	// separately by the cascade in the service layer, inside one transaction.
	Delete(ctx context.Context, id string) error
}
