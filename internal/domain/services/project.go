package services

import (
	"context"

	"nexusops/internal/domain/models"
)

// CreateProjectRequest represents a request to create a project
type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Manager     string `json:"manager"`
}

// UpdateProjectRequest represents a request to update a project.
// Nil fields are left unchanged.
type UpdateProjectRequest struct {
	Name        *string               `json:"name,omitempty"`
	Description *string               `json:"description,omitempty"`
	Manager     *string               `json:"manager,omitempty"`
	Status      *models.ProjectStatus `json:"status,omitempty"`
}

// ProjectService defines business logic operations for projects
type ProjectService interface {
	// CreateProject creates a new project with status "active"
	CreateProject(ctx context.Context, req *CreateProjectRequest) (*models.Project, error)

	// GetProject retrieves a project by ID
	GetProject(ctx context.Context, id string) (*models.Project, error)

	// ListProjects retrieves all projects
	ListProjects(ctx context.Context) ([]models.Project, error)

	// UpdateProject updates a project's fields
	UpdateProject(ctx context.Context, id string, req *UpdateProjectRequest) (*models.Project, error)

	// DeleteProject removes the project, all its folders and resources in
	// one transaction, then the blob store's project directory. Claim
	// records referencing the removed resources are retained.
	DeleteProject(ctx context.Context, id string) error
}
