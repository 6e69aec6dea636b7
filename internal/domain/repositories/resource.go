package repositories

import (
	"context"

	"nexusops/internal/domain/models"
)

// ResourceRepository defines data access operations for resources
type ResourceRepository interface {
	// Create inserts a new resource
	Create(ctx context.Context, resource *models.Resource) error

	// GetByID retrieves a resource by ID
	GetByID(ctx context.Context, id string) (*models.Resource, error)

	// GetByIDForUpdate retrieves a resource and locks its row for the
	// duration of the surrounding transaction (SELECT ... FOR UPDATE).
	// This is the serialization point for concurrent claims: two claims
	// against the same resource cannot both read stale stock.
	GetByIDForUpdate(ctx context.Context, id string) (*models.Resource, error)

	// ListByFolder retrieves resources of one (project_id, folder_name) pair
	ListByFolder(ctx context.Context, projectID, folderName string) ([]models.Resource, error)

	// ListByProject retrieves all resources of a project regardless of folder
	ListByProject(ctx context.Context, projectID string) ([]models.Resource, error)

	// Update rewrites a resource's mutable fields
	Update(ctx context.Context, resource *models.Resource) error

	// DecrementAvailable decrements available_quantity by exactly 1,
	// guarded by available_quantity > 0 so stock can never go negative.
	// Returns ErrOutOfStock when the guard fails.
	DecrementAvailable(ctx context.Context, id string) error

	// Delete removes a resource row
	Delete(ctx context.Context, id string) error

	// DeleteByFolder removes all resources of a (project_id, folder_name)
	// pair (folder cascade)
	DeleteByFolder(ctx context.Context, projectID, folderName string) error

	// DeleteByProject removes all resources of a project (project cascade)
	DeleteByProject(ctx context.Context, projectID string) error
}
