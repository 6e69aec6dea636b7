package services

import (
	"context"
	"io"

	"nexusops/internal/domain/models"
)

// CreateResourceRequest represents a resource upload. File carries the
// raw bytes destined for the blob store.
type CreateResourceRequest struct {
	ProjectID        string
	FolderName       string
	Name             string
	Type             models.ResourceType
	Description      string
	Quantity         int
	MaxClaimsPerUser int
	FileName         string
	File             io.Reader
}

// UpdateResourceRequest represents a resource edit. Nil fields are left
// unchanged. Changing TotalQuantity preserves the already-consumed
// amount; changing FileName renames the stored file.
type UpdateResourceRequest struct {
	Name             *string              `json:"name,omitempty"`
	Type             *models.ResourceType `json:"type,omitempty"`
	Description      *string              `json:"description,omitempty"`
	TotalQuantity    *int                 `json:"total_quantity,omitempty"`
	MaxClaimsPerUser *int                 `json:"max_claims_per_user,omitempty"`
	FileName         *string              `json:"file_name,omitempty"`
}

// ResourceService defines business logic operations for resources
type ResourceService interface {
	// CreateResource stores the file bytes and inserts the metadata row.
	// The new resource starts with available_quantity == total_quantity.
	CreateResource(ctx context.Context, req *CreateResourceRequest) (*models.Resource, error)

	// GetResource retrieves a resource by ID
	GetResource(ctx context.Context, id string) (*models.Resource, error)

	// ListResources retrieves resources of one (project_id, folder_name) pair
	ListResources(ctx context.Context, projectID, folderName string) ([]models.Resource, error)

	// UpdateResource edits a resource. An edit that would push
	// available_quantity below zero (new total below the consumed amount)
	// is rejected with a validation error.
	UpdateResource(ctx context.Context, id string, req *UpdateResourceRequest) (*models.Resource, error)

	// DeleteResource removes the metadata row and the stored file.
	// Existing claim records survive as orphaned audit entries.
	DeleteResource(ctx context.Context, id string) error

	// OpenResourceFile opens the stored file bytes of a resource for
	// streaming to the client. The caller must close the reader.
	OpenResourceFile(ctx context.Context, id string) (io.ReadCloser, *models.Resource, error)
}
