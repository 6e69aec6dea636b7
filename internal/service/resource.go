package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"nexusops/internal/config"
	"nexusops/internal/domain"
	"nexusops/internal/domain/models"
	"nexusops/internal/domain/repositories"
	"nexusops/internal/domain/services"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// resourceService implements the ResourceService interface
type resourceService struct {
	resourceRepo repositories.ResourceRepository
	folderRepo   repositories.FolderRepository
	blobs        services.BlobStore
	logger       *slog.Logger
}

// NewResourceService creates a new resource service
func NewResourceService(
	resourceRepo repositories.ResourceRepository,
	folderRepo repositories.FolderRepository,
	blobs services.BlobStore,
	logger *slog.Logger,
) services.ResourceService {
	return &resourceService{
		resourceRepo: resourceRepo,
		folderRepo:   folderRepo,
		blobs:        blobs,
		logger:       logger,
	}
}

// CreateResource stores the uploaded bytes and inserts the metadata row
func (s *resourceService) CreateResource(ctx context.Context, req *services.CreateResourceRequest) (*models.Resource, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	// The folder must exist; resources reference it by name
	if _, err := s.folderRepo.GetByName(ctx, req.ProjectID, req.FolderName); err != nil {
		return nil, fmt.Errorf("invalid folder: %w", err)
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = req.FileName
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = fmt.Sprintf("Uploaded file: %s", req.FileName)
	}

	// Blob first: an orphaned file is recoverable drift, a metadata row
	// without bytes is a broken download.
	size, err := s.blobs.Save(req.ProjectID, req.FolderName, req.FileName, req.File)
	if err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}

	resource := &models.Resource{
		ID:                uuid.NewString(),
		ProjectID:         req.ProjectID,
		FolderName:        req.FolderName,
		Name:              name,
		Type:              req.Type,
		Description:       description,
		TotalQuantity:     req.Quantity,
		AvailableQuantity: req.Quantity,
		MaxClaimsPerUser:  req.MaxClaimsPerUser,
		FileName:          req.FileName,
		FileSize:          size,
		CreatedAt:         time.Now(),
	}

	if err := s.resourceRepo.Create(ctx, resource); err != nil {
		// Compensate: remove the stored bytes so the upload can be retried
		if delErr := s.blobs.Delete(req.ProjectID, req.FolderName, req.FileName); delErr != nil {
			s.logger.Error("orphaned blob after failed resource insert",
				"project_id", req.ProjectID,
				"folder", req.FolderName,
				"file", req.FileName,
				"error", delErr,
			)
		}
		return nil, err
	}

	s.logger.Info("resource created",
		"id", resource.ID,
		"project_id", resource.ProjectID,
		"folder", resource.FolderName,
		"file", resource.FileName,
		"quantity", resource.TotalQuantity,
	)

	return resource, nil
}

// GetResource retrieves a resource by ID
func (s *resourceService) GetResource(ctx context.Context, id string) (*models.Resource, error) {
	return s.resourceRepo.GetByID(ctx, id)
}

// ListResources retrieves resources of one (project_id, folder_name) pair
func (s *resourceService) ListResources(ctx context.Context, projectID, folderName string) ([]models.Resource, error) {
	return s.resourceRepo.ListByFolder(ctx, projectID, folderName)
}

// UpdateResource edits a resource, preserving the already-consumed amount
// when the total quantity changes
func (s *resourceService) UpdateResource(ctx context.Context, id string, req *services.UpdateResourceRequest) (*models.Resource, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	resource, err := s.resourceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		resource.Name = strings.TrimSpace(*req.Name)
	}
	if req.Type != nil {
		resource.Type = *req.Type
	}
	if req.Description != nil {
		resource.Description = strings.TrimSpace(*req.Description)
	}
	if req.MaxClaimsPerUser != nil {
		resource.MaxClaimsPerUser = *req.MaxClaimsPerUser
	}

	if req.TotalQuantity != nil {
		consumed := resource.Consumed()
		if *req.TotalQuantity < consumed {
			return nil, fmt.Errorf("%w: total quantity %d is below the %d units already claimed",
				domain.ErrValidation, *req.TotalQuantity, consumed)
		}
		resource.TotalQuantity = *req.TotalQuantity
		resource.AvailableQuantity = *req.TotalQuantity - consumed
	}

	if req.FileName != nil && *req.FileName != resource.FileName {
		newName := strings.TrimSpace(*req.FileName)
		if err := s.blobs.Rename(resource.ProjectID, resource.FolderName, resource.FileName, newName); err != nil {
			return nil, fmt.Errorf("rename file: %w", err)
		}
		resource.FileName = newName
	}

	if err := s.resourceRepo.Update(ctx, resource); err != nil {
		return nil, err
	}

	s.logger.Info("resource updated",
		"id", resource.ID,
		"total_quantity", resource.TotalQuantity,
		"available_quantity", resource.AvailableQuantity,
	)

	return resource, nil
}

// DeleteResource removes the metadata row and the stored file. Claim
// records referencing the resource are kept as audit history.
func (s *resourceService) DeleteResource(ctx context.Context, id string) error {
	resource, err := s.resourceRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.resourceRepo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.blobs.Delete(resource.ProjectID, resource.FolderName, resource.FileName); err != nil {
		s.logger.Error("blob cleanup failed after resource delete",
			"id", id,
			"file", resource.FileName,
			"error", err,
		)
	}

	s.logger.Info("resource deleted", "id", id, "file", resource.FileName)
	return nil
}

// OpenResourceFile opens the stored file bytes for streaming to the client
func (s *resourceService) OpenResourceFile(ctx context.Context, id string) (io.ReadCloser, *models.Resource, error) {
	resource, err := s.resourceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	rc, err := s.blobs.Open(resource.ProjectID, resource.FolderName, resource.FileName)
	if err != nil {
		return nil, nil, err
	}

	return rc, resource, nil
}

// validateCreateRequest validates a resource upload
func (s *resourceService) validateCreateRequest(req *services.CreateResourceRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.ProjectID, validation.Required),
		validation.Field(&req.FolderName, validation.Required, validation.Length(1, config.MaxFolderNameLength)),
		validation.Field(&req.Name, validation.Length(0, config.MaxResourceNameLength)),
		validation.Field(&req.Type, validation.Required, validation.By(validateResourceType)),
		validation.Field(&req.Description, validation.Length(0, config.MaxDescriptionLength)),
		validation.Field(&req.Quantity, validation.Min(0)),
		validation.Field(&req.MaxClaimsPerUser, validation.Min(0)),
		validation.Field(&req.FileName, validation.Required, validation.Length(1, config.MaxFileNameLength)),
		validation.Field(&req.File, validation.Required),
	)
}

// validateUpdateRequest validates a resource edit
func (s *resourceService) validateUpdateRequest(req *services.UpdateResourceRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Length(0, config.MaxResourceNameLength)),
		validation.Field(&req.Type, validation.By(validateOptionalResourceType)),
		validation.Field(&req.Description, validation.Length(0, config.MaxDescriptionLength)),
		validation.Field(&req.TotalQuantity, validation.Min(0)),
		validation.Field(&req.MaxClaimsPerUser, validation.Min(0)),
		validation.Field(&req.FileName, validation.Length(0, config.MaxFileNameLength)),
	)
}

func validateResourceType(value interface{}) error {
	t, _ := value.(models.ResourceType)
	if !t.Valid() {
		return fmt.Errorf("unknown resource type %q", t)
	}
	return nil
}

func validateOptionalResourceType(value interface{}) error {
	t, ok := value.(*models.ResourceType)
	if !ok || t == nil {
		return nil
	}
	return validateResourceType(*t)
}
