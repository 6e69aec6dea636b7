package service

import (
	"context"
	"fmt"
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

// folderService implements the FolderService interface
type folderService struct {
	folderRepo   repositories.FolderRepository
	resourceRepo repositories.ResourceRepository
	projectRepo  repositories.ProjectRepository
	txManager    repositories.TransactionManager
	blobs        services.BlobStore
	logger       *slog.Logger
}

// NewFolderService creates a new folder service
func NewFolderService(
	folderRepo repositories.FolderRepository,
	resourceRepo repositories.ResourceRepository,
	projectRepo repositories.ProjectRepository,
	txManager repositories.TransactionManager,
	blobs services.BlobStore,
	logger *slog.Logger,
) services.FolderService {
	return &folderService{
		folderRepo:   folderRepo,
		resourceRepo: resourceRepo,
		projectRepo:  projectRepo,
		txManager:    txManager,
		blobs:        blobs,
		logger:       logger,
	}
}

// CreateFolder creates a folder under an existing project
func (s *folderService) CreateFolder(ctx context.Context, req *services.CreateFolderRequest) (*models.Folder, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	if _, err := s.projectRepo.GetByID(ctx, req.ProjectID); err != nil {
		return nil, fmt.Errorf("invalid project: %w", err)
	}

	folder := &models.Folder{
		ID:        uuid.NewString(),
		ProjectID: req.ProjectID,
		Name:      strings.TrimSpace(req.Name),
		CreatedAt: time.Now(),
	}

	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"project_id", folder.ProjectID,
		"name", folder.Name,
	)

	return folder, nil
}

// ListFolders retrieves all folders of a project
func (s *folderService) ListFolders(ctx context.Context, projectID string) ([]models.Folder, error) {
	if _, err := s.projectRepo.GetByID(ctx, projectID); err != nil {
		return nil, err
	}

	return s.folderRepo.ListByProject(ctx, projectID)
}

// DeleteFolder removes the folder and every resource referencing it by
// name, in one transaction, then the blob store's folder directory.
// Claim records are not cascaded.
func (s *folderService) DeleteFolder(ctx context.Context, projectID, name string) error {
	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.folderRepo.Delete(ctx, projectID, name); err != nil {
			return err
		}
		return s.resourceRepo.DeleteByFolder(ctx, projectID, name)
	})
	if err != nil {
		return err
	}

	// The blob store is not part of the metadata transaction; a failed
	// directory removal leaves stray bytes, not inconsistent metadata.
	if err := s.blobs.DeleteFolder(projectID, name); err != nil {
		s.logger.Error("blob cleanup failed after folder delete",
			"project_id", projectID,
			"folder", name,
			"error", err,
		)
	}

	s.logger.Info("folder deleted", "project_id", projectID, "name", name)
	return nil
}

// validateCreateRequest validates a create folder request. Folder names
// double as blob-store directory names, so path characters are rejected.
func (s *folderService) validateCreateRequest(req *services.CreateFolderRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.ProjectID, validation.Required),
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxFolderNameLength),
			validation.By(validatePathSegment),
		),
	)
}

func validatePathSegment(value interface{}) error {
	name, _ := value.(string)
	name = strings.TrimSpace(name)
	if name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("name %q contains path characters", name)
	}
	return nil
}
