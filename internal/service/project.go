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

// projectService implements the ProjectService interface
type projectService struct {
	projectRepo  repositories.ProjectRepository
	folderRepo   repositories.FolderRepository
	resourceRepo repositories.ResourceRepository
	txManager    repositories.TransactionManager
	blobs        services.BlobStore
	logger       *slog.Logger
}

// NewProjectService creates a new project service
func NewProjectService(
	projectRepo repositories.ProjectRepository,
	folderRepo repositories.FolderRepository,
	resourceRepo repositories.ResourceRepository,
	txManager repositories.TransactionManager,
	blobs services.BlobStore,
	logger *slog.Logger,
) services.ProjectService {
	return &projectService{
		projectRepo:  projectRepo,
		folderRepo:   folderRepo,
		resourceRepo: resourceRepo,
		txManager:    txManager,
		blobs:        blobs,
		logger:       logger,
	}
}

// CreateProject creates a new project with status "active"
func (s *projectService) CreateProject(ctx context.Context, req *services.CreateProjectRequest) (*models.Project, error) {
	if err := s.validateCreateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	project := &models.Project{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Manager:     strings.TrimSpace(req.Manager),
		Status:      models.ProjectActive,
		CreatedAt:   time.Now(),
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info("project created",
		"id", project.ID,
		"name", project.Name,
		"manager", project.Manager,
	)

	return project, nil
}

// GetProject retrieves a project by ID
func (s *projectService) GetProject(ctx context.Context, id string) (*models.Project, error) {
	return s.projectRepo.GetByID(ctx, id)
}

// ListProjects retrieves all projects
func (s *projectService) ListProjects(ctx context.Context) ([]models.Project, error) {
	return s.projectRepo.List(ctx)
}

// UpdateProject updates a project's fields
func (s *projectService) UpdateProject(ctx context.Context, id string, req *services.UpdateProjectRequest) (*models.Project, error) {
	if err := s.validateUpdateRequest(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		project.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		project.Description = strings.TrimSpace(*req.Description)
	}
	if req.Manager != nil {
		project.Manager = strings.TrimSpace(*req.Manager)
	}
	if req.Status != nil {
		project.Status = *req.Status
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}

	s.logger.Info("project updated", "id", project.ID, "status", project.Status)

	return project, nil
}

// DeleteProject removes the project, its folders and its resources in one
// transaction, then the blob store's project directory. Claim records
// referencing the removed resources remain as historical audit entries.
func (s *projectService) DeleteProject(ctx context.Context, id string) error {
	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		if err := s.projectRepo.Delete(ctx, id); err != nil {
			return err
		}
		if err := s.resourceRepo.DeleteByProject(ctx, id); err != nil {
			return err
		}
		return s.folderRepo.DeleteByProject(ctx, id)
	})
	if err != nil {
		return err
	}

	if err := s.blobs.DeleteProject(id); err != nil {
		s.logger.Error("blob cleanup failed after project delete",
			"project_id", id,
			"error", err,
		)
	}

	s.logger.Info("project deleted", "id", id)
	return nil
}

// validateCreateRequest validates a create project request
func (s *projectService) validateCreateRequest(req *services.CreateProjectRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxProjectNameLength),
		),
		validation.Field(&req.Description, validation.Length(0, config.MaxDescriptionLength)),
		validation.Field(&req.Manager, validation.Length(0, config.MaxProjectNameLength)),
	)
}

// validateUpdateRequest validates an update project request
func (s *projectService) validateUpdateRequest(req *services.UpdateProjectRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Length(1, config.MaxProjectNameLength)),
		validation.Field(&req.Description, validation.Length(0, config.MaxDescriptionLength)),
		validation.Field(&req.Manager, validation.Length(0, config.MaxProjectNameLength)),
		validation.Field(&req.Status, validation.By(validateProjectStatus)),
	)
}

func validateProjectStatus(value interface{}) error {
	status, ok := value.(*models.ProjectStatus)
	if !ok || status == nil {
		return nil
	}
	if !status.Valid() {
		return fmt.Errorf("unknown project status %q", *status)
	}
	return nil
}
