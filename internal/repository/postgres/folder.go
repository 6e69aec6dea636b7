package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"nexusops/internal/domain"
	"nexusops/internal/domain/models"
	"nexusops/internal/domain/repositories"
)

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *RepositoryConfig) repositories.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create inserts a new folder. The (project_id, name) pair is unique.
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, project_id, name, created_at)
		VALUES ($1, $2, $3, $4)
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		folder.ID,
		folder.ProjectID,
		folder.Name,
		folder.CreatedAt,
	)

	if err != nil {
		if IsPgDuplicateError(err) {
			// Surface the existing folder's identity for a 409 response
			existing, queryErr := r.GetByName(ctx, folder.ProjectID, folder.Name)
			if queryErr != nil {
				return fmt.Errorf("folder '%s' already exists: %w", folder.Name, domain.ErrConflict)
			}
			return &domain.ConflictError{
				Message:      fmt.Sprintf("folder '%s' already exists in project %s", folder.Name, folder.ProjectID),
				ResourceType: "folder",
				ResourceID:   existing.ID,
			}
		}
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

// GetByName retrieves a folder by its (project_id, name) identity
func (r *PostgresFolderRepository) GetByName(ctx context.Context, projectID, name string) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT id, project_id, name, created_at
		FROM %s
		WHERE project_id = $1 AND name = $2
	`, r.tables.Folders)

	var folder models.Folder
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query, projectID, name).Scan(
		&folder.ID,
		&folder.ProjectID,
		&folder.Name,
		&folder.CreatedAt,
	)

	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %s/%s: %w", projectID, name, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return &folder, nil
}

// ListByProject retrieves all folders of a project, by name
func (r *PostgresFolderRepository) ListByProject(ctx context.Context, projectID string) ([]models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT id, project_id, name, created_at
		FROM %s
		WHERE project_id = $1
		ORDER BY name
	`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, projectID)
	if err != nil {
		return nil, fmt.Errorf("list folders: %w", err)
	}
	defer rows.Close()

	var folders []models.Folder
	for rows.Next() {
		var folder models.Folder
		err := rows.Scan(
			&folder.ID,
			&folder.ProjectID,
			&folder.Name,
			&folder.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	if folders == nil {
		folders = []models.Folder{}
	}

	return folders, nil
}

// Delete removes a folder by its (project_id, name) identity
func (r *PostgresFolderRepository) Delete(ctx context.Context, projectID, name string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE project_id = $1 AND name = $2`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, projectID, name)
	if err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s/%s: %w", projectID, name, domain.ErrNotFound)
	}

	return nil
}

// DeleteByProject removes all folders of a project
func (r *PostgresFolderRepository) DeleteByProject(ctx context.Context, projectID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE project_id = $1`, r.tables.Folders)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, projectID); err != nil {
		return fmt.Errorf("delete folders of project %s: %w", projectID, err)
	}

	return nil
}
