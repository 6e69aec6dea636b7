package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"nexusops/internal/domain"
	"nexusops/internal/domain/models"
	"nexusops/internal/domain/repositories"
)

// PostgresResourceRepository implements the ResourceRepository interface
type PostgresResourceRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewResourceRepository creates a new resource repository
func NewResourceRepository(config *RepositoryConfig) repositories.ResourceRepository {
	return &PostgresResourceRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const resourceColumns = `id, project_id, folder_name, name, type, description,
		total_quantity, available_quantity, max_claims_per_user,
		file_name, file_size, created_at`

func (r *PostgresResourceRepository) scanResource(row interface {
	Scan(dest ...interface{}) error
}) (*models.Resource, error) {
	var resource models.Resource
	err := row.Scan(
		&resource.ID,
		&resource.ProjectID,
		&resource.FolderName,
		&resource.Name,
		&resource.Type,
		&resource.Description,
		&resource.TotalQuantity,
		&resource.AvailableQuantity,
		&resource.MaxClaimsPerUser,
		&resource.FileName,
		&resource.FileSize,
		&resource.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &resource, nil
}

// Create inserts a new resource
func (r *PostgresResourceRepository) Create(ctx context.Context, resource *models.Resource) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, r.tables.Resources, resourceColumns)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		resource.ID,
		resource.ProjectID,
		resource.FolderName,
		resource.Name,
		resource.Type,
		resource.Description,
		resource.TotalQuantity,
		resource.AvailableQuantity,
		resource.MaxClaimsPerUser,
		resource.FileName,
		resource.FileSize,
		resource.CreatedAt,
	)

	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("resource '%s' already exists", resource.ID),
				ResourceType: "resource",
				ResourceID:   resource.ID,
			}
		}
		return fmt.Errorf("create resource: %w", err)
	}

	return nil
}

// GetByID retrieves a resource by ID
func (r *PostgresResourceRepository) GetByID(ctx context.Context, id string) (*models.Resource, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, resourceColumns, r.tables.Resources)

	executor := GetExecutor(ctx, r.pool)
	resource, err := r.scanResource(executor.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("resource %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get resource: %w", err)
	}

	return resource, nil
}

// GetByIDForUpdate retrieves a resource and locks its row until the
// surrounding transaction ends. Concurrent claims against the same
// resource queue on this lock instead of reading stale stock.
func (r *PostgresResourceRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Resource, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 FOR UPDATE`, resourceColumns, r.tables.Resources)

	executor := GetExecutor(ctx, r.pool)
	resource, err := r.scanResource(executor.QueryRow(ctx, query, id))
	if err != nil {
		if IsPgNoRowsError(err) {
			return nil, fmt.Errorf("resource %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get resource for update: %w", err)
	}

	return resource, nil
}

// ListByFolder retrieves resources of one (project_id, folder_name) pair
func (r *PostgresResourceRepository) ListByFolder(ctx context.Context, projectID, folderName string) ([]models.Resource, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE project_id = $1 AND folder_name = $2
		ORDER BY created_at DESC
	`, resourceColumns, r.tables.Resources)

	return r.list(ctx, query, projectID, folderName)
}

// ListByProject retrieves all resources of a project regardless of folder
func (r *PostgresResourceRepository) ListByProject(ctx context.Context, projectID string) ([]models.Resource, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE project_id = $1
		ORDER BY created_at DESC
	`, resourceColumns, r.tables.Resources)

	return r.list(ctx, query, projectID)
}

func (r *PostgresResourceRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.Resource, error) {
	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list resources: %w", err)
	}
	defer rows.Close()

	var resources []models.Resource
	for rows.Next() {
		resource, err := r.scanResource(rows)
		if err != nil {
			return nil, fmt.Errorf("scan resource: %w", err)
		}
		resources = append(resources, *resource)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate resources: %w", err)
	}

	if resources == nil {
		resources = []models.Resource{}
	}

	return resources, nil
}

// Update rewrites a resource's mutable fields
func (r *PostgresResourceRepository) Update(ctx context.Context, resource *models.Resource) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, type = $2, description = $3,
			total_quantity = $4, available_quantity = $5,
			max_claims_per_user = $6, file_name = $7
		WHERE id = $8
	`, r.tables.Resources)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query,
		resource.Name,
		resource.Type,
		resource.Description,
		resource.TotalQuantity,
		resource.AvailableQuantity,
		resource.MaxClaimsPerUser,
		resource.FileName,
		resource.ID,
	)

	if err != nil {
		return fmt.Errorf("update resource: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("resource %s: %w", resource.ID, domain.ErrNotFound)
	}

	return nil
}

// DecrementAvailable decrements available_quantity by exactly 1. The
// available_quantity > 0 guard makes the decrement conditional, so stock
// never goes negative even if a caller skipped the row lock.
func (r *PostgresResourceRepository) DecrementAvailable(ctx context.Context, id string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET available_quantity = available_quantity - 1
		WHERE id = $1 AND available_quantity > 0
	`, r.tables.Resources)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("decrement resource %s: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return &domain.OutOfStockError{ResourceID: id}
	}

	return nil
}

// Delete removes a resource row
func (r *PostgresResourceRepository) Delete(ctx context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Resources)

	executor := GetExecutor(ctx, r.pool)
	result, err := executor.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete resource: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("resource %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// DeleteByFolder removes all resources of a (project_id, folder_name) pair
func (r *PostgresResourceRepository) DeleteByFolder(ctx context.Context, projectID, folderName string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE project_id = $1 AND folder_name = $2`, r.tables.Resources)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, projectID, folderName); err != nil {
		return fmt.Errorf("delete resources of folder %s/%s: %w", projectID, folderName, err)
	}

	return nil
}

// DeleteByProject removes all resources of a project
func (r *PostgresResourceRepository) DeleteByProject(ctx context.Context, projectID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE project_id = $1`, r.tables.Resources)

	executor := GetExecutor(ctx, r.pool)
	if _, err := executor.Exec(ctx, query, projectID); err != nil {
		return fmt.Errorf("delete resources of project %s: %w", projectID, err)
	}

	return nil
}
