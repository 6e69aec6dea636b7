package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"nexusops/internal/domain/models"
	"nexusops/internal/domain/repositories"
)

// PostgresStatsRepository implements the StatsRepository interface
type PostgresStatsRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewStatsRepository creates a new stats repository
func NewStatsRepository(config *RepositoryConfig) repositories.StatsRepository {
	return &PostgresStatsRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Snapshot returns current entity counts and the number of exhausted resources
func (r *PostgresStatsRepository) Snapshot(ctx context.Context) (*models.StatsSnapshot, error) {
	query := fmt.Sprintf(`
		SELECT
			(SELECT COUNT(*) FROM %s),
			(SELECT COUNT(*) FROM %s),
			(SELECT COUNT(*) FROM %s),
			(SELECT COUNT(*) FROM %s WHERE available_quantity = 0)
	`, r.tables.Projects, r.tables.Resources, r.tables.Claims, r.tables.Resources)

	var snapshot models.StatsSnapshot
	executor := GetExecutor(ctx, r.pool)
	err := executor.QueryRow(ctx, query).Scan(
		&snapshot.TotalProjects,
		&snapshot.TotalResources,
		&snapshot.TotalClaims,
		&snapshot.OutOfStockItems,
	)
	if err != nil {
		return nil, fmt.Errorf("stats snapshot: %w", err)
	}

	return &snapshot, nil
}
