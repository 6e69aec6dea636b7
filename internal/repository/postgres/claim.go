package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
	"nexusops/internal/domain"
	"nexusops/internal/domain/models"
	"nexusops/internal/domain/repositories"
)

// PostgresClaimRepository implements the ClaimRepository interface.
// Claim records are append-only; there is deliberately no Update or
// Delete method on this repository.
type PostgresClaimRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewClaimRepository creates a new claim repository
func NewClaimRepository(config *RepositoryConfig) repositories.ClaimRepository {
	return &PostgresClaimRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Create appends a new claim record
func (r *PostgresClaimRepository) Create(ctx context.Context, claim *models.ClaimRecord) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, resource_id, borrower_name, borrower_dept,
			borrower_contact, purpose, quantity, claim_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, r.tables.Claims)

	executor := GetExecutor(ctx, r.pool)
	_, err := executor.Exec(ctx, query,
		claim.ID,
		claim.ResourceID,
		claim.BorrowerName,
		claim.BorrowerDept,
		claim.BorrowerContact,
		claim.Purpose,
		claim.Quantity,
		claim.ClaimDate,
	)

	if err != nil {
		if IsPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      fmt.Sprintf("claim '%s' already exists", claim.ID),
				ResourceType: "claim",
				ResourceID:   claim.ID,
			}
		}
		return fmt.Errorf("create claim: %w", err)
	}

	return nil
}

// CountByResourceAndBorrower counts prior claims by one borrower against
// one resource. Borrower identity is an exact string match.
func (r *PostgresClaimRepository) CountByResourceAndBorrower(ctx context.Context, resourceID, borrowerName string) (int, error) {
	query := fmt.Sprintf(`
		SELECT COUNT(*) FROM %s
		WHERE resource_id = $1 AND borrower_name = $2
	`, r.tables.Claims)

	var count int
	executor := GetExecutor(ctx, r.pool)
	if err := executor.QueryRow(ctx, query, resourceID, borrowerName).Scan(&count); err != nil {
		return 0, fmt.Errorf("count claims: %w", err)
	}

	return count, nil
}

// List retrieves claim records matching the filter, newest first
func (r *PostgresClaimRepository) List(ctx context.Context, filter models.ClaimFilter) ([]models.ClaimRecord, error) {
	conditions := []string{}
	args := []interface{}{}
	argCount := 1

	if filter.ResourceID != "" {
		conditions = append(conditions, fmt.Sprintf("resource_id = $%d", argCount))
		args = append(args, filter.ResourceID)
		argCount++
	}

	if filter.BorrowerName != "" {
		conditions = append(conditions, fmt.Sprintf("borrower_name = $%d", argCount))
		args = append(args, filter.BorrowerName)
		argCount++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT id, resource_id, borrower_name, borrower_dept,
			borrower_contact, purpose, quantity, claim_date
		FROM %s
		%s
		ORDER BY claim_date DESC, id
		LIMIT $%d OFFSET $%d
	`, r.tables.Claims, whereClause, argCount, argCount+1)

	args = append(args, filter.Limit, filter.Offset)

	executor := GetExecutor(ctx, r.pool)
	rows, err := executor.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}
	defer rows.Close()

	var claims []models.ClaimRecord
	for rows.Next() {
		var claim models.ClaimRecord
		err := rows.Scan(
			&claim.ID,
			&claim.ResourceID,
			&claim.BorrowerName,
			&claim.BorrowerDept,
			&claim.BorrowerContact,
			&claim.Purpose,
			&claim.Quantity,
			&claim.ClaimDate,
		)
		if err != nil {
			return nil, fmt.Errorf("scan claim: %w", err)
		}
		claims = append(claims, claim)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate claims: %w", err)
	}

	if claims == nil {
		claims = []models.ClaimRecord{}
	}

	return claims, nil
}
