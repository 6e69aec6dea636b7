package repositories

import (
	"context"

	"nexusops/internal/domain/models"
)

// ClaimRepository defines data access operations for claim records.
// Claim records are append-only: there is no update and no delete.
type ClaimRepository interface {
	// Create appends a new claim record
	Create(ctx context.Context, claim *models.ClaimRecord) error

	// CountByResourceAndBorrower counts prior claims by one borrower
	// (exact string match) against one resource. Used for the
	// per-user-limit check.
	CountByResourceAndBorrower(ctx context.Context, resourceID, borrowerName string) (int, error)

	// List retrieves claim records matching the filter, newest first
	List(ctx context.Context, filter models.ClaimFilter) ([]models.ClaimRecord, error)
}
