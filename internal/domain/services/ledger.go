package services

import (
	"context"

	"nexusops/internal/domain/models"
)

// SubmitClaimRequest represents a claim against a resource's stock.
type SubmitClaimRequest struct {
	ResourceID      string `json:"-"` // set by handler from the URL path
	BorrowerName    string `json:"borrower_name"`
	BorrowerDept    string `json:"borrower_dept"`
	BorrowerContact string `json:"borrower_contact"`
	Purpose         string `json:"purpose"`
}

// LedgerService validates and executes claims against resource stock.
//
// SubmitClaim enforces, in order: the resource exists (ErrNotFound), stock
// remains (ErrOutOfStock), and the borrower is under the per-user limit
// (ErrLimitReached; a limit of 0 means unlimited). On success it appends a
// claim record and decrements available_quantity by exactly 1. The two
// writes commit or roll back as a pair, and concurrent claims against the
// same resource are serialized so the last unit is never claimed twice.
type LedgerService interface {
	// SubmitClaim executes a claim and returns the audit record
	SubmitClaim(ctx context.Context, req *SubmitClaimRequest) (*models.ClaimRecord, error)

	// ListClaims retrieves claim records, optionally filtered by resource
	// and borrower. Records referencing a deleted resource are included;
	// they are the audit trail.
	ListClaims(ctx context.Context, filter models.ClaimFilter) ([]models.ClaimRecord, error)
}
