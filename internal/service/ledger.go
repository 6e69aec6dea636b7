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

// ledgerService implements the LedgerService interface.
//
// The transaction shape is the whole point of this type: the resource row
// is locked first (GetByIDForUpdate), so the stock check, the per-user
// limit count, the claim insert and the decrement all observe and mutate
// a consistent row. Two claims racing for the last unit queue on the row
// lock; the loser re-reads available_quantity == 0 and fails with
// ErrOutOfStock before writing anything.
type ledgerService struct {
	resourceRepo repositories.ResourceRepository
	claimRepo    repositories.ClaimRepository
	txManager    repositories.TransactionManager
	logger       *slog.Logger
}

// NewLedgerService creates a new claim ledger service
func NewLedgerService(
	resourceRepo repositories.ResourceRepository,
	claimRepo repositories.ClaimRepository,
	txManager repositories.TransactionManager,
	logger *slog.Logger,
) services.LedgerService {
	return &ledgerService{
		resourceRepo: resourceRepo,
		claimRepo:    claimRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// SubmitClaim validates and executes a claim against a resource's stock
func (s *ledgerService) SubmitClaim(ctx context.Context, req *services.SubmitClaimRequest) (*models.ClaimRecord, error) {
	if err := s.validateSubmit(req); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	borrower := strings.TrimSpace(req.BorrowerName)

	var record *models.ClaimRecord
	err := s.txManager.ExecTx(ctx, func(ctx context.Context) error {
		// Lock the resource row. From here to commit, no other claim
		// against this resource can proceed.
		resource, err := s.resourceRepo.GetByIDForUpdate(ctx, req.ResourceID)
		if err != nil {
			return err
		}

		if resource.AvailableQuantity <= 0 {
			return &domain.OutOfStockError{ResourceID: resource.ID}
		}

		// A limit of 0 means unlimited claims per borrower
		if resource.MaxClaimsPerUser > 0 {
			count, err := s.claimRepo.CountByResourceAndBorrower(ctx, resource.ID, borrower)
			if err != nil {
				return err
			}
			if count >= resource.MaxClaimsPerUser {
				return &domain.ClaimLimitError{
					ResourceID:   resource.ID,
					BorrowerName: borrower,
					Limit:        resource.MaxClaimsPerUser,
				}
			}
		}

		record = &models.ClaimRecord{
			ID:              uuid.NewString(),
			ResourceID:      resource.ID,
			BorrowerName:    borrower,
			BorrowerDept:    strings.TrimSpace(req.BorrowerDept),
			BorrowerContact: strings.TrimSpace(req.BorrowerContact),
			Purpose:         strings.TrimSpace(req.Purpose),
			Quantity:        1,
			ClaimDate:       claimDay(),
		}

		if err := s.claimRepo.Create(ctx, record); err != nil {
			return err
		}

		// Conditional decrement backstops the row lock: even without it,
		// available_quantity can never go below zero.
		return s.resourceRepo.DecrementAvailable(ctx, resource.ID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("claim recorded",
		"claim_id", record.ID,
		"resource_id", record.ResourceID,
		"borrower", record.BorrowerName,
	)

	return record, nil
}

// ListClaims retrieves claim records matching the filter
func (s *ledgerService) ListClaims(ctx context.Context, filter models.ClaimFilter) ([]models.ClaimRecord, error) {
	if filter.Limit <= 0 {
		filter.Limit = config.DefaultClaimListLimit
	}
	if filter.Limit > config.MaxClaimListLimit {
		filter.Limit = config.MaxClaimListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	return s.claimRepo.List(ctx, filter)
}

// validateSubmit validates a claim submission
func (s *ledgerService) validateSubmit(req *services.SubmitClaimRequest) error {
	return validation.ValidateStruct(req,
		validation.Field(&req.ResourceID, validation.Required),
		validation.Field(&req.BorrowerName,
			validation.Required,
			validation.Length(1, config.MaxBorrowerNameLength),
		),
		validation.Field(&req.BorrowerDept, validation.Length(0, config.MaxBorrowerNameLength)),
		validation.Field(&req.BorrowerContact, validation.Length(0, config.MaxBorrowerNameLength)),
		validation.Field(&req.Purpose, validation.Length(0, config.MaxDescriptionLength)),
	)
}

// claimDay returns the current date at day granularity, UTC
func claimDay() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}
