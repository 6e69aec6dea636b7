package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"nexusops/internal/config"
	"nexusops/internal/domain"
	"nexusops/internal/domain/models"
	"nexusops/internal/domain/services"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newLedgerFixture() (*memStore, services.LedgerService) {
	store := newMemStore()
	svc := NewLedgerService(
		&memResourceRepo{store: store},
		&memClaimRepo{store: store},
		&memTxManager{store: store},
		testLogger(),
	)
	return store, svc
}

func addResource(store *memStore, id string, available, maxPerUser int) {
	store.resources[id] = models.Resource{
		ID:                id,
		ProjectID:         "proj-1",
		FolderName:        "Certificates",
		Name:              "test resource",
		Type:              models.TypeCertificate,
		TotalQuantity:     available,
		AvailableQuantity: available,
		MaxClaimsPerUser:  maxPerUser,
		FileName:          "cert.pem",
		CreatedAt:         time.Now(),
	}
}

func TestSubmitClaim(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(store *memStore)
		req     *services.SubmitClaimRequest
		wantErr error
	}{
		{
			name:  "successful claim",
			setup: func(s *memStore) { addResource(s, "res-1", 5, 0) },
			req: &services.SubmitClaimRequest{
				ResourceID:   "res-1",
				BorrowerName: "Alice",
				BorrowerDept: "Platform",
				Purpose:      "staging deploy",
			},
		},
		{
			name:  "missing borrower name",
			setup: func(s *memStore) { addResource(s, "res-1", 5, 0) },
			req: &services.SubmitClaimRequest{
				ResourceID: "res-1",
			},
			wantErr: domain.ErrValidation,
		},
		{
			name:  "unknown resource",
			setup: func(s *memStore) {},
			req: &services.SubmitClaimRequest{
				ResourceID:   "res-missing",
				BorrowerName: "Alice",
			},
			wantErr: domain.ErrNotFound,
		},
		{
			name:  "out of stock",
			setup: func(s *memStore) { addResource(s, "res-1", 0, 0) },
			req: &services.SubmitClaimRequest{
				ResourceID:   "res-1",
				BorrowerName: "Alice",
			},
			wantErr: domain.ErrOutOfStock,
		},
		{
			name: "per-user limit reached",
			setup: func(s *memStore) {
				addResource(s, "res-1", 5, 1)
				s.claims = append(s.claims, models.ClaimRecord{
					ID: "claim-0", ResourceID: "res-1", BorrowerName: "Alice", Quantity: 1,
				})
			},
			req: &services.SubmitClaimRequest{
				ResourceID:   "res-1",
				BorrowerName: "Alice",
			},
			wantErr: domain.ErrLimitReached,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, svc := newLedgerFixture()
			tt.setup(store)

			record, err := svc.SubmitClaim(context.Background(), tt.req)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("SubmitClaim() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("SubmitClaim() unexpected error: %v", err)
			}
			if record.ID == "" {
				t.Error("record ID is empty")
			}
			if record.Quantity != 1 {
				t.Errorf("record quantity = %d, want 1", record.Quantity)
			}
			if record.BorrowerName != tt.req.BorrowerName {
				t.Errorf("borrower = %q, want %q", record.BorrowerName, tt.req.BorrowerName)
			}
			if !record.ClaimDate.Equal(record.ClaimDate.UTC().Truncate(24 * time.Hour)) {
				t.Errorf("claim date %v is not day-granular", record.ClaimDate)
			}
		})
	}
}

func TestSubmitClaim_DecrementsStock(t *testing.T) {
	store, svc := newLedgerFixture()
	addResource(store, "res-1", 3, 0)

	if _, err := svc.SubmitClaim(context.Background(), &services.SubmitClaimRequest{
		ResourceID:   "res-1",
		BorrowerName: "Alice",
	}); err != nil {
		t.Fatalf("SubmitClaim() unexpected error: %v", err)
	}

	res := store.resources["res-1"]
	if res.AvailableQuantity != 2 {
		t.Errorf("available = %d, want 2", res.AvailableQuantity)
	}
	if res.TotalQuantity != 3 {
		t.Errorf("total = %d, want 3 (claims must not touch total)", res.TotalQuantity)
	}
	if len(store.claims) != 1 {
		t.Fatalf("claim count = %d, want 1", len(store.claims))
	}
}

func TestSubmitClaim_PerUserLimit(t *testing.T) {
	store, svc := newLedgerFixture()
	addResource(store, "res-1", 10, 1)
	ctx := context.Background()

	if _, err := svc.SubmitClaim(ctx, &services.SubmitClaimRequest{
		ResourceID: "res-1", BorrowerName: "Alice",
	}); err != nil {
		t.Fatalf("first claim by Alice: %v", err)
	}

	_, err := svc.SubmitClaim(ctx, &services.SubmitClaimRequest{
		ResourceID: "res-1", BorrowerName: "Alice",
	})
	if !errors.Is(err, domain.ErrLimitReached) {
		t.Fatalf("second claim by Alice: error = %v, want ErrLimitReached", err)
	}

	// The limit is per borrower, not global
	if _, err := svc.SubmitClaim(ctx, &services.SubmitClaimRequest{
		ResourceID: "res-1", BorrowerName: "Bob",
	}); err != nil {
		t.Fatalf("claim by Bob: %v", err)
	}

	if res := store.resources["res-1"]; res.AvailableQuantity != 8 {
		t.Errorf("available = %d, want 8", res.AvailableQuantity)
	}
}

func TestSubmitClaim_ZeroLimitMeansUnlimited(t *testing.T) {
	store, svc := newLedgerFixture()
	addResource(store, "res-1", 3, 0)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.SubmitClaim(ctx, &services.SubmitClaimRequest{
			ResourceID: "res-1", BorrowerName: "Alice",
		}); err != nil {
			t.Fatalf("claim %d: %v", i+1, err)
		}
	}

	// Stock, not the per-user limit, is what finally stops the borrower
	_, err := svc.SubmitClaim(ctx, &services.SubmitClaimRequest{
		ResourceID: "res-1", BorrowerName: "Alice",
	})
	if !errors.Is(err, domain.ErrOutOfStock) {
		t.Fatalf("fourth claim: error = %v, want ErrOutOfStock", err)
	}
	if len(store.claims) != 3 {
		t.Errorf("claim count = %d, want 3", len(store.claims))
	}
}

func TestSubmitClaim_ConcurrentLastUnit(t *testing.T) {
	store, svc := newLedgerFixture()
	addResource(store, "res-1", 1, 0)

	const workers = 16
	var wg sync.WaitGroup
	results := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_, err := svc.SubmitClaim(context.Background(), &services.SubmitClaimRequest{
				ResourceID:   "res-1",
				BorrowerName: "borrower",
			})
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	var succeeded, outOfStock int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, domain.ErrOutOfStock):
			outOfStock++
		default:
			t.Errorf("unexpected error: %v", err)
		}
	}

	if succeeded != 1 {
		t.Errorf("succeeded = %d, want exactly 1", succeeded)
	}
	if outOfStock != workers-1 {
		t.Errorf("out of stock = %d, want %d", outOfStock, workers-1)
	}
	if res := store.resources["res-1"]; res.AvailableQuantity != 0 {
		t.Errorf("available = %d, want 0", res.AvailableQuantity)
	}
	if len(store.claims) != 1 {
		t.Errorf("claim count = %d, want 1", len(store.claims))
	}
}

func TestSubmitClaim_RollsBackRecordOnDecrementFailure(t *testing.T) {
	store, svc := newLedgerFixture()
	addResource(store, "res-1", 5, 0)
	store.failDecrement = true

	_, err := svc.SubmitClaim(context.Background(), &services.SubmitClaimRequest{
		ResourceID:   "res-1",
		BorrowerName: "Alice",
	})
	if err == nil {
		t.Fatal("SubmitClaim() succeeded despite decrement failure")
	}

	// The record and the decrement are one transaction: neither survives
	if len(store.claims) != 0 {
		t.Errorf("claim count = %d, want 0 after rollback", len(store.claims))
	}
	if res := store.resources["res-1"]; res.AvailableQuantity != 5 {
		t.Errorf("available = %d, want 5 after rollback", res.AvailableQuantity)
	}
}

func TestSubmitClaim_TrimsBorrowerFields(t *testing.T) {
	store, svc := newLedgerFixture()
	addResource(store, "res-1", 2, 1)

	record, err := svc.SubmitClaim(context.Background(), &services.SubmitClaimRequest{
		ResourceID:   "res-1",
		BorrowerName: "  Alice  ",
		BorrowerDept: " Platform ",
	})
	if err != nil {
		t.Fatalf("SubmitClaim() unexpected error: %v", err)
	}
	if record.BorrowerName != "Alice" {
		t.Errorf("borrower = %q, want trimmed %q", record.BorrowerName, "Alice")
	}
	if record.BorrowerDept != "Platform" {
		t.Errorf("dept = %q, want trimmed %q", record.BorrowerDept, "Platform")
	}

	// The trimmed name is what the limit counts against
	_, err = svc.SubmitClaim(context.Background(), &services.SubmitClaimRequest{
		ResourceID:   "res-1",
		BorrowerName: "Alice",
	})
	if !errors.Is(err, domain.ErrLimitReached) {
		t.Fatalf("error = %v, want ErrLimitReached", err)
	}
}

func TestListClaims_LimitClamping(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		offset    int
		wantLimit int
		wantOff   int
	}{
		{name: "defaults applied", limit: 0, offset: 0, wantLimit: config.DefaultClaimListLimit},
		{name: "explicit limit kept", limit: 25, offset: 10, wantLimit: 25, wantOff: 10},
		{name: "limit capped", limit: 10000, wantLimit: config.MaxClaimListLimit},
		{name: "negative offset zeroed", limit: 5, offset: -3, wantLimit: 5, wantOff: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, svc := newLedgerFixture()

			if _, err := svc.ListClaims(context.Background(), models.ClaimFilter{
				Limit:  tt.limit,
				Offset: tt.offset,
			}); err != nil {
				t.Fatalf("ListClaims() unexpected error: %v", err)
			}

			if store.lastFilter.Limit != tt.wantLimit {
				t.Errorf("limit = %d, want %d", store.lastFilter.Limit, tt.wantLimit)
			}
			if store.lastFilter.Offset != tt.wantOff {
				t.Errorf("offset = %d, want %d", store.lastFilter.Offset, tt.wantOff)
			}
		})
	}
}

func TestListClaims_SurvivesResourceDeletion(t *testing.T) {
	store, svc := newLedgerFixture()
	addResource(store, "res-1", 2, 0)
	ctx := context.Background()

	if _, err := svc.SubmitClaim(ctx, &services.SubmitClaimRequest{
		ResourceID: "res-1", BorrowerName: "Alice",
	}); err != nil {
		t.Fatalf("SubmitClaim() unexpected error: %v", err)
	}

	delete(store.resources, "res-1")

	claims, err := svc.ListClaims(ctx, models.ClaimFilter{ResourceID: "res-1"})
	if err != nil {
		t.Fatalf("ListClaims() unexpected error: %v", err)
	}
	if len(claims) != 1 {
		t.Fatalf("claim count = %d, want 1 (audit trail outlives the resource)", len(claims))
	}
}
