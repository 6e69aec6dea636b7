package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"nexusops/internal/domain"
	"nexusops/internal/httputil"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{
			name:       "validation error",
			err:        fmt.Errorf("%w: name is required", domain.ErrValidation),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "not found",
			err:        fmt.Errorf("invalid project: %w", domain.ErrNotFound),
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "out of stock",
			err:        &domain.OutOfStockError{ResourceID: "res-1"},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "claim limit reached",
			err:        &domain.ClaimLimitError{ResourceID: "res-1", BorrowerName: "Alice", Limit: 1},
			wantStatus: http.StatusTooManyRequests,
		},
		{
			name:       "unauthorized",
			err:        domain.ErrUnauthorized,
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "conflict with details",
			err:        &domain.ConflictError{Message: "folder exists", ResourceType: "folder", ResourceID: "f-1"},
			wantStatus: http.StatusConflict,
		},
		{
			name:       "unknown error",
			err:        errors.New("connection reset"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
				t.Errorf("content type = %q, want application/problem+json", ct)
			}

			var problem httputil.ProblemDetail
			if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
				t.Fatalf("body is not valid JSON: %v", err)
			}
			if problem.Status != tt.wantStatus {
				t.Errorf("problem status = %d, want %d", problem.Status, tt.wantStatus)
			}
		})
	}
}

func TestHandleError_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	handleError(rec, errors.New("pq: password authentication failed"))

	var problem httputil.ProblemDetail
	if err := json.Unmarshal(rec.Body.Bytes(), &problem); err != nil {
		t.Fatalf("body is not valid JSON: %v", err)
	}
	if problem.Detail != "internal server error" {
		t.Errorf("detail = %q, internal errors must not leak", problem.Detail)
	}
}
