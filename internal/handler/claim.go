package handler

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"nexusops/internal/domain/models"
	"nexusops/internal/domain/services"
	"nexusops/internal/httputil"
)

// ClaimHandler handles claim HTTP requests
type ClaimHandler struct {
	ledgerService   services.LedgerService
	resourceService services.ResourceService
	logger          *slog.Logger
}

// NewClaimHandler creates a new claim handler
func NewClaimHandler(
	ledgerService services.LedgerService,
	resourceService services.ResourceService,
	logger *slog.Logger,
) *ClaimHandler {
	return &ClaimHandler{
		ledgerService:   ledgerService,
		resourceService: resourceService,
		logger:          logger,
	}
}

// SubmitClaim executes a claim and streams the resource's file back as
// the download. The claim commits before the stream starts; a failed
// stream does not undo the claim (the audit record stands).
// POST /api/resources/{id}/claims
func (h *ClaimHandler) SubmitClaim(w http.ResponseWriter, r *http.Request) {
	resourceID := r.PathValue("id")
	if resourceID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "resource ID is required")
		return
	}

	var req services.SubmitClaimRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.ResourceID = resourceID

	record, err := h.ledgerService.SubmitClaim(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	if userID := httputil.GetUserID(r); userID != "" {
		h.logger.Info("claim submitted by authenticated user",
			"claim_id", record.ID,
			"user_id", userID,
		)
	}

	rc, resource, err := h.resourceService.OpenResourceFile(r.Context(), resourceID)
	if err != nil {
		// The claim is recorded; the client can retry the download after
		// the blob drift is repaired. Return the record instead of bytes.
		h.logger.Error("claimed file unavailable",
			"claim_id", record.ID,
			"resource_id", resourceID,
			"error", err,
		)
		httputil.RespondJSON(w, http.StatusCreated, record)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.FormatInt(resource.FileSize, 10))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", resource.FileName))
	w.Header().Set("X-Claim-ID", record.ID)
	w.WriteHeader(http.StatusCreated)

	if _, err := io.Copy(w, rc); err != nil {
		h.logger.Error("claim download stream failed",
			"claim_id", record.ID,
			"resource_id", resourceID,
			"error", err,
		)
	}
}

// ListClaims lists claim records, newest first.
// Records referencing a deleted resource are still returned.
// GET /api/claims?resource_id=&borrower_name=&limit=&offset=
func (h *ClaimHandler) ListClaims(w http.ResponseWriter, r *http.Request) {
	filter := models.ClaimFilter{
		ResourceID:   r.URL.Query().Get("resource_id"),
		BorrowerName: r.URL.Query().Get("borrower_name"),
	}

	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		filter.Limit = limit
	}

	if v := r.URL.Query().Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "offset must be an integer")
			return
		}
		filter.Offset = offset
	}

	claims, err := h.ledgerService.ListClaims(r.Context(), filter)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, claims)
}
