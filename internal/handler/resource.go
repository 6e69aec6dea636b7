package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"nexusops/internal/config"
	"nexusops/internal/domain/models"
	"nexusops/internal/domain/services"
	"nexusops/internal/httputil"
)

// ResourceHandler handles resource HTTP requests
type ResourceHandler struct {
	resourceService services.ResourceService
	logger          *slog.Logger
}

// NewResourceHandler creates a new resource handler
func NewResourceHandler(resourceService services.ResourceService, logger *slog.Logger) *ResourceHandler {
	return &ResourceHandler{
		resourceService: resourceService,
		logger:          logger,
	}
}

// ListResources lists resources of one folder
// GET /api/projects/{id}/folders/{name}/resources
func (h *ResourceHandler) ListResources(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")
	folderName := r.PathValue("name")
	if projectID == "" || folderName == "" {
		httputil.RespondError(w, http.StatusBadRequest, "project ID and folder name are required")
		return
	}

	resources, err := h.resourceService.ListResources(r.Context(), projectID, folderName)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resources)
}

// CreateResource uploads a file and creates the resource metadata.
// Multipart form fields: project_id, folder_name, name, type, description,
// quantity, max_claims_per_user, and the file part "file".
// POST /api/resources
func (h *ResourceHandler) CreateResource(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "file part is required")
		return
	}
	defer file.Close()

	quantity, err := strconv.Atoi(r.FormValue("quantity"))
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "quantity must be an integer")
		return
	}

	maxClaims := 0
	if v := r.FormValue("max_claims_per_user"); v != "" {
		maxClaims, err = strconv.Atoi(v)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, "max_claims_per_user must be an integer")
			return
		}
	}

	req := &services.CreateResourceRequest{
		ProjectID:        r.FormValue("project_id"),
		FolderName:       r.FormValue("folder_name"),
		Name:             r.FormValue("name"),
		Type:             models.ResourceType(r.FormValue("type")),
		Description:      r.FormValue("description"),
		Quantity:         quantity,
		MaxClaimsPerUser: maxClaims,
		FileName:         header.Filename,
		File:             file,
	}

	resource, err := h.resourceService.CreateResource(r.Context(), req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, resource)
}

// GetResource retrieves a resource by ID
// GET /api/resources/{id}
func (h *ResourceHandler) GetResource(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "resource ID is required")
		return
	}

	resource, err := h.resourceService.GetResource(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resource)
}

// UpdateResource edits a resource
// PATCH /api/resources/{id}
func (h *ResourceHandler) UpdateResource(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "resource ID is required")
		return
	}

	var req services.UpdateResourceRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	resource, err := h.resourceService.UpdateResource(r.Context(), id, &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, resource)
}

// DeleteResource deletes a resource and its stored file
// DELETE /api/resources/{id}
func (h *ResourceHandler) DeleteResource(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httputil.RespondError(w, http.StatusBadRequest, "resource ID is required")
		return
	}

	if err := h.resourceService.DeleteResource(r.Context(), id); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
