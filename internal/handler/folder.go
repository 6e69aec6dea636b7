package handler

import (
	"log/slog"
	"net/http"

	"nexusops/internal/domain/services"
	"nexusops/internal/httputil"
)

// FolderHandler handles folder HTTP requests
type FolderHandler struct {
	folderService services.FolderService
	logger        *slog.Logger
}

// NewFolderHandler creates a new folder handler
func NewFolderHandler(folderService services.FolderService, logger *slog.Logger) *FolderHandler {
	return &FolderHandler{
		folderService: folderService,
		logger:        logger,
	}
}

// ListFolders lists all folders of a project
// GET /api/projects/{id}/folders
func (h *FolderHandler) ListFolders(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")
	if projectID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "project ID is required")
		return
	}

	folders, err := h.folderService.ListFolders(r.Context(), projectID)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, folders)
}

// CreateFolder creates a new folder under a project
// POST /api/projects/{id}/folders
func (h *FolderHandler) CreateFolder(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")
	if projectID == "" {
		httputil.RespondError(w, http.StatusBadRequest, "project ID is required")
		return
	}

	var req services.CreateFolderRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.ProjectID = projectID

	folder, err := h.folderService.CreateFolder(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, folder)
}

// DeleteFolder deletes a folder and every resource in it
// DELETE /api/projects/{id}/folders/{name}
func (h *FolderHandler) DeleteFolder(w http.ResponseWriter, r *http.Request) {
	projectID := r.PathValue("id")
	name := r.PathValue("name")
	if projectID == "" || name == "" {
		httputil.RespondError(w, http.StatusBadRequest, "project ID and folder name are required")
		return
	}

	if err := h.folderService.DeleteFolder(r.Context(), projectID, name); err != nil {
		handleError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
