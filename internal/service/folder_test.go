package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"nexusops/internal/domain"
	"nexusops/internal/domain/models"
	"nexusops/internal/domain/services"
)

func newFolderFixture() (*memStore, *memBlobStore, services.FolderService) {
	store := newMemStore()
	blobs := newMemBlobStore()
	svc := NewFolderService(
		&memFolderRepo{store: store},
		&memResourceRepo{store: store},
		&memProjectRepo{store: store},
		&memTxManager{store: store},
		blobs,
		testLogger(),
	)
	return store, blobs, svc
}

func addProject(store *memStore, id string) {
	store.projects[id] = models.Project{
		ID:        id,
		Name:      "Test Project",
		Status:    models.ProjectActive,
		CreatedAt: time.Now(),
	}
}

func TestCreateFolder(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(store *memStore)
		req     *services.CreateFolderRequest
		wantErr error
	}{
		{
			name:  "basic create",
			setup: func(s *memStore) { addProject(s, "proj-1") },
			req:   &services.CreateFolderRequest{ProjectID: "proj-1", Name: "Certificates"},
		},
		{
			name:    "unknown project",
			setup:   func(s *memStore) {},
			req:     &services.CreateFolderRequest{ProjectID: "proj-missing", Name: "Certificates"},
			wantErr: domain.ErrNotFound,
		},
		{
			name: "duplicate name in project",
			setup: func(s *memStore) {
				addProject(s, "proj-1")
				addFolder(s, "proj-1", "Certificates")
			},
			req:     &services.CreateFolderRequest{ProjectID: "proj-1", Name: "Certificates"},
			wantErr: domain.ErrConflict,
		},
		{
			name:    "empty name",
			setup:   func(s *memStore) { addProject(s, "proj-1") },
			req:     &services.CreateFolderRequest{ProjectID: "proj-1", Name: ""},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "path separator in name",
			setup:   func(s *memStore) { addProject(s, "proj-1") },
			req:     &services.CreateFolderRequest{ProjectID: "proj-1", Name: "a/b"},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "dot-dot name",
			setup:   func(s *memStore) { addProject(s, "proj-1") },
			req:     &services.CreateFolderRequest{ProjectID: "proj-1", Name: ".."},
			wantErr: domain.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _, svc := newFolderFixture()
			tt.setup(store)

			folder, err := svc.CreateFolder(context.Background(), tt.req)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("CreateFolder() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateFolder() unexpected error: %v", err)
			}
			if folder.ID == "" {
				t.Error("folder ID is empty")
			}
			if folder.ProjectID != tt.req.ProjectID {
				t.Errorf("project ID = %q, want %q", folder.ProjectID, tt.req.ProjectID)
			}
		})
	}
}

func TestDeleteFolder_CascadesToResources(t *testing.T) {
	store, blobs, svc := newFolderFixture()
	addProject(store, "proj-1")
	addFolder(store, "proj-1", "Configs")
	addFolder(store, "proj-1", "Keys")

	store.resources["res-1"] = models.Resource{
		ID: "res-1", ProjectID: "proj-1", FolderName: "Configs",
		Type: models.TypeConfiguration, TotalQuantity: 1, AvailableQuantity: 1,
		FileName: "a.env",
	}
	store.resources["res-2"] = models.Resource{
		ID: "res-2", ProjectID: "proj-1", FolderName: "Keys",
		Type: models.TypeAccessKey, TotalQuantity: 1, AvailableQuantity: 1,
		FileName: "b.key",
	}
	blobs.files[blobKey("proj-1", "Configs", "a.env")] = []byte("x")
	blobs.files[blobKey("proj-1", "Keys", "b.key")] = []byte("y")
	store.claims = append(store.claims, models.ClaimRecord{
		ID: "claim-1", ResourceID: "res-1", BorrowerName: "Alice", Quantity: 1,
	})

	if err := svc.DeleteFolder(context.Background(), "proj-1", "Configs"); err != nil {
		t.Fatalf("DeleteFolder() unexpected error: %v", err)
	}

	if _, ok := store.folders[folderKey("proj-1", "Configs")]; ok {
		t.Error("folder still present")
	}
	if _, ok := store.resources["res-1"]; ok {
		t.Error("resource in deleted folder still present")
	}
	if _, ok := store.resources["res-2"]; !ok {
		t.Error("resource in sibling folder was removed")
	}
	if _, ok := blobs.files[blobKey("proj-1", "Configs", "a.env")]; ok {
		t.Error("file bytes of deleted folder still present")
	}
	if _, ok := blobs.files[blobKey("proj-1", "Keys", "b.key")]; !ok {
		t.Error("file bytes of sibling folder were removed")
	}
	if len(store.claims) != 1 {
		t.Errorf("claim count = %d, want 1 (audit trail survives the cascade)", len(store.claims))
	}
}

func TestDeleteFolder_UnknownFolder(t *testing.T) {
	_, _, svc := newFolderFixture()

	err := svc.DeleteFolder(context.Background(), "proj-1", "Missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("DeleteFolder() error = %v, want ErrNotFound", err)
	}
}
