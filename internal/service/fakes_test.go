package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"

	"nexusops/internal/domain"
	"nexusops/internal/domain/models"
	"nexusops/internal/domain/repositories"
)

// memStore backs the in-memory fake repositories. A single mutex stands
// in for the database's row locks: ExecTx holds it for the whole
// transaction, which gives the same serialization the real claim path
// gets from SELECT ... FOR UPDATE.
type memStore struct {
	mu        sync.Mutex
	projects  map[string]models.Project
	folders   map[string]models.Folder // keyed by projectID + "/" + name
	resources map[string]models.Resource
	claims    []models.ClaimRecord

	failDecrement bool // inject a decrement failure to observe rollback
	lastFilter    models.ClaimFilter
}

func newMemStore() *memStore {
	return &memStore{
		projects:  make(map[string]models.Project),
		folders:   make(map[string]models.Folder),
		resources: make(map[string]models.Resource),
	}
}

type txKey struct{}

// lock acquires the store mutex unless the context already runs inside
// an ExecTx, which holds it for the transaction's duration.
func (s *memStore) lock(ctx context.Context) func() {
	if ctx.Value(txKey{}) != nil {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func (s *memStore) snapshot() *memStore {
	snap := newMemStore()
	for k, v := range s.projects {
		snap.projects[k] = v
	}
	for k, v := range s.folders {
		snap.folders[k] = v
	}
	for k, v := range s.resources {
		snap.resources[k] = v
	}
	snap.claims = append([]models.ClaimRecord(nil), s.claims...)
	return snap
}

func (s *memStore) restore(snap *memStore) {
	s.projects = snap.projects
	s.folders = snap.folders
	s.resources = snap.resources
	s.claims = snap.claims
}

// memTxManager serializes transactions on the store mutex and restores
// a snapshot when the transaction function fails.
type memTxManager struct {
	store *memStore
}

func (m *memTxManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	snap := m.store.snapshot()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		m.store.restore(snap)
		return err
	}
	return nil
}

// --- project repository ---

type memProjectRepo struct {
	store *memStore
}

func (r *memProjectRepo) Create(ctx context.Context, project *models.Project) error {
	defer r.store.lock(ctx)()
	if _, ok := r.store.projects[project.ID]; ok {
		return &domain.ConflictError{Message: "project already exists", ResourceType: "project", ResourceID: project.ID}
	}
	r.store.projects[project.ID] = *project
	return nil
}

func (r *memProjectRepo) GetByID(ctx context.Context, id string) (*models.Project, error) {
	defer r.store.lock(ctx)()
	p, ok := r.store.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (r *memProjectRepo) List(ctx context.Context) ([]models.Project, error) {
	defer r.store.lock(ctx)()
	out := make([]models.Project, 0, len(r.store.projects))
	for _, p := range r.store.projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memProjectRepo) Update(ctx context.Context, project *models.Project) error {
	defer r.store.lock(ctx)()
	if _, ok := r.store.projects[project.ID]; !ok {
		return domain.ErrNotFound
	}
	r.store.projects[project.ID] = *project
	return nil
}

func (r *memProjectRepo) Delete(ctx context.Context, id string) error {
	defer r.store.lock(ctx)()
	if _, ok := r.store.projects[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.store.projects, id)
	return nil
}

// --- folder repository ---

type memFolderRepo struct {
	store *memStore
}

func folderKey(projectID, name string) string {
	return projectID + "/" + name
}

func (r *memFolderRepo) Create(ctx context.Context, folder *models.Folder) error {
	defer r.store.lock(ctx)()
	key := folderKey(folder.ProjectID, folder.Name)
	if existing, ok := r.store.folders[key]; ok {
		return &domain.ConflictError{Message: "folder already exists", ResourceType: "folder", ResourceID: existing.ID}
	}
	r.store.folders[key] = *folder
	return nil
}

func (r *memFolderRepo) GetByName(ctx context.Context, projectID, name string) (*models.Folder, error) {
	defer r.store.lock(ctx)()
	f, ok := r.store.folders[folderKey(projectID, name)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &f, nil
}

func (r *memFolderRepo) ListByProject(ctx context.Context, projectID string) ([]models.Folder, error) {
	defer r.store.lock(ctx)()
	var out []models.Folder
	for _, f := range r.store.folders {
		if f.ProjectID == projectID {
			out = append(out, f)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memFolderRepo) Delete(ctx context.Context, projectID, name string) error {
	defer r.store.lock(ctx)()
	key := folderKey(projectID, name)
	if _, ok := r.store.folders[key]; !ok {
		return domain.ErrNotFound
	}
	delete(r.store.folders, key)
	return nil
}

func (r *memFolderRepo) DeleteByProject(ctx context.Context, projectID string) error {
	defer r.store.lock(ctx)()
	for key, f := range r.store.folders {
		if f.ProjectID == projectID {
			delete(r.store.folders, key)
		}
	}
	return nil
}

// --- resource repository ---

type memResourceRepo struct {
	store *memStore
}

func (r *memResourceRepo) Create(ctx context.Context, resource *models.Resource) error {
	defer r.store.lock(ctx)()
	if _, ok := r.store.resources[resource.ID]; ok {
		return &domain.ConflictError{Message: "resource already exists", ResourceType: "resource", ResourceID: resource.ID}
	}
	r.store.resources[resource.ID] = *resource
	return nil
}

func (r *memResourceRepo) GetByID(ctx context.Context, id string) (*models.Resource, error) {
	defer r.store.lock(ctx)()
	res, ok := r.store.resources[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &res, nil
}

func (r *memResourceRepo) GetByIDForUpdate(ctx context.Context, id string) (*models.Resource, error) {
	return r.GetByID(ctx, id)
}

func (r *memResourceRepo) ListByFolder(ctx context.Context, projectID, folderName string) ([]models.Resource, error) {
	defer r.store.lock(ctx)()
	var out []models.Resource
	for _, res := range r.store.resources {
		if res.ProjectID == projectID && res.FolderName == folderName {
			out = append(out, res)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *memResourceRepo) ListByProject(ctx context.Context, projectID string) ([]models.Resource, error) {
	defer r.store.lock(ctx)()
	var out []models.Resource
	for _, res := range r.store.resources {
		if res.ProjectID == projectID {
			out = append(out, res)
		}
	}
	return out, nil
}

func (r *memResourceRepo) Update(ctx context.Context, resource *models.Resource) error {
	defer r.store.lock(ctx)()
	if _, ok := r.store.resources[resource.ID]; !ok {
		return domain.ErrNotFound
	}
	r.store.resources[resource.ID] = *resource
	return nil
}

func (r *memResourceRepo) DecrementAvailable(ctx context.Context, id string) error {
	defer r.store.lock(ctx)()
	if r.store.failDecrement {
		return errors.New("injected decrement failure")
	}
	res, ok := r.store.resources[id]
	if !ok {
		return domain.ErrNotFound
	}
	if res.AvailableQuantity <= 0 {
		return &domain.OutOfStockError{ResourceID: id}
	}
	res.AvailableQuantity--
	r.store.resources[id] = res
	return nil
}

func (r *memResourceRepo) Delete(ctx context.Context, id string) error {
	defer r.store.lock(ctx)()
	if _, ok := r.store.resources[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.store.resources, id)
	return nil
}

func (r *memResourceRepo) DeleteByFolder(ctx context.Context, projectID, folderName string) error {
	defer r.store.lock(ctx)()
	for id, res := range r.store.resources {
		if res.ProjectID == projectID && res.FolderName == folderName {
			delete(r.store.resources, id)
		}
	}
	return nil
}

func (r *memResourceRepo) DeleteByProject(ctx context.Context, projectID string) error {
	defer r.store.lock(ctx)()
	for id, res := range r.store.resources {
		if res.ProjectID == projectID {
			delete(r.store.resources, id)
		}
	}
	return nil
}

// --- claim repository ---

type memClaimRepo struct {
	store *memStore
}

func (r *memClaimRepo) Create(ctx context.Context, claim *models.ClaimRecord) error {
	defer r.store.lock(ctx)()
	r.store.claims = append(r.store.claims, *claim)
	return nil
}

func (r *memClaimRepo) CountByResourceAndBorrower(ctx context.Context, resourceID, borrowerName string) (int, error) {
	defer r.store.lock(ctx)()
	count := 0
	for _, c := range r.store.claims {
		if c.ResourceID == resourceID && c.BorrowerName == borrowerName {
			count++
		}
	}
	return count, nil
}

func (r *memClaimRepo) List(ctx context.Context, filter models.ClaimFilter) ([]models.ClaimRecord, error) {
	defer r.store.lock(ctx)()
	r.store.lastFilter = filter

	var out []models.ClaimRecord
	for _, c := range r.store.claims {
		if filter.ResourceID != "" && c.ResourceID != filter.ResourceID {
			continue
		}
		if filter.BorrowerName != "" && c.BorrowerName != filter.BorrowerName {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ClaimDate.After(out[j].ClaimDate) })

	if filter.Offset > 0 {
		if filter.Offset >= len(out) {
			return nil, nil
		}
		out = out[filter.Offset:]
	}
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// --- blob store ---

type memBlobStore struct {
	mu    sync.Mutex
	files map[string][]byte // keyed by projectID/folderName/fileName

	failSave   bool
	failRename bool
}

func newMemBlobStore() *memBlobStore {
	return &memBlobStore{files: make(map[string][]byte)}
}

func blobKey(projectID, folderName, fileName string) string {
	return projectID + "/" + folderName + "/" + fileName
}

func (b *memBlobStore) Save(projectID, folderName, fileName string, r io.Reader) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failSave {
		return 0, errors.New("injected save failure")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	b.files[blobKey(projectID, folderName, fileName)] = data
	return int64(len(data)), nil
}

func (b *memBlobStore) Open(projectID, folderName, fileName string) (io.ReadCloser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.files[blobKey(projectID, folderName, fileName)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (b *memBlobStore) Delete(projectID, folderName, fileName string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.files, blobKey(projectID, folderName, fileName))
	return nil
}

func (b *memBlobStore) DeleteFolder(projectID, folderName string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	prefix := projectID + "/" + folderName + "/"
	for key := range b.files {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(b.files, key)
		}
	}
	return nil
}

func (b *memBlobStore) DeleteProject(projectID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	prefix := projectID + "/"
	for key := range b.files {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			delete(b.files, key)
		}
	}
	return nil
}

func (b *memBlobStore) Rename(projectID, folderName, oldName, newName string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.failRename {
		return errors.New("injected rename failure")
	}
	oldKey := blobKey(projectID, folderName, oldName)
	data, ok := b.files[oldKey]
	if !ok {
		return domain.ErrNotFound
	}
	delete(b.files, oldKey)
	b.files[blobKey(projectID, folderName, newName)] = data
	return nil
}
