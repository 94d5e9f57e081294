package usecases

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/playforge/updatedist/internal/domain/dto"
	"github.com/playforge/updatedist/internal/domain/entities"
	"github.com/playforge/updatedist/internal/domain/repositories"
	"github.com/playforge/updatedist/pkg/apperr"
)

// fakeCatalog is an in-memory stand-in for repositories.CatalogStore,
// just enough of the real Mongo semantics (CAS, upsert, prefix scans)
// for usecase-level tests to exercise branching without a live Mongo.
type fakeCatalog struct {
	mu       sync.Mutex
	versions map[string]entities.Version
	uploads  map[string]entities.Upload
	chunks   map[string]entities.UploadChunk // key: uploadID/concurrentID/offset
	files    []entities.UpdateFile
	servers  []entities.Server
	nextID   int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		versions: map[string]entities.Version{},
		uploads:  map[string]entities.Upload{},
		chunks:   map[string]entities.UploadChunk{},
	}
}

func (f *fakeCatalog) genID(prefix string) string {
	f.nextID++
	return prefix + "-id-" + strconv.Itoa(f.nextID)
}

func (f *fakeCatalog) AllocateVersion(ctx context.Context, bumpType entities.VersionType, description string) (entities.Version, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var latest entities.Version
	for _, v := range f.versions {
		if v.Major > latest.Major || (v.Major == latest.Major && v.Minor > latest.Minor) ||
			(v.Major == latest.Major && v.Minor == latest.Minor && v.Revision > latest.Revision) {
			latest = v
		}
	}

	next := latest
	switch bumpType {
	case entities.VersionTypeMajor:
		next.Major++
		next.Minor, next.Revision = 0, 0
	case entities.VersionTypeMinor:
		next.Minor++
		next.Revision = 0
	case entities.VersionTypeRevision:
		next.Revision++
	}

	next.ID = f.genID("version")
	next.Description = description
	next.State = entities.VersionPending
	f.versions[next.ID] = next
	return next, nil
}

func (f *fakeCatalog) FindVersion(ctx context.Context, id string) (entities.Version, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.versions[id]
	if !ok {
		return entities.Version{}, apperr.NotFound("version not found")
	}
	return v, nil
}

func (f *fakeCatalog) ListVersions(ctx context.Context, page, size int) ([]entities.Version, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entities.Version, 0, len(f.versions))
	for _, v := range f.versions {
		out = append(out, v)
	}
	return out, int64(len(out)), nil
}

func (f *fakeCatalog) ListVersionsAfter(ctx context.Context, major, minor, revision int) ([]entities.Version, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entities.Version
	for _, v := range f.versions {
		if v.State != entities.VersionReady {
			continue
		}
		if (v.Major > major) ||
			(v.Major == major && v.Minor > minor) ||
			(v.Major == major && v.Minor == minor && v.Revision > revision) {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Major != b.Major {
			return a.Major < b.Major
		}
		if a.Minor != b.Minor {
			return a.Minor < b.Minor
		}
		return a.Revision < b.Revision
	})
	return out, nil
}

func (f *fakeCatalog) UpdateVersionDescription(ctx context.Context, id, description string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.versions[id]
	if !ok {
		return apperr.NotFound("version not found")
	}
	v.Description = description
	f.versions[id] = v
	return nil
}

func (f *fakeCatalog) CASVersionState(ctx context.Context, id string, from, to entities.VersionState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.versions[id]
	if !ok {
		return apperr.NotFound("version not found")
	}
	if v.State != from {
		return apperr.Conflict("version state mismatch")
	}
	v.State = to
	f.versions[id] = v
	return nil
}

func (f *fakeCatalog) FindUploadByVersion(ctx context.Context, versionID string) (entities.Upload, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.uploads {
		if u.VersionID == versionID {
			return u, true, nil
		}
	}
	return entities.Upload{}, false, nil
}

func (f *fakeCatalog) FindUpload(ctx context.Context, id string) (entities.Upload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.uploads[id]
	if !ok {
		return entities.Upload{}, apperr.NotFound("upload not found")
	}
	return u, nil
}

func (f *fakeCatalog) UpsertUpload(ctx context.Context, u entities.Upload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads[u.ID] = u
	return nil
}

func (f *fakeCatalog) CASUploadState(ctx context.Context, id string, from, to entities.UploadState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.uploads[id]
	if !ok {
		return apperr.NotFound("upload not found")
	}
	if u.State != from {
		return apperr.Conflict("upload state mismatch")
	}
	u.State = to
	f.uploads[id] = u
	return nil
}

func (f *fakeCatalog) DeleteUpload(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.uploads, id)
	return nil
}

func chunkKey(uploadID, concurrentID string, offset int) string {
	return uploadID + "/" + concurrentID + "/" + strconv.Itoa(offset)
}

func (f *fakeCatalog) UpsertChunk(ctx context.Context, c entities.UploadChunk) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := chunkKey(c.UploadID, c.ConcurrentID, c.Offset)
	if _, exists := f.chunks[key]; exists {
		return nil
	}
	f.chunks[key] = c
	return nil
}

func (f *fakeCatalog) CountChunks(ctx context.Context, uploadID, concurrentID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, c := range f.chunks {
		if c.UploadID == uploadID && c.ConcurrentID == concurrentID {
			count++
		}
	}
	return count, nil
}

func (f *fakeCatalog) ListChunkOffsets(ctx context.Context, uploadID, concurrentID string) ([]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []int
	for _, c := range f.chunks {
		if c.UploadID == uploadID && c.ConcurrentID == concurrentID {
			out = append(out, c.Offset)
		}
	}
	return out, nil
}

func (f *fakeCatalog) DeleteChunks(ctx context.Context, uploadID, concurrentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for key, c := range f.chunks {
		if c.UploadID == uploadID && c.ConcurrentID == concurrentID {
			delete(f.chunks, key)
		}
	}
	return nil
}

func (f *fakeCatalog) PublishFiles(ctx context.Context, versionID string, files []entities.UpdateFile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.files = append(f.files, files...)
	v, ok := f.versions[versionID]
	if !ok {
		return apperr.NotFound("version not found")
	}
	v.State = entities.VersionReady
	f.versions[versionID] = v
	return nil
}

func (f *fakeCatalog) FilesForVersions(ctx context.Context, versionIDs []string, categories []int) ([]entities.UpdateFile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	wanted := map[string]bool{}
	for _, id := range versionIDs {
		wanted[id] = true
	}
	var out []entities.UpdateFile
	for _, file := range f.files {
		if wanted[file.VersionID] {
			out = append(out, file)
		}
	}
	return out, nil
}

func (f *fakeCatalog) CountFiles(ctx context.Context, versionID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var n int64
	for _, file := range f.files {
		if file.VersionID == versionID {
			n++
		}
	}
	return n, nil
}

func (f *fakeCatalog) ListServers(ctx context.Context) ([]entities.Server, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.servers, nil
}

func (f *fakeCatalog) ListStaleProcessingUploads(ctx context.Context, cutoffSeconds int64) ([]entities.Upload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []entities.Upload
	for _, u := range f.uploads {
		if u.State == entities.UploadProcessing {
			out = append(out, u)
		}
	}
	return out, nil
}

// fakeBlobStore records every call it receives; tests assert on Calls
// rather than any real transfer happening.
type fakeBlobStore struct {
	mu    sync.Mutex
	Calls []string
}

func newFakeBlobStore() *fakeBlobStore { return &fakeBlobStore{} }

func (f *fakeBlobStore) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Calls = append(f.Calls, call)
}

func (f *fakeBlobStore) DeleteFolder(ctx context.Context, store repositories.Store, prefix string) error {
	f.record("DeleteFolder:" + prefix)
	return nil
}

func (f *fakeBlobStore) DownloadFile(ctx context.Context, store repositories.Store, srcKey, dstPath string, progress repositories.ProgressFunc) error {
	f.record("DownloadFile:" + srcKey)
	return nil
}

func (f *fakeBlobStore) DownloadFolder(ctx context.Context, store repositories.Store, srcPrefix, dstDir string, progress repositories.ProgressFunc) error {
	f.record("DownloadFolder:" + srcPrefix)
	return nil
}

func (f *fakeBlobStore) UploadFile(ctx context.Context, store repositories.Store, srcPath, dstKey string, progress repositories.ProgressFunc) error {
	f.record("UploadFile:" + dstKey)
	return nil
}

func (f *fakeBlobStore) UploadBuffer(ctx context.Context, store repositories.Store, data []byte, dstKey string, progress repositories.ProgressFunc) error {
	f.record("UploadBuffer:" + dstKey)
	return nil
}

func (f *fakeBlobStore) UploadFolder(ctx context.Context, store repositories.Store, srcDir, dstPrefix string, progress repositories.ProgressFunc) error {
	f.record("UploadFolder:" + dstPrefix)
	return nil
}

// fakeQueue is an in-memory JobQueue; LeaseNext is never exercised by
// these tests, only Enqueue's dedup-by-id behavior and introspection.
type fakeQueue struct {
	mu         sync.Mutex
	Jobs       map[string]entities.JobPayload
	EnqueueHit int
}

func newFakeQueue() *fakeQueue { return &fakeQueue{Jobs: map[string]entities.JobPayload{}} }

func (f *fakeQueue) Enqueue(ctx context.Context, jobID string, payload entities.JobPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.Jobs[jobID]; exists {
		return nil
	}
	f.Jobs[jobID] = payload
	f.EnqueueHit++
	return nil
}

func (f *fakeQueue) LeaseNext(ctx context.Context) (repositories.Lease, error) {
	return nil, nil
}

func (f *fakeQueue) Active(ctx context.Context) ([]entities.JobRecord, error) {
	return nil, nil
}

func (f *fakeQueue) Waiting(ctx context.Context) ([]entities.JobRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entities.JobRecord, 0, len(f.Jobs))
	for id, p := range f.Jobs {
		out = append(out, entities.JobRecord{JobID: id, Payload: p, Status: entities.JobWaiting})
	}
	return out, nil
}

// fakeCache is an in-memory ManifestCache.
type fakeCache struct {
	mu    sync.Mutex
	store map[string]dto.Manifest
	Sets  int
}

func newFakeCache() *fakeCache { return &fakeCache{store: map[string]dto.Manifest{}} }

func (f *fakeCache) Get(ctx context.Context, key string) (dto.Manifest, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	m, ok := f.store[key]
	return m, ok, nil
}

func (f *fakeCache) Set(ctx context.Context, key string, m dto.Manifest, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.store[key] = m
	f.Sets++
	return nil
}
