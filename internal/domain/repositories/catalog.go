package repositories

import (
	"context"

	"github.com/playforge/updatedist/internal/domain/entities"
)

// CatalogStore is the document-store contract of C2: insert, CAS update,
// findOne, range/prefix queries, paginated listings, and one
// multi-document transaction shape (§4.2). Any engine offering
// single-document atomicity plus multi-document transactions may satisfy
// it; reads outside a transaction are read-committed.
type CatalogStore interface {
	// AllocateVersion atomically computes the next (major, minor,
	// revision) tuple for the given bump type in one upsert pipeline
	// (§9) — no separate lock document — and then inserts the PENDING
	// Version row with that tuple as a second, separate write.
	AllocateVersion(ctx context.Context, bumpType entities.VersionType, description string) (entities.Version, error)

	FindVersion(ctx context.Context, id string) (entities.Version, error)
	ListVersions(ctx context.Context, page, size int) ([]entities.Version, int64, error)
	// ListVersionsAfter returns READY versions whose (major,minor,revision)
	// strictly exceeds the given tuple, ascending by created_at (§4.7 step 1).
	ListVersionsAfter(ctx context.Context, major, minor, revision int) ([]entities.Version, error)
	UpdateVersionDescription(ctx context.Context, id, description string) error
	// CASVersionState performs a compare-and-set transition, returning
	// apperr Conflict if the current state does not equal from.
	CASVersionState(ctx context.Context, id string, from, to entities.VersionState) error

	FindUploadByVersion(ctx context.Context, versionID string) (entities.Upload, bool, error)
	FindUpload(ctx context.Context, id string) (entities.Upload, error)
	UpsertUpload(ctx context.Context, u entities.Upload) error
	// CASUploadState mirrors CASVersionState for the Upload document.
	CASUploadState(ctx context.Context, id string, from, to entities.UploadState) error
	DeleteUpload(ctx context.Context, id string) error

	UpsertChunk(ctx context.Context, c entities.UploadChunk) error
	CountChunks(ctx context.Context, uploadID, concurrentID string) (int, error)
	ListChunkOffsets(ctx context.Context, uploadID, concurrentID string) ([]int, error)
	DeleteChunks(ctx context.Context, uploadID, concurrentID string) error

	// PublishFiles runs insert_many(files) and the Version's
	// PROCESSING->READY CAS inside one transaction, aborting both on any
	// error (§4.6 step 8).
	PublishFiles(ctx context.Context, versionID string, files []entities.UpdateFile) error
	// FilesForVersions streams UpdateFile rows for the given version ids,
	// restricted to categories the caller cares about.
	FilesForVersions(ctx context.Context, versionIDs []string, categories []int) ([]entities.UpdateFile, error)
	CountFiles(ctx context.Context, versionID string) (int64, error)

	ListServers(ctx context.Context) ([]entities.Server, error)

	// ListStaleProcessingUploads supports the orphan sweep (§10): uploads
	// stuck PROCESSING whose updated_at precedes the cutoff.
	ListStaleProcessingUploads(ctx context.Context, cutoffSeconds int64) ([]entities.Upload, error)
}
