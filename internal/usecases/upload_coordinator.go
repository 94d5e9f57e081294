package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/playforge/updatedist/internal/domain/dto"
	"github.com/playforge/updatedist/internal/domain/entities"
	"github.com/playforge/updatedist/internal/domain/repositories"
	"github.com/playforge/updatedist/pkg/apperr"
	"github.com/playforge/updatedist/pkg/idgen"
	"github.com/playforge/updatedist/pkg/rangeutil"
	"go.uber.org/zap"
)

// UploadCoordinator is C4: the chunked-upload state machine, epoch
// resolution, and missing-range tracking.
type UploadCoordinator interface {
	StartUpload(ctx context.Context, req dto.StartUploadRequest) (dto.StartUploadResponse, error)
	UploadChunk(ctx context.Context, req dto.UploadChunkRequest) (dto.UploadChunkResponse, error)
	CancelUpload(ctx context.Context, req dto.CancelUploadRequest) error
	FetchUploads(ctx context.Context, req dto.FetchUploadsRequest) (dto.FetchUploadsResponse, error)
}

type uploadCoordinator struct {
	catalog repositories.CatalogStore
	blobs   repositories.BlobStore
	queue   repositories.JobQueue
	log     *zap.Logger
}

func NewUploadCoordinator(catalog repositories.CatalogStore, blobs repositories.BlobStore, queue repositories.JobQueue, log *zap.Logger) UploadCoordinator {
	return &uploadCoordinator{catalog: catalog, blobs: blobs, queue: queue, log: log.With(zap.String("component", "upload_coordinator"))}
}

func validateStartUpload(req dto.StartUploadRequest) error {
	if len(req.Hash) != 64 {
		return apperr.Validation("hash", "must be 64 lowercase hex characters")
	}
	for _, c := range req.Hash {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return apperr.Validation("hash", "must be 64 lowercase hex characters")
		}
	}
	if req.ChunkSize < entities.MinChunkSize || req.ChunkSize > entities.MaxChunkSize {
		return apperr.Validation("chunk_size", "must be a power of two in [16KiB, 512KiB]")
	}
	if req.ChunkSize&(req.ChunkSize-1) != 0 {
		return apperr.Validation("chunk_size", "must be a power of two")
	}
	if req.FileSize < entities.MinFileSize || req.FileSize > entities.MaxFileSize {
		return apperr.Validation("file_size", "must be in [1KiB, 5GiB]")
	}
	return nil
}

func (s *uploadCoordinator) StartUpload(ctx context.Context, req dto.StartUploadRequest) (dto.StartUploadResponse, error) {
	if err := validateStartUpload(req); err != nil {
		return dto.StartUploadResponse{}, err
	}

	existing, found, err := s.catalog.FindUploadByVersion(ctx, req.VersionID)
	if err != nil {
		return dto.StartUploadResponse{}, err
	}

	chunksCount := entities.ChunksCountFor(req.FileSize, req.ChunkSize)

	if !found {
		u := entities.Upload{
			ID:           idgen.MustNew().String(),
			VersionID:    req.VersionID,
			ConcurrentID: idgen.MustNew().String(),
			Hash:         req.Hash,
			ChunkSize:    req.ChunkSize,
			FileSize:     req.FileSize,
			ChunksCount:  chunksCount,
			State:        entities.UploadNone,
		}
		if err := s.catalog.UpsertUpload(ctx, u); err != nil {
			return dto.StartUploadResponse{}, err
		}
		return dto.StartUploadResponse{
			UploadID:      u.ID,
			ConcurrentID:  u.ConcurrentID,
			MissingRanges: toMissingRanges(rangeutil.Missing(nil, chunksCount)),
		}, nil
	}

	if existing.Hash == req.Hash && existing.ChunkSize == req.ChunkSize {
		offsets, err := s.catalog.ListChunkOffsets(ctx, existing.ID, existing.ConcurrentID)
		if err != nil {
			return dto.StartUploadResponse{}, err
		}
		return dto.StartUploadResponse{
			UploadID:      existing.ID,
			ConcurrentID:  existing.ConcurrentID,
			MissingRanges: toMissingRanges(rangeutil.MissingFromSlice(offsets, existing.ChunksCount)),
		}, nil
	}

	// Parameters changed: rotate the epoch, drop the old one entirely.
	oldConcurrentID := existing.ConcurrentID
	oldHash := existing.Hash
	existing.ConcurrentID = idgen.MustNew().String()
	existing.Hash = req.Hash
	existing.ChunkSize = req.ChunkSize
	existing.FileSize = req.FileSize
	existing.ChunksCount = chunksCount
	existing.State = entities.UploadNone

	if err := s.catalog.UpsertUpload(ctx, existing); err != nil {
		return dto.StartUploadResponse{}, err
	}
	if err := s.catalog.DeleteChunks(ctx, existing.ID, oldConcurrentID); err != nil {
		return dto.StartUploadResponse{}, err
	}
	prefix := fmt.Sprintf("%s/%s/", strings.ToUpper(existing.ID), strings.ToUpper(oldHash))
	if err := s.blobs.DeleteFolder(ctx, repositories.StoreInput, prefix); err != nil {
		s.log.Warn("failed to delete stale chunk prefix", zap.String("upload_id", existing.ID), zap.Error(err))
	}

	return dto.StartUploadResponse{
		UploadID:      existing.ID,
		ConcurrentID:  existing.ConcurrentID,
		MissingRanges: toMissingRanges(rangeutil.Missing(nil, chunksCount)),
	}, nil
}

func (s *uploadCoordinator) UploadChunk(ctx context.Context, req dto.UploadChunkRequest) (dto.UploadChunkResponse, error) {
	u, err := s.catalog.FindUpload(ctx, req.UploadID)
	if err != nil {
		return dto.UploadChunkResponse{}, err
	}
	if u.ConcurrentID != req.ConcurrentID {
		return dto.UploadChunkResponse{}, apperr.Conflict("chunk belongs to a superseded upload epoch")
	}
	if req.Offset >= u.ChunksCount {
		return dto.UploadChunkResponse{}, apperr.Validation("offset", "exceeds chunks_count")
	}
	if int64(len(req.Data)) != u.ExpectedChunkLength(req.Offset) {
		return dto.UploadChunkResponse{}, apperr.Validation("data", "chunk length does not match expected size for this offset")
	}

	key := fmt.Sprintf("%s/%s/%08d.data", strings.ToUpper(u.ID), strings.ToUpper(u.Hash), req.Offset)
	if err := s.blobs.UploadBuffer(ctx, repositories.StoreInput, req.Data, key, nil); err != nil {
		return dto.UploadChunkResponse{}, err
	}

	if err := s.catalog.UpsertChunk(ctx, entities.UploadChunk{
		UploadID: u.ID, ConcurrentID: u.ConcurrentID, Offset: req.Offset, Length: int64(len(req.Data)),
	}); err != nil {
		return dto.UploadChunkResponse{}, err
	}

	count, err := s.catalog.CountChunks(ctx, u.ID, u.ConcurrentID)
	if err != nil {
		return dto.UploadChunkResponse{}, err
	}

	finished := count == u.ChunksCount
	if finished {
		if err := s.catalog.CASUploadState(ctx, u.ID, entities.UploadNone, entities.UploadPending); err != nil && !apperr.Is(err, apperr.KindConflict) {
			return dto.UploadChunkResponse{}, err
		}
		jobID := fmt.Sprintf("version-%s-%s-%s", u.VersionID, u.ID, u.ConcurrentID)
		if err := s.queue.Enqueue(ctx, jobID, entities.JobPayload{
			Kind: entities.JobProcessUpload, VersionID: u.VersionID, UploadID: u.ID, ConcurrentID: u.ConcurrentID,
		}); err != nil {
			return dto.UploadChunkResponse{}, err
		}
	}

	return dto.UploadChunkResponse{Finished: finished}, nil
}

func (s *uploadCoordinator) CancelUpload(ctx context.Context, req dto.CancelUploadRequest) error {
	u, err := s.catalog.FindUpload(ctx, req.UploadID)
	if err != nil {
		return err
	}
	if err := s.catalog.DeleteChunks(ctx, u.ID, u.ConcurrentID); err != nil {
		return err
	}
	prefix := fmt.Sprintf("%s/%s/", strings.ToUpper(u.ID), strings.ToUpper(u.Hash))
	if err := s.blobs.DeleteFolder(ctx, repositories.StoreInput, prefix); err != nil {
		s.log.Warn("failed to delete blobs on cancel", zap.String("upload_id", u.ID), zap.Error(err))
	}
	return s.catalog.DeleteUpload(ctx, u.ID)
}

// FetchUploads backs the gRPC FetchUploads RPC; at most one Upload row
// exists per version, so a miss is an empty list, not a NotFound error.
func (s *uploadCoordinator) FetchUploads(ctx context.Context, req dto.FetchUploadsRequest) (dto.FetchUploadsResponse, error) {
	u, found, err := s.catalog.FindUploadByVersion(ctx, req.VersionID)
	if err != nil {
		return dto.FetchUploadsResponse{}, err
	}
	if !found {
		return dto.FetchUploadsResponse{Uploads: []dto.UploadStatus{}}, nil
	}
	return dto.FetchUploadsResponse{Uploads: []dto.UploadStatus{{
		UploadID:     u.ID,
		ConcurrentID: u.ConcurrentID,
		Hash:         u.Hash,
		ChunkSize:    u.ChunkSize,
		FileSize:     u.FileSize,
		ChunksCount:  u.ChunksCount,
		State:        string(u.State),
	}}}, nil
}

func toMissingRanges(rs []rangeutil.Range) []dto.MissingRange {
	out := make([]dto.MissingRange, len(rs))
	for i, r := range rs {
		out[i] = dto.MissingRange{Start: r.Start, End: r.End}
	}
	return out
}

