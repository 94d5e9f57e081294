package usecases

import (
	"context"

	"github.com/playforge/updatedist/internal/domain/dto"
	"github.com/playforge/updatedist/internal/domain/entities"
	"github.com/playforge/updatedist/internal/domain/repositories"
	"github.com/playforge/updatedist/pkg/apperr"
	"go.uber.org/zap"
)

// VersionService is the C8 adapter surface over Version lifecycle calls
// (§6 route table) and the publish-job enqueue.
type VersionService interface {
	CreateVersion(ctx context.Context, req dto.CreateVersionRequest) (dto.CreateVersionResponse, error)
	EditVersion(ctx context.Context, req dto.EditVersionRequest) (dto.EditVersionResponse, error)
	FetchVersion(ctx context.Context, id string) (dto.Version, error)
	ListVersions(ctx context.Context, req dto.ListVersionsRequest) (dto.ListVersionsResponse, error)
	ProcessVersion(ctx context.Context, req dto.ProcessVersionRequest) (dto.ProcessVersionResponse, error)
}

type versionService struct {
	catalog repositories.CatalogStore
	queue   repositories.JobQueue
	log     *zap.Logger
}

func NewVersionService(catalog repositories.CatalogStore, queue repositories.JobQueue, log *zap.Logger) VersionService {
	return &versionService{catalog: catalog, queue: queue, log: log.With(zap.String("component", "version_service"))}
}

func (s *versionService) CreateVersion(ctx context.Context, req dto.CreateVersionRequest) (dto.CreateVersionResponse, error) {
	if req.Type < 0 || req.Type > 2 {
		return dto.CreateVersionResponse{}, apperr.Validation("type", "must be 0, 1, or 2")
	}
	v, err := s.catalog.AllocateVersion(ctx, entities.VersionType(req.Type), req.Description)
	if err != nil {
		return dto.CreateVersionResponse{}, err
	}
	return dto.CreateVersionResponse{ID: v.ID, Version: v.Semantic()}, nil
}

func (s *versionService) EditVersion(ctx context.Context, req dto.EditVersionRequest) (dto.EditVersionResponse, error) {
	if err := s.catalog.UpdateVersionDescription(ctx, req.ID, req.Description); err != nil {
		return dto.EditVersionResponse{}, err
	}
	return dto.EditVersionResponse{Success: true}, nil
}

func (s *versionService) FetchVersion(ctx context.Context, id string) (dto.Version, error) {
	v, err := s.catalog.FindVersion(ctx, id)
	if err != nil {
		return dto.Version{}, err
	}
	count, err := s.catalog.CountFiles(ctx, id)
	if err != nil {
		return dto.Version{}, err
	}
	return toVersionDTO(v, count), nil
}

func (s *versionService) ListVersions(ctx context.Context, req dto.ListVersionsRequest) (dto.ListVersionsResponse, error) {
	if req.Size < 4 || req.Size > 50 {
		return dto.ListVersionsResponse{}, apperr.Validation("size", "must be in [4, 50]")
	}
	if req.Page < 0 {
		return dto.ListVersionsResponse{}, apperr.Validation("page", "must be >= 0")
	}

	versions, total, err := s.catalog.ListVersions(ctx, req.Page, req.Size)
	if err != nil {
		return dto.ListVersionsResponse{}, err
	}

	items := make([]dto.Version, len(versions))
	for i, v := range versions {
		count, err := s.catalog.CountFiles(ctx, v.ID)
		if err != nil {
			return dto.ListVersionsResponse{}, err
		}
		items[i] = toVersionDTO(v, count)
	}

	return dto.ListVersionsResponse{Items: items, Total: total, Page: req.Page, Size: req.Size}, nil
}

func (s *versionService) ProcessVersion(ctx context.Context, req dto.ProcessVersionRequest) (dto.ProcessVersionResponse, error) {
	v, err := s.catalog.FindVersion(ctx, req.ID)
	if err != nil {
		return dto.ProcessVersionResponse{}, err
	}
	if v.State == entities.VersionReady {
		return dto.ProcessVersionResponse{}, apperr.Conflict("version is already READY")
	}

	jobID := "version-" + v.ID
	payload := entities.JobPayload{Kind: entities.JobProcessPublish, VersionID: v.ID}
	if err := s.queue.Enqueue(ctx, jobID, payload); err != nil {
		return dto.ProcessVersionResponse{}, err
	}
	return dto.ProcessVersionResponse{JobID: jobID}, nil
}

func toVersionDTO(v entities.Version, filesCount int64) dto.Version {
	return dto.Version{
		ID:          v.ID,
		Version:     v.Semantic(),
		Description: v.Description,
		State:       string(v.State),
		FilesCount:  filesCount,
		CreatedAt:   v.CreatedAt,
		UpdatedAt:   v.UpdatedAt,
	}
}
