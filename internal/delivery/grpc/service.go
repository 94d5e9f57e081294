package grpc

import (
	"context"

	"github.com/playforge/updatedist/internal/usecases"
)

// UpdateService is the gRPC-side C8 adapter: the same VersionService and
// UploadCoordinator usecases the HTTP handlers call, reached through
// unary RPCs instead of fiber routes.
type UpdateService struct {
	versions usecases.VersionService
	uploads  usecases.UploadCoordinator
}

func NewUpdateService(versions usecases.VersionService, uploads usecases.UploadCoordinator) *UpdateService {
	return &UpdateService{versions: versions, uploads: uploads}
}

func (s *UpdateService) CreateVersion(ctx context.Context, req *CreateVersionRequest) (*CreateVersionResponse, error) {
	resp, err := s.versions.CreateVersion(ctx, *req)
	return &resp, err
}

func (s *UpdateService) EditVersion(ctx context.Context, req *EditVersionRequest) (*EditVersionResponse, error) {
	resp, err := s.versions.EditVersion(ctx, *req)
	return &resp, err
}

func (s *UpdateService) FetchVersion(ctx context.Context, req *FetchVersionRequest) (*FetchVersionResponse, error) {
	resp, err := s.versions.FetchVersion(ctx, req.ID)
	return &resp, err
}

func (s *UpdateService) ListVersions(ctx context.Context, req *ListVersionsRequest) (*ListVersionsResponse, error) {
	resp, err := s.versions.ListVersions(ctx, *req)
	return &resp, err
}

func (s *UpdateService) FetchUploads(ctx context.Context, req *FetchUploadsRequest) (*FetchUploadsResponse, error) {
	resp, err := s.uploads.FetchUploads(ctx, *req)
	return &resp, err
}

func (s *UpdateService) StartUploadVersion(ctx context.Context, req *StartUploadVersionRequest) (*StartUploadResponse, error) {
	resp, err := s.uploads.StartUpload(ctx, *req)
	return &resp, err
}

func (s *UpdateService) UploadVersionChunk(ctx context.Context, req *UploadVersionChunkRequest) (*UploadChunkResponse, error) {
	resp, err := s.uploads.UploadChunk(ctx, *req)
	return &resp, err
}

func (s *UpdateService) ProcessVersion(ctx context.Context, req *ProcessVersionRequest) (*ProcessVersionResponse, error) {
	resp, err := s.versions.ProcessVersion(ctx, *req)
	return &resp, err
}

func (s *UpdateService) CancelUpload(ctx context.Context, req *CancelUploadRequest) (*CancelUploadResponse, error) {
	err := s.uploads.CancelUpload(ctx, *req)
	return &CancelUploadResponse{Success: err == nil}, err
}
