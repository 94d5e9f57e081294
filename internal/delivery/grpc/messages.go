package grpc

import "github.com/playforge/updatedist/internal/domain/dto"

// FetchVersionRequest is the only gRPC request shape with no HTTP
// counterpart DTO — FetchVersion takes a bare id both on the wire and in
// the route table (`/manager/version/fetch/:id`).
type FetchVersionRequest struct {
	ID string `json:"id"`
}

// Every other RPC reuses the corresponding dto type directly: same
// fields, same json tags, one request shape for both transports (§4.8).
type (
	CreateVersionRequest      = dto.CreateVersionRequest
	CreateVersionResponse     = dto.CreateVersionResponse
	EditVersionRequest        = dto.EditVersionRequest
	EditVersionResponse       = dto.EditVersionResponse
	FetchVersionResponse      = dto.Version
	ListVersionsRequest       = dto.ListVersionsRequest
	ListVersionsResponse      = dto.ListVersionsResponse
	FetchUploadsRequest       = dto.FetchUploadsRequest
	FetchUploadsResponse      = dto.FetchUploadsResponse
	StartUploadVersionRequest = dto.StartUploadRequest
	StartUploadResponse       = dto.StartUploadResponse
	UploadVersionChunkRequest = dto.UploadChunkRequest
	UploadChunkResponse       = dto.UploadChunkResponse
	ProcessVersionRequest     = dto.ProcessVersionRequest
	ProcessVersionResponse    = dto.ProcessVersionResponse
	CancelUploadRequest       = dto.CancelUploadRequest
	MissingRange              = dto.MissingRange
)

// CancelUploadResponse acknowledges the supplemented CancelUpload RPC,
// grounded on the teacher's own cancel route (§10).
type CancelUploadResponse struct {
	Success bool `json:"success"`
}
