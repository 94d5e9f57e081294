package grpc

import (
	"context"

	"google.golang.org/grpc"
)

// UpdateServiceClient is the hand-written counterpart of a generated
// client stub, dispatching each RPC through grpc.ClientConnInterface.
type UpdateServiceClient interface {
	CreateVersion(ctx context.Context, req *CreateVersionRequest, opts ...grpc.CallOption) (*CreateVersionResponse, error)
	EditVersion(ctx context.Context, req *EditVersionRequest, opts ...grpc.CallOption) (*EditVersionResponse, error)
	FetchVersion(ctx context.Context, req *FetchVersionRequest, opts ...grpc.CallOption) (*FetchVersionResponse, error)
	ListVersions(ctx context.Context, req *ListVersionsRequest, opts ...grpc.CallOption) (*ListVersionsResponse, error)
	FetchUploads(ctx context.Context, req *FetchUploadsRequest, opts ...grpc.CallOption) (*FetchUploadsResponse, error)
	StartUploadVersion(ctx context.Context, req *StartUploadVersionRequest, opts ...grpc.CallOption) (*StartUploadResponse, error)
	UploadVersionChunk(ctx context.Context, req *UploadVersionChunkRequest, opts ...grpc.CallOption) (*UploadChunkResponse, error)
	ProcessVersion(ctx context.Context, req *ProcessVersionRequest, opts ...grpc.CallOption) (*ProcessVersionResponse, error)
	CancelUpload(ctx context.Context, req *CancelUploadRequest, opts ...grpc.CallOption) (*CancelUploadResponse, error)
}

type updateServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewUpdateServiceClient wraps a dialed connection; callers should set
// grpc.WithDefaultCallOptions(grpc.CallContentSubtype(codecName)) on the
// conn so the JSON codec registered in codec.go is selected.
func NewUpdateServiceClient(cc grpc.ClientConnInterface) UpdateServiceClient {
	return &updateServiceClient{cc: cc}
}

func (c *updateServiceClient) CreateVersion(ctx context.Context, req *CreateVersionRequest, opts ...grpc.CallOption) (*CreateVersionResponse, error) {
	out := new(CreateVersionResponse)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/CreateVersion", req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *updateServiceClient) EditVersion(ctx context.Context, req *EditVersionRequest, opts ...grpc.CallOption) (*EditVersionResponse, error) {
	out := new(EditVersionResponse)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/EditVersion", req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *updateServiceClient) FetchVersion(ctx context.Context, req *FetchVersionRequest, opts ...grpc.CallOption) (*FetchVersionResponse, error) {
	out := new(FetchVersionResponse)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/FetchVersion", req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *updateServiceClient) ListVersions(ctx context.Context, req *ListVersionsRequest, opts ...grpc.CallOption) (*ListVersionsResponse, error) {
	out := new(ListVersionsResponse)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/ListVersions", req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *updateServiceClient) FetchUploads(ctx context.Context, req *FetchUploadsRequest, opts ...grpc.CallOption) (*FetchUploadsResponse, error) {
	out := new(FetchUploadsResponse)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/FetchUploads", req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *updateServiceClient) StartUploadVersion(ctx context.Context, req *StartUploadVersionRequest, opts ...grpc.CallOption) (*StartUploadResponse, error) {
	out := new(StartUploadResponse)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/StartUploadVersion", req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *updateServiceClient) UploadVersionChunk(ctx context.Context, req *UploadVersionChunkRequest, opts ...grpc.CallOption) (*UploadChunkResponse, error) {
	out := new(UploadChunkResponse)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/UploadVersionChunk", req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *updateServiceClient) ProcessVersion(ctx context.Context, req *ProcessVersionRequest, opts ...grpc.CallOption) (*ProcessVersionResponse, error) {
	out := new(ProcessVersionResponse)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/ProcessVersion", req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *updateServiceClient) CancelUpload(ctx context.Context, req *CancelUploadRequest, opts ...grpc.CallOption) (*CancelUploadResponse, error) {
	out := new(CancelUploadResponse)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/CancelUpload", req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
