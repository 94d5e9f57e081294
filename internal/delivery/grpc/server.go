package grpc

import (
	"context"
	"strings"

	"github.com/playforge/updatedist/internal/pkg/auth"
	"github.com/playforge/updatedist/pkg/apperr"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const serviceName = "updatedist.UpdateService"

// UpdateServiceServer is the interface the hand-built ServiceDesc below
// dispatches to — the same shape protoc-gen-go-grpc would generate from
// a .proto file, written by hand per §4.8's explicit non-goal of code
// generation.
type UpdateServiceServer interface {
	CreateVersion(context.Context, *CreateVersionRequest) (*CreateVersionResponse, error)
	EditVersion(context.Context, *EditVersionRequest) (*EditVersionResponse, error)
	FetchVersion(context.Context, *FetchVersionRequest) (*FetchVersionResponse, error)
	ListVersions(context.Context, *ListVersionsRequest) (*ListVersionsResponse, error)
	FetchUploads(context.Context, *FetchUploadsRequest) (*FetchUploadsResponse, error)
	StartUploadVersion(context.Context, *StartUploadVersionRequest) (*StartUploadResponse, error)
	UploadVersionChunk(context.Context, *UploadVersionChunkRequest) (*UploadChunkResponse, error)
	ProcessVersion(context.Context, *ProcessVersionRequest) (*ProcessVersionResponse, error)
	CancelUpload(context.Context, *CancelUploadRequest) (*CancelUploadResponse, error)
}

// RegisterUpdateServiceServer wires srv into a *grpc.Server the way
// generated code's RegisterXxxServer function would.
func RegisterUpdateServiceServer(s grpc.ServiceRegistrar, srv UpdateServiceServer) {
	s.RegisterService(&serviceDesc, srv)
}

func createVersionHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(CreateVersionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(UpdateServiceServer).CreateVersion(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "/CreateVersion"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(UpdateServiceServer).CreateVersion(ctx, req.(*CreateVersionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func editVersionHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(EditVersionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(UpdateServiceServer).EditVersion(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "/EditVersion"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(UpdateServiceServer).EditVersion(ctx, req.(*EditVersionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func fetchVersionHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(FetchVersionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(UpdateServiceServer).FetchVersion(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "/FetchVersion"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(UpdateServiceServer).FetchVersion(ctx, req.(*FetchVersionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func listVersionsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ListVersionsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(UpdateServiceServer).ListVersions(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "/ListVersions"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(UpdateServiceServer).ListVersions(ctx, req.(*ListVersionsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func fetchUploadsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(FetchUploadsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(UpdateServiceServer).FetchUploads(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "/FetchUploads"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(UpdateServiceServer).FetchUploads(ctx, req.(*FetchUploadsRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func startUploadVersionHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(StartUploadVersionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(UpdateServiceServer).StartUploadVersion(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "/StartUploadVersion"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(UpdateServiceServer).StartUploadVersion(ctx, req.(*StartUploadVersionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func uploadVersionChunkHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(UploadVersionChunkRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(UpdateServiceServer).UploadVersionChunk(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "/UploadVersionChunk"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(UpdateServiceServer).UploadVersionChunk(ctx, req.(*UploadVersionChunkRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func processVersionHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ProcessVersionRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(UpdateServiceServer).ProcessVersion(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "/ProcessVersion"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(UpdateServiceServer).ProcessVersion(ctx, req.(*ProcessVersionRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func cancelUploadHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(CancelUploadRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(UpdateServiceServer).CancelUpload(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: serviceName + "/CancelUpload"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(UpdateServiceServer).CancelUpload(ctx, req.(*CancelUploadRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*UpdateServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateVersion", Handler: createVersionHandler},
		{MethodName: "EditVersion", Handler: editVersionHandler},
		{MethodName: "FetchVersion", Handler: fetchVersionHandler},
		{MethodName: "ListVersions", Handler: listVersionsHandler},
		{MethodName: "FetchUploads", Handler: fetchUploadsHandler},
		{MethodName: "StartUploadVersion", Handler: startUploadVersionHandler},
		{MethodName: "UploadVersionChunk", Handler: uploadVersionChunkHandler},
		{MethodName: "ProcessVersion", Handler: processVersionHandler},
		{MethodName: "CancelUpload", Handler: cancelUploadHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "updatedist.proto",
}

// methodCapabilities mirrors the HTTP route table's Auth column (§6):
// read-only RPCs require update:view, everything that mutates state
// requires update:edit.
var methodCapabilities = map[string]auth.Capability{
	serviceName + "/CreateVersion":        auth.CapabilityEdit,
	serviceName + "/EditVersion":          auth.CapabilityEdit,
	serviceName + "/ProcessVersion":       auth.CapabilityEdit,
	serviceName + "/StartUploadVersion":   auth.CapabilityEdit,
	serviceName + "/UploadVersionChunk":   auth.CapabilityEdit,
	serviceName + "/CancelUpload":         auth.CapabilityEdit,
	serviceName + "/FetchVersion":         auth.CapabilityView,
	serviceName + "/ListVersions":         auth.CapabilityView,
	serviceName + "/FetchUploads":         auth.CapabilityView,
}

// AuthInterceptor gates every RPC through the same TokenIntrospector the
// HTTP middleware uses, and translates returned apperr.Error values into
// grpc status codes so clients see real gRPC errors either way.
func AuthInterceptor(introspector auth.TokenIntrospector) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if capability, required := methodCapabilities[info.FullMethod]; required {
			if err := introspector.Introspect(ctx, bearerToken(ctx), capability); err != nil {
				return nil, toGRPCStatus(err)
			}
		}

		resp, err := handler(ctx, req)
		if err != nil {
			return resp, toGRPCStatus(err)
		}
		return resp, nil
	}
}

func bearerToken(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get("authorization")
	if len(values) == 0 {
		return ""
	}
	return strings.TrimPrefix(values[0], "Bearer ")
}

func toGRPCStatus(err error) error {
	appErr, ok := apperr.As(err)
	if !ok {
		return status.Error(codes.Internal, err.Error())
	}

	var code codes.Code
	switch appErr.Kind {
	case apperr.KindValidation:
		code = codes.InvalidArgument
	case apperr.KindAuth:
		code = codes.Unauthenticated
	case apperr.KindNotFound:
		code = codes.NotFound
	case apperr.KindConflict:
		code = codes.FailedPrecondition
	case apperr.KindUnavailable:
		code = codes.Unavailable
	case apperr.KindIntegrity:
		code = codes.DataLoss
	default:
		code = codes.Internal
	}
	return status.Error(code, appErr.Error())
}
