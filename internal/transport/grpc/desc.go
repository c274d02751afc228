package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Контракт jraw.archiver.v1.Archiver описан вручную поверх well-known types:
// запросы и ответы — StringValue и Struct. Исходник описания —
// proto/jraw/archiver/v1/archiver.proto, дескриптор регистрирует descriptor.go.
const (
	ServiceName = "jraw.archiver.v1.Archiver"

	ArchiveThreadMethod  = "/" + ServiceName + "/ArchiveThread"
	ThreadCommentsMethod = "/" + ServiceName + "/ThreadComments"
	RestoreThreadMethod  = "/" + ServiceName + "/RestoreThread"
)

// ArchiverServiceServer — серверная сторона контракта.
type ArchiverServiceServer interface {
	ArchiveThread(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	ThreadComments(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	RestoreThread(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterArchiverServiceServer регистрирует srv на s.
func RegisterArchiverServiceServer(s grpc.ServiceRegistrar, srv ArchiverServiceServer) {
	s.RegisterService(&archiverServiceDesc, srv)
}

var archiverServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ArchiverServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ArchiveThread", Handler: archiveThreadHandler},
		{MethodName: "ThreadComments", Handler: threadCommentsHandler},
		{MethodName: "RestoreThread", Handler: restoreThreadHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: ProtoFile,
}

func archiveThreadHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(ArchiverServiceServer).ArchiveThread(ctx, in)
	}

	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ArchiveThreadMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ArchiverServiceServer).ArchiveThread(ctx, req.(*wrapperspb.StringValue))
	}

	return interceptor(ctx, in, info, handler)
}

func threadCommentsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(ArchiverServiceServer).ThreadComments(ctx, in)
	}

	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ThreadCommentsMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ArchiverServiceServer).ThreadComments(ctx, req.(*wrapperspb.StringValue))
	}

	return interceptor(ctx, in, info, handler)
}

func restoreThreadHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}

	if interceptor == nil {
		return srv.(ArchiverServiceServer).RestoreThread(ctx, in)
	}

	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: RestoreThreadMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(ArchiverServiceServer).RestoreThread(ctx, req.(*structpb.Struct))
	}

	return interceptor(ctx, in, info, handler)
}

// ArchiverServiceClient — клиентская сторона контракта.
type ArchiverServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewArchiverServiceClient(cc grpc.ClientConnInterface) *ArchiverServiceClient {
	return &ArchiverServiceClient{cc: cc}
}

func (c *ArchiverServiceClient) ArchiveThread(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ArchiveThreadMethod, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *ArchiverServiceClient) ThreadComments(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ThreadCommentsMethod, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}

func (c *ArchiverServiceClient) RestoreThread(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, RestoreThreadMethod, in, out, opts...); err != nil {
		return nil, err
	}

	return out, nil
}
