package grpc

import (
	"fmt"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protodesc"
	"google.golang.org/protobuf/reflect/protoregistry"
	"google.golang.org/protobuf/types/descriptorpb"
	_ "google.golang.org/protobuf/types/known/structpb"
	_ "google.golang.org/protobuf/types/known/wrapperspb"
)

// ProtoFile — путь описания контракта (proto/jraw/archiver/v1/archiver.proto).
const ProtoFile = "jraw/archiver/v1/archiver.proto"

// Дескриптор контракта регистрируется в protoregistry.GlobalFiles, чтобы
// gRPC reflection мог описать сервис так же, как сгенерированный.
func init() {
	fd, err := protodesc.NewFile(archiverFileProto(), protoregistry.GlobalFiles)
	if err != nil {
		panic(fmt.Sprintf("transport/grpc: build %s: %v", ProtoFile, err))
	}

	if err := protoregistry.GlobalFiles.RegisterFile(fd); err != nil {
		panic(fmt.Sprintf("transport/grpc: register %s: %v", ProtoFile, err))
	}
}

// archiverFileProto повторяет proto/jraw/archiver/v1/archiver.proto.
func archiverFileProto() *descriptorpb.FileDescriptorProto {
	method := func(name, in string) *descriptorpb.MethodDescriptorProto {
		return &descriptorpb.MethodDescriptorProto{
			Name:       proto.String(name),
			InputType:  proto.String(in),
			OutputType: proto.String(".google.protobuf.Struct"),
		}
	}

	return &descriptorpb.FileDescriptorProto{
		Name:    proto.String(ProtoFile),
		Package: proto.String("jraw.archiver.v1"),
		Dependency: []string{
			"google/protobuf/struct.proto",
			"google/protobuf/wrappers.proto",
		},
		Options: &descriptorpb.FileOptions{
			GoPackage: proto.String("github.com/dukestreet/JRAW/internal/transport/grpc"),
		},
		Service: []*descriptorpb.ServiceDescriptorProto{{
			Name: proto.String("Archiver"),
			Method: []*descriptorpb.MethodDescriptorProto{
				method("ArchiveThread", ".google.protobuf.StringValue"),
				method("ThreadComments", ".google.protobuf.StringValue"),
				method("RestoreThread", ".google.protobuf.Struct"),
			},
		}},
		Syntax: proto.String("proto3"),
	}
}
