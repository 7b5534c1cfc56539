// Code generated by protoc-gen-go-grpc. DO NOT EDIT.
// versions:
// - protoc-gen-go-grpc v1.3.0
// - protoc             (unknown)
// source: proto/pulsegen.proto

package pulsegen

import (
	context "context"
	grpc "google.golang.org/grpc"
	codes "google.golang.org/grpc/codes"
	status "google.golang.org/grpc/status"
)

// This is a compile-time assertion to ensure that this generated file
// is compatible with the grpc package it is being compiled against.
// Requires gRPC-Go v1.32.0 or later.
const _ = grpc.SupportPackageIsVersion7

const (
	PulseGenerator_Deliver_FullMethodName = "/pulsegen.PulseGenerator/Deliver"
	PulseGenerator_Health_FullMethodName  = "/pulsegen.PulseGenerator/Health"
)

// PulseGeneratorClient is the client API for PulseGenerator service.
//
// For semantics around ctx use and closing/ending streaming RPCs, please refer to https://pkg.go.dev/google.golang.org/grpc/?tab=doc#ClientConn.NewStream.
type PulseGeneratorClient interface {
	Deliver(ctx context.Context, in *DeliverRequest, opts ...grpc.CallOption) (*DeliverResponse, error)
	Health(ctx context.Context, in *HealthRequest, opts ...grpc.CallOption) (*HealthResponse, error)
}

type pulseGeneratorClient struct {
	cc grpc.ClientConnInterface
}

func NewPulseGeneratorClient(cc grpc.ClientConnInterface) PulseGeneratorClient {
	return &pulseGeneratorClient{cc}
}

func (c *pulseGeneratorClient) Deliver(ctx context.Context, in *DeliverRequest, opts ...grpc.CallOption) (*DeliverResponse, error) {
	out := new(DeliverResponse)
	err := c.cc.Invoke(ctx, PulseGenerator_Deliver_FullMethodName, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *pulseGeneratorClient) Health(ctx context.Context, in *HealthRequest, opts ...grpc.CallOption) (*HealthResponse, error) {
	out := new(HealthResponse)
	err := c.cc.Invoke(ctx, PulseGenerator_Health_FullMethodName, in, out, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// PulseGeneratorServer is the server API for PulseGenerator service.
// All implementations must embed UnimplementedPulseGeneratorServer
// for forward compatibility
type PulseGeneratorServer interface {
	Deliver(context.Context, *DeliverRequest) (*DeliverResponse, error)
	Health(context.Context, *HealthRequest) (*HealthResponse, error)
	mustEmbedUnimplementedPulseGeneratorServer()
}

// UnimplementedPulseGeneratorServer must be embedded to have forward compatible implementations.
type UnimplementedPulseGeneratorServer struct {
}

func (UnimplementedPulseGeneratorServer) Deliver(context.Context, *DeliverRequest) (*DeliverResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Deliver not implemented")
}
func (UnimplementedPulseGeneratorServer) Health(context.Context, *HealthRequest) (*HealthResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Health not implemented")
}
func (UnimplementedPulseGeneratorServer) mustEmbedUnimplementedPulseGeneratorServer() {}

// UnsafePulseGeneratorServer may be embedded to opt out of forward compatibility for this service.
// Use of this interface is not recommended, as added methods to PulseGeneratorServer will
// result in compilation errors.
type UnsafePulseGeneratorServer interface {
	mustEmbedUnimplementedPulseGeneratorServer()
}

func RegisterPulseGeneratorServer(s grpc.ServiceRegistrar, srv PulseGeneratorServer) {
	s.RegisterService(&PulseGenerator_ServiceDesc, srv)
}

func _PulseGenerator_Deliver_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(DeliverRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PulseGeneratorServer).Deliver(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: PulseGenerator_Deliver_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PulseGeneratorServer).Deliver(ctx, req.(*DeliverRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _PulseGenerator_Health_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(HealthRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PulseGeneratorServer).Health(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: PulseGenerator_Health_FullMethodName,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PulseGeneratorServer).Health(ctx, req.(*HealthRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// PulseGenerator_ServiceDesc is the grpc.ServiceDesc for PulseGenerator service.
// It's only intended for direct use with grpc.RegisterService,
// and not to be introspected or modified (even as a copy)
var PulseGenerator_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "pulsegen.PulseGenerator",
	HandlerType: (*PulseGeneratorServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Deliver",
			Handler:    _PulseGenerator_Deliver_Handler,
		},
		{
			MethodName: "Health",
			Handler:    _PulseGenerator_Health_Handler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "proto/pulsegen.proto",
}
