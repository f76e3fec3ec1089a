package directory

import (
	"context"

	"google.golang.org/grpc"
)

const (
	serviceName    = "invehicle_digital_twin.v1.InvehicleDigitalTwin"
	findByIDMethod = "/" + serviceName + "/FindById"
	registerMethod = "/" + serviceName + "/Register"
)

// Server is the server API of the digital twin directory.
type Server interface {
	FindByID(ctx context.Context, req *FindByIDRequest) (*FindByIDResponse, error)
	Register(ctx context.Context, req *RegisterRequest) (*RegisterResponse, error)
}

// RegisterServer registers a directory implementation with a gRPC server.
func RegisterServer(s grpc.ServiceRegistrar, srv Server) {
	s.RegisterService(&serviceDesc, srv)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*Server)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "FindById",
			Handler:    findByIDHandler,
		},
		{
			MethodName: "Register",
			Handler:    registerHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "invehicle_digital_twin.proto",
}

func findByIDHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(FindByIDRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(Server).FindByID(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: findByIDMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(Server).FindByID(ctx, req.(*FindByIDRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func registerHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(RegisterRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(Server).Register(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: registerMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(Server).Register(ctx, req.(*RegisterRequest))
	}
	return interceptor(ctx, in, info, handler)
}
