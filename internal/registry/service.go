package registry

import (
	"context"

	"google.golang.org/grpc"
)

const (
	serviceName    = "service_registry.v1.ServiceRegistry"
	discoverMethod = "/" + serviceName + "/Discover"
)

// Server is the server API of the service registry.
type Server interface {
	Discover(ctx context.Context, req *DiscoverRequest) (*DiscoverResponse, error)
}

// RegisterServer registers a registry implementation with a gRPC server.
func RegisterServer(s grpc.ServiceRegistrar, srv Server) {
	s.RegisterService(&serviceDesc, srv)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*Server)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Discover",
			Handler:    discoverHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "service_registry.proto",
}

func discoverHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(DiscoverRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(Server).Discover(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: discoverMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(Server).Discover(ctx, req.(*DiscoverRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// discover issues a single Discover call on conn.
func discover(ctx context.Context, conn grpc.ClientConnInterface, req *DiscoverRequest) (*DiscoverResponse, error) {
	out := new(DiscoverResponse)
	if err := conn.Invoke(ctx, discoverMethod, req, out); err != nil {
		return nil, err
	}
	return out, nil
}
