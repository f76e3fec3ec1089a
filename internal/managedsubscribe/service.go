package managedsubscribe

import (
	"context"

	"google.golang.org/grpc"
)

const (
	serviceName               = "managed_subscribe.v1.ManagedSubscribe"
	getSubscriptionInfoMethod = "/" + serviceName + "/GetSubscriptionInfo"
)

// Server is the server API of a managed subscribe endpoint.
type Server interface {
	GetSubscriptionInfo(ctx context.Context, req *SubscriptionInfoRequest) (*SubscriptionInfoResponse, error)
}

// RegisterServer registers a managed subscribe implementation with a gRPC server.
func RegisterServer(s grpc.ServiceRegistrar, srv Server) {
	s.RegisterService(&serviceDesc, srv)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*Server)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetSubscriptionInfo",
			Handler:    getSubscriptionInfoHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "managed_subscribe.proto",
}

func getSubscriptionInfoHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(SubscriptionInfoRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(Server).GetSubscriptionInfo(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: getSubscriptionInfoMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(Server).GetSubscriptionInfo(ctx, req.(*SubscriptionInfoRequest))
	}
	return interceptor(ctx, in, info, handler)
}
