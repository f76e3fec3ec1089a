package rpc

import (
	"fmt"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// Target converts a service URI into a gRPC dial target.
//
// Service registries hand out URIs such as "http://0.0.0.0:4030"; grpc-go
// expects "host:port" or a resolver target ("dns:///host:port",
// "passthrough:///name"). HTTP schemes and trailing slashes are stripped,
// anything else is returned unchanged.
func Target(address string) string {
	target := strings.TrimSpace(address)
	for _, scheme := range []string{"http://", "https://"} {
		if strings.HasPrefix(target, scheme) {
			target = strings.TrimSuffix(strings.TrimPrefix(target, scheme), "/")
			break
		}
	}
	return target
}

// Dial creates a client connection to the service at address.
//
// The connection uses plaintext credentials and the CBOR codec for every
// call. Extra options are applied after the defaults, so callers (and
// tests) can override the dialer. grpc.NewClient does not connect eagerly;
// an unreachable service surfaces as codes.Unavailable on the first call.
func Dial(address string, opts ...grpc.DialOption) (*grpc.ClientConn, error) {
	target := Target(address)
	if target == "" {
		return nil, ErrInvalidAddress
	}

	dialOpts := make([]grpc.DialOption, 0, len(opts)+2)
	dialOpts = append(dialOpts,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(CodecName)),
	)
	dialOpts = append(dialOpts, opts...)

	conn, err := grpc.NewClient(target, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("rpc: creating client for %q: %w", target, err)
	}
	return conn, nil
}
