// Package rpctest runs in-memory gRPC servers for tests.
package rpctest

import (
	"context"
	"fmt"
	"net"
	"testing"

	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"
)

const bufSize = 1 << 20

// Server is an in-memory gRPC server reachable through DialOption.
type Server struct {
	// Address is the dial target to hand to clients.
	Address string

	listener *bufconn.Listener
}

// Serve starts a gRPC server on an in-memory listener and registers the
// services through register. The server stops when the test ends.
func Serve(t testing.TB, register func(s grpc.ServiceRegistrar)) *Server {
	t.Helper()

	lis := bufconn.Listen(bufSize)
	srv := grpc.NewServer()
	register(srv)

	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)

	return &Server{
		Address:  "passthrough:///bufnet",
		listener: lis,
	}
}

// DialOption routes client connections to the in-memory listener.
func (s *Server) DialOption() grpc.DialOption {
	return grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return s.listener.DialContext(ctx)
	})
}

// Route returns a dial option that sends "passthrough:///<name>" targets to
// the server registered under name, letting one client reach several
// in-memory servers.
func Route(servers map[string]*Server) grpc.DialOption {
	return grpc.WithContextDialer(func(ctx context.Context, addr string) (net.Conn, error) {
		srv, ok := servers[addr]
		if !ok {
			return nil, fmt.Errorf("rpctest: no server routed for %q", addr)
		}
		return srv.listener.DialContext(ctx)
	})
}

// Target returns the dial target Route resolves to name.
func Target(name string) string {
	return "passthrough:///" + name
}
