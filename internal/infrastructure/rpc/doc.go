// Package rpc provides the gRPC plumbing shared by the registry, directory
// and managed subscribe clients.
//
// This package manages:
//   - Normalising service URIs ("http://host:port") into gRPC targets
//   - Creating client connections with plaintext transport credentials
//   - The CBOR codec used as the message encoding for every call
//
// # Wire Format
//
// Messages are plain Go structs encoded with CBOR (RFC 8949). The codec is
// registered with grpc-go under the content-subtype "cbor", so both clients
// created by Dial and any grpc.Server in the same process can use it
// without further setup:
//
//	conn, err := rpc.Dial("http://0.0.0.0:50000")
//	if err != nil {
//	    return err
//	}
//	defer conn.Close()
//	err = conn.Invoke(ctx, "/service_registry.v1.ServiceRegistry/Discover", req, resp)
//
// # Security Considerations
//
// Connections are plaintext. Transport security is out of scope for the
// in-vehicle network this talks to.
package rpc
