// Package registry resolves service descriptors to network addresses using
// the service registry (Chariott).
//
// A ServiceDescriptor names a service by namespace, name and version, and
// states the communication kind and reference the caller expects. Resolve
// asks the registry at a known address for the service and returns its URI.
//
// # Mismatch Policy
//
// The registry's answer is rejected with ErrMismatch only when BOTH the
// communication kind and the communication reference differ from the
// descriptor. A service that matches on either axis is accepted. This is
// the behaviour deployed providers rely on and is kept deliberately.
//
// # Usage
//
//	r := registry.NewResolver()
//	loc, err := r.Resolve(ctx, "http://0.0.0.0:50000", registry.InVehicleDigitalTwin())
//	if errors.Is(err, registry.ErrNotFound) {
//	    // service not registered (yet)
//	}
//
// There is no retry and no caching at this layer; every call is a fresh
// lookup on a fresh connection.
package registry
