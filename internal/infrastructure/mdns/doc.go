// Package mdns locates the service registry on the local network.
//
// When no registry address is configured the consumer browses for the
// registry's DNS-SD service type and uses the first answer that carries
// a usable address. The result is an "http://host:port" string suitable
// for registry.Resolver.
package mdns
