package registry

import (
	"fmt"

	"github.com/nerrad567/smart-trailer/internal/digitaltwin"
)

// ServiceDescriptor identifies a service to resolve through the registry.
type ServiceDescriptor struct {
	Namespace              string
	Name                   string
	Version                string
	CommunicationKind      string
	CommunicationReference string
}

// String implements fmt.Stringer.
func (d ServiceDescriptor) String() string {
	return fmt.Sprintf("%s/%s@%s", d.Namespace, d.Name, d.Version)
}

// InVehicleDigitalTwin returns the descriptor of the in-vehicle digital twin service.
func InVehicleDigitalTwin() ServiceDescriptor {
	return ServiceDescriptor{
		Namespace:              digitaltwin.InVehicleDigitalTwinNamespace,
		Name:                   digitaltwin.InVehicleDigitalTwinName,
		Version:                digitaltwin.InVehicleDigitalTwinVersion,
		CommunicationKind:      digitaltwin.InVehicleDigitalTwinCommunicationKind,
		CommunicationReference: digitaltwin.InVehicleDigitalTwinCommunicationReference,
	}
}

// ServiceLocation is the result of a registry resolution.
type ServiceLocation struct {
	Address string
}

// DiscoverRequest is the wire request of ServiceRegistry/Discover.
type DiscoverRequest struct {
	Namespace string `cbor:"namespace"`
	Name      string `cbor:"name"`
	Version   string `cbor:"version"`
}

// ServiceMetadata is a service as recorded by the registry.
type ServiceMetadata struct {
	Namespace              string `cbor:"namespace"`
	Name                   string `cbor:"name"`
	Version                string `cbor:"version"`
	URI                    string `cbor:"uri"`
	CommunicationKind      string `cbor:"communication_kind"`
	CommunicationReference string `cbor:"communication_reference"`
}

// DiscoverResponse is the wire response of ServiceRegistry/Discover.
// Service is nil when nothing is registered under the requested name.
type DiscoverResponse struct {
	Service *ServiceMetadata `cbor:"service"`
}
