package digitaltwin

// Digital twin operations a provider endpoint can advertise.
const (
	OperationGet              = "Get"
	OperationSet              = "Set"
	OperationSubscribe        = "Subscribe"
	OperationUnsubscribe      = "Unsubscribe"
	OperationInvoke           = "Invoke"
	OperationStream           = "Stream"
	OperationManagedSubscribe = "ManagedSubscribe"
)

// Protocols a provider endpoint can be reached over.
const (
	ProtocolGRPC = "grpc"
	ProtocolMQTT = "mqtt"
)

// Descriptor of the in-vehicle digital twin service (Ibeji) in the service registry (Chariott).
const (
	InVehicleDigitalTwinNamespace              = "sdv.ibeji"
	InVehicleDigitalTwinName                   = "invehicle_digital_twin"
	InVehicleDigitalTwinVersion                = "1.0"
	InVehicleDigitalTwinCommunicationKind      = "grpc+proto"
	InVehicleDigitalTwinCommunicationReference = "https://github.com/eclipse-ibeji/ibeji/blob/main/interfaces/digital_twin/v1/digital_twin.proto"
)

// Entity describes one property of the trailer model.
type Entity struct {
	ID          string
	Name        string
	Description string
}

// Trailer entities, hand-written from the trailer DTDL model.
var (
	TrailerWeight = Entity{
		ID:          "dtmi:sdv:Trailer:Weight;1",
		Name:        "TrailerWeight",
		Description: "The weight of the trailer",
	}

	IsTrailerConnected = Entity{
		ID:          "dtmi:sdv:Trailer:IsTrailerConnected;1",
		Name:        "IsTrailerConnected",
		Description: "Is trailer connected?",
	}
)
