package directory

// EntityQuery describes the endpoint a consumer needs for an entity.
//
// An empty Operations list matches any endpoint with the right protocol.
type EntityQuery struct {
	EntityID   string
	Protocol   string
	Operations []string
}

// EndpointDescriptor is one advertised access point of an entity.
type EndpointDescriptor struct {
	Protocol   string   `cbor:"protocol"`
	Operations []string `cbor:"operations"`
	URI        string   `cbor:"uri"`
	Context    string   `cbor:"context"`
}

// EntityAccessInfo is the directory record of an entity.
type EntityAccessInfo struct {
	Name        string               `cbor:"name"`
	ID          string               `cbor:"id"`
	Description string               `cbor:"description"`
	Endpoints   []EndpointDescriptor `cbor:"endpoint_info_list"`
}

// FindByIDRequest is the wire request of InvehicleDigitalTwin/FindById.
type FindByIDRequest struct {
	ID string `cbor:"id"`
}

// FindByIDResponse is the wire response of InvehicleDigitalTwin/FindById.
// EntityAccessInfo is nil when the id is unknown.
type FindByIDResponse struct {
	EntityAccessInfo *EntityAccessInfo `cbor:"entity_access_info"`
}

// RegisterRequest is the wire request of InvehicleDigitalTwin/Register.
type RegisterRequest struct {
	EntityAccessInfoList []EntityAccessInfo `cbor:"entity_access_info_list"`
}

// RegisterResponse is the wire response of InvehicleDigitalTwin/Register.
type RegisterResponse struct{}
