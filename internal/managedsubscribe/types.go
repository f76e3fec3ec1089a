package managedsubscribe

import "github.com/nerrad567/smart-trailer/internal/digitaltwin"

// SubscriptionInfo locates a managed topic.
type SubscriptionInfo struct {
	// BrokerAddress is the pub/sub broker URI, e.g. "tcp://0.0.0.0:1883".
	BrokerAddress string

	// Topic is the provider-assigned topic. Treated as opaque.
	Topic string
}

// SubscriptionInfoRequest is the wire request of ManagedSubscribe/GetSubscriptionInfo.
type SubscriptionInfoRequest struct {
	EntityID    string                  `cbor:"entity_id"`
	Constraints digitaltwin.Constraints `cbor:"constraints"`
}

// SubscriptionInfoResponse is the wire response of ManagedSubscribe/GetSubscriptionInfo.
// URI is the broker address and Context the topic.
type SubscriptionInfoResponse struct {
	URI     string `cbor:"uri"`
	Context string `cbor:"context"`
}
