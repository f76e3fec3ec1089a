// Package managedsubscribe negotiates managed subscriptions with a
// provider's managed subscribe endpoint.
//
// A consumer sends the entity id it wants and a list of constraints
// (for example frequency_ms); the endpoint answers with the broker URI and
// the topic on which the provider will publish updates honouring those
// constraints. Topics are opaque to the consumer.
//
// The package also exposes the server side (RegisterServer) so providers and
// tests can host the service.
package managedsubscribe
