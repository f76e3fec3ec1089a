// Package directory finds the endpoint of a digital twin entity using the
// in-vehicle digital twin directory (Ibeji).
//
// Providers register EntityAccessInfo records, each listing one or more
// endpoints (protocol, supported operations, URI, context). A consumer
// describes what it needs with an EntityQuery and Resolve selects the first
// endpoint, in the order the directory returned them, whose protocol equals
// the required protocol and whose operations include every required
// operation. There is no scoring among several matches.
//
// # Retry
//
// Resolve itself never retries. Providers often register after consumers
// start, so callers wrap it in ResolveWithRetry with a RetryPolicy: a fixed
// interval between attempts and a fixed number of retries, after which
// ErrResolutionExhausted is returned.
//
//	policy := directory.DefaultRetryPolicy() // 10 retries, 5s apart
//	ep, err := directory.ResolveWithRetry(ctx, resolver, ibejiURI, query, policy)
package directory
