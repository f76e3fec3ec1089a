// Package digitaltwin holds the vocabulary shared by every stage of the
// smart trailer pipeline.
//
// This package defines:
//   - Constraint, the typed key/value requirement sent with a managed subscribe request
//   - Operation and protocol names advertised by digital twin providers
//   - Identifiers of the trailer entities (weight, connected state)
//   - The descriptor of the in-vehicle digital twin service as registered with the service registry
//
// Nothing here performs I/O. The values mirror the DTDL model of the trailer
// and the names used by Chariott and Ibeji so that requests built from them
// match what providers register.
package digitaltwin
