// Package pipeline wires the smart trailer consumer together.
//
// A run walks three discovery stages, each feeding the next:
//
//	registry  ──► directory (bounded retry) ──► managed subscribe
//	   │                 │                            │
//	   ▼                 ▼                            ▼
//	directory URI   endpoint URI              broker + topic
//
// and then hands the negotiated broker and topic to a stream.Consumer.
// A failure in any discovery stage ends the run; only the directory
// lookup is retried.
package pipeline
