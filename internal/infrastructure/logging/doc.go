// Package logging provides structured logging for the smart trailer consumer.
//
// This package wraps Go's standard log/slog package so every component logs
// the same way:
//
//   - JSON output for deployments, text output for development
//   - Default fields (service, version) on all log entries
//   - Level-based filtering (debug, info, warn, error)
//
// Logger satisfies the small Logger interfaces declared by the domain
// packages (registry, directory, managedsubscribe, stream), which default
// to no-op loggers until SetLogger is called.
//
// # Configuration
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stdout"   # stdout, stderr
//
// # Usage
//
//	logger := logging.New(cfg.Logging, version)
//	logger.Info("consumer started", "topic", topic)
//
// Payloads are opaque and logged verbatim at info level; never put
// credentials in broker or registry URIs.
package logging
