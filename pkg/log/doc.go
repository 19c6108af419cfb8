// Package log provides structured protocol logging for the client.
//
// This package defines the Logger interface and Event types for capturing
// protocol-level events at multiple layers (transport, wire, client).
// It is separate from operational logging (slog) - protocol capture provides
// a complete machine-readable event trace for debugging and analysis.
//
// # Basic Usage
//
// Applications configure logging by providing a Logger implementation:
//
//	// For development: log to console via slog
//	cfg.Logger = log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	cfg.Logger, _ = log.NewFileLogger("/var/log/telemetrix/session.cbor")
//
//	// Both: use MultiLogger
//	fileLogger, _ := log.NewFileLogger("/var/log/telemetrix/session.cbor")
//	cfg.Logger = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # Event Types
//
// Events are captured at multiple layers:
//   - Wire: outbound commands (CommandEvent) and inbound reports (ReportEvent)
//   - Client: connection state changes (StateChangeEvent) and firmware
//     debug prints (DebugEvent)
//
// Errors at any layer use a dedicated event type.
//
// # File Format
//
// Log files are a raw CBOR event stream (.cbor by convention). Reader
// streams them back for replay and filtering.
package log
