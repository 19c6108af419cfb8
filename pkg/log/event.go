package log

import (
	"time"
)

// Event represents a protocol log event captured at any layer.
// CBOR encoding uses integer keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// ConnectionID uniquely identifies the connection (UUID).
	ConnectionID string `cbor:"2,keyasint"`

	// Direction indicates data flow relative to this client.
	Direction Direction `cbor:"3,keyasint"`

	// Layer where the event was captured.
	Layer Layer `cbor:"4,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"5,keyasint"`

	// Transport names the link type ("serial" or "tcp").
	Transport string `cbor:"6,keyasint,omitempty"`

	// RemoteAddr is the serial device path or the host:port of the peer.
	RemoteAddr string `cbor:"7,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Command     *CommandEvent     `cbor:"10,keyasint,omitempty"` // Outbound command frame
	Report      *ReportEvent      `cbor:"11,keyasint,omitempty"` // Inbound report frame
	StateChange *StateChangeEvent `cbor:"12,keyasint,omitempty"` // Connection lifecycle
	Debug       *DebugEvent       `cbor:"13,keyasint,omitempty"` // Firmware debug print
	Error       *ErrorEventData   `cbor:"14,keyasint,omitempty"` // Errors at any layer
}

// Direction indicates the direction of data flow.
type Direction uint8

const (
	// DirectionIn indicates data received from the firmware.
	DirectionIn Direction = 0
	// DirectionOut indicates data sent to the firmware.
	DirectionOut Direction = 1
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirectionIn:
		return "IN"
	case DirectionOut:
		return "OUT"
	default:
		return "UNKNOWN"
	}
}

// Layer indicates which protocol layer captured the event.
type Layer uint8

const (
	// LayerTransport is the byte-stream layer (serial port or socket).
	LayerTransport Layer = 0
	// LayerWire is the framing layer (encoded commands and reports).
	LayerWire Layer = 1
	// LayerClient is the client layer (handshake, dispatch, shutdown).
	LayerClient Layer = 2
)

// String returns the layer name.
func (l Layer) String() string {
	switch l {
	case LayerTransport:
		return "TRANSPORT"
	case LayerWire:
		return "WIRE"
	case LayerClient:
		return "CLIENT"
	default:
		return "UNKNOWN"
	}
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryCommand indicates an outbound command frame.
	CategoryCommand Category = 0
	// CategoryReport indicates an inbound report frame.
	CategoryReport Category = 1
	// CategoryState indicates a connection state change.
	CategoryState Category = 2
	// CategoryError indicates an error event.
	CategoryError Category = 3
	// CategoryDebug indicates a firmware debug print.
	CategoryDebug Category = 4
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryCommand:
		return "COMMAND"
	case CategoryReport:
		return "REPORT"
	case CategoryState:
		return "STATE"
	case CategoryError:
		return "ERROR"
	case CategoryDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// CommandEvent captures one outbound command frame.
type CommandEvent struct {
	// Opcode is the command identifier byte.
	Opcode uint8 `cbor:"1,keyasint"`

	// Name is the human-readable command name.
	Name string `cbor:"2,keyasint"`

	// Args are the argument bytes following the opcode.
	Args []byte `cbor:"3,keyasint,omitempty"`
}

// ReportEvent captures one inbound report frame.
type ReportEvent struct {
	// Type is the report identifier byte.
	Type uint8 `cbor:"1,keyasint"`

	// Name is the human-readable report name.
	Name string `cbor:"2,keyasint"`

	// Payload is the report data following the type byte.
	Payload []byte `cbor:"3,keyasint,omitempty"`
}

// StateChangeEvent captures connection lifecycle transitions.
type StateChangeEvent struct {
	// OldState is the previous state (may be empty).
	OldState string `cbor:"1,keyasint,omitempty"`

	// NewState is the new state.
	NewState string `cbor:"2,keyasint"`

	// Reason for the change (if available).
	Reason string `cbor:"3,keyasint,omitempty"`
}

// DebugEvent captures a debug print emitted by the firmware.
type DebugEvent struct {
	// ID is the debug marker byte set in the sketch.
	ID uint8 `cbor:"1,keyasint"`

	// Value is the 16-bit value attached to the marker.
	Value uint16 `cbor:"2,keyasint"`
}

// ErrorEventData captures errors at any layer.
type ErrorEventData struct {
	// Layer where the error occurred.
	Layer Layer `cbor:"1,keyasint"`

	// Message is the error message.
	Message string `cbor:"2,keyasint"`

	// Context describes what operation was being performed.
	Context string `cbor:"3,keyasint,omitempty"`
}
