// Package transport provides the byte streams a protocol engine talks
// through: a USB serial port or a TCP socket.
//
// Both variants carry the identical framed byte stream:
//
//	┌──────────────────────────────────┐
//	│     Command / Report Frames      │
//	├──────────────────────────────────┤
//	│   Serial (USB CDC)   │    TCP    │
//	└──────────────────────────────────┘
//
// Everything above the Transport interface is transport-agnostic; the
// protocol engine is handed a Transport and never asks which kind it got.
//
// # Deadlines
//
// SetReadDeadline bounds reads during connection setup, where a silent
// board must not hang the probe. Steady-state report reads run without a
// deadline; Close unblocks a pending read so shutdown never waits on a
// quiet board.
//
// # Stale input
//
// Microcontrollers reset when a serial port opens and may emit garbage
// while doing so. ResetInput discards everything buffered so far; callers
// use it before the first probe and after candidate selection.
package transport
