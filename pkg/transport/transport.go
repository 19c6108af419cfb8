package transport

import (
	"errors"
	"io"
	"time"
)

// ErrClosed is returned by operations on a closed transport.
var ErrClosed = errors.New("transport closed")

// Transport is one bidirectional byte stream to a board.
// Implemented by Serial and TCP.
type Transport interface {
	io.Reader
	io.Writer

	// Close closes the transport and unblocks any pending read.
	// Closing twice is allowed; the second call is a no-op.
	Close() error

	// SetReadDeadline bounds subsequent reads. A zero time removes the
	// deadline.
	SetReadDeadline(t time.Time) error

	// ResetInput discards inbound bytes buffered so far.
	ResetInput() error

	// Kind names the transport variant, "serial" or "tcp".
	Kind() string

	// Address describes the far end: a device path or a host:port.
	Address() string
}

// Compile-time interface satisfaction checks.
var (
	_ Transport = (*Serial)(nil)
	_ Transport = (*TCP)(nil)
)
