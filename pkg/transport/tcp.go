package transport

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"sync"
	"time"
)

// DefaultTCPPort is the port WiFi firmware variants listen on.
const DefaultTCPPort = 31335

// drainWindow is how long ResetInput keeps reading: long enough for bytes
// already in flight to land, short enough not to stall a handshake.
const drainWindow = 50 * time.Millisecond

// TCP is a Transport over a network socket.
type TCP struct {
	conn net.Conn
	addr string

	mu     sync.Mutex
	closed bool
}

var _ Transport = (*TCP)(nil)

// DialTCP connects to a network-attached board. An address without a port
// gets DefaultTCPPort appended.
func DialTCP(ctx context.Context, address string) (*TCP, error) {
	if _, _, err := net.SplitHostPort(address); err != nil {
		address = net.JoinHostPort(address, strconv.Itoa(DefaultTCPPort))
	}

	dialer := &net.Dialer{}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("dial %s failed: %w", address, err)
	}

	return NewTCP(conn), nil
}

// NewTCP wraps an established connection.
func NewTCP(conn net.Conn) *TCP {
	return &TCP{conn: conn, addr: conn.RemoteAddr().String()}
}

// Read reads from the socket.
func (t *TCP) Read(p []byte) (int, error) {
	if t.isClosed() {
		return 0, ErrClosed
	}
	return t.conn.Read(p)
}

// Write writes to the socket.
func (t *TCP) Write(p []byte) (int, error) {
	if t.isClosed() {
		return 0, ErrClosed
	}
	return t.conn.Write(p)
}

// Close closes the socket, unblocking any pending read.
func (t *TCP) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return nil
	}
	t.closed = true
	return t.conn.Close()
}

// SetReadDeadline bounds subsequent reads.
func (t *TCP) SetReadDeadline(deadline time.Time) error {
	if t.isClosed() {
		return ErrClosed
	}
	return t.conn.SetReadDeadline(deadline)
}

// ResetInput drains whatever the socket already buffered. Unlike a serial
// port the socket has no flush primitive, so it reads under a short
// deadline until the stream goes quiet.
func (t *TCP) ResetInput() error {
	if t.isClosed() {
		return ErrClosed
	}

	if err := t.conn.SetReadDeadline(time.Now().Add(drainWindow)); err != nil {
		return err
	}
	buf := make([]byte, 256)
	for {
		if _, err := t.conn.Read(buf); err != nil {
			break
		}
	}
	return t.conn.SetReadDeadline(time.Time{})
}

// Kind returns "tcp".
func (t *TCP) Kind() string {
	return "tcp"
}

// Address returns the remote host:port.
func (t *TCP) Address() string {
	return t.addr
}

func (t *TCP) isClosed() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.closed
}
