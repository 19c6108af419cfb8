package client

import (
	"bufio"
	"io"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/telemetrix-protocol/telemetrix-go/pkg/log"
	"github.com/telemetrix-protocol/telemetrix-go/pkg/transport"
	"github.com/telemetrix-protocol/telemetrix-go/pkg/wire"
)

// fakeBoard is the firmware side of an in-memory connection. Its read
// loop keeps the synchronous pipe drained so client writes never block,
// parsing each command frame into the frames channel without its length
// byte.
type fakeBoard struct {
	conn   net.Conn
	frames chan []byte
}

func (b *fakeBoard) readLoop() {
	serveFrames(b.conn, b.frames, nil)
}

// serveFrames parses command frames from conn, stripping the length
// byte. Each frame is forwarded to frames when non-nil; respond, when
// non-nil, may return a report frame to write back.
func serveFrames(conn net.Conn, frames chan<- []byte, respond func(frame []byte) []byte) {
	r := bufio.NewReader(conn)
	for {
		length, err := r.ReadByte()
		if err != nil {
			return
		}
		frame := make([]byte, length)
		if _, err := io.ReadFull(r, frame); err != nil {
			return
		}
		if frames != nil {
			frames <- frame
		}
		if respond != nil {
			if reply := respond(frame); reply != nil {
				if _, err := conn.Write(reply); err != nil {
					return
				}
			}
		}
	}
}

// send delivers one report frame to the client. It blocks until the
// dispatch loop picks the frame up.
func (b *fakeBoard) send(t *testing.T, reportType wire.ReportID, payload ...byte) {
	t.Helper()
	frame := append([]byte{byte(1 + len(payload)), byte(reportType)}, payload...)
	if _, err := b.conn.Write(frame); err != nil {
		t.Fatalf("board write failed: %v", err)
	}
}

// newTestClient wires a connected client to a fakeBoard over an
// in-memory pipe, skipping Connect. startDispatch controls whether the
// report loop runs.
func newTestClient(t *testing.T, cfg Config, startDispatch bool) (*Client, *fakeBoard) {
	t.Helper()

	c, err := New(cfg)
	require.NoError(t, err)

	clientEnd, boardEnd := net.Pipe()
	c.transport = transport.NewTCP(clientEnd)
	c.framer = wire.NewFramer(c.transport)
	c.state = StateConnected
	c.connID = "test-conn"

	board := &fakeBoard{conn: boardEnd, frames: make(chan []byte, 64)}
	go board.readLoop()

	if startDispatch {
		go c.dispatch()
	}

	t.Cleanup(func() {
		c.shuttingDown.Store(true)
		_ = c.transport.Close()
		_ = boardEnd.Close()
	})
	return c, board
}

// expectFrame returns the next command frame, opcode first.
func expectFrame(t *testing.T, frames <-chan []byte) []byte {
	t.Helper()
	select {
	case frame := <-frames:
		return frame
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a command frame")
		return nil
	}
}

// expectNoFrame asserts that no command reaches the board.
func expectNoFrame(t *testing.T, frames <-chan []byte) {
	t.Helper()
	select {
	case frame := <-frames:
		t.Fatalf("unexpected command frame % X", frame)
	case <-time.After(50 * time.Millisecond):
	}
}

// waitFor receives from ch or fails the test after a second.
func waitFor[T any](t *testing.T, ch <-chan T, what string) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for %s", what)
		panic("unreachable")
	}
}

// waitDone blocks until the client's dispatch loop has exited. The
// budget covers the shutdown settle.
func waitDone(t *testing.T, c *Client) {
	t.Helper()
	select {
	case <-c.Done():
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for the client to finish")
	}
}

// capturingLogger records protocol events for inspection.
type capturingLogger struct {
	mu     sync.Mutex
	events []log.Event
}

func (l *capturingLogger) Log(event log.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, event)
}

func (l *capturingLogger) Events() []log.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]log.Event, len(l.events))
	copy(out, l.events)
	return out
}
