package transport

import (
	"fmt"
	"os"
	"sync"
	"time"

	"go.bug.st/serial"
)

// DefaultBaudRate matches the rate compiled into the companion firmware.
const DefaultBaudRate = 115200

// Serial is a Transport over a USB serial port.
type Serial struct {
	port serial.Port
	path string

	mu       sync.Mutex
	closed   bool
	deadline time.Time
}

var _ Transport = (*Serial)(nil)

// OpenSerial opens the serial device at path with the given baud rate
// (8 data bits, no parity, one stop bit). A baudRate of 0 selects
// DefaultBaudRate.
func OpenSerial(path string, baudRate int) (*Serial, error) {
	if baudRate == 0 {
		baudRate = DefaultBaudRate
	}

	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(path, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	return &Serial{port: port, path: path}, nil
}

// Read reads from the port. When a read deadline is set and passes before
// any byte arrives, Read returns an error wrapping os.ErrDeadlineExceeded.
func (s *Serial) Read(p []byte) (int, error) {
	for {
		s.mu.Lock()
		closed, deadline := s.closed, s.deadline
		s.mu.Unlock()

		if closed {
			return 0, ErrClosed
		}

		n, err := s.port.Read(p)
		if n > 0 || err != nil {
			return n, err
		}

		// The port reports an expired read timeout as a zero-length
		// read. Turn it into an error so io.ReadFull callers terminate.
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			return 0, fmt.Errorf("serial read: %w", os.ErrDeadlineExceeded)
		}
	}
}

// Write writes to the port.
func (s *Serial) Write(p []byte) (int, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return 0, ErrClosed
	}

	return s.port.Write(p)
}

// Close closes the port, unblocking any pending read.
func (s *Serial) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.port.Close()
}

// SetReadDeadline bounds subsequent reads via the port's read timeout.
func (s *Serial) SetReadDeadline(t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	s.deadline = t
	if t.IsZero() {
		return s.port.SetReadTimeout(serial.NoTimeout)
	}

	d := time.Until(t)
	if d < 0 {
		d = 0
	}
	return s.port.SetReadTimeout(d)
}

// ResetInput flushes the port's input buffer.
func (s *Serial) ResetInput() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	return s.port.ResetInputBuffer()
}

// Kind returns "serial".
func (s *Serial) Kind() string {
	return "serial"
}

// Address returns the device path.
func (s *Serial) Address() string {
	return s.path
}
