package wire

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/telemetrix-protocol/telemetrix-go/pkg/log"
)

// MaxCommandArgs is the largest argument list a single command frame can
// carry: the length byte counts the opcode plus the arguments and tops out
// at 255.
const MaxCommandArgs = 254

// Framing errors.
var (
	// ErrCommandTooLong indicates a command argument list exceeds MaxCommandArgs.
	ErrCommandTooLong = errors.New("command too long")

	// ErrEmptyFrame indicates a frame with a zero length byte.
	ErrEmptyFrame = errors.New("empty frame")

	// ErrFrameTruncated indicates the stream ended mid-frame.
	ErrFrameTruncated = errors.New("frame truncated")
)

// EncodeCommand builds the on-wire form of a command: one length byte
// counting the opcode and arguments, the opcode, then the arguments.
func EncodeCommand(id CommandID, args ...byte) ([]byte, error) {
	if len(args) > MaxCommandArgs {
		return nil, fmt.Errorf("%w: %d args > %d", ErrCommandTooLong, len(args), MaxCommandArgs)
	}

	frame := make([]byte, 0, 2+len(args))
	frame = append(frame, byte(1+len(args)), byte(id))
	frame = append(frame, args...)
	return frame, nil
}

// FrameWriter writes command frames to an underlying writer.
type FrameWriter struct {
	w  io.Writer
	mu sync.Mutex

	// Logging support (optional)
	logger log.Logger
	connID string
}

// NewFrameWriter creates a new frame writer.
func NewFrameWriter(w io.Writer) *FrameWriter {
	return &FrameWriter{w: w}
}

// SetLogger configures logging for this writer.
// Pass nil to disable logging.
func (fw *FrameWriter) SetLogger(logger log.Logger, connID string) {
	fw.logger = logger
	fw.connID = connID
}

// WriteCommand encodes and writes one command frame.
// Thread-safe: concurrent callers never interleave frame bytes.
func (fw *FrameWriter) WriteCommand(id CommandID, args ...byte) error {
	frame, err := EncodeCommand(id, args...)
	if err != nil {
		return err
	}

	fw.mu.Lock()
	defer fw.mu.Unlock()

	if _, err := fw.w.Write(frame); err != nil {
		return fmt.Errorf("failed to write %s command: %w", id, err)
	}

	if fw.logger != nil {
		fw.logger.Log(log.Event{
			Timestamp:    time.Now(),
			ConnectionID: fw.connID,
			Direction:    log.DirectionOut,
			Layer:        log.LayerWire,
			Category:     log.CategoryCommand,
			Command: &log.CommandEvent{
				Opcode: uint8(id),
				Name:   id.String(),
				Args:   args,
			},
		})
	}

	return nil
}

// FrameReader reads report frames from an underlying reader.
type FrameReader struct {
	r         io.Reader
	lengthBuf [1]byte

	// Logging support (optional)
	logger log.Logger
	connID string
}

// NewFrameReader creates a new frame reader.
func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: r}
}

// SetLogger configures logging for this reader.
// Pass nil to disable logging.
func (fr *FrameReader) SetLogger(logger log.Logger, connID string) {
	fr.logger = logger
	fr.connID = connID
}

// ReadReport reads one report frame. It blocks until a complete frame
// arrives, the read deadline passes, or the transport closes.
func (fr *FrameReader) ReadReport() (Report, error) {
	if _, err := io.ReadFull(fr.r, fr.lengthBuf[:]); err != nil {
		if err == io.EOF {
			return Report{}, err
		}
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return Report{}, ErrFrameTruncated
		}
		return Report{}, fmt.Errorf("failed to read length byte: %w", err)
	}

	length := int(fr.lengthBuf[0])
	if length == 0 {
		return Report{}, ErrEmptyFrame
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(fr.r, body); err != nil {
		if err == io.EOF || errors.Is(err, io.ErrUnexpectedEOF) {
			return Report{}, ErrFrameTruncated
		}
		return Report{}, fmt.Errorf("failed to read report body: %w", err)
	}

	report := Report{
		Type:       ReportID(body[0]),
		Payload:    body[1:],
		ReceivedAt: time.Now(),
	}

	if fr.logger != nil {
		fr.logger.Log(log.Event{
			Timestamp:    report.ReceivedAt,
			ConnectionID: fr.connID,
			Direction:    log.DirectionIn,
			Layer:        log.LayerWire,
			Category:     log.CategoryReport,
			Report: &log.ReportEvent{
				Type:    uint8(report.Type),
				Name:    report.Type.String(),
				Payload: report.Payload,
			},
		})
	}

	return report, nil
}

// Framer combines frame reading and writing over one byte stream.
type Framer struct {
	*FrameReader
	*FrameWriter
}

// NewFramer creates a framer for bidirectional communication.
func NewFramer(rw io.ReadWriter) *Framer {
	return &Framer{
		FrameReader: NewFrameReader(rw),
		FrameWriter: NewFrameWriter(rw),
	}
}

// SetLogger configures logging for both reader and writer.
// Pass nil to disable logging.
func (f *Framer) SetLogger(logger log.Logger, connID string) {
	f.FrameReader.SetLogger(logger, connID)
	f.FrameWriter.SetLogger(logger, connID)
}
