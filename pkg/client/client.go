package client

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/telemetrix-protocol/telemetrix-go/pkg/log"
	"github.com/telemetrix-protocol/telemetrix-go/pkg/transport"
	"github.com/telemetrix-protocol/telemetrix-go/pkg/version"
	"github.com/telemetrix-protocol/telemetrix-go/pkg/wire"
)

// State is the lifecycle state of a Client.
type State uint8

const (
	// StateDisconnected is the state before Connect.
	StateDisconnected State = iota
	// StateConnecting covers transport selection and the handshake.
	StateConnecting
	// StateConnected means the handshake finished and dispatch is running.
	StateConnected
	// StateShutdown is terminal. A client never leaves it.
	StateShutdown
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "DISCONNECTED"
	case StateConnecting:
		return "CONNECTING"
	case StateConnected:
		return "CONNECTED"
	case StateShutdown:
		return "SHUTDOWN"
	default:
		return "UNKNOWN"
	}
}

// shutdownSettle is how long Shutdown waits after the stop-all-reports
// command for in-flight reports to land before closing the transport.
const shutdownSettle = 500 * time.Millisecond

// Client drives one board running the companion firmware. Create it
// with New, start it with Connect. All methods are safe for concurrent
// use; callbacks run on the single dispatch goroutine.
type Client struct {
	config   Config
	registry *registry

	mu        sync.Mutex
	state     State
	connID    string
	firmware  version.Firmware
	transport transport.Transport
	framer    *wire.Framer

	shuttingDown atomic.Bool
	shutdownOnce sync.Once

	done     chan struct{}
	doneOnce sync.Once

	errMu sync.Mutex
	err   error
}

// New builds an unconnected client. Zero fields of config are filled
// with the DefaultConfig values before validation.
func New(config Config) (*Client, error) {
	applyDefaults(&config)
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Client{
		config:   config,
		registry: newRegistry(),
		done:     make(chan struct{}),
	}, nil
}

// Connect locates the board, performs the startup handshake and starts
// the report dispatch loop. It is one-shot: a client whose connection
// ended, or whose Connect failed, cannot be connected again.
//
// With a TCPAddress the peer is trusted without a probe, identity is by
// address. A configured SerialPort is probed and must answer with the
// configured instance id. With neither set, all USB serial candidates
// are opened and probed and the first board that answers wins.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateDisconnected {
		c.mu.Unlock()
		return ErrAlreadyConnected
	}
	c.state = StateConnecting
	c.connID = uuid.New().String()
	c.mu.Unlock()
	c.logStateChange(StateDisconnected, StateConnecting, "connect requested")

	tr, framer, err := c.selectTransport(ctx)
	if err != nil {
		return c.failConnect(err)
	}

	c.mu.Lock()
	c.transport = tr
	c.framer = framer
	aborted := c.shuttingDown.Load()
	c.mu.Unlock()
	if aborted {
		// Shutdown ran before the transport existed and had nothing to
		// close, so close it here.
		_ = tr.Close()
		c.closeDone()
		return fmt.Errorf("connect aborted: client was shut down")
	}

	// Stale probe replies would desynchronize the version query.
	_ = tr.ResetInput()

	fw, err := c.queryFirmware(tr, framer)
	if err != nil {
		return c.failConnect(err)
	}
	c.mu.Lock()
	c.firmware = fw
	c.mu.Unlock()

	if err := framer.WriteCommand(wire.CmdEnableAllReports); err != nil {
		return c.failConnect(fmt.Errorf("failed to enable reporting: %w", err))
	}

	c.setState(StateConnected, "handshake complete, firmware "+fw.String())

	go c.dispatch()

	// Reset clears pin modes and device slots left over from whatever
	// program drove the board before.
	if err := framer.WriteCommand(wire.CmdReset); err != nil {
		err = fmt.Errorf("failed to reset board state: %w", err)
		c.recordErr(err)
		c.logError(log.LayerTransport, err, "connect")
		c.Shutdown()
		return err
	}

	return nil
}

// failConnect tears down a half-built connection. The client is spent.
func (c *Client) failConnect(err error) error {
	c.recordErr(err)
	c.logError(log.LayerClient, err, "connect")
	c.Shutdown()
	c.closeDone()
	return err
}

func (c *Client) selectTransport(ctx context.Context) (transport.Transport, *wire.Framer, error) {
	if c.config.TCPAddress != "" {
		tr, err := transport.DialTCP(ctx, c.config.TCPAddress)
		if err != nil {
			return nil, nil, err
		}
		return tr, c.newFramer(tr), nil
	}

	if c.config.SerialPort != "" {
		return c.probeConfiguredPort(ctx)
	}

	return c.enumerateAndProbe(ctx)
}

// probeConfiguredPort opens the configured serial port, waits out the
// boot-on-open reset and verifies the board's identity.
func (c *Client) probeConfiguredPort(ctx context.Context) (transport.Transport, *wire.Framer, error) {
	tr, err := transport.OpenSerial(c.config.SerialPort, c.config.BaudRate)
	if err != nil {
		return nil, nil, err
	}
	framer := c.newFramer(tr)

	_ = tr.ResetInput()
	if err := c.wait(ctx, c.config.SettleTime); err != nil {
		_ = tr.Close()
		return nil, nil, err
	}

	match, err := c.probe(tr, framer)
	if err != nil {
		_ = tr.Close()
		return nil, nil, fmt.Errorf("probe of %s failed: %w", c.config.SerialPort, err)
	}
	if !match {
		_ = tr.Close()
		return nil, nil, fmt.Errorf("%s: %w", c.config.SerialPort, ErrNoDeviceFound)
	}
	return tr, framer, nil
}

// enumerateAndProbe opens every USB serial candidate, lets the boards
// settle once and keeps the first one that answers the identity probe.
func (c *Client) enumerateAndProbe(ctx context.Context) (transport.Transport, *wire.Framer, error) {
	candidates, err := c.config.Ports.List()
	if err != nil {
		return nil, nil, err
	}

	type opened struct {
		tr     transport.Transport
		framer *wire.Framer
	}
	var open []opened
	for _, cand := range candidates {
		tr, err := transport.OpenSerial(cand.Path, c.config.BaudRate)
		if err != nil {
			// Busy and vanished ports are expected during enumeration.
			c.logError(log.LayerTransport, fmt.Errorf("skipping %s: %w", cand.Path, err), "enumerate")
			continue
		}
		_ = tr.ResetInput()
		open = append(open, opened{tr: tr, framer: c.newFramer(tr)})
	}
	if len(open) == 0 {
		return nil, nil, ErrNoDeviceFound
	}

	closeAll := func(except int) {
		for i, o := range open {
			if i != except {
				_ = o.tr.Close()
			}
		}
	}

	// A single settle wait covers every candidate: they all reset when
	// their port was opened.
	if err := c.wait(ctx, c.config.SettleTime); err != nil {
		closeAll(-1)
		return nil, nil, err
	}

	for i, o := range open {
		match, err := c.probe(o.tr, o.framer)
		if err == nil && match {
			closeAll(i)
			return o.tr, o.framer, nil
		}
	}

	closeAll(-1)
	return nil, nil, ErrNoDeviceFound
}

// probe sends the identity query and reports whether the board answered
// with the configured instance id. A silent or foreign device is not an
// error, it is simply not our board.
func (c *Client) probe(tr transport.Transport, framer *wire.Framer) (bool, error) {
	defer func() { _ = tr.SetReadDeadline(time.Time{}) }()

	for attempt := 0; attempt < c.config.HandshakeAttempts; attempt++ {
		if err := framer.WriteCommand(wire.CmdAreYouThere); err != nil {
			return false, err
		}
		if err := tr.SetReadDeadline(time.Now().Add(c.config.ReplyTimeout)); err != nil {
			return false, err
		}
		report, err := framer.ReadReport()
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				continue
			}
			return false, err
		}
		if report.Type != wire.ReportIAmHere || len(report.Payload) != 1 {
			return false, nil
		}
		return report.Payload[0] == c.config.InstanceID, nil
	}
	return false, nil
}

// queryFirmware asks for the firmware version under a read deadline,
// retrying up to the attempt budget before giving up.
func (c *Client) queryFirmware(tr transport.Transport, framer *wire.Framer) (version.Firmware, error) {
	defer func() { _ = tr.SetReadDeadline(time.Time{}) }()

	for attempt := 0; attempt < c.config.HandshakeAttempts; attempt++ {
		if err := framer.WriteCommand(wire.CmdFirmwareVersion); err != nil {
			return version.Firmware{}, err
		}
		if err := tr.SetReadDeadline(time.Now().Add(c.config.ReplyTimeout)); err != nil {
			return version.Firmware{}, err
		}
		report, err := framer.ReadReport()
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				continue
			}
			return version.Firmware{}, fmt.Errorf("firmware version read failed: %w", err)
		}
		if report.Type != wire.ReportFirmwareVersion || len(report.Payload) != 2 {
			return version.Firmware{}, fmt.Errorf("%w: %s report during version query", ErrProtocol, report.Type)
		}
		return version.Firmware{Major: report.Payload[0], Minor: report.Payload[1]}, nil
	}
	return version.Firmware{}, fmt.Errorf("no firmware version reply after %d attempts: %w",
		c.config.HandshakeAttempts, ErrHandshakeTimeout)
}

func (c *Client) newFramer(tr transport.Transport) *wire.Framer {
	framer := wire.NewFramer(tr)
	if c.config.Logger != nil {
		framer.SetLogger(c.config.Logger, c.connID)
	}
	return framer
}

// wait sleeps for d unless ctx ends first.
func (c *Client) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Shutdown ends the connection: it asks the firmware to stop reporting,
// gives in-flight reports a moment to land, then closes the transport,
// which unparks the dispatch loop. It is safe to call from any
// goroutine, including callbacks, and never fails; repeat calls are
// no-ops. Shutdown does not wait for the dispatch loop, use Done for
// that.
func (c *Client) Shutdown() {
	c.shutdownOnce.Do(func() {
		c.shuttingDown.Store(true)

		c.mu.Lock()
		prev := c.state
		c.state = StateShutdown
		tr := c.transport
		framer := c.framer
		c.mu.Unlock()

		reason := "shutdown requested"
		if c.Err() != nil {
			reason = "fatal error"
		}
		c.logStateChange(prev, StateShutdown, reason)

		if tr == nil {
			return
		}
		if framer != nil {
			_ = framer.WriteCommand(wire.CmdStopAllReports)
		}
		time.Sleep(shutdownSettle)
		_ = tr.ResetInput()
		_ = tr.Close()
	})
}

// fatal records err as the reason the connection died and tears it
// down. Used by the dispatch loop; the OnError hook fires after the
// shutdown sequence ran.
func (c *Client) fatal(layer log.Layer, err error) {
	c.recordErr(err)
	c.logError(layer, err, "dispatch")
	c.Shutdown()
	if c.config.OnError != nil {
		c.config.OnError(err)
	}
}

// recordErr keeps the first error; later ones describe the same death.
func (c *Client) recordErr(err error) {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	if c.err == nil {
		c.err = err
	}
}

func (c *Client) closeDone() {
	c.doneOnce.Do(func() { close(c.done) })
}

// setState moves the lifecycle state and logs the transition.
// StateShutdown is terminal and is never left.
func (c *Client) setState(next State, reason string) {
	c.mu.Lock()
	prev := c.state
	if prev == next || prev == StateShutdown {
		c.mu.Unlock()
		return
	}
	c.state = next
	c.mu.Unlock()
	c.logStateChange(prev, next, reason)
}

// writer returns the framer when the client is connected.
func (c *Client) writer() (*wire.Framer, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateConnected {
		return nil, ErrNotConnected
	}
	return c.framer, nil
}

// logEvent stamps and forwards one protocol event. A nil Logger
// disables all logging.
func (c *Client) logEvent(event log.Event) {
	if c.config.Logger == nil {
		return
	}
	event.Timestamp = time.Now()
	c.mu.Lock()
	event.ConnectionID = c.connID
	if c.transport != nil {
		event.Transport = c.transport.Kind()
		event.RemoteAddr = c.transport.Address()
	}
	c.mu.Unlock()
	c.config.Logger.Log(event)
}

func (c *Client) logStateChange(from, to State, reason string) {
	c.logEvent(log.Event{
		Layer:    log.LayerClient,
		Category: log.CategoryState,
		StateChange: &log.StateChangeEvent{
			OldState: from.String(),
			NewState: to.String(),
			Reason:   reason,
		},
	})
}

// logError emits an error event. layer attributes where the failure
// happened, not where it was caught; the client catches all of them.
func (c *Client) logError(layer log.Layer, err error, context string) {
	c.logEvent(log.Event{
		Layer:    log.LayerClient,
		Category: log.CategoryError,
		Error: &log.ErrorEventData{
			Layer:   layer,
			Message: err.Error(),
			Context: context,
		},
	})
}

// Done is closed once the dispatch loop has exited and no callback will
// run again. It also closes when Connect fails.
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Err reports what ended the connection. It is nil while the connection
// is healthy and stays nil after a clean Shutdown.
func (c *Client) Err() error {
	c.errMu.Lock()
	defer c.errMu.Unlock()
	return c.err
}

// State returns the current lifecycle state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// FirmwareVersion returns the version reported during the handshake,
// the zero value before Connect succeeded.
func (c *Client) FirmwareVersion() version.Firmware {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.firmware
}

// Address returns the device path or network address of the connected
// board. It is empty before Connect picked a transport.
func (c *Client) Address() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.transport == nil {
		return ""
	}
	return c.transport.Address()
}

// ConnectionID returns the id that correlates this connection's log
// events. It is empty before Connect.
func (c *Client) ConnectionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connID
}
