// Package boardsim simulates a board running the companion firmware,
// reachable over TCP. It answers the handshake, tracks pin and device
// state the way the firmware does, and lets callers inject input
// changes that come back to the client as reports. Tests and the
// console's simulation mode use it in place of hardware.
package boardsim

import (
	"fmt"
	"io"
	"net"
	"sync"
	"sync/atomic"

	"github.com/telemetrix-protocol/telemetrix-go/pkg/version"
	"github.com/telemetrix-protocol/telemetrix-go/pkg/wire"
)

// Firmware limits mirrored by the simulator. Servo slots are a firmware
// compile-time constant that the wire protocol never carries.
const defaultServoSlots = 12

// The firmware's power-on analog scan interval in milliseconds.
const defaultScanIntervalMS = 19

// Config configures a simulated board.
type Config struct {
	// Address is the TCP listen address. Empty means 127.0.0.1:0
	// (an ephemeral port, read back via Addr).
	Address string

	// InstanceID is the identity the board answers probes with.
	// 0 means 1, matching unmodified firmware.
	InstanceID uint8

	// Firmware is the version reported during the handshake.
	// Zero means 5.1.
	Firmware version.Firmware

	// ServoSlots caps concurrent servo attachments. 0 means 12.
	ServoSlots int

	// OnCommand observes every decoded command frame. Called from the
	// serve goroutine with the raw argument bytes.
	OnCommand func(id wire.CommandID, args []byte)
}

// Board is a simulated firmware board. Create one with New, start it
// with Start, and point a client at Addr. One client connection is
// served at a time; pin and device state persists across connections
// the way hardware state does.
type Board struct {
	config   Config
	listener net.Listener

	running atomic.Bool
	wg      sync.WaitGroup

	// mu guards the connection and all firmware state below it.
	// Replies and injected reports share the connection, so every
	// write happens under mu.
	mu        sync.Mutex
	conn      net.Conn
	reporting bool
	scanMS    uint8
	pins      map[uint8]*pinState
	servos    map[uint8]*servoState
	sonars    map[uint8]uint8 // trigger pin -> echo pin
	dhts      map[uint8]uint8 // data pin -> device type
	i2cActive [wire.I2CPortCount]bool
	i2cDevs   [wire.I2CPortCount]map[uint8]*i2cDevice
	resets    int
}

type pinState struct {
	mode         wire.PinMode
	value        uint16
	reporting    bool
	differential uint16
}

type servoState struct {
	minPulse uint16
	maxPulse uint16
	angle    uint8
}

// i2cDevice is a register file. Reads auto-increment from the start
// register and wrap, the way most register-addressed parts behave.
type i2cDevice struct {
	regs [256]byte
}

// New creates a simulated board. Call Start to begin listening.
func New(config Config) *Board {
	if config.Address == "" {
		config.Address = "127.0.0.1:0"
	}
	if config.InstanceID == 0 {
		config.InstanceID = 1
	}
	if config.Firmware.IsZero() {
		config.Firmware = version.Firmware{Major: 5, Minor: 1}
	}
	if config.ServoSlots == 0 {
		config.ServoSlots = defaultServoSlots
	}
	b := &Board{
		config: config,
		pins:   make(map[uint8]*pinState),
		servos: make(map[uint8]*servoState),
		sonars: make(map[uint8]uint8),
		dhts:   make(map[uint8]uint8),
	}
	for port := range b.i2cDevs {
		b.i2cDevs[port] = make(map[uint8]*i2cDevice)
	}
	b.bootState()
	return b
}

// bootState sets the firmware's power-on defaults. Callers hold mu,
// except during New.
func (b *Board) bootState() {
	b.reporting = true
	b.scanMS = defaultScanIntervalMS
}

// Start begins accepting connections.
func (b *Board) Start() error {
	if b.running.Load() {
		return fmt.Errorf("board already running")
	}
	listener, err := net.Listen("tcp", b.config.Address)
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	b.listener = listener
	b.running.Store(true)

	b.wg.Add(1)
	go b.acceptLoop()
	return nil
}

// Stop closes the listener and any active connection and waits for the
// serve goroutine to exit. Safe to call more than once.
func (b *Board) Stop() {
	if !b.running.Load() {
		return
	}
	b.running.Store(false)

	if b.listener != nil {
		b.listener.Close()
	}
	b.mu.Lock()
	if b.conn != nil {
		b.conn.Close()
	}
	b.mu.Unlock()

	b.wg.Wait()
}

// Addr returns the address clients should dial, "host:port".
func (b *Board) Addr() string {
	if b.listener == nil {
		return ""
	}
	return b.listener.Addr().String()
}

// acceptLoop serves one connection at a time. The firmware's socket
// accepts a single controller; a new connection is picked up only
// after the previous client went away.
func (b *Board) acceptLoop() {
	defer b.wg.Done()

	for b.running.Load() {
		conn, err := b.listener.Accept()
		if err != nil {
			if !b.running.Load() {
				return
			}
			continue
		}
		b.mu.Lock()
		b.conn = conn
		b.mu.Unlock()

		b.serve(conn)

		b.mu.Lock()
		b.conn = nil
		b.mu.Unlock()
		conn.Close()
	}
}

// serve decodes command frames until the client disconnects.
func (b *Board) serve(conn net.Conn) {
	var length [1]byte
	for {
		if _, err := io.ReadFull(conn, length[:]); err != nil {
			return
		}
		if length[0] == 0 {
			// A zero-length frame never appears on a healthy stream.
			return
		}
		frame := make([]byte, length[0])
		if _, err := io.ReadFull(conn, frame); err != nil {
			return
		}
		id := wire.CommandID(frame[0])
		args := frame[1:]
		if b.config.OnCommand != nil {
			b.config.OnCommand(id, args)
		}
		b.handleCommand(id, args)
	}
}

// handleCommand applies one command to the board state, sending any
// solicited report. Malformed argument lists are dropped the way the
// firmware drops them.
func (b *Board) handleCommand(id wire.CommandID, args []byte) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch id {
	case wire.CmdAreYouThere:
		b.send(wire.ReportIAmHere, b.config.InstanceID)

	case wire.CmdFirmwareVersion:
		b.send(wire.ReportFirmwareVersion, b.config.Firmware.Major, b.config.Firmware.Minor)

	case wire.CmdLoopback:
		if len(args) == 1 {
			b.send(wire.ReportLoopback, args[0])
		}

	case wire.CmdSetPinMode:
		b.setPinMode(args)

	case wire.CmdDigitalWrite:
		if len(args) == 2 {
			b.pins[args[0]] = &pinState{mode: wire.PinModeDigitalOutput, value: uint16(args[1])}
		}

	case wire.CmdAnalogWrite:
		if len(args) == 3 {
			b.pins[args[0]] = &pinState{mode: wire.PinModeDigitalOutput, value: wire.Uint16(args[1], args[2])}
		}

	case wire.CmdModifyReporting:
		if len(args) == 2 {
			b.modifyReporting(wire.ReportingChange(args[0]), args[1])
		}

	case wire.CmdServoAttach:
		if len(args) == 5 {
			b.servoAttach(args[0], wire.Uint16(args[1], args[2]), wire.Uint16(args[3], args[4]))
		}

	case wire.CmdServoWrite:
		if len(args) == 2 {
			if servo, ok := b.servos[args[0]]; ok {
				servo.angle = args[1]
			}
		}

	case wire.CmdServoDetach:
		if len(args) == 1 {
			delete(b.servos, args[0])
		}

	case wire.CmdI2CBegin:
		if len(args) == 1 && int(args[0]) < wire.I2CPortCount {
			b.i2cActive[args[0]] = true
		}

	case wire.CmdI2CRead:
		if len(args) == 5 {
			b.i2cRead(args[0], args[1], args[2], args[4])
		}

	case wire.CmdI2CWrite:
		if len(args) >= 3 {
			b.i2cWrite(args[1], args[2], args[3:])
		}

	case wire.CmdSonarNew:
		if len(args) == 2 && len(b.sonars) < wire.MaxSonars {
			b.sonars[args[0]] = args[1]
		}

	case wire.CmdDHTNew:
		if len(args) == 2 && len(b.dhts) < wire.MaxDHTs {
			b.dhts[args[0]] = args[1]
		}

	case wire.CmdStopAllReports:
		b.reporting = false

	case wire.CmdEnableAllReports:
		b.reporting = true

	case wire.CmdAnalogScanInterval:
		if len(args) == 1 {
			b.scanMS = args[0]
		}

	case wire.CmdReset:
		b.reset()
	}
}

func (b *Board) setPinMode(args []byte) {
	if len(args) < 2 {
		return
	}
	pin := args[0]
	switch wire.PinMode(args[1]) {
	case wire.PinModeDigitalInput:
		if len(args) == 3 {
			b.pins[pin] = &pinState{mode: wire.PinModeDigitalInput, reporting: args[2] != 0}
		}
	case wire.PinModeInputPullup:
		if len(args) == 3 {
			// The pullup idles the line high.
			b.pins[pin] = &pinState{mode: wire.PinModeInputPullup, value: 1, reporting: args[2] != 0}
		}
	case wire.PinModeDigitalOutput:
		b.pins[pin] = &pinState{mode: wire.PinModeDigitalOutput}
	case wire.PinModeAnalogInput:
		if len(args) == 5 {
			b.pins[pin] = &pinState{
				mode:         wire.PinModeAnalogInput,
				differential: wire.Uint16(args[2], args[3]),
				reporting:    args[4] != 0,
			}
		}
	}
}

func (b *Board) modifyReporting(change wire.ReportingChange, pin uint8) {
	switch change {
	case wire.ReportingDisableAll:
		for _, p := range b.pins {
			if p.mode != wire.PinModeDigitalOutput {
				p.reporting = false
			}
		}
	case wire.ReportingDigitalEnable, wire.ReportingDigitalDisable:
		if p, ok := b.pins[pin]; ok && p.isDigitalInput() {
			p.reporting = change == wire.ReportingDigitalEnable
		}
	case wire.ReportingAnalogEnable, wire.ReportingAnalogDisable:
		if p, ok := b.pins[pin]; ok && p.mode == wire.PinModeAnalogInput {
			p.reporting = change == wire.ReportingAnalogEnable
		}
	}
}

func (b *Board) servoAttach(pin uint8, minPulse, maxPulse uint16) {
	if len(b.servos) >= b.config.ServoSlots {
		b.send(wire.ReportServoUnavailable, pin)
		return
	}
	b.servos[pin] = &servoState{minPulse: minPulse, maxPulse: maxPulse}
}

func (b *Board) i2cRead(addr, reg, count, port uint8) {
	if int(port) >= wire.I2CPortCount || !b.i2cActive[port] {
		return
	}
	dev, ok := b.i2cDevs[port][addr]
	if !ok {
		// No device at that address: the transfer comes up short.
		b.send(wire.ReportI2CTooFewBytes, port, addr)
		return
	}
	payload := make([]byte, 0, 4+int(count))
	payload = append(payload, port, count, addr, reg)
	for i := 0; i < int(count); i++ {
		payload = append(payload, dev.regs[(int(reg)+i)%256])
	}
	b.send(wire.ReportI2CRead, payload...)
}

// i2cWrite stores data the way register-addressed parts do: the first
// byte selects the register, the rest land sequentially.
func (b *Board) i2cWrite(addr, port uint8, data []byte) {
	if int(port) >= wire.I2CPortCount || !b.i2cActive[port] || len(data) == 0 {
		return
	}
	dev, ok := b.i2cDevs[port][addr]
	if !ok {
		dev = &i2cDevice{}
		b.i2cDevs[port][addr] = dev
	}
	reg := data[0]
	for i, v := range data[1:] {
		dev.regs[(int(reg)+i)%256] = v
	}
}

func (b *Board) reset() {
	b.pins = make(map[uint8]*pinState)
	b.servos = make(map[uint8]*servoState)
	b.sonars = make(map[uint8]uint8)
	b.dhts = make(map[uint8]uint8)
	for port := range b.i2cDevs {
		b.i2cActive[port] = false
		b.i2cDevs[port] = make(map[uint8]*i2cDevice)
	}
	b.bootState()
	b.resets++
}

// send writes one report frame. Callers hold mu. Reports with nobody
// connected are dropped, like a board reporting into an unplugged cable.
func (b *Board) send(id wire.ReportID, payload ...byte) {
	if b.conn == nil {
		return
	}
	frame := make([]byte, 0, 2+len(payload))
	frame = append(frame, byte(1+len(payload)), byte(id))
	frame = append(frame, payload...)
	_, _ = b.conn.Write(frame)
}

func (p *pinState) isDigitalInput() bool {
	return p.mode == wire.PinModeDigitalInput || p.mode == wire.PinModeInputPullup
}
