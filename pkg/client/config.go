package client

import (
	"fmt"
	"time"

	"github.com/telemetrix-protocol/telemetrix-go/pkg/discovery"
	"github.com/telemetrix-protocol/telemetrix-go/pkg/log"
	"github.com/telemetrix-protocol/telemetrix-go/pkg/transport"
)

// DefaultInstanceID is the instance id compiled into unmodified firmware.
const DefaultInstanceID = 1

// Config configures a Client. The zero value works: New fills every
// unset field with the DefaultConfig value.
type Config struct {
	// SerialPort pins the client to one device path, skipping port
	// enumeration. The identity probe still runs.
	SerialPort string

	// BaudRate for serial transports (default 115200).
	BaudRate int

	// TCPAddress connects to a network-attached board instead of a
	// serial one ("host" or "host:port", default port 31335). Takes
	// precedence over the serial fields when set.
	TCPAddress string

	// InstanceID must match the id compiled into the firmware. 0 means
	// DefaultInstanceID.
	InstanceID uint8

	// SettleTime is how long boards get to finish their power-on reset
	// after the serial port opens (default 4s).
	SettleTime time.Duration

	// ReplyTimeout bounds each handshake reply read (default 2s).
	ReplyTimeout time.Duration

	// HandshakeAttempts is how many times each handshake query is sent
	// before giving up (default 2).
	HandshakeAttempts int

	// DispatchYield is the pause between dispatch iterations, ceding
	// the scheduler to goroutines issuing commands (default 100µs).
	DispatchYield time.Duration

	// Ports supplies serial candidates (default discovery.USBPorts).
	Ports discovery.PortLister

	// Logger receives protocol events. Nil disables event logging.
	Logger log.Logger

	// OnError observes the error that killed the connection. Called at
	// most once, from the dispatch goroutine, after shutdown ran.
	OnError func(error)
}

// DefaultConfig returns the configuration matching unmodified firmware
// on a directly attached board.
func DefaultConfig() Config {
	return Config{
		BaudRate:          transport.DefaultBaudRate,
		InstanceID:        DefaultInstanceID,
		SettleTime:        4 * time.Second,
		ReplyTimeout:      2 * time.Second,
		HandshakeAttempts: 2,
		DispatchYield:     100 * time.Microsecond,
		Ports:             discovery.USBPorts{},
	}
}

// applyDefaults fills unset fields in place.
func applyDefaults(c *Config) {
	defaults := DefaultConfig()

	if c.BaudRate == 0 {
		c.BaudRate = defaults.BaudRate
	}
	if c.InstanceID == 0 {
		c.InstanceID = defaults.InstanceID
	}
	if c.SettleTime == 0 {
		c.SettleTime = defaults.SettleTime
	}
	if c.ReplyTimeout == 0 {
		c.ReplyTimeout = defaults.ReplyTimeout
	}
	if c.HandshakeAttempts == 0 {
		c.HandshakeAttempts = defaults.HandshakeAttempts
	}
	if c.DispatchYield == 0 {
		c.DispatchYield = defaults.DispatchYield
	}
	if c.Ports == nil {
		c.Ports = defaults.Ports
	}
}

// validate rejects values no deployment can mean.
func (c *Config) validate() error {
	if c.BaudRate < 0 {
		return fmt.Errorf("baud rate must be positive, got %d", c.BaudRate)
	}
	if c.SettleTime < 0 {
		return fmt.Errorf("settle time must not be negative, got %v", c.SettleTime)
	}
	if c.ReplyTimeout <= 0 {
		return fmt.Errorf("reply timeout must be positive, got %v", c.ReplyTimeout)
	}
	if c.HandshakeAttempts < 1 {
		return fmt.Errorf("handshake attempts must be at least 1, got %d", c.HandshakeAttempts)
	}
	if c.DispatchYield < 0 {
		return fmt.Errorf("dispatch yield must not be negative, got %v", c.DispatchYield)
	}
	return nil
}
