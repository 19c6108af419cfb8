package client

import (
	"fmt"
	"time"

	"github.com/telemetrix-protocol/telemetrix-go/pkg/log"
	"github.com/telemetrix-protocol/telemetrix-go/pkg/wire"
)

// dispatch reads reports until the connection dies and routes each one
// to its callback. It owns the error side of the lifecycle: any read or
// routing failure tears the connection down, and Done closes when the
// loop has exited.
func (c *Client) dispatch() {
	defer c.closeDone()

	for {
		report, err := c.framer.ReadReport()
		if err != nil {
			if c.shuttingDown.Load() {
				return
			}
			c.fatal(log.LayerTransport, fmt.Errorf("report read failed: %w", err))
			return
		}
		if err := c.handleReport(report); err != nil {
			c.fatal(log.LayerWire, err)
			return
		}
		if c.config.DispatchYield > 0 {
			time.Sleep(c.config.DispatchYield)
		}
	}
}

// handleReport routes one report. A non-nil error means the stream can
// no longer be trusted and the connection must come down.
func (c *Client) handleReport(report wire.Report) error {
	p := report.Payload

	switch report.Type {
	case wire.ReportDigital:
		if len(p) != 2 {
			return malformed(report)
		}
		handler, ok := c.registry.digitalFor(p[0])
		if !ok {
			return fmt.Errorf("%w: digital report for unregistered pin %d", ErrProtocol, p[0])
		}
		handler.cb(PinEvent{
			Pin:       p[0],
			Mode:      handler.mode,
			Value:     uint16(p[1]),
			Timestamp: report.ReceivedAt,
		})

	case wire.ReportAnalog:
		if len(p) != 3 {
			return malformed(report)
		}
		handler, ok := c.registry.analogFor(p[0])
		if !ok {
			return fmt.Errorf("%w: analog report for unregistered pin %d", ErrProtocol, p[0])
		}
		handler.cb(PinEvent{
			Pin:       p[0],
			Mode:      handler.mode,
			Value:     wire.Uint16(p[1], p[2]),
			Timestamp: report.ReceivedAt,
		})

	case wire.ReportSonarDistance:
		if len(p) != 3 {
			return malformed(report)
		}
		cb, ok := c.registry.sonarFor(p[0])
		if !ok {
			return fmt.Errorf("%w: sonar report for unregistered trigger pin %d", ErrProtocol, p[0])
		}
		cb(SonarEvent{
			TriggerPin: p[0],
			CM:         wire.Uint16(p[1], p[2]),
			Timestamp:  report.ReceivedAt,
		})

	case wire.ReportDHT:
		return c.handleDHT(report)

	case wire.ReportI2CRead:
		return c.handleI2CRead(report)

	case wire.ReportI2CTooFewBytes, wire.ReportI2CTooManyBytes:
		if len(p) != 2 {
			return malformed(report)
		}
		return fmt.Errorf("%w: %s on port %d addr %d", ErrI2CFraming, report.Type, p[0], p[1])

	case wire.ReportServoUnavailable:
		if len(p) != 1 {
			return malformed(report)
		}
		return fmt.Errorf("%w: pin %d", ErrServoUnavailable, p[0])

	case wire.ReportLoopback:
		if len(p) != 1 {
			return malformed(report)
		}
		if cb, ok := c.registry.loopbackCb(); ok {
			cb(p[0])
		}

	case wire.ReportFirmwareVersion, wire.ReportIAmHere:
		// Late handshake replies. A retried probe or version query can
		// produce duplicates that arrive after dispatch started.

	case wire.ReportDebugPrint:
		if len(p) != 3 {
			return malformed(report)
		}
		c.logEvent(log.Event{
			Direction: log.DirectionIn,
			Layer:     log.LayerClient,
			Category:  log.CategoryDebug,
			Debug: &log.DebugEvent{
				ID:    p[0],
				Value: wire.Uint16(p[1], p[2]),
			},
		})

	default:
		return fmt.Errorf("%w: unknown report type %d", ErrProtocol, uint8(report.Type))
	}

	return nil
}

func (c *Client) handleDHT(report wire.Report) error {
	p := report.Payload
	if len(p) < 3 {
		return malformed(report)
	}
	subtype, pin, deviceType := p[0], p[1], p[2]

	cb, ok := c.registry.dhtFor(pin)
	if !ok {
		return fmt.Errorf("%w: dht report for unregistered pin %d", ErrProtocol, pin)
	}

	event := DHTEvent{
		Pin:        pin,
		DeviceType: deviceType,
		Timestamp:  report.ReceivedAt,
	}
	switch subtype {
	case wire.DHTData:
		if len(p) != 11 {
			return malformed(report)
		}
		event.Humidity = wire.Float32(p[3:7])
		event.Temperature = wire.Float32(p[7:11])
	case wire.DHTError:
		if len(p) != 4 {
			return malformed(report)
		}
		event.Err = fmt.Errorf("dht sensor error %d on pin %d", p[3], pin)
	default:
		return fmt.Errorf("%w: dht report subtype %d", ErrProtocol, subtype)
	}

	cb(event)
	return nil
}

func (c *Client) handleI2CRead(report wire.Report) error {
	p := report.Payload
	if len(p) < 4 {
		return malformed(report)
	}
	port := p[0]
	if int(port) >= wire.I2CPortCount {
		return fmt.Errorf("%w: i2c report for port %d", ErrProtocol, port)
	}
	count, data := int(p[1]), p[4:]
	if count != len(data) {
		return fmt.Errorf("%w: i2c report advertises %d bytes, carries %d", ErrProtocol, count, len(data))
	}

	cb, ok := c.registry.i2cFor(port)
	if !ok {
		return fmt.Errorf("%w: i2c report for idle port %d", ErrProtocol, port)
	}
	cb(I2CEvent{
		Port:      port,
		Addr:      p[2],
		Register:  p[3],
		Data:      data,
		Timestamp: report.ReceivedAt,
	})
	return nil
}

// malformed flags a report whose payload does not match its type's
// layout. The stream has no sync markers, so there is no way back.
func malformed(report wire.Report) error {
	return fmt.Errorf("%w: malformed %s report, %d payload bytes", ErrProtocol, report.Type, len(report.Payload))
}
