package boardsim

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/telemetrix-protocol/telemetrix-go/pkg/wire"
)

// SetDigitalInput drives the external signal on a digital input pin.
// A report goes out when the level actually changes and reporting is
// enabled, matching the firmware's change-detection scan.
func (b *Board) SetDigitalInput(pin, value uint8) error {
	if value > 1 {
		return fmt.Errorf("digital value %d out of range", value)
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.pins[pin]
	if !ok || !p.isDigitalInput() {
		return fmt.Errorf("pin %d is not a digital input", pin)
	}
	if uint16(value) == p.value {
		return nil
	}
	p.value = uint16(value)
	if b.reporting && p.reporting {
		b.send(wire.ReportDigital, pin, value)
	}
	return nil
}

// SetAnalogInput drives the voltage on an analog input channel. A
// report goes out when the reading moved by at least the registered
// differential and reporting is enabled.
func (b *Board) SetAnalogInput(pin uint8, value uint16) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.pins[pin]
	if !ok || p.mode != wire.PinModeAnalogInput {
		return fmt.Errorf("pin %d is not an analog input", pin)
	}
	delta := int(value) - int(p.value)
	if delta < 0 {
		delta = -delta
	}
	if delta < int(p.differential) {
		return nil
	}
	p.value = value
	if b.reporting && p.reporting {
		hi, lo := wire.PutUint16(value)
		b.send(wire.ReportAnalog, pin, hi, lo)
	}
	return nil
}

// SendSonar reports a distance reading for a registered sonar.
func (b *Board) SendSonar(triggerPin uint8, cm uint16) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.sonars[triggerPin]; !ok {
		return fmt.Errorf("no sonar on trigger pin %d", triggerPin)
	}
	if b.reporting {
		hi, lo := wire.PutUint16(cm)
		b.send(wire.ReportSonarDistance, triggerPin, hi, lo)
	}
	return nil
}

// SendDHT reports a humidity/temperature reading for a registered DHT
// sensor. Floats travel little-endian IEEE-754, unlike the protocol's
// big-endian integers.
func (b *Board) SendDHT(pin uint8, humidity, temperature float32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	deviceType, ok := b.dhts[pin]
	if !ok {
		return fmt.Errorf("no dht on pin %d", pin)
	}
	if !b.reporting {
		return nil
	}
	payload := make([]byte, 11)
	payload[0] = wire.DHTData
	payload[1] = pin
	payload[2] = deviceType
	binary.LittleEndian.PutUint32(payload[3:7], math.Float32bits(humidity))
	binary.LittleEndian.PutUint32(payload[7:11], math.Float32bits(temperature))
	b.send(wire.ReportDHT, payload...)
	return nil
}

// SendDHTError reports a sensor library failure for a registered DHT
// sensor.
func (b *Board) SendDHTError(pin, code uint8) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	deviceType, ok := b.dhts[pin]
	if !ok {
		return fmt.Errorf("no dht on pin %d", pin)
	}
	if b.reporting {
		b.send(wire.ReportDHT, wire.DHTError, pin, deviceType, code)
	}
	return nil
}

// SendDebug emits a debug-print report, the marker sketches drop into
// the stream while being debugged.
func (b *Board) SendDebug(id uint8, value uint16) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn == nil {
		return fmt.Errorf("no client connected")
	}
	hi, lo := wire.PutUint16(value)
	b.send(wire.ReportDebugPrint, id, hi, lo)
	return nil
}

// Inject writes raw bytes to the client, bypassing the frame builder.
// Tests use it to produce streams a healthy board never sends.
func (b *Board) Inject(raw []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.conn == nil {
		return fmt.Errorf("no client connected")
	}
	_, err := b.conn.Write(raw)
	return err
}

// AddI2CDevice places a device on an I2C port with its register file
// preloaded from register 0. The port does not need to be active yet.
func (b *Board) AddI2CDevice(port, addr uint8, regs ...byte) {
	if int(port) >= wire.I2CPortCount {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	dev := &i2cDevice{}
	copy(dev.regs[:], regs)
	b.i2cDevs[port][addr] = dev
}

// PinValue returns the last value seen on a pin: the driven level for
// outputs, the injected signal for inputs.
func (b *Board) PinValue(pin uint8) (uint16, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.pins[pin]
	if !ok {
		return 0, false
	}
	return p.value, true
}

// PinMode returns the configured mode of a pin.
func (b *Board) PinMode(pin uint8) (wire.PinMode, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	p, ok := b.pins[pin]
	if !ok {
		return wire.PinModeNotSet, false
	}
	return p.mode, true
}

// ServoAngle returns the last written angle of an attached servo.
func (b *Board) ServoAngle(pin uint8) (uint8, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	servo, ok := b.servos[pin]
	if !ok {
		return 0, false
	}
	return servo.angle, true
}

// I2CActive reports whether an I2C port has been initialized.
func (b *Board) I2CActive(port uint8) bool {
	if int(port) >= wire.I2CPortCount {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.i2cActive[port]
}

// I2CRegister reads one register of a simulated device directly.
func (b *Board) I2CRegister(port, addr, reg uint8) (byte, bool) {
	if int(port) >= wire.I2CPortCount {
		return 0, false
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	dev, ok := b.i2cDevs[port][addr]
	if !ok {
		return 0, false
	}
	return dev.regs[reg], true
}

// SonarCount returns the number of registered sonars.
func (b *Board) SonarCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.sonars)
}

// DHTCount returns the number of registered DHT sensors.
func (b *Board) DHTCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.dhts)
}

// Reporting reports whether the master reporting switch is on.
func (b *Board) Reporting() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.reporting
}

// ScanInterval returns the analog scan interval in milliseconds.
func (b *Board) ScanInterval() uint8 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.scanMS
}

// Resets returns how many reset commands the board has handled.
func (b *Board) Resets() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.resets
}
