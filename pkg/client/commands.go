package client

import (
	"fmt"

	"github.com/telemetrix-protocol/telemetrix-go/pkg/wire"
)

// Default servo pulse widths in microseconds, used when SetPinModeServo
// is called with zero pulse bounds.
const (
	DefaultServoMinPulse uint16 = 544
	DefaultServoMaxPulse uint16 = 2400
)

// SetPinModeDigitalInput configures pin as a digital input and starts
// change reporting. cb receives every level change the firmware sees.
func (c *Client) SetPinModeDigitalInput(pin uint8, cb PinCallback) error {
	if cb == nil {
		return fmt.Errorf("digital input pin %d: %w", pin, ErrCallbackRequired)
	}
	framer, err := c.writer()
	if err != nil {
		return err
	}
	// Registered before the command goes out so the first report cannot
	// beat the registration.
	c.registry.setDigital(pin, wire.PinModeDigitalInput, cb)
	return framer.WriteCommand(wire.CmdSetPinMode, pin, uint8(wire.PinModeDigitalInput), 1)
}

// SetPinModeDigitalInputPullup configures pin as a digital input with
// the internal pullup enabled and starts change reporting.
func (c *Client) SetPinModeDigitalInputPullup(pin uint8, cb PinCallback) error {
	if cb == nil {
		return fmt.Errorf("pullup input pin %d: %w", pin, ErrCallbackRequired)
	}
	framer, err := c.writer()
	if err != nil {
		return err
	}
	c.registry.setDigital(pin, wire.PinModeInputPullup, cb)
	return framer.WriteCommand(wire.CmdSetPinMode, pin, uint8(wire.PinModeInputPullup), 1)
}

// SetPinModeDigitalOutput configures pin for DigitalWrite.
func (c *Client) SetPinModeDigitalOutput(pin uint8) error {
	framer, err := c.writer()
	if err != nil {
		return err
	}
	return framer.WriteCommand(wire.CmdSetPinMode, pin, uint8(wire.PinModeDigitalOutput))
}

// SetPinModeAnalogOutput configures pin for AnalogWrite (PWM). The
// firmware makes no distinction between digital and PWM output modes.
func (c *Client) SetPinModeAnalogOutput(pin uint8) error {
	framer, err := c.writer()
	if err != nil {
		return err
	}
	return framer.WriteCommand(wire.CmdSetPinMode, pin, uint8(wire.PinModeDigitalOutput))
}

// SetPinModeAnalogInput configures analog channel pin for scanning. A
// new reading is reported only when it differs from the previous one by
// at least differential. Pin numbering is the analog channel number,
// not the board pin (A2 is 2).
func (c *Client) SetPinModeAnalogInput(pin uint8, differential uint16, cb PinCallback) error {
	if cb == nil {
		return fmt.Errorf("analog input pin %d: %w", pin, ErrCallbackRequired)
	}
	framer, err := c.writer()
	if err != nil {
		return err
	}
	c.registry.setAnalog(pin, cb)
	hi, lo := wire.PutUint16(differential)
	return framer.WriteCommand(wire.CmdSetPinMode, pin, uint8(wire.PinModeAnalogInput), hi, lo, 1)
}

// DigitalWrite drives a digital output pin to value (0 or 1).
func (c *Client) DigitalWrite(pin, value uint8) error {
	framer, err := c.writer()
	if err != nil {
		return err
	}
	return framer.WriteCommand(wire.CmdDigitalWrite, pin, value)
}

// AnalogWrite writes a PWM duty value to an analog output pin.
func (c *Client) AnalogWrite(pin uint8, value uint16) error {
	framer, err := c.writer()
	if err != nil {
		return err
	}
	hi, lo := wire.PutUint16(value)
	return framer.WriteCommand(wire.CmdAnalogWrite, pin, hi, lo)
}

// SetPinModeServo attaches a servo to pin. minPulse and maxPulse bound
// the pulse width in microseconds; passing 0 for both selects the
// common 544/2400 defaults. If the firmware has no free servo slot it
// reports the failure asynchronously and the connection ends with
// ErrServoUnavailable.
func (c *Client) SetPinModeServo(pin uint8, minPulse, maxPulse uint16) error {
	if minPulse == 0 && maxPulse == 0 {
		minPulse, maxPulse = DefaultServoMinPulse, DefaultServoMaxPulse
	}
	framer, err := c.writer()
	if err != nil {
		return err
	}
	minHi, minLo := wire.PutUint16(minPulse)
	maxHi, maxLo := wire.PutUint16(maxPulse)
	return framer.WriteCommand(wire.CmdServoAttach, pin, minHi, minLo, maxHi, maxLo)
}

// ServoWrite moves the servo on pin to angle in degrees (0-180).
func (c *Client) ServoWrite(pin, angle uint8) error {
	framer, err := c.writer()
	if err != nil {
		return err
	}
	return framer.WriteCommand(wire.CmdServoWrite, pin, angle)
}

// ServoDetach frees the servo slot held by pin.
func (c *Client) ServoDetach(pin uint8) error {
	framer, err := c.writer()
	if err != nil {
		return err
	}
	return framer.WriteCommand(wire.CmdServoDetach, pin)
}

// SetPinModeI2C initializes an I2C port (0 for the primary bus, 1 for
// the secondary). Activation is one-way: a second call for the same
// port does nothing and sends nothing.
func (c *Client) SetPinModeI2C(port uint8) error {
	if int(port) >= wire.I2CPortCount {
		return fmt.Errorf("i2c port %d out of range [0,%d]", port, wire.I2CPortCount-1)
	}
	framer, err := c.writer()
	if err != nil {
		return err
	}
	if c.registry.activateI2C(port) {
		return nil
	}
	return framer.WriteCommand(wire.CmdI2CBegin, port)
}

// I2CRead reads count bytes from register reg of the device at addr,
// issuing a stop condition after the transfer. The result arrives
// through cb.
func (c *Client) I2CRead(port, addr, reg, count uint8, cb I2CCallback) error {
	return c.i2cRead(port, addr, reg, count, 1, cb)
}

// I2CReadRestart is I2CRead with a repeated start instead of a stop
// condition, for devices that require it.
func (c *Client) I2CReadRestart(port, addr, reg, count uint8, cb I2CCallback) error {
	return c.i2cRead(port, addr, reg, count, 0, cb)
}

func (c *Client) i2cRead(port, addr, reg, count, stop uint8, cb I2CCallback) error {
	if cb == nil {
		return fmt.Errorf("i2c read addr %d: %w", addr, ErrCallbackRequired)
	}
	if int(port) >= wire.I2CPortCount {
		return fmt.Errorf("i2c port %d out of range [0,%d]", port, wire.I2CPortCount-1)
	}
	framer, err := c.writer()
	if err != nil {
		return err
	}
	if !c.registry.i2cIsActive(port) {
		return fmt.Errorf("i2c read on port %d: %w", port, ErrI2CPortNotActive)
	}
	c.registry.setI2C(port, cb)
	return framer.WriteCommand(wire.CmdI2CRead, addr, reg, count, stop, port)
}

// I2CWrite writes data to the device at addr. The firmware reports
// transfer length mismatches asynchronously; they end the connection
// with ErrI2CFraming.
func (c *Client) I2CWrite(port, addr uint8, data ...byte) error {
	if int(port) >= wire.I2CPortCount {
		return fmt.Errorf("i2c port %d out of range [0,%d]", port, wire.I2CPortCount-1)
	}
	framer, err := c.writer()
	if err != nil {
		return err
	}
	if !c.registry.i2cIsActive(port) {
		return fmt.Errorf("i2c write on port %d: %w", port, ErrI2CPortNotActive)
	}
	args := make([]byte, 0, 3+len(data))
	args = append(args, uint8(len(data)), addr, port)
	args = append(args, data...)
	return framer.WriteCommand(wire.CmdI2CWrite, args...)
}

// SetPinModeSonar registers an HC-SR04 style distance sensor on the
// given trigger and echo pins. Readings arrive through cb, keyed by the
// trigger pin. The firmware supports at most wire.MaxSonars sensors and
// slots cannot be freed.
func (c *Client) SetPinModeSonar(triggerPin, echoPin uint8, cb SonarCallback) error {
	if cb == nil {
		return fmt.Errorf("sonar trigger pin %d: %w", triggerPin, ErrCallbackRequired)
	}
	framer, err := c.writer()
	if err != nil {
		return err
	}
	if err := c.registry.addSonar(triggerPin, cb); err != nil {
		return fmt.Errorf("sonar trigger pin %d: %w", triggerPin, err)
	}
	return framer.WriteCommand(wire.CmdSonarNew, triggerPin, echoPin)
}

// SetPinModeDHT registers a DHT temperature and humidity sensor on pin.
// dhtType selects the model, wire.DHT11 or wire.DHT22. The firmware
// supports at most wire.MaxDHTs sensors and slots cannot be freed.
func (c *Client) SetPinModeDHT(pin, dhtType uint8, cb DHTCallback) error {
	if cb == nil {
		return fmt.Errorf("dht pin %d: %w", pin, ErrCallbackRequired)
	}
	framer, err := c.writer()
	if err != nil {
		return err
	}
	if err := c.registry.addDHT(pin, cb); err != nil {
		return fmt.Errorf("dht pin %d: %w", pin, err)
	}
	return framer.WriteCommand(wire.CmdDHTNew, pin, dhtType)
}

// EnableAllReports resumes all input reporting previously stopped by
// DisableAllReports.
func (c *Client) EnableAllReports() error {
	framer, err := c.writer()
	if err != nil {
		return err
	}
	return framer.WriteCommand(wire.CmdEnableAllReports)
}

// DisableAllReports pauses digital and analog input reporting. Device
// reports (sonar, DHT, I2C) are unaffected.
func (c *Client) DisableAllReports() error {
	framer, err := c.writer()
	if err != nil {
		return err
	}
	return framer.WriteCommand(wire.CmdModifyReporting, uint8(wire.ReportingDisableAll), 0)
}

// EnableDigitalReporting resumes change reports for one digital input
// pin.
func (c *Client) EnableDigitalReporting(pin uint8) error {
	return c.modifyReporting(wire.ReportingDigitalEnable, pin)
}

// DisableDigitalReporting pauses change reports for one digital input
// pin. The pin keeps its mode and callback.
func (c *Client) DisableDigitalReporting(pin uint8) error {
	return c.modifyReporting(wire.ReportingDigitalDisable, pin)
}

// EnableAnalogReporting resumes scan reports for one analog channel.
func (c *Client) EnableAnalogReporting(pin uint8) error {
	return c.modifyReporting(wire.ReportingAnalogEnable, pin)
}

// DisableAnalogReporting pauses scan reports for one analog channel.
func (c *Client) DisableAnalogReporting(pin uint8) error {
	return c.modifyReporting(wire.ReportingAnalogDisable, pin)
}

func (c *Client) modifyReporting(change wire.ReportingChange, pin uint8) error {
	framer, err := c.writer()
	if err != nil {
		return err
	}
	return framer.WriteCommand(wire.CmdModifyReporting, uint8(change), pin)
}

// SetAnalogScanInterval sets the delay between analog scan sweeps in
// milliseconds, 0 to 255.
func (c *Client) SetAnalogScanInterval(ms int) error {
	if ms < 0 || ms > 255 {
		return fmt.Errorf("analog scan interval %dms out of range [0,255]", ms)
	}
	framer, err := c.writer()
	if err != nil {
		return err
	}
	return framer.WriteCommand(wire.CmdAnalogScanInterval, uint8(ms))
}

// LoopBack sends b to the firmware, which echoes it back through cb.
// Useful as a liveness check.
func (c *Client) LoopBack(b byte, cb LoopbackCallback) error {
	if cb == nil {
		return fmt.Errorf("loopback: %w", ErrCallbackRequired)
	}
	framer, err := c.writer()
	if err != nil {
		return err
	}
	c.registry.setLoopback(cb)
	return framer.WriteCommand(wire.CmdLoopback, b)
}
