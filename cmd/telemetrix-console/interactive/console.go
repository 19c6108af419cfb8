// Package interactive provides the interactive command-line interface
// for the telemetrix console.
package interactive

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/chzyer/readline"

	"github.com/telemetrix-protocol/telemetrix-go/pkg/client"
	"github.com/telemetrix-protocol/telemetrix-go/pkg/wire"
)

// ConsoleConfig provides configuration information to the interactive
// console. This interface allows the interactive layer to access
// console settings without depending on the main package's config
// structure.
type ConsoleConfig interface {
	// SimMode reports whether the board is simulated.
	SimMode() bool
}

// Console handles interactive mode for telemetrix-console.
type Console struct {
	client *client.Client
	config ConsoleConfig
	rl     *readline.Instance
}

// New creates a new interactive console handler.
func New(c *client.Client, cfg ConsoleConfig) (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "board> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &Console{
		client: c,
		config: cfg,
		rl:     rl,
	}, nil
}

// Stdout returns a writer that properly coordinates with the readline
// input. Use this for log output to avoid interfering with the prompt.
func (c *Console) Stdout() io.Writer {
	return c.rl.Stdout()
}

// Stderr returns a writer that properly coordinates with the readline
// input.
func (c *Console) Stderr() io.Writer {
	return c.rl.Stderr()
}

// Run starts the interactive command loop.
func (c *Console) Run(ctx context.Context, cancel context.CancelFunc) {
	defer c.rl.Close()

	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			c.printHelp()

		case "dinput", "di":
			c.cmdDigitalInput(args)

		case "pullup", "pu":
			c.cmdPullup(args)

		case "doutput", "do":
			c.cmdDigitalOutput(args)

		case "ainput", "ai":
			c.cmdAnalogInput(args)

		case "aoutput", "ao":
			c.cmdAnalogOutput(args)

		case "dwrite", "dw":
			c.cmdDigitalWrite(args)

		case "awrite", "aw":
			c.cmdAnalogWrite(args)

		case "servo":
			c.cmdServo(args)

		case "angle":
			c.cmdAngle(args)

		case "detach":
			c.cmdDetach(args)

		case "i2c":
			c.cmdI2CBegin(args)

		case "i2cread":
			c.cmdI2CRead(args)

		case "i2cwrite":
			c.cmdI2CWrite(args)

		case "sonar":
			c.cmdSonar(args)

		case "dht":
			c.cmdDHT(args)

		case "report":
			c.cmdReport(args)

		case "dreport":
			c.cmdDigitalReport(args)

		case "areport":
			c.cmdAnalogReport(args)

		case "interval":
			c.cmdInterval(args)

		case "loopback", "ping":
			c.cmdLoopback(args)

		case "status":
			c.cmdStatus()

		case "quit", "exit", "q":
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return

		default:
			fmt.Fprintf(c.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.rl.Stdout(), `
Telemetrix Console Commands:
  Pin setup:
    dinput <pin>              - Digital input with change reports
    pullup <pin>              - Digital input with internal pullup
    doutput <pin>             - Digital output
    ainput <pin> [diff]       - Analog input channel; reports when the
                                reading moves by at least diff (default 1)
    aoutput <pin>             - PWM output

  Output:
    dwrite <pin> <0|1>        - Drive a digital output
    awrite <pin> <value>      - Write a PWM duty value

  Servos:
    servo <pin> [min max]     - Attach a servo (pulse widths in us)
    angle <pin> <degrees>     - Position a servo (0-180)
    detach <pin>              - Release the servo slot

  I2C:
    i2c <port>                          - Initialize an I2C port (0 or 1)
    i2cread <port> <addr> <reg> <n>     - Read n device registers
    i2cwrite <port> <addr> <byte...>    - Write bytes to a device

  Sensors:
    sonar <trigger> <echo>    - Register an HC-SR04 distance sensor
    dht <pin> <11|22>         - Register a DHT temperature/humidity sensor

  Reporting:
    report <on|off>           - Resume/pause all input reporting
    dreport <pin> <on|off>    - Per-pin digital reporting
    areport <pin> <on|off>    - Per-channel analog reporting
    interval <ms>             - Analog scan interval (0-255 ms)

  General:
    loopback [byte]           - Echo a byte through the firmware
    status                    - Show connection status
    help                      - Show this help
    quit                      - Exit the console

  Numbers accept hex with a 0x prefix: i2cread 0 0x48 0x0b 2`)
}

// pinCallback prints input changes above the prompt as they arrive.
func (c *Console) pinCallback() client.PinCallback {
	return func(e client.PinEvent) {
		fmt.Fprintf(c.rl.Stdout(), "\n[%s] pin %d (%s): %d\n",
			e.Timestamp.Format("15:04:05.000"), e.Pin, e.Mode, e.Value)
		c.rl.Refresh()
	}
}

func (c *Console) cmdDigitalInput(args []string) {
	pin, ok := c.pinArg(args, "dinput <pin>")
	if !ok {
		return
	}
	c.report(c.client.SetPinModeDigitalInput(pin, c.pinCallback()),
		"pin %d is a digital input", pin)
}

func (c *Console) cmdPullup(args []string) {
	pin, ok := c.pinArg(args, "pullup <pin>")
	if !ok {
		return
	}
	c.report(c.client.SetPinModeDigitalInputPullup(pin, c.pinCallback()),
		"pin %d is a digital input with pullup", pin)
}

func (c *Console) cmdDigitalOutput(args []string) {
	pin, ok := c.pinArg(args, "doutput <pin>")
	if !ok {
		return
	}
	c.report(c.client.SetPinModeDigitalOutput(pin), "pin %d is a digital output", pin)
}

func (c *Console) cmdAnalogInput(args []string) {
	if len(args) < 1 || len(args) > 2 {
		c.usage("ainput <pin> [differential]")
		return
	}
	pin, err := parseByte(args[0])
	if err != nil {
		c.printErr(err)
		return
	}
	differential := uint16(1)
	if len(args) == 2 {
		differential, err = parseUint16(args[1])
		if err != nil {
			c.printErr(err)
			return
		}
	}
	c.report(c.client.SetPinModeAnalogInput(pin, differential, c.pinCallback()),
		"analog channel %d scanning (differential %d)", pin, differential)
}

func (c *Console) cmdAnalogOutput(args []string) {
	pin, ok := c.pinArg(args, "aoutput <pin>")
	if !ok {
		return
	}
	c.report(c.client.SetPinModeAnalogOutput(pin), "pin %d is a PWM output", pin)
}

func (c *Console) cmdDigitalWrite(args []string) {
	if len(args) != 2 {
		c.usage("dwrite <pin> <0|1>")
		return
	}
	pin, err := parseByte(args[0])
	if err != nil {
		c.printErr(err)
		return
	}
	value, err := parseByte(args[1])
	if err != nil || value > 1 {
		c.printErr(fmt.Errorf("value must be 0 or 1"))
		return
	}
	c.report(c.client.DigitalWrite(pin, value), "pin %d = %d", pin, value)
}

func (c *Console) cmdAnalogWrite(args []string) {
	if len(args) != 2 {
		c.usage("awrite <pin> <value>")
		return
	}
	pin, err := parseByte(args[0])
	if err != nil {
		c.printErr(err)
		return
	}
	value, err := parseUint16(args[1])
	if err != nil {
		c.printErr(err)
		return
	}
	c.report(c.client.AnalogWrite(pin, value), "pin %d = %d", pin, value)
}

func (c *Console) cmdServo(args []string) {
	if len(args) != 1 && len(args) != 3 {
		c.usage("servo <pin> [min max]")
		return
	}
	pin, err := parseByte(args[0])
	if err != nil {
		c.printErr(err)
		return
	}
	var minPulse, maxPulse uint16
	if len(args) == 3 {
		if minPulse, err = parseUint16(args[1]); err != nil {
			c.printErr(err)
			return
		}
		if maxPulse, err = parseUint16(args[2]); err != nil {
			c.printErr(err)
			return
		}
	}
	c.report(c.client.SetPinModeServo(pin, minPulse, maxPulse), "servo attached to pin %d", pin)
}

func (c *Console) cmdAngle(args []string) {
	if len(args) != 2 {
		c.usage("angle <pin> <degrees>")
		return
	}
	pin, err := parseByte(args[0])
	if err != nil {
		c.printErr(err)
		return
	}
	angle, err := parseByte(args[1])
	if err != nil || angle > 180 {
		c.printErr(fmt.Errorf("angle must be 0-180"))
		return
	}
	c.report(c.client.ServoWrite(pin, angle), "servo %d -> %d degrees", pin, angle)
}

func (c *Console) cmdDetach(args []string) {
	pin, ok := c.pinArg(args, "detach <pin>")
	if !ok {
		return
	}
	c.report(c.client.ServoDetach(pin), "servo on pin %d detached", pin)
}

func (c *Console) cmdI2CBegin(args []string) {
	if len(args) != 1 {
		c.usage("i2c <port>")
		return
	}
	port, err := parseByte(args[0])
	if err != nil {
		c.printErr(err)
		return
	}
	c.report(c.client.SetPinModeI2C(port), "i2c port %d ready", port)
}

func (c *Console) cmdI2CRead(args []string) {
	if len(args) != 4 {
		c.usage("i2cread <port> <addr> <reg> <count>")
		return
	}
	var vals [4]uint8
	for i, a := range args {
		v, err := parseByte(a)
		if err != nil {
			c.printErr(err)
			return
		}
		vals[i] = v
	}
	port, addr, reg, count := vals[0], vals[1], vals[2], vals[3]
	err := c.client.I2CRead(port, addr, reg, count, func(e client.I2CEvent) {
		fmt.Fprintf(c.rl.Stdout(), "\n[%s] i2c %d/0x%02x reg 0x%02x: % x\n",
			e.Timestamp.Format("15:04:05.000"), e.Port, e.Addr, e.Register, e.Data)
		c.rl.Refresh()
	})
	c.report(err, "read requested")
}

func (c *Console) cmdI2CWrite(args []string) {
	if len(args) < 3 {
		c.usage("i2cwrite <port> <addr> <byte...>")
		return
	}
	port, err := parseByte(args[0])
	if err != nil {
		c.printErr(err)
		return
	}
	addr, err := parseByte(args[1])
	if err != nil {
		c.printErr(err)
		return
	}
	data := make([]byte, 0, len(args)-2)
	for _, a := range args[2:] {
		b, err := parseByte(a)
		if err != nil {
			c.printErr(err)
			return
		}
		data = append(data, b)
	}
	c.report(c.client.I2CWrite(port, addr, data...), "%d byte(s) written", len(data))
}

func (c *Console) cmdSonar(args []string) {
	if len(args) != 2 {
		c.usage("sonar <trigger> <echo>")
		return
	}
	trigger, err := parseByte(args[0])
	if err != nil {
		c.printErr(err)
		return
	}
	echo, err := parseByte(args[1])
	if err != nil {
		c.printErr(err)
		return
	}
	err = c.client.SetPinModeSonar(trigger, echo, func(e client.SonarEvent) {
		fmt.Fprintf(c.rl.Stdout(), "\n[%s] sonar %d: %d cm\n",
			e.Timestamp.Format("15:04:05.000"), e.TriggerPin, e.CM)
		c.rl.Refresh()
	})
	c.report(err, "sonar on trigger %d / echo %d", trigger, echo)
}

func (c *Console) cmdDHT(args []string) {
	if len(args) != 2 {
		c.usage("dht <pin> <11|22>")
		return
	}
	pin, err := parseByte(args[0])
	if err != nil {
		c.printErr(err)
		return
	}
	deviceType, err := parseByte(args[1])
	if err != nil || (deviceType != wire.DHT11 && deviceType != wire.DHT22) {
		c.printErr(fmt.Errorf("sensor type must be 11 or 22"))
		return
	}
	err = c.client.SetPinModeDHT(pin, deviceType, func(e client.DHTEvent) {
		if e.Err != nil {
			fmt.Fprintf(c.rl.Stdout(), "\n[%s] dht %d: %v\n",
				e.Timestamp.Format("15:04:05.000"), e.Pin, e.Err)
		} else {
			fmt.Fprintf(c.rl.Stdout(), "\n[%s] dht %d: %.1f%% RH, %.1f C\n",
				e.Timestamp.Format("15:04:05.000"), e.Pin, e.Humidity, e.Temperature)
		}
		c.rl.Refresh()
	})
	c.report(err, "dht%d on pin %d", deviceType, pin)
}

func (c *Console) cmdReport(args []string) {
	on, ok := c.onOffArg(args, 0, "report <on|off>")
	if !ok {
		return
	}
	if on {
		c.report(c.client.EnableAllReports(), "reporting resumed")
	} else {
		c.report(c.client.DisableAllReports(), "reporting paused")
	}
}

func (c *Console) cmdDigitalReport(args []string) {
	if len(args) != 2 {
		c.usage("dreport <pin> <on|off>")
		return
	}
	pin, err := parseByte(args[0])
	if err != nil {
		c.printErr(err)
		return
	}
	on, ok := c.onOffArg(args, 1, "dreport <pin> <on|off>")
	if !ok {
		return
	}
	if on {
		c.report(c.client.EnableDigitalReporting(pin), "pin %d reporting on", pin)
	} else {
		c.report(c.client.DisableDigitalReporting(pin), "pin %d reporting off", pin)
	}
}

func (c *Console) cmdAnalogReport(args []string) {
	if len(args) != 2 {
		c.usage("areport <pin> <on|off>")
		return
	}
	pin, err := parseByte(args[0])
	if err != nil {
		c.printErr(err)
		return
	}
	on, ok := c.onOffArg(args, 1, "areport <pin> <on|off>")
	if !ok {
		return
	}
	if on {
		c.report(c.client.EnableAnalogReporting(pin), "channel %d reporting on", pin)
	} else {
		c.report(c.client.DisableAnalogReporting(pin), "channel %d reporting off", pin)
	}
}

func (c *Console) cmdInterval(args []string) {
	if len(args) != 1 {
		c.usage("interval <ms>")
		return
	}
	ms, err := strconv.Atoi(args[0])
	if err != nil {
		c.printErr(fmt.Errorf("invalid interval %q", args[0]))
		return
	}
	c.report(c.client.SetAnalogScanInterval(ms), "analog scan interval %d ms", ms)
}

func (c *Console) cmdLoopback(args []string) {
	var b byte = 0x42
	if len(args) == 1 {
		var err error
		if b, err = parseByte(args[0]); err != nil {
			c.printErr(err)
			return
		}
	}
	err := c.client.LoopBack(b, func(echoed byte) {
		fmt.Fprintf(c.rl.Stdout(), "\n[loopback] 0x%02x came back\n", echoed)
		c.rl.Refresh()
	})
	c.report(err, "0x%02x sent", b)
}

func (c *Console) cmdStatus() {
	out := c.rl.Stdout()
	fmt.Fprintf(out, "State:    %s\n", c.client.State())
	fmt.Fprintf(out, "Board:    %s\n", c.client.Address())
	fmt.Fprintf(out, "Firmware: %s\n", c.client.FirmwareVersion())
	fmt.Fprintf(out, "Log id:   %s\n", c.client.ConnectionID())
	if c.config.SimMode() {
		fmt.Fprintln(out, "Mode:     simulated board")
	}
	if err := c.client.Err(); err != nil {
		fmt.Fprintf(out, "Error:    %v\n", err)
	}
}

// report prints a confirmation, or the error when the command failed.
func (c *Console) report(err error, format string, args ...any) {
	if err != nil {
		c.printErr(err)
		return
	}
	fmt.Fprintf(c.rl.Stdout(), format+"\n", args...)
}

func (c *Console) printErr(err error) {
	fmt.Fprintf(c.rl.Stdout(), "Error: %v\n", err)
}

func (c *Console) usage(u string) {
	fmt.Fprintf(c.rl.Stdout(), "Usage: %s\n", u)
}

// pinArg parses the single-pin argument form shared by many commands.
func (c *Console) pinArg(args []string, usage string) (uint8, bool) {
	if len(args) != 1 {
		c.usage(usage)
		return 0, false
	}
	pin, err := parseByte(args[0])
	if err != nil {
		c.printErr(err)
		return 0, false
	}
	return pin, true
}

func (c *Console) onOffArg(args []string, index int, usage string) (bool, bool) {
	if len(args) <= index {
		c.usage(usage)
		return false, false
	}
	switch strings.ToLower(args[index]) {
	case "on", "1", "true":
		return true, true
	case "off", "0", "false":
		return false, true
	default:
		c.usage(usage)
		return false, false
	}
}

func parseByte(s string) (uint8, error) {
	v, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q (want 0-255)", s)
	}
	return uint8(v), nil
}

func parseUint16(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid value %q (want 0-65535)", s)
	}
	return uint16(v), nil
}
