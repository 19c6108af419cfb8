package wire

// CommandID identifies a command sent to the firmware.
type CommandID uint8

// Commands understood by the companion firmware. The values are fixed by
// the firmware's command table and must never be renumbered.
const (
	// CmdLoopback echoes a single byte back as a loopback report.
	CmdLoopback CommandID = 0

	// CmdSetPinMode configures a pin as digital/analog input or output.
	CmdSetPinMode CommandID = 1

	// CmdDigitalWrite sets a digital output pin to 0 or 1.
	CmdDigitalWrite CommandID = 2

	// CmdAnalogWrite sets a PWM output value (16-bit, big-endian).
	CmdAnalogWrite CommandID = 3

	// CmdModifyReporting enables or disables input reporting, globally or
	// per pin.
	CmdModifyReporting CommandID = 4

	// CmdFirmwareVersion requests a firmware version report.
	CmdFirmwareVersion CommandID = 5

	// CmdAreYouThere probes for a board; the firmware answers with an
	// identity report carrying its instance ID.
	CmdAreYouThere CommandID = 6

	// CmdServoAttach attaches a servo to a pin with min/max pulse widths.
	CmdServoAttach CommandID = 7

	// CmdServoWrite positions an attached servo (angle 0-180).
	CmdServoWrite CommandID = 8

	// CmdServoDetach releases a servo for reuse.
	CmdServoDetach CommandID = 9

	// CmdI2CBegin initializes one of the two I2C ports.
	CmdI2CBegin CommandID = 10

	// CmdI2CRead reads registers from an I2C device.
	CmdI2CRead CommandID = 11

	// CmdI2CWrite writes bytes to an I2C device.
	CmdI2CWrite CommandID = 12

	// CmdSonarNew registers an HC-SR04 style distance sensor.
	CmdSonarNew CommandID = 13

	// CmdDHTNew registers a DHT temperature/humidity sensor.
	CmdDHTNew CommandID = 14

	// CmdStopAllReports tells the firmware to stop sending reports.
	CmdStopAllReports CommandID = 15

	// CmdAnalogScanInterval sets the analog input scan interval (0-255 ms).
	CmdAnalogScanInterval CommandID = 16

	// CmdEnableAllReports tells the firmware to resume sending reports.
	CmdEnableAllReports CommandID = 17

	// CmdReset asks the firmware to reset its internal state.
	CmdReset CommandID = 18
)

// String returns the command name.
func (c CommandID) String() string {
	switch c {
	case CmdLoopback:
		return "LOOPBACK"
	case CmdSetPinMode:
		return "SET_PIN_MODE"
	case CmdDigitalWrite:
		return "DIGITAL_WRITE"
	case CmdAnalogWrite:
		return "ANALOG_WRITE"
	case CmdModifyReporting:
		return "MODIFY_REPORTING"
	case CmdFirmwareVersion:
		return "FIRMWARE_VERSION"
	case CmdAreYouThere:
		return "ARE_YOU_THERE"
	case CmdServoAttach:
		return "SERVO_ATTACH"
	case CmdServoWrite:
		return "SERVO_WRITE"
	case CmdServoDetach:
		return "SERVO_DETACH"
	case CmdI2CBegin:
		return "I2C_BEGIN"
	case CmdI2CRead:
		return "I2C_READ"
	case CmdI2CWrite:
		return "I2C_WRITE"
	case CmdSonarNew:
		return "SONAR_NEW"
	case CmdDHTNew:
		return "DHT_NEW"
	case CmdStopAllReports:
		return "STOP_ALL_REPORTS"
	case CmdAnalogScanInterval:
		return "ANALOG_SCAN_INTERVAL"
	case CmdEnableAllReports:
		return "ENABLE_ALL_REPORTS"
	case CmdReset:
		return "RESET"
	default:
		return "UNKNOWN"
	}
}

// PinMode is the mode byte carried by a set-pin-mode command.
type PinMode uint8

const (
	// PinModeDigitalInput reads a pin as a digital input.
	PinModeDigitalInput PinMode = 0

	// PinModeDigitalOutput drives a pin as a digital or PWM output.
	PinModeDigitalOutput PinMode = 1

	// PinModeInputPullup reads a pin as a digital input with the internal
	// pullup resistor enabled.
	PinModeInputPullup PinMode = 2

	// PinModeAnalogInput reads a pin through the ADC.
	PinModeAnalogInput PinMode = 3

	// PinModeNotSet marks a pin the firmware has not configured yet.
	PinModeNotSet PinMode = 255
)

// String returns the pin mode name.
func (m PinMode) String() string {
	switch m {
	case PinModeDigitalInput:
		return "DIGITAL_INPUT"
	case PinModeDigitalOutput:
		return "DIGITAL_OUTPUT"
	case PinModeInputPullup:
		return "INPUT_PULLUP"
	case PinModeAnalogInput:
		return "ANALOG_INPUT"
	case PinModeNotSet:
		return "NOT_SET"
	default:
		return "UNKNOWN"
	}
}

// ReportingChange selects what a modify-reporting command toggles.
type ReportingChange uint8

const (
	// ReportingDisableAll stops digital and analog input reporting.
	ReportingDisableAll ReportingChange = 0

	// ReportingAnalogEnable resumes reporting for one analog pin.
	ReportingAnalogEnable ReportingChange = 1

	// ReportingDigitalEnable resumes reporting for one digital pin.
	ReportingDigitalEnable ReportingChange = 2

	// ReportingAnalogDisable stops reporting for one analog pin.
	ReportingAnalogDisable ReportingChange = 3

	// ReportingDigitalDisable stops reporting for one digital pin.
	ReportingDigitalDisable ReportingChange = 4
)

// String returns the reporting change name.
func (r ReportingChange) String() string {
	switch r {
	case ReportingDisableAll:
		return "DISABLE_ALL"
	case ReportingAnalogEnable:
		return "ANALOG_ENABLE"
	case ReportingDigitalEnable:
		return "DIGITAL_ENABLE"
	case ReportingAnalogDisable:
		return "ANALOG_DISABLE"
	case ReportingDigitalDisable:
		return "DIGITAL_DISABLE"
	default:
		return "UNKNOWN"
	}
}

// Supported DHT sensor models, sent with a new-DHT command and echoed in
// every DHT report.
const (
	DHT11 uint8 = 11
	DHT22 uint8 = 22
)

// Device slots the firmware statically allocates.
const (
	MaxSonars = 6
	MaxDHTs   = 6
)

// I2CPortCount is the number of independent I2C ports (0 and 1).
const I2CPortCount = 2

// Servo pulse width defaults in microseconds, matching the firmware's
// servo library defaults.
const (
	ServoDefaultMinPulse = 544
	ServoDefaultMaxPulse = 2400
)
