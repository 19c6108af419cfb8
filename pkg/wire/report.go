package wire

import "time"

// ReportID identifies an asynchronous report sent by the firmware.
type ReportID uint8

// Reports emitted by the companion firmware. Several values mirror the
// command that solicits them.
const (
	// ReportLoopback carries the byte echoed by a loopback command.
	ReportLoopback ReportID = 0

	// ReportDigital carries a digital input change: [pin][value].
	ReportDigital ReportID = 2

	// ReportAnalog carries an analog input change: [pin][high][low].
	ReportAnalog ReportID = 3

	// ReportFirmwareVersion answers a firmware version query: [major][minor].
	ReportFirmwareVersion ReportID = 5

	// ReportIAmHere answers an identity probe: [instance id].
	ReportIAmHere ReportID = 6

	// ReportServoUnavailable signals a failed servo attach: [pin].
	ReportServoUnavailable ReportID = 7

	// ReportI2CTooFewBytes signals a short I2C transfer: [port][address].
	ReportI2CTooFewBytes ReportID = 8

	// ReportI2CTooManyBytes signals an overlong I2C transfer: [port][address].
	ReportI2CTooManyBytes ReportID = 9

	// ReportI2CRead carries I2C read results:
	// [port][count][address][register][data...].
	ReportI2CRead ReportID = 10

	// ReportSonarDistance carries a distance reading: [trigger pin][high][low].
	ReportSonarDistance ReportID = 11

	// ReportDHT carries a DHT reading or error:
	// [sub-type][pin][dht type] then [humidity x4][temperature x4] or [error].
	ReportDHT ReportID = 12

	// ReportDebugPrint carries a debug marker from the sketch: [id][high][low].
	ReportDebugPrint ReportID = 99
)

// String returns the report name.
func (r ReportID) String() string {
	switch r {
	case ReportLoopback:
		return "LOOPBACK"
	case ReportDigital:
		return "DIGITAL"
	case ReportAnalog:
		return "ANALOG"
	case ReportFirmwareVersion:
		return "FIRMWARE_VERSION"
	case ReportIAmHere:
		return "I_AM_HERE"
	case ReportServoUnavailable:
		return "SERVO_UNAVAILABLE"
	case ReportI2CTooFewBytes:
		return "I2C_TOO_FEW_BYTES"
	case ReportI2CTooManyBytes:
		return "I2C_TOO_MANY_BYTES"
	case ReportI2CRead:
		return "I2C_READ"
	case ReportSonarDistance:
		return "SONAR_DISTANCE"
	case ReportDHT:
		return "DHT"
	case ReportDebugPrint:
		return "DEBUG_PRINT"
	default:
		return "UNKNOWN"
	}
}

// DHT report sub-types, the first payload byte of a DHT report.
const (
	// DHTData marks a report carrying humidity and temperature floats.
	DHTData uint8 = 0

	// DHTError marks a report carrying a sensor library error code.
	DHTError uint8 = 1
)

// Report is one decoded inbound frame. Payload holds the bytes after the
// report type; it is freshly allocated per frame and owned by the receiver.
type Report struct {
	Type       ReportID
	Payload    []byte
	ReceivedAt time.Time
}
