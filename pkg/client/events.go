package client

import (
	"time"

	"github.com/telemetrix-protocol/telemetrix-go/pkg/wire"
)

// PinEvent is one digital or analog input change.
type PinEvent struct {
	// Pin is the reporting pin number.
	Pin uint8

	// Mode is the mode the pin was registered with.
	Mode wire.PinMode

	// Value is 0 or 1 for digital pins, the ADC reading for analog pins.
	Value uint16

	// Timestamp is when the report frame was read.
	Timestamp time.Time
}

// PinCallback receives digital and analog input changes.
type PinCallback func(PinEvent)

// SonarEvent is one distance reading.
type SonarEvent struct {
	// TriggerPin identifies the sensor by its trigger pin.
	TriggerPin uint8

	// CM is the measured distance in centimeters.
	CM uint16

	Timestamp time.Time
}

// SonarCallback receives distance readings.
type SonarCallback func(SonarEvent)

// DHTEvent is one temperature/humidity reading. When the sensor library
// reported a failure instead, Err is set and the readings are zero.
type DHTEvent struct {
	// Pin is the sensor's data pin.
	Pin uint8

	// DeviceType is the sensor model, wire.DHT11 or wire.DHT22.
	DeviceType uint8

	// Humidity in percent, Temperature in degrees Celsius.
	Humidity    float32
	Temperature float32

	// Err carries the sensor error for an error report.
	Err error

	Timestamp time.Time
}

// DHTCallback receives temperature/humidity readings.
type DHTCallback func(DHTEvent)

// I2CEvent is the result of one I2C read.
type I2CEvent struct {
	// Port is the I2C port the device is on.
	Port uint8

	// Addr and Register echo the read request.
	Addr     uint8
	Register uint8

	// Data holds the bytes read from the device.
	Data []byte

	Timestamp time.Time
}

// I2CCallback receives I2C read results.
type I2CCallback func(I2CEvent)

// LoopbackCallback receives the byte echoed by a loopback command.
type LoopbackCallback func(b byte)
