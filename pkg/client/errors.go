package client

import "errors"

// Client errors.
var (
	// ErrNoDeviceFound indicates no candidate port answered the identity
	// probe with the configured instance id.
	ErrNoDeviceFound = errors.New("no board answered the identity probe")

	// ErrHandshakeTimeout indicates the board did not reply to a
	// handshake query within the deadline and attempt budget.
	ErrHandshakeTimeout = errors.New("handshake timed out")

	// ErrCallbackRequired indicates a command that delivers data via
	// callback was given a nil callback.
	ErrCallbackRequired = errors.New("callback required")

	// ErrI2CPortNotActive indicates an I2C operation before the port was
	// activated with SetPinModeI2C.
	ErrI2CPortNotActive = errors.New("i2c port not active")

	// ErrDeviceLimit indicates the firmware has no free slot for another
	// device of this kind.
	ErrDeviceLimit = errors.New("device limit reached")

	// ErrI2CFraming indicates the firmware reported an I2C transfer with
	// the wrong byte count.
	ErrI2CFraming = errors.New("i2c transfer length mismatch")

	// ErrServoUnavailable indicates the firmware could not attach a
	// servo to the requested pin.
	ErrServoUnavailable = errors.New("no servo slot available")

	// ErrProtocol indicates a frame the protocol does not allow: an
	// unknown report type, a report for a pin nothing registered, or a
	// malformed payload. The stream has no sync markers, so the
	// connection cannot be trusted afterwards and is shut down.
	ErrProtocol = errors.New("protocol violation")

	// ErrNotConnected indicates a command on a client that is not
	// connected.
	ErrNotConnected = errors.New("not connected")

	// ErrAlreadyConnected indicates a second Connect on the same client.
	ErrAlreadyConnected = errors.New("already connected")
)
