package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telemetrix-protocol/telemetrix-go/pkg/wire"
)

func TestPinModeCommandFrames(t *testing.T) {
	cases := []struct {
		name string
		call func(c *Client) error
		want []byte
	}{
		{
			name: "digital input",
			call: func(c *Client) error { return c.SetPinModeDigitalInput(4, func(PinEvent) {}) },
			want: []byte{1, 4, 0, 1},
		},
		{
			name: "digital input pullup",
			call: func(c *Client) error { return c.SetPinModeDigitalInputPullup(9, func(PinEvent) {}) },
			want: []byte{1, 9, 2, 1},
		},
		{
			name: "digital output",
			call: func(c *Client) error { return c.SetPinModeDigitalOutput(13) },
			want: []byte{1, 13, 1},
		},
		{
			name: "analog output",
			call: func(c *Client) error { return c.SetPinModeAnalogOutput(5) },
			want: []byte{1, 5, 1},
		},
		{
			name: "analog input with differential",
			call: func(c *Client) error { return c.SetPinModeAnalogInput(2, 500, func(PinEvent) {}) },
			want: []byte{1, 2, 3, 0x01, 0xF4, 1},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, board := newTestClient(t, Config{}, false)
			require.NoError(t, tc.call(c))
			assert.Equal(t, tc.want, expectFrame(t, board.frames))
		})
	}
}

func TestOutputCommandFrames(t *testing.T) {
	c, board := newTestClient(t, Config{}, false)

	require.NoError(t, c.DigitalWrite(13, 1))
	assert.Equal(t, []byte{2, 13, 1}, expectFrame(t, board.frames))

	require.NoError(t, c.DigitalWrite(13, 0))
	assert.Equal(t, []byte{2, 13, 0}, expectFrame(t, board.frames))

	require.NoError(t, c.AnalogWrite(9, 1000))
	assert.Equal(t, []byte{3, 9, 0x03, 0xE8}, expectFrame(t, board.frames))
}

func TestServoCommandFrames(t *testing.T) {
	c, board := newTestClient(t, Config{}, false)

	// Zero pulse bounds select the 544/2400 defaults.
	require.NoError(t, c.SetPinModeServo(4, 0, 0))
	assert.Equal(t, []byte{7, 4, 0x02, 0x20, 0x09, 0x60}, expectFrame(t, board.frames))

	require.NoError(t, c.SetPinModeServo(4, 1000, 2000))
	assert.Equal(t, []byte{7, 4, 0x03, 0xE8, 0x07, 0xD0}, expectFrame(t, board.frames))

	require.NoError(t, c.ServoWrite(4, 90))
	assert.Equal(t, []byte{8, 4, 90}, expectFrame(t, board.frames))

	require.NoError(t, c.ServoDetach(4))
	assert.Equal(t, []byte{9, 4}, expectFrame(t, board.frames))
}

func TestI2CCommandFrames(t *testing.T) {
	c, board := newTestClient(t, Config{}, false)

	require.NoError(t, c.SetPinModeI2C(0))
	assert.Equal(t, []byte{10, 0}, expectFrame(t, board.frames))

	// Activation is one-way: a repeat sends nothing.
	require.NoError(t, c.SetPinModeI2C(0))
	expectNoFrame(t, board.frames)

	cb := func(I2CEvent) {}
	require.NoError(t, c.I2CRead(0, 0x48, 0x10, 2, cb))
	assert.Equal(t, []byte{11, 0x48, 0x10, 2, 1, 0}, expectFrame(t, board.frames))

	require.NoError(t, c.I2CReadRestart(0, 0x48, 0x10, 2, cb))
	assert.Equal(t, []byte{11, 0x48, 0x10, 2, 0, 0}, expectFrame(t, board.frames))

	require.NoError(t, c.I2CWrite(0, 0x48, 0xAA, 0xBB))
	assert.Equal(t, []byte{12, 2, 0x48, 0, 0xAA, 0xBB}, expectFrame(t, board.frames))
}

func TestI2CRequiresActivation(t *testing.T) {
	c, board := newTestClient(t, Config{}, false)

	err := c.I2CRead(0, 0x48, 0x10, 2, func(I2CEvent) {})
	assert.ErrorIs(t, err, ErrI2CPortNotActive)

	err = c.I2CWrite(1, 0x48, 0xAA)
	assert.ErrorIs(t, err, ErrI2CPortNotActive)

	expectNoFrame(t, board.frames)
}

func TestI2CPortRange(t *testing.T) {
	c, board := newTestClient(t, Config{}, false)

	assert.Error(t, c.SetPinModeI2C(2))
	assert.Error(t, c.I2CRead(2, 0x48, 0, 1, func(I2CEvent) {}))
	assert.Error(t, c.I2CWrite(2, 0x48, 0xAA))
	expectNoFrame(t, board.frames)
}

func TestDeviceCommandFrames(t *testing.T) {
	c, board := newTestClient(t, Config{}, false)

	require.NoError(t, c.SetPinModeSonar(12, 11, func(SonarEvent) {}))
	assert.Equal(t, []byte{13, 12, 11}, expectFrame(t, board.frames))

	require.NoError(t, c.SetPinModeDHT(8, wire.DHT22, func(DHTEvent) {}))
	assert.Equal(t, []byte{14, 8, 22}, expectFrame(t, board.frames))
}

func TestSonarLimitSendsNothing(t *testing.T) {
	c, board := newTestClient(t, Config{}, false)

	for i := 0; i < wire.MaxSonars; i++ {
		require.NoError(t, c.SetPinModeSonar(uint8(2*i), uint8(2*i+1), func(SonarEvent) {}))
		expectFrame(t, board.frames)
	}

	err := c.SetPinModeSonar(30, 31, func(SonarEvent) {})
	assert.ErrorIs(t, err, ErrDeviceLimit)
	expectNoFrame(t, board.frames)
}

func TestDHTLimitSendsNothing(t *testing.T) {
	c, board := newTestClient(t, Config{}, false)

	for i := 0; i < wire.MaxDHTs; i++ {
		require.NoError(t, c.SetPinModeDHT(uint8(i), wire.DHT11, func(DHTEvent) {}))
		expectFrame(t, board.frames)
	}

	err := c.SetPinModeDHT(30, wire.DHT11, func(DHTEvent) {})
	assert.ErrorIs(t, err, ErrDeviceLimit)
	expectNoFrame(t, board.frames)
}

func TestReportingControlFrames(t *testing.T) {
	c, board := newTestClient(t, Config{}, false)

	require.NoError(t, c.EnableAllReports())
	assert.Equal(t, []byte{17}, expectFrame(t, board.frames))

	require.NoError(t, c.DisableAllReports())
	assert.Equal(t, []byte{4, 0, 0}, expectFrame(t, board.frames))

	require.NoError(t, c.EnableDigitalReporting(6))
	assert.Equal(t, []byte{4, 2, 6}, expectFrame(t, board.frames))

	require.NoError(t, c.DisableDigitalReporting(6))
	assert.Equal(t, []byte{4, 4, 6}, expectFrame(t, board.frames))

	require.NoError(t, c.EnableAnalogReporting(2))
	assert.Equal(t, []byte{4, 1, 2}, expectFrame(t, board.frames))

	require.NoError(t, c.DisableAnalogReporting(2))
	assert.Equal(t, []byte{4, 3, 2}, expectFrame(t, board.frames))
}

func TestSetAnalogScanInterval(t *testing.T) {
	c, board := newTestClient(t, Config{}, false)

	require.NoError(t, c.SetAnalogScanInterval(19))
	assert.Equal(t, []byte{16, 19}, expectFrame(t, board.frames))

	require.NoError(t, c.SetAnalogScanInterval(0))
	assert.Equal(t, []byte{16, 0}, expectFrame(t, board.frames))

	require.NoError(t, c.SetAnalogScanInterval(255))
	assert.Equal(t, []byte{16, 255}, expectFrame(t, board.frames))

	assert.Error(t, c.SetAnalogScanInterval(-1))
	assert.Error(t, c.SetAnalogScanInterval(256))
	expectNoFrame(t, board.frames)
}

func TestLoopBackFrame(t *testing.T) {
	c, board := newTestClient(t, Config{}, false)

	require.NoError(t, c.LoopBack(0x42, func(byte) {}))
	assert.Equal(t, []byte{0, 0x42}, expectFrame(t, board.frames))
}

func TestCallbackRequired(t *testing.T) {
	c, board := newTestClient(t, Config{}, false)

	cases := map[string]func() error{
		"digital input": func() error { return c.SetPinModeDigitalInput(2, nil) },
		"pullup input":  func() error { return c.SetPinModeDigitalInputPullup(2, nil) },
		"analog input":  func() error { return c.SetPinModeAnalogInput(2, 0, nil) },
		"sonar":         func() error { return c.SetPinModeSonar(12, 11, nil) },
		"dht":           func() error { return c.SetPinModeDHT(8, wire.DHT22, nil) },
		"i2c read":      func() error { return c.I2CRead(0, 0x48, 0, 2, nil) },
		"loopback":      func() error { return c.LoopBack(0x42, nil) },
	}

	for name, call := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, call(), ErrCallbackRequired)
		})
	}
	expectNoFrame(t, board.frames)
}

func TestCommandsRequireConnection(t *testing.T) {
	c, err := New(Config{})
	require.NoError(t, err)

	pinCb := func(PinEvent) {}
	cases := map[string]func() error{
		"digital input":     func() error { return c.SetPinModeDigitalInput(2, pinCb) },
		"pullup input":      func() error { return c.SetPinModeDigitalInputPullup(2, pinCb) },
		"digital output":    func() error { return c.SetPinModeDigitalOutput(13) },
		"analog input":      func() error { return c.SetPinModeAnalogInput(2, 0, pinCb) },
		"analog output":     func() error { return c.SetPinModeAnalogOutput(5) },
		"digital write":     func() error { return c.DigitalWrite(13, 1) },
		"analog write":      func() error { return c.AnalogWrite(9, 128) },
		"servo attach":      func() error { return c.SetPinModeServo(4, 0, 0) },
		"servo write":       func() error { return c.ServoWrite(4, 90) },
		"servo detach":      func() error { return c.ServoDetach(4) },
		"i2c begin":         func() error { return c.SetPinModeI2C(0) },
		"i2c read":          func() error { return c.I2CRead(0, 0x48, 0, 2, func(I2CEvent) {}) },
		"i2c write":         func() error { return c.I2CWrite(0, 0x48, 0xAA) },
		"sonar":             func() error { return c.SetPinModeSonar(12, 11, func(SonarEvent) {}) },
		"dht":               func() error { return c.SetPinModeDHT(8, wire.DHT22, func(DHTEvent) {}) },
		"enable reports":    func() error { return c.EnableAllReports() },
		"disable reports":   func() error { return c.DisableAllReports() },
		"digital reporting": func() error { return c.EnableDigitalReporting(6) },
		"analog reporting":  func() error { return c.DisableAnalogReporting(2) },
		"scan interval":     func() error { return c.SetAnalogScanInterval(19) },
		"loopback":          func() error { return c.LoopBack(0x42, func(byte) {}) },
	}

	for name, call := range cases {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, call(), ErrNotConnected)
		})
	}
}
