package client

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telemetrix-protocol/telemetrix-go/pkg/log"
	"github.com/telemetrix-protocol/telemetrix-go/pkg/wire"
)

func TestDispatchDigitalReport(t *testing.T) {
	c, board := newTestClient(t, Config{}, true)

	events := make(chan PinEvent, 2)
	require.NoError(t, c.SetPinModeDigitalInput(4, func(e PinEvent) { events <- e }))
	expectFrame(t, board.frames)

	board.send(t, wire.ReportDigital, 4, 1)

	e := waitFor(t, events, "the digital pin event")
	assert.Equal(t, uint8(4), e.Pin)
	assert.Equal(t, wire.PinModeDigitalInput, e.Mode)
	assert.Equal(t, uint16(1), e.Value)
	assert.False(t, e.Timestamp.IsZero())
}

func TestDispatchPullupMode(t *testing.T) {
	c, board := newTestClient(t, Config{}, true)

	events := make(chan PinEvent, 1)
	require.NoError(t, c.SetPinModeDigitalInputPullup(9, func(e PinEvent) { events <- e }))
	expectFrame(t, board.frames)

	board.send(t, wire.ReportDigital, 9, 0)

	e := waitFor(t, events, "the pullup pin event")
	assert.Equal(t, wire.PinModeInputPullup, e.Mode)
	assert.Equal(t, uint16(0), e.Value)
}

func TestDispatchAnalogReport(t *testing.T) {
	c, board := newTestClient(t, Config{}, true)

	events := make(chan PinEvent, 2)
	require.NoError(t, c.SetPinModeAnalogInput(2, 5, func(e PinEvent) { events <- e }))
	expectFrame(t, board.frames)

	board.send(t, wire.ReportAnalog, 2, 0x03, 0x21)

	e := waitFor(t, events, "the analog pin event")
	assert.Equal(t, uint8(2), e.Pin)
	assert.Equal(t, wire.PinModeAnalogInput, e.Mode)
	assert.Equal(t, uint16(801), e.Value)

	// Exactly one callback per report.
	select {
	case extra := <-events:
		t.Fatalf("unexpected second event %+v", extra)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDispatchSonarReport(t *testing.T) {
	c, board := newTestClient(t, Config{}, true)

	events := make(chan SonarEvent, 1)
	require.NoError(t, c.SetPinModeSonar(12, 11, func(e SonarEvent) { events <- e }))
	expectFrame(t, board.frames)

	board.send(t, wire.ReportSonarDistance, 12, 0, 47)

	e := waitFor(t, events, "the sonar event")
	assert.Equal(t, uint8(12), e.TriggerPin)
	assert.Equal(t, uint16(47), e.CM)
}

func TestDispatchDHTReading(t *testing.T) {
	c, board := newTestClient(t, Config{}, true)

	events := make(chan DHTEvent, 1)
	require.NoError(t, c.SetPinModeDHT(8, wire.DHT22, func(e DHTEvent) { events <- e }))
	expectFrame(t, board.frames)

	// 55.5 and 21.0 as little-endian IEEE-754.
	board.send(t, wire.ReportDHT, wire.DHTData, 8, 22,
		0x00, 0x00, 0x5E, 0x42,
		0x00, 0x00, 0xA8, 0x41)

	e := waitFor(t, events, "the dht reading")
	assert.Equal(t, uint8(8), e.Pin)
	assert.Equal(t, uint8(22), e.DeviceType)
	assert.Equal(t, float32(55.5), e.Humidity)
	assert.Equal(t, float32(21.0), e.Temperature)
	assert.NoError(t, e.Err)
}

func TestDispatchDHTSensorError(t *testing.T) {
	c, board := newTestClient(t, Config{}, true)

	events := make(chan DHTEvent, 1)
	require.NoError(t, c.SetPinModeDHT(8, wire.DHT22, func(e DHTEvent) { events <- e }))
	expectFrame(t, board.frames)

	board.send(t, wire.ReportDHT, wire.DHTError, 8, 22, 3)

	e := waitFor(t, events, "the dht error event")
	assert.Error(t, e.Err)
	assert.Zero(t, e.Humidity)
	assert.Zero(t, e.Temperature)

	// A sensor error is not a connection error.
	assert.NoError(t, c.Err())
}

func TestDispatchI2CPortRouting(t *testing.T) {
	c, board := newTestClient(t, Config{}, true)

	require.NoError(t, c.SetPinModeI2C(0))
	expectFrame(t, board.frames)
	require.NoError(t, c.SetPinModeI2C(1))
	expectFrame(t, board.frames)

	port0 := make(chan I2CEvent, 1)
	port1 := make(chan I2CEvent, 1)
	require.NoError(t, c.I2CRead(0, 0x48, 0x10, 2, func(e I2CEvent) { port0 <- e }))
	expectFrame(t, board.frames)
	require.NoError(t, c.I2CRead(1, 0x70, 0x00, 1, func(e I2CEvent) { port1 <- e }))
	expectFrame(t, board.frames)

	board.send(t, wire.ReportI2CRead, 0, 2, 0x48, 0x10, 0xDE, 0xAD)

	e := waitFor(t, port0, "the port 0 i2c reply")
	assert.Equal(t, uint8(0), e.Port)
	assert.Equal(t, uint8(0x48), e.Addr)
	assert.Equal(t, uint8(0x10), e.Register)
	assert.Equal(t, []byte{0xDE, 0xAD}, e.Data)

	select {
	case <-port1:
		t.Fatal("port 1 callback ran for a port 0 report")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestDispatchLoopbackEcho(t *testing.T) {
	c, board := newTestClient(t, Config{}, true)

	echoes := make(chan byte, 1)
	require.NoError(t, c.LoopBack(0x5A, func(b byte) { echoes <- b }))
	assert.Equal(t, []byte{0, 0x5A}, expectFrame(t, board.frames))

	board.send(t, wire.ReportLoopback, 0x5A)
	assert.Equal(t, byte(0x5A), waitFor(t, echoes, "the loopback echo"))
}

func TestDispatchStrayHandshakeReportsIgnored(t *testing.T) {
	c, board := newTestClient(t, Config{}, true)

	// Late duplicates from a retried handshake query.
	board.send(t, wire.ReportFirmwareVersion, 1, 4)
	board.send(t, wire.ReportIAmHere, 1)

	// The connection is still alive.
	echoes := make(chan byte, 1)
	require.NoError(t, c.LoopBack(0x11, func(b byte) { echoes <- b }))
	expectFrame(t, board.frames)
	board.send(t, wire.ReportLoopback, 0x11)
	waitFor(t, echoes, "the loopback echo")
	assert.NoError(t, c.Err())
}

func TestDispatchDebugPrintLogged(t *testing.T) {
	logger := &capturingLogger{}
	c, board := newTestClient(t, Config{Logger: logger}, true)

	board.send(t, wire.ReportDebugPrint, 7, 0x03, 0xE8)

	// Prove the debug report was consumed without ending the connection.
	echoes := make(chan byte, 1)
	require.NoError(t, c.LoopBack(0x22, func(b byte) { echoes <- b }))
	expectFrame(t, board.frames)
	board.send(t, wire.ReportLoopback, 0x22)
	waitFor(t, echoes, "the loopback echo")

	var debug *log.DebugEvent
	for _, event := range logger.Events() {
		if event.Category == log.CategoryDebug {
			debug = event.Debug
		}
	}
	require.NotNil(t, debug)
	assert.Equal(t, uint8(7), debug.ID)
	assert.Equal(t, uint16(1000), debug.Value)
	assert.NoError(t, c.Err())
}

// A report that cannot be routed is treated as stream corruption rather
// than dropped. The framing has no resync point, so an unroutable report
// means the client and the firmware disagree about what is registered.
func TestDispatchFatalReports(t *testing.T) {
	cases := []struct {
		name    string
		arrange func(t *testing.T, c *Client, board *fakeBoard)
		report  wire.ReportID
		payload []byte
		wantErr error
	}{
		{
			name:    "unknown report type",
			report:  wire.ReportID(42),
			payload: []byte{0x01},
			wantErr: ErrProtocol,
		},
		{
			name:    "digital report for unregistered pin",
			report:  wire.ReportDigital,
			payload: []byte{5, 1},
			wantErr: ErrProtocol,
		},
		{
			name:    "analog report for unregistered pin",
			report:  wire.ReportAnalog,
			payload: []byte{3, 0x01, 0x00},
			wantErr: ErrProtocol,
		},
		{
			name: "malformed digital payload",
			arrange: func(t *testing.T, c *Client, board *fakeBoard) {
				require.NoError(t, c.SetPinModeDigitalInput(4, func(PinEvent) {}))
				expectFrame(t, board.frames)
			},
			report:  wire.ReportDigital,
			payload: []byte{4},
			wantErr: ErrProtocol,
		},
		{
			name: "dht report with unknown subtype",
			arrange: func(t *testing.T, c *Client, board *fakeBoard) {
				require.NoError(t, c.SetPinModeDHT(8, wire.DHT22, func(DHTEvent) {}))
				expectFrame(t, board.frames)
			},
			report:  wire.ReportDHT,
			payload: []byte{7, 8, 22},
			wantErr: ErrProtocol,
		},
		{
			name:    "i2c too few bytes",
			report:  wire.ReportI2CTooFewBytes,
			payload: []byte{0, 0x48},
			wantErr: ErrI2CFraming,
		},
		{
			name:    "i2c too many bytes",
			report:  wire.ReportI2CTooManyBytes,
			payload: []byte{0, 0x48},
			wantErr: ErrI2CFraming,
		},
		{
			name:    "servo unavailable",
			report:  wire.ReportServoUnavailable,
			payload: []byte{4},
			wantErr: ErrServoUnavailable,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			errs := make(chan error, 1)
			c, board := newTestClient(t, Config{OnError: func(err error) { errs <- err }}, true)
			if tc.arrange != nil {
				tc.arrange(t, c, board)
			}

			board.send(t, tc.report, tc.payload...)

			waitDone(t, c)
			assert.ErrorIs(t, c.Err(), tc.wantErr)
			assert.Equal(t, StateShutdown, c.State())
			assert.ErrorIs(t, waitFor(t, errs, "the OnError hook"), tc.wantErr)
		})
	}
}

func TestShutdownStopsReportsOnce(t *testing.T) {
	c, board := newTestClient(t, Config{}, true)

	c.Shutdown()
	assert.Equal(t, []byte{15}, expectFrame(t, board.frames))

	c.Shutdown()
	expectNoFrame(t, board.frames)

	waitDone(t, c)
	assert.NoError(t, c.Err())
	assert.Equal(t, StateShutdown, c.State())
}

func TestShutdownFromCallback(t *testing.T) {
	c, board := newTestClient(t, Config{}, true)

	events := make(chan PinEvent, 1)
	require.NoError(t, c.SetPinModeDigitalInput(4, func(e PinEvent) {
		c.Shutdown()
		events <- e
	}))
	expectFrame(t, board.frames)

	board.send(t, wire.ReportDigital, 4, 1)

	waitFor(t, events, "the pin event")
	waitDone(t, c)
	assert.NoError(t, c.Err())
}

func TestCommandsAfterShutdown(t *testing.T) {
	c, board := newTestClient(t, Config{}, true)

	c.Shutdown()
	expectFrame(t, board.frames)
	waitDone(t, c)

	assert.ErrorIs(t, c.DigitalWrite(13, 1), ErrNotConnected)
	expectNoFrame(t, board.frames)
}
