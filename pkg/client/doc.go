// Package client implements the protocol engine that drives a board
// running the companion firmware.
//
// A Client owns one connection: it finds the board (or is pointed at
// one), performs the startup handshake, then runs a single dispatch
// goroutine that routes every inbound report to the callback registered
// for it. Commands are plain methods; any goroutine may call them
// concurrently.
//
// # Lifecycle
//
//	cfg := client.DefaultConfig()
//	cfg.SerialPort = "/dev/ttyACM0"
//	c, err := client.New(cfg)
//	if err != nil { ... }
//	if err := c.Connect(ctx); err != nil { ... }
//	defer c.Shutdown()
//
//	err = c.SetPinModeDigitalInput(12, func(ev client.PinEvent) {
//		fmt.Printf("pin %d -> %d\n", ev.Pin, ev.Value)
//	})
//
// Connect is one-shot: a Client whose connection ended, for any reason,
// is done; build a new one to reconnect. Done is closed when the
// dispatch loop has exited, and Err reports what killed the connection
// (nil after a plain Shutdown).
//
// # Callbacks
//
// Callbacks run on the dispatch goroutine, one at a time, in wire
// arrival order. A slow callback delays every report behind it; hand
// work off to another goroutine if it is not quick.
package client
