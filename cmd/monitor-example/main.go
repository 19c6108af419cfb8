// Command monitor-example watches a digital input and an analog input
// and prints every change the firmware reports.
//
// This example shows how to:
//   - Register input pins with callbacks
//   - Use the pullup mode for switches wired to ground
//   - Cut analog noise with a reporting differential
//   - React to reports as they arrive
//
// Usage:
//
//	go run ./cmd/monitor-example [flags]
//
// Flags:
//
//	-serial string     Serial device path (default: auto-detect)
//	-tcp string        Board network address, host[:port]
//	-digital-pin int   Digital input pin, pullup wiring (default 12)
//	-analog-pin int    Analog input channel (default 2)
//	-differential int  Minimum analog change worth reporting (default 5)
//	-sim               Talk to a simulated board instead of hardware
//
// With -sim the simulated board toggles the switch and sweeps the
// analog channel, so the output moves without any wiring.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/telemetrix-protocol/telemetrix-go/internal/boardsim"
	"github.com/telemetrix-protocol/telemetrix-go/pkg/client"
)

func main() {
	serialPort := flag.String("serial", "", "serial device path (default: auto-detect)")
	tcpAddress := flag.String("tcp", "", "board network address, host[:port]")
	digitalPin := flag.Int("digital-pin", 12, "digital input pin, pullup wiring")
	analogPin := flag.Int("analog-pin", 2, "analog input channel")
	differential := flag.Int("differential", 5, "minimum analog change worth reporting")
	sim := flag.Bool("sim", false, "talk to a simulated board instead of hardware")
	flag.Parse()

	log.SetFlags(log.Ltime | log.Lmicroseconds)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *sim {
		board := boardsim.New(boardsim.Config{})
		if err := board.Start(); err != nil {
			log.Fatalf("Failed to start simulated board: %v", err)
		}
		defer board.Stop()
		*tcpAddress = board.Addr()
		go board.Simulate(ctx, 500*time.Millisecond)
		log.Printf("Simulated board listening on %s", board.Addr())
	}

	c, err := client.New(client.Config{
		SerialPort: *serialPort,
		TCPAddress: *tcpAddress,
		OnError: func(err error) {
			log.Printf("Connection died: %v", err)
			cancel()
		},
	})
	if err != nil {
		log.Fatalf("Invalid client configuration: %v", err)
	}

	log.Println("Connecting...")
	if err := c.Connect(ctx); err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	log.Printf("Connected, firmware %s", c.FirmwareVersion())

	err = c.SetPinModeDigitalInputPullup(uint8(*digitalPin), func(e client.PinEvent) {
		state := "released"
		if e.Value == 0 {
			state = "pressed" // pullup wiring reads 0 when the switch closes
		}
		log.Printf("Switch on pin %d: %s (%s)", e.Pin, state, e.Timestamp.Format("15:04:05.000"))
	})
	if err != nil {
		log.Fatalf("Failed to register digital input: %v", err)
	}

	err = c.SetPinModeAnalogInput(uint8(*analogPin), uint16(*differential), func(e client.PinEvent) {
		log.Printf("Analog channel %d: %d (%s)", e.Pin, e.Value, e.Timestamp.Format("15:04:05.000"))
	})
	if err != nil {
		log.Fatalf("Failed to register analog input: %v", err)
	}

	log.Printf("Monitoring pin %d and channel %d, Ctrl-C to stop", *digitalPin, *analogPin)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("Received signal: %v", sig)
	case <-ctx.Done():
	}

	log.Println("Shutting down...")
	c.Shutdown()
	select {
	case <-c.Done():
	case <-time.After(5 * time.Second):
		log.Println("Timed out waiting for dispatch to stop")
	}
	log.Println("Goodbye!")
}
