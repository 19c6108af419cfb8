// Command fade-example ramps a PWM pin's duty cycle up and down.
//
// This example shows how to:
//   - Connect to a board over serial or TCP
//   - Configure a pin for PWM output
//   - Drive it with timed analog writes
//   - Shut the connection down cleanly on Ctrl-C
//
// Usage:
//
//	go run ./cmd/fade-example [flags]
//
// Flags:
//
//	-serial string  Serial device path (default: auto-detect)
//	-tcp string     Board network address, host[:port]
//	-pin int        PWM-capable pin to fade (default 6)
//	-sim            Talk to a simulated board instead of hardware
//
// Wire an LED (with resistor) to the pin and watch it breathe.
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
	pin := flag.Int("pin", 6, "PWM-capable pin to fade")
	sim := flag.Bool("sim", false, "talk to a simulated board instead of hardware")
	flag.Parse()

	log.SetFlags(log.Ltime | log.Lmicroseconds)

	if *pin < 0 || *pin > 255 {
		log.Fatalf("Pin %d out of range", *pin)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if *sim {
		board := boardsim.New(boardsim.Config{})
		if err := board.Start(); err != nil {
			log.Fatalf("Failed to start simulated board: %v", err)
		}
		defer board.Stop()
		*tcpAddress = board.Addr()
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

	if err := c.SetPinModeAnalogOutput(uint8(*pin)); err != nil {
		log.Fatalf("Failed to set pin mode: %v", err)
	}

	go fade(ctx, c, uint8(*pin))

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

// fade sweeps the duty cycle 0..255..0 until the context is cancelled.
func fade(ctx context.Context, c *client.Client, pin uint8) {
	ticker := time.NewTicker(5 * time.Millisecond)
	defer ticker.Stop()

	level, step := 0, 1
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.AnalogWrite(pin, uint16(level)); err != nil {
				log.Printf("Write failed: %v", err)
				return
			}
			level += step
			if level == 255 {
				log.Println("Fading down...")
				step = -1
			}
			if level == 0 {
				log.Println("Fading up...")
				step = 1
			}
		}
	}
}
