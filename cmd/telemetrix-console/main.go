// Command telemetrix-console is an interactive console for boards
// running the companion firmware.
//
// It connects over a serial port (auto-detected or explicit) or TCP,
// then accepts commands to configure pins, drive outputs, register
// sensors and watch their reports arrive. Useful for bringing up new
// boards and for poking at wiring without writing a program.
//
// Usage:
//
//	telemetrix-console [flags]
//
// Flags:
//
//	-serial string    Serial device path (default: auto-detect)
//	-baud int         Serial baud rate (default 115200)
//	-tcp string       Board network address, host[:port]
//	-instance int     Board instance id (default 1)
//	-settle duration  Power-on reset wait after opening serial (default 4s)
//	-yield duration   Dispatch loop yield between reports (default 100µs)
//	-config string    YAML configuration file path
//	-log-file string  Write protocol events to a CBOR log file
//	-log-level string Log level: debug, info, warn, error (default "info")
//	-sim              Talk to a simulated board instead of hardware
//
// Examples:
//
//	# Auto-detect a USB-attached board
//	telemetrix-console
//
//	# Wireless board, protocol event log for later inspection
//	telemetrix-console -tcp 192.168.4.1 -log-file session.cbor
//
//	# No hardware at hand
//	telemetrix-console -sim -log-level debug
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/telemetrix-protocol/telemetrix-go/cmd/telemetrix-console/interactive"
	"github.com/telemetrix-protocol/telemetrix-go/internal/boardsim"
	"github.com/telemetrix-protocol/telemetrix-go/pkg/client"
	"github.com/telemetrix-protocol/telemetrix-go/pkg/version"
)

func main() {
	parseFlags()

	setupLogging(config.LogLevel)

	log.Println("Telemetrix Console")
	log.Println("==================")
	log.Printf("Library version: %s", version.Library)

	if err := validateConfig(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// A simulated board stands in for hardware: it listens on a
	// loopback port and the client dials it like any network board.
	var board *boardsim.Board
	if config.Sim {
		board = boardsim.New(boardsim.Config{InstanceID: config.InstanceID})
		if err := board.Start(); err != nil {
			log.Fatalf("Failed to start simulated board: %v", err)
		}
		defer board.Stop()
		config.TCPAddress = board.Addr()
		go board.Simulate(ctx, config.SimInterval)
		log.Printf("Simulated board listening on %s", board.Addr())
	}

	eventLogger, closeLogger, err := buildEventLogger()
	if err != nil {
		log.Fatalf("Failed to set up protocol logging: %v", err)
	}
	defer closeLogger()

	c, err := client.New(client.Config{
		SerialPort:    config.SerialPort,
		BaudRate:      config.BaudRate,
		TCPAddress:    config.TCPAddress,
		InstanceID:    config.InstanceID,
		SettleTime:    config.SettleTime,
		ReplyTimeout:  config.ReplyTimeout,
		DispatchYield: config.DispatchYield,
		Logger:        eventLogger,
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

	ic, err := interactive.New(c, &config)
	if err != nil {
		log.Fatalf("Failed to create console: %v", err)
	}
	// Redirect log output through readline to avoid interfering with input
	log.SetOutput(ic.Stdout())
	go ic.Run(ctx, cancel)

	// Wait for shutdown signal or context cancellation
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Printf("Received signal: %v", sig)
	case <-ctx.Done():
		// Cancelled by the quit command or a dead connection.
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

func setupLogging(level string) {
	log.SetFlags(log.Ltime | log.Lmicroseconds)

	switch level {
	case "debug":
		log.SetFlags(log.Ltime | log.Lmicroseconds | log.Lshortfile)
	case "warn", "error":
		log.SetFlags(log.Ltime)
	}
}
