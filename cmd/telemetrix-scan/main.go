// Command telemetrix-scan lists boards reachable from this machine.
//
// It enumerates USB serial ports whose vendor IDs look like common
// microcontroller development boards, and browses mDNS for network
// firmware variants advertising _telemetrix._tcp.
//
// Usage:
//
//	telemetrix-scan [flags]
//
// Flags:
//
//	-serial          Scan USB serial ports only
//	-network         Browse the network only
//	-iface string    Network interface to browse on (default: all)
//	-timeout duration
//	                 How long to browse for network boards (default 3s)
//
// Examples:
//
//	# List serial candidates and network boards
//	telemetrix-scan
//
//	# Longer browse on one interface
//	telemetrix-scan -network -iface eth0 -timeout 10s
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/telemetrix-protocol/telemetrix-go/pkg/discovery"
)

var config struct {
	SerialOnly  bool
	NetworkOnly bool
	Interface   string
	Timeout     time.Duration
}

func init() {
	flag.BoolVar(&config.SerialOnly, "serial", false, "Scan USB serial ports only")
	flag.BoolVar(&config.NetworkOnly, "network", false, "Browse the network only")
	flag.StringVar(&config.Interface, "iface", "", "Network interface to browse on (default: all)")
	flag.DurationVar(&config.Timeout, "timeout", 3*time.Second, "How long to browse for network boards")
}

func main() {
	flag.Parse()

	if err := validateConfig(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		flag.Usage()
		os.Exit(2)
	}

	exitCode := 0

	if !config.NetworkOnly {
		fmt.Println("USB serial candidates:")
		if err := runSerialScan(discovery.USBPorts{}, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = 1
		}
	}

	if !config.SerialOnly {
		if !config.NetworkOnly {
			fmt.Println()
		}
		fmt.Printf("Network boards (%s, browsing %s):\n", discovery.ServiceTypeBoard, config.Timeout)

		ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
		browser := &discovery.Browser{Interface: config.Interface}
		if err := runNetworkScan(ctx, browser, os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			exitCode = 1
		}
		cancel()
	}

	os.Exit(exitCode)
}

func validateConfig() error {
	if config.SerialOnly && config.NetworkOnly {
		return fmt.Errorf("-serial and -network are mutually exclusive")
	}
	if config.Timeout <= 0 {
		return fmt.Errorf("-timeout must be positive")
	}
	return nil
}

// runSerialScan prints one line per candidate serial port.
func runSerialScan(lister discovery.PortLister, w io.Writer) error {
	candidates, err := lister.List()
	if err != nil {
		return fmt.Errorf("listing serial ports: %w", err)
	}

	if len(candidates) == 0 {
		fmt.Fprintln(w, "  none found")
		return nil
	}

	for _, c := range candidates {
		fmt.Fprintf(w, "  %s  VID:PID %s:%s", c.Path, c.VID, c.PID)
		if c.Serial != "" {
			fmt.Fprintf(w, "  serial %s", c.Serial)
		}
		fmt.Fprintln(w)
	}
	return nil
}

// runNetworkScan prints boards as the browser finds them, until ctx ends.
func runNetworkScan(ctx context.Context, browser *discovery.Browser, w io.Writer) error {
	services, err := browser.Browse(ctx)
	if err != nil {
		return fmt.Errorf("starting browse: %w", err)
	}

	count := 0
	for svc := range services {
		count++
		fmt.Fprintf(w, "  %d. %s (host %s, port %d)\n", count, svc.Instance, svc.Host, svc.Port)
		fmt.Fprintf(w, "     addresses: %s\n", strings.Join(svc.Addresses, ", "))
		if len(svc.Text) > 0 {
			fmt.Fprintf(w, "     txt: %s\n", strings.Join(svc.Text, " "))
		}
	}

	if count == 0 {
		fmt.Fprintln(w, "  none found")
	}
	return nil
}
