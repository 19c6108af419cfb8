package main

import (
	"bytes"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	eventlog "github.com/telemetrix-protocol/telemetrix-go/pkg/log"
	"github.com/telemetrix-protocol/telemetrix-go/pkg/transport"
)

// Config holds the console configuration.
type Config struct {
	SerialPort    string
	BaudRate      int
	TCPAddress    string
	InstanceID    uint8
	SettleTime    time.Duration
	ReplyTimeout  time.Duration
	DispatchYield time.Duration
	ConfigFile    string
	LogFile       string
	LogLevel      string
	Sim           bool
	SimInterval   time.Duration
}

// SimMode reports whether the simulated board is in use. It satisfies
// the interactive package's ConsoleConfig interface.
func (c *Config) SimMode() bool {
	return c.Sim
}

var (
	config   Config
	instance uint // Temp var for flag parsing
)

func init() {
	flag.StringVar(&config.SerialPort, "serial", "", "Serial device path (default: auto-detect)")
	flag.IntVar(&config.BaudRate, "baud", transport.DefaultBaudRate, "Serial baud rate")
	flag.StringVar(&config.TCPAddress, "tcp", "", "Board network address, host[:port]")
	flag.UintVar(&instance, "instance", 1, "Board instance id (0-255)")
	flag.DurationVar(&config.SettleTime, "settle", 4*time.Second, "Power-on reset wait after opening serial")
	flag.DurationVar(&config.ReplyTimeout, "reply-timeout", 2*time.Second, "Handshake reply timeout")
	flag.DurationVar(&config.DispatchYield, "yield", 100*time.Microsecond, "Dispatch loop yield between reports")
	flag.StringVar(&config.ConfigFile, "config", "", "Configuration file path")
	flag.StringVar(&config.LogFile, "log-file", "", "Write protocol events to a CBOR log file")
	flag.StringVar(&config.LogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flag.BoolVar(&config.Sim, "sim", false, "Talk to a simulated board instead of hardware")
	flag.DurationVar(&config.SimInterval, "sim-interval", 2*time.Second, "Synthetic reading period in simulation mode")
}

// parseFlags parses the command line and merges in the configuration
// file when one was given. Flags set explicitly on the command line
// win over file values.
func parseFlags() {
	flag.Parse()
	config.InstanceID = uint8(instance)

	if config.ConfigFile == "" {
		return
	}
	setFlags := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })

	if err := applyConfigFile(config.ConfigFile, setFlags); err != nil {
		fmt.Fprintf(os.Stderr, "telemetrix-console: %v\n", err)
		os.Exit(2)
	}
}

// fileConfig is the YAML configuration file schema. Every field is
// optional. Durations are Go duration strings ("4s", "100us").
type fileConfig struct {
	SerialPort    string `yaml:"serial_port"`
	BaudRate      *int   `yaml:"baud_rate"`
	TCPAddress    string `yaml:"tcp_address"`
	InstanceID    *int   `yaml:"instance_id"`
	SettleTime    string `yaml:"settle_time"`
	ReplyTimeout  string `yaml:"reply_timeout"`
	DispatchYield string `yaml:"dispatch_yield"`
	LogFile       string `yaml:"log_file"`
	LogLevel      string `yaml:"log_level"`
}

func applyConfigFile(path string, setFlags map[string]bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var file fileConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return fmt.Errorf("%s: failed to parse YAML: %w", path, err)
	}

	if !setFlags["serial"] && file.SerialPort != "" {
		config.SerialPort = file.SerialPort
	}
	if !setFlags["baud"] && file.BaudRate != nil {
		config.BaudRate = *file.BaudRate
	}
	if !setFlags["tcp"] && file.TCPAddress != "" {
		config.TCPAddress = file.TCPAddress
	}
	if !setFlags["instance"] && file.InstanceID != nil {
		if *file.InstanceID < 0 || *file.InstanceID > 255 {
			return fmt.Errorf("%s: instance_id %d out of range [0,255]", path, *file.InstanceID)
		}
		config.InstanceID = uint8(*file.InstanceID)
	}
	if !setFlags["log-file"] && file.LogFile != "" {
		config.LogFile = file.LogFile
	}
	if !setFlags["log-level"] && file.LogLevel != "" {
		config.LogLevel = file.LogLevel
	}

	durations := []struct {
		flagName string
		value    string
		target   *time.Duration
	}{
		{"settle", file.SettleTime, &config.SettleTime},
		{"reply-timeout", file.ReplyTimeout, &config.ReplyTimeout},
		{"yield", file.DispatchYield, &config.DispatchYield},
	}
	for _, d := range durations {
		if setFlags[d.flagName] || d.value == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.value)
		if err != nil {
			return fmt.Errorf("%s: invalid duration %q: %w", path, d.value, err)
		}
		*d.target = parsed
	}
	return nil
}

func validateConfig() error {
	if instance > 255 {
		return fmt.Errorf("instance id must be 0-255, got %d", instance)
	}
	if config.BaudRate <= 0 {
		return fmt.Errorf("baud rate must be positive, got %d", config.BaudRate)
	}
	if config.Sim && (config.SerialPort != "" || config.TCPAddress != "") {
		return fmt.Errorf("-sim picks its own address and cannot be combined with -serial or -tcp")
	}
	switch config.LogLevel {
	case "debug", "info", "warn", "error":
		// Valid
	default:
		return fmt.Errorf("unknown log level: %s", config.LogLevel)
	}
	return nil
}

// buildEventLogger assembles the protocol event logger: a CBOR file
// log when -log-file is set, a console echo of every event at debug
// level, both when both apply, nothing otherwise.
func buildEventLogger() (eventlog.Logger, func(), error) {
	var loggers []eventlog.Logger
	closer := func() {}

	if config.LogFile != "" {
		fileLogger, err := eventlog.NewFileLogger(config.LogFile)
		if err != nil {
			return nil, closer, err
		}
		loggers = append(loggers, fileLogger)
		closer = func() { _ = fileLogger.Close() }
	}
	if config.LogLevel == "debug" {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		loggers = append(loggers, eventlog.NewSlogAdapter(slog.New(handler)))
	}

	switch len(loggers) {
	case 0:
		return nil, closer, nil
	case 1:
		return loggers[0], closer, nil
	default:
		return eventlog.NewMultiLogger(loggers...), closer, nil
	}
}
