package commands

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/telemetrix-protocol/telemetrix-go/pkg/log"
)

func TestStatsCountsByLayer(t *testing.T) {
	ts := time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, Layer: log.LayerTransport, Category: log.CategoryCommand},
		{Timestamp: ts, Layer: log.LayerTransport, Category: log.CategoryCommand},
		{Timestamp: ts, Layer: log.LayerWire, Category: log.CategoryCommand},
		{Timestamp: ts, Layer: log.LayerClient, Category: log.CategoryState},
	}

	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	err := RunStats(path, &buf)
	if err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()

	// Check layer counts
	if !strings.Contains(output, "TRANSPORT:") {
		t.Error("expected TRANSPORT layer in output")
	}
	if !strings.Contains(output, "WIRE:") {
		t.Error("expected WIRE layer in output")
	}
	if !strings.Contains(output, "CLIENT:") {
		t.Error("expected CLIENT layer in output")
	}
}

func TestStatsCountsByCategory(t *testing.T) {
	ts := time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, Category: log.CategoryCommand},
		{Timestamp: ts, Category: log.CategoryReport},
		{Timestamp: ts, Category: log.CategoryState},
		{Timestamp: ts, Category: log.CategoryError, Error: &log.ErrorEventData{Message: "test"}},
	}

	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	err := RunStats(path, &buf)
	if err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()

	// Check category counts
	if !strings.Contains(output, "COMMAND:") {
		t.Error("expected COMMAND category in output")
	}
	if !strings.Contains(output, "REPORT:") {
		t.Error("expected REPORT category in output")
	}
	if !strings.Contains(output, "STATE:") {
		t.Error("expected STATE category in output")
	}
	if !strings.Contains(output, "ERROR:") {
		t.Error("expected ERROR category in output")
	}
}

func TestStatsCountsConnections(t *testing.T) {
	ts := time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, ConnectionID: "conn-aaaa-bbbb", Category: log.CategoryCommand, Transport: "tcp", RemoteAddr: "192.168.4.1:31335"},
		{Timestamp: ts.Add(time.Second), ConnectionID: "conn-aaaa-bbbb", Category: log.CategoryReport},
		{Timestamp: ts, ConnectionID: "conn-cccc-dddd", Category: log.CategoryCommand, Transport: "serial", RemoteAddr: "/dev/ttyACM0"},
	}

	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	err := RunStats(path, &buf)
	if err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()

	// Check connection count
	if !strings.Contains(output, "Connections: 2") {
		t.Errorf("expected 2 connections in output, got:\n%s", output)
	}

	// Check connection details
	if !strings.Contains(output, "[conn-aaa") {
		t.Error("expected conn-aaaa connection details")
	}
	if !strings.Contains(output, "/dev/ttyACM0") {
		t.Error("expected serial board address in output")
	}
}

func TestStatsTotalEvents(t *testing.T) {
	ts := time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, Category: log.CategoryCommand},
		{Timestamp: ts, Category: log.CategoryCommand},
		{Timestamp: ts, Category: log.CategoryReport},
	}

	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	err := RunStats(path, &buf)
	if err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "Total Events: 3") {
		t.Errorf("expected 3 total events in output, got:\n%s", output)
	}
}

func TestStatsTimeRange(t *testing.T) {
	start := time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC)
	end := time.Date(2026, 3, 12, 11, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: start, Category: log.CategoryCommand},
		{Timestamp: end, Category: log.CategoryReport},
	}

	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	err := RunStats(path, &buf)
	if err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "Duration:") {
		t.Error("expected Duration in output")
	}
	if !strings.Contains(output, "1h0m0s") {
		t.Errorf("expected 1h0m0s duration in output, got:\n%s", output)
	}
}

func TestStatsCommandAndReportTallies(t *testing.T) {
	ts := time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, Category: log.CategoryCommand, Command: &log.CommandEvent{Opcode: 2, Name: "DigitalWrite"}},
		{Timestamp: ts, Category: log.CategoryCommand, Command: &log.CommandEvent{Opcode: 2, Name: "DigitalWrite"}},
		{Timestamp: ts, Category: log.CategoryCommand, Command: &log.CommandEvent{Opcode: 1, Name: "SetPinMode"}},
		{Timestamp: ts, Category: log.CategoryReport, Report: &log.ReportEvent{Type: 3, Name: "AnalogReport"}},
	}

	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	err := RunStats(path, &buf)
	if err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "DigitalWrite:") {
		t.Errorf("expected DigitalWrite tally, got:\n%s", output)
	}
	if !strings.Contains(output, "SetPinMode:") {
		t.Errorf("expected SetPinMode tally, got:\n%s", output)
	}
	if !strings.Contains(output, "AnalogReport:") {
		t.Errorf("expected AnalogReport tally, got:\n%s", output)
	}

	// DigitalWrite is busiest, so it sorts first among commands
	dwIdx := strings.Index(output, "DigitalWrite:")
	spmIdx := strings.Index(output, "SetPinMode:")
	if dwIdx > spmIdx {
		t.Errorf("expected DigitalWrite before SetPinMode, got:\n%s", output)
	}
}

func TestStatsErrorCount(t *testing.T) {
	ts := time.Date(2026, 3, 12, 10, 0, 0, 0, time.UTC)
	events := []log.Event{
		{Timestamp: ts, Category: log.CategoryCommand},
		{Timestamp: ts, Category: log.CategoryError, Error: &log.ErrorEventData{Message: "error 1"}},
		{Timestamp: ts, Category: log.CategoryError, Error: &log.ErrorEventData{Message: "error 2"}},
	}

	path := createTestLogFile(t, events)

	var buf bytes.Buffer
	err := RunStats(path, &buf)
	if err != nil {
		t.Fatalf("RunStats failed: %v", err)
	}

	output := buf.String()

	if !strings.Contains(output, "Errors: 2") {
		t.Errorf("expected 2 errors in output, got:\n%s", output)
	}
}
