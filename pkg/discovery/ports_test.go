package discovery

import (
	"testing"

	"go.bug.st/serial/enumerator"
)

func TestFilterCandidates(t *testing.T) {
	details := []*enumerator.PortDetails{
		{
			Name:  "/dev/ttyS0",
			IsUSB: false,
		},
		{
			Name:         "/dev/ttyACM0",
			IsUSB:        true,
			VID:          "2341",
			PID:          "0043",
			SerialNumber: "85735313038351F0B0A1",
		},
		{
			// USB but no PID reported: not a board
			Name:  "/dev/ttyUSB9",
			IsUSB: true,
		},
		{
			Name:  "/dev/ttyUSB0",
			IsUSB: true,
			VID:   "1A86",
			PID:   "7523",
		},
	}

	got := filterCandidates(details)

	if len(got) != 2 {
		t.Fatalf("got %d candidates, want 2", len(got))
	}

	if got[0].Path != "/dev/ttyACM0" {
		t.Errorf("first candidate = %q, want /dev/ttyACM0", got[0].Path)
	}
	if got[0].VID != "2341" || got[0].PID != "0043" {
		t.Errorf("first candidate identity = %s:%s, want 2341:0043", got[0].VID, got[0].PID)
	}
	if got[0].Serial != "85735313038351F0B0A1" {
		t.Errorf("first candidate serial = %q", got[0].Serial)
	}

	if got[1].Path != "/dev/ttyUSB0" {
		t.Errorf("second candidate = %q, want /dev/ttyUSB0", got[1].Path)
	}
}

func TestFilterCandidatesEmpty(t *testing.T) {
	if got := filterCandidates(nil); len(got) != 0 {
		t.Errorf("got %d candidates from empty list", len(got))
	}

	onlyUARTs := []*enumerator.PortDetails{
		{Name: "/dev/ttyS0"},
		{Name: "/dev/ttyS1"},
	}
	if got := filterCandidates(onlyUARTs); len(got) != 0 {
		t.Errorf("got %d candidates from UART-only list", len(got))
	}
}
