package discovery

import (
	"fmt"

	"go.bug.st/serial/enumerator"
)

// PortLister lists candidate serial ports. The protocol engine depends on
// this interface so tests can substitute a fixed list.
type PortLister interface {
	List() ([]Candidate, error)
}

// USBPorts lists USB serial ports via the system enumerator.
type USBPorts struct{}

var _ PortLister = USBPorts{}

// List returns candidate ports in enumeration order.
func (USBPorts) List() ([]Candidate, error) {
	details, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate serial ports: %w", err)
	}
	return filterCandidates(details), nil
}

// filterCandidates keeps ports with a USB identity. A port without a PID
// is not a board.
func filterCandidates(details []*enumerator.PortDetails) []Candidate {
	candidates := make([]Candidate, 0, len(details))
	for _, d := range details {
		if !d.IsUSB || d.PID == "" {
			continue
		}
		candidates = append(candidates, Candidate{
			Path:   d.Name,
			VID:    d.VID,
			PID:    d.PID,
			Serial: d.SerialNumber,
		})
	}
	return candidates
}
