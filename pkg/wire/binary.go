package wire

import (
	"encoding/binary"
	"math"
)

// Uint16 reconstructs a 16-bit value from its big-endian halves as they
// appear in analog, sonar, and debug reports.
func Uint16(high, low byte) uint16 {
	return uint16(high)<<8 | uint16(low)
}

// PutUint16 splits a 16-bit value into the big-endian halves command
// arguments use.
func PutUint16(v uint16) (high, low byte) {
	return byte(v >> 8), byte(v)
}

// AppendUint16 appends a 16-bit value in command argument order.
func AppendUint16(args []byte, v uint16) []byte {
	return append(args, byte(v>>8), byte(v))
}

// Float32 decodes a little-endian IEEE-754 float from a DHT report.
// b must hold at least 4 bytes.
func Float32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}
