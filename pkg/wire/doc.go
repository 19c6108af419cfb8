// Package wire implements the byte-level protocol spoken with the
// companion firmware.
//
// Both directions use length-prefixed binary frames:
//
//	command: [length][opcode][args...]        client -> firmware
//	report:  [length][report type][payload]   firmware -> client
//
// The length byte counts everything after itself, so a command with n
// argument bytes occupies n+2 bytes on the wire. The stream carries no
// sync markers: a corrupted length byte desynchronizes the connection
// permanently, which is why framing violations are fatal at the layers
// above.
//
// # Numeric Encodings
//
// Multi-byte integers travel most-significant byte first. The exception
// is the DHT report, whose humidity and temperature are IEEE-754 floats
// in little-endian byte order, exactly as the firmware memcpy's them.
package wire
