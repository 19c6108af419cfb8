package wire

import (
	"bytes"
	"testing"
)

func TestUint16(t *testing.T) {
	tests := []struct {
		name      string
		high, low byte
		want      uint16
	}{
		{name: "zero", high: 0x00, low: 0x00, want: 0},
		{name: "low byte only", high: 0x00, low: 0xFF, want: 255},
		{name: "high byte only", high: 0x01, low: 0x00, want: 256},
		{name: "analog reading", high: 0x03, low: 0xE8, want: 1000},
		{name: "max", high: 0xFF, low: 0xFF, want: 65535},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Uint16(tt.high, tt.low); got != tt.want {
				t.Errorf("Uint16(%#x, %#x) = %d, want %d", tt.high, tt.low, got, tt.want)
			}
		})
	}
}

func TestPutUint16RoundTrip(t *testing.T) {
	for v := 0; v <= 0xFFFF; v++ {
		high, low := PutUint16(uint16(v))
		if got := Uint16(high, low); got != uint16(v) {
			t.Fatalf("round trip of %d gave %d", v, got)
		}
	}
}

func TestAppendUint16(t *testing.T) {
	args := []byte{3, 9}
	args = AppendUint16(args, 500)

	want := []byte{3, 9, 0x01, 0xF4}
	if !bytes.Equal(args, want) {
		t.Errorf("args = %v, want %v", args, want)
	}
}

func TestFloat32(t *testing.T) {
	tests := []struct {
		name string
		b    []byte
		want float32
	}{
		{name: "zero", b: []byte{0x00, 0x00, 0x00, 0x00}, want: 0},
		{name: "one", b: []byte{0x00, 0x00, 0x80, 0x3F}, want: 1.0},
		{name: "humidity", b: []byte{0x00, 0x00, 0x5E, 0x42}, want: 55.5},
		{name: "temperature", b: []byte{0x00, 0x00, 0xA8, 0x41}, want: 21.0},
		{name: "negative", b: []byte{0x00, 0x00, 0xC0, 0xBF}, want: -1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Float32(tt.b); got != tt.want {
				t.Errorf("Float32(% x) = %v, want %v", tt.b, got, tt.want)
			}
		})
	}
}
