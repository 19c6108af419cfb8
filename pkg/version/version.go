// Package version carries the client library version and the firmware
// version type reported by the companion sketch during connection setup.
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// Library is the version of this client library.
const Library = "1.0.0"

// Firmware is a companion firmware version as reported in the firmware
// version report: one byte each for major and minor.
type Firmware struct {
	Major uint8
	Minor uint8
}

// Parse parses a "major.minor" firmware version string.
func Parse(s string) (Firmware, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 {
		return Firmware{}, fmt.Errorf("invalid version %q: expected major.minor", s)
	}

	major, err := strconv.ParseUint(parts[0], 10, 8)
	if err != nil || parts[0] == "" {
		return Firmware{}, fmt.Errorf("invalid version %q: bad major component", s)
	}

	minor, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil || parts[1] == "" {
		return Firmware{}, fmt.Errorf("invalid version %q: bad minor component", s)
	}

	return Firmware{Major: uint8(major), Minor: uint8(minor)}, nil
}

// String returns the version as "major.minor".
func (v Firmware) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// IsZero reports whether the version is unset. The firmware never reports
// 0.0, so the zero value doubles as "not yet known".
func (v Firmware) IsZero() bool {
	return v.Major == 0 && v.Minor == 0
}

// AtLeast reports whether v is the same as or newer than other.
func (v Firmware) AtLeast(other Firmware) bool {
	if v.Major != other.Major {
		return v.Major > other.Major
	}
	return v.Minor >= other.Minor
}

// Compatible returns true if the other version has the same major version.
func (v Firmware) Compatible(other Firmware) bool {
	return v.Major == other.Major
}
