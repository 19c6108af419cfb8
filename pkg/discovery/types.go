package discovery

// Service type constants for mDNS.
const (
	// ServiceTypeBoard is the service type WiFi firmware variants advertise.
	ServiceTypeBoard = "_telemetrix._tcp"

	// Domain is the mDNS domain.
	Domain = "local"
)

// Candidate is one USB serial port that may have a board behind it.
type Candidate struct {
	// Path is the device path, e.g. /dev/ttyACM0 or COM3.
	Path string

	// VID and PID identify the USB device.
	VID string
	PID string

	// Serial is the USB serial number, when the device reports one.
	Serial string
}

// Service is one network-attached board found via mDNS.
type Service struct {
	// Instance is the advertised instance name.
	Instance string

	// Host is the advertised hostname.
	Host string

	// Port is the TCP port the board listens on.
	Port uint16

	// Addresses are the IPv4 and IPv6 addresses seen so far.
	Addresses []string

	// Text carries the raw TXT records, unparsed.
	Text []string
}
