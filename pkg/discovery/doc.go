// Package discovery finds boards to connect to.
//
// Two mechanisms are provided:
//
// # USB serial enumeration
//
// Boards running the companion firmware enumerate as USB CDC serial
// devices. USBPorts lists ports carrying a USB identity; ports without
// one (motherboard UARTs, virtual consoles) are skipped because probing
// them would stall on hardware that never answers. The protocol engine
// opens every candidate and keeps the one answering the identity probe.
//
// # mDNS browse
//
// WiFi firmware variants advertise _telemetrix._tcp. Browser surfaces
// each advertised instance with its aggregated addresses; applications
// pick one and connect over the TCP transport.
package discovery
