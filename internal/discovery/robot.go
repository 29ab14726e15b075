package discovery

import (
	"fmt"
	"net"
	"time"
)

// Robot represents a WiFi-attached robot found on the local network.
type Robot struct {
	// ID is the robot number from the module hostname (e.g., "12").
	ID string

	// Hostname is the mDNS hostname (e.g., "duinobot12.local.")
	Hostname string

	// IP is the module's address, IPv4 when advertised.
	IP string

	// Port is the TCP port the firmata bridge listens on.
	Port int

	// Metadata holds the mDNS TXT record data. Modules typically
	// advertise "firmware=<version>" and "board=<layout name>".
	Metadata map[string]string

	// DiscoveredAt is when the advertisement was received.
	DiscoveredAt time.Time
}

// String returns a human-readable description of the robot
func (r *Robot) String() string {
	return fmt.Sprintf("DuinoBot %s (%s) at %s:%d", r.ID, r.Hostname, r.IP, r.Port)
}

// Target returns the host:port address for opening a TCP board session.
func (r *Robot) Target() string {
	return net.JoinHostPort(r.IP, fmt.Sprintf("%d", r.Port))
}

// GetMetadata retrieves a TXT record value by key, or returns empty string
// if not advertised
func (r *Robot) GetMetadata(key string) string {
	if r.Metadata == nil {
		return ""
	}
	return r.Metadata[key]
}
