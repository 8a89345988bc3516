package discovery

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// Device is an HTTPS service found on the local network that may be a switch
type Device struct {
	// Instance is the advertised service instance name (e.g., "core-sw1")
	Instance string

	// Hostname is the mDNS hostname without the trailing dot (e.g., "core-sw1.local")
	Hostname string

	// IP is the IPv4 address, or IPv6 when no IPv4 was advertised
	IP string

	// Port is the HTTPS port (typically 443)
	Port int

	// Metadata contains the mDNS TXT record data.
	// "path" names the RESTCONF root when the device advertises it.
	Metadata map[string]string

	// DiscoveredAt is when the device was discovered
	DiscoveredAt time.Time
}

// String returns a human-readable string representation of the device
func (d *Device) String() string {
	name := d.Instance
	if name == "" {
		name = d.Hostname
	}
	return fmt.Sprintf("%s at %s", name, d.Address())
}

// Address returns the device address in the form accepted by restconf.Connection.
// The port is omitted when it is the HTTPS default.
func (d *Device) Address() string {
	if d.Port == DefaultPort {
		if strings.Contains(d.IP, ":") {
			return "[" + d.IP + "]"
		}
		return d.IP
	}
	return net.JoinHostPort(d.IP, strconv.Itoa(d.Port))
}

// APIRoot returns the RESTCONF root advertised in the TXT "path" record, or ""
func (d *Device) APIRoot() string {
	path := strings.TrimSpace(d.GetMetadata("path"))
	if path == "" || path == "/" {
		return ""
	}
	return "/" + strings.Trim(path, "/")
}

// IsRESTCONF reports whether the advertised path looks like a RESTCONF root
func (d *Device) IsRESTCONF() bool {
	return strings.Contains(strings.ToLower(d.APIRoot()), "restconf")
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (d *Device) GetMetadata(key string) string {
	if d.Metadata == nil {
		return ""
	}
	return d.Metadata[key]
}
