package discovery

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"

	"github.com/netauto/iosxecfg/internal/logging"
	"go.uber.org/zap"
)

const (
	// ServiceType is the mDNS service type browsed for switches.
	// RESTCONF runs on the switch's HTTPS server.
	ServiceType = "_https._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for device discovery
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is the default HTTPS port
	DefaultPort = 443
)

// Scanner handles mDNS device discovery
type Scanner struct {
	// Timeout is the maximum time to wait for device discovery
	Timeout time.Duration

	// RESTCONFOnly drops services whose TXT path does not point at a RESTCONF root
	RESTCONFOnly bool
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// ScanForDevices discovers HTTPS services on the local network until the
// scanner timeout expires or ctx is cancelled.
func (s *Scanner) ScanForDevices(ctx context.Context) ([]*Device, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	c := newCollector(s.RESTCONFOnly)

	go func() {
		for entry := range entries {
			c.add(parseServiceEntry(entry))
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()

	devices := c.devices()
	logging.Debug("mDNS scan finished", zap.Int("devices", len(devices)), zap.Duration("timeout", s.Timeout))
	return devices, nil
}

// collector accumulates unique devices from the resolver goroutine
type collector struct {
	mu           sync.Mutex
	seen         map[string]bool
	found        []*Device
	restconfOnly bool
}

func newCollector(restconfOnly bool) *collector {
	return &collector{seen: make(map[string]bool), restconfOnly: restconfOnly}
}

func (c *collector) add(d *Device) {
	if d == nil || (c.restconfOnly && !d.IsRESTCONF()) {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := d.Address()
	if c.seen[key] {
		return
	}
	c.seen[key] = true
	c.found = append(c.found, d)
}

func (c *collector) devices() []*Device {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*Device, len(c.found))
	copy(out, c.found)
	return out
}

// parseServiceEntry converts a zeroconf service entry to a Device.
// Returns nil when the entry carries no usable address.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Device {
	if entry == nil {
		return nil
	}

	// Prefer IPv4
	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		key, value, _ := strings.Cut(txt, "=")
		metadata[key] = value
	}

	return &Device{
		Instance:     entry.Instance,
		Hostname:     strings.TrimSuffix(entry.HostName, "."),
		IP:           ip,
		Port:         port,
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// ScanForDevices is a convenience function to scan with a custom timeout
func ScanForDevices(ctx context.Context, timeout time.Duration) ([]*Device, error) {
	scanner := NewScanner()
	scanner.Timeout = timeout
	return scanner.ScanForDevices(ctx)
}
