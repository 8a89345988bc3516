// Package discovery finds switches on the local network with mDNS.
//
// The scanner browses "_https._tcp" services and reports each responder's
// address, port and TXT records. A "path" TXT record, when present, names
// the RESTCONF root and can be stored in a profile's api_root.
//
// # Usage Example
//
//	scanner := discovery.NewScanner()
//	scanner.Timeout = 3 * time.Second
//	devices, err := scanner.ScanForDevices(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	for _, d := range devices {
//	    fmt.Println(d)
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Devices must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
//
// IOS-XE does not advertise itself by default; "mdns-sd gateway" or a
// service-policy exporting _https._tcp must be configured on the switch.
package discovery
