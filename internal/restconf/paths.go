package restconf

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// MediaType is the RESTCONF JSON encoding declared in Accept and Content-Type
const MediaType = "application/yang-data+json"

// DefaultAPIRoot is the RESTCONF root used when root discovery is not performed
const DefaultAPIRoot = "/restconf"

// Resource containers and leaves. These strings are part of the device's YANG
// schema and must be reproduced exactly.
const (
	NativeContainer          = "Cisco-IOS-XE-native:native/"
	HostnameLeaf             = "hostname"
	InterfacesContainer      = "ietf-interfaces:interfaces"
	InterfacesStateContainer = "ietf-interfaces:interfaces-state"
	StatisticsContainer      = "ietf-interfaces:statistics"
	VLANListContainer        = "Cisco-IOS-XE-native:native/vlan/Cisco-IOS-XE-vlan:vlan-list"

	nativeInterfacePrefix = "Cisco-IOS-XE-native:native/interface/"
)

// Module-qualified member names used in request and response documents
const (
	HostnameMember   = "Cisco-IOS-XE-native:hostname"
	InterfacesMember = "ietf-interfaces:interfaces"
	VLANListMember   = "Cisco-IOS-XE-vlan:vlan-list"
)

// interfaceNamePattern splits "GigabitEthernet1/0/1" into its type and number.
// Hyphenated types such as "Port-channel" are kept whole.
var interfaceNamePattern = regexp.MustCompile(`^([A-Za-z][A-Za-z-]*?)\s*(\d[\d/.:]*)$`)

// InterfaceKey converts a human interface name into its RESTCONF list key.
//
//	GigabitEthernet1/0/1 -> GigabitEthernet=1%2F0%2F1
//	Vlan10               -> Vlan=10
func InterfaceKey(name string) (string, error) {
	ifType, number, err := SplitInterfaceName(name)
	if err != nil {
		return "", err
	}
	return ifType + "=" + url.PathEscape(number), nil
}

// SplitInterfaceName returns the alphabetic type prefix and the numeric suffix
// of an interface name.
func SplitInterfaceName(name string) (ifType, number string, err error) {
	m := interfaceNamePattern.FindStringSubmatch(strings.TrimSpace(name))
	if m == nil {
		return "", "", NewValidationError(fmt.Sprintf("interface name %q must be a type followed by a number (e.g. GigabitEthernet1/0/1)", name))
	}
	return m[1], m[2], nil
}

// InterfaceAddressPath returns the primary IPv4 address path for an interface key
func InterfaceAddressPath(key string) string {
	return nativeInterfacePrefix + key + "/ip/address/primary"
}

// InterfaceDescriptionPath returns the description path for an interface key
func InterfaceDescriptionPath(key string) string {
	return nativeInterfacePrefix + key + "/description"
}

// DataURL builds the datastore base URL (always ending in "/") for a device
// address and API root. The address may be a bare host, host:port or a URL;
// a missing scheme defaults to https.
func DataURL(address, apiRoot string) (string, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", NewValidationError("device address is required")
	}
	if !strings.Contains(address, "://") {
		address = "https://" + address
	}

	u, err := url.Parse(address)
	if err != nil {
		return "", NewValidationError(fmt.Sprintf("invalid device address %q: %v", address, err))
	}
	if u.Host == "" {
		return "", NewValidationError(fmt.Sprintf("invalid device address %q: missing host", address))
	}

	if apiRoot == "" {
		apiRoot = DefaultAPIRoot
	}
	root := "/" + strings.Trim(apiRoot, "/")

	return fmt.Sprintf("%s://%s%s/data/", u.Scheme, u.Host, root), nil
}
