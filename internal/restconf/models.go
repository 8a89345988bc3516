package restconf

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// IPAddress is one entry of an ietf-ip address list
type IPAddress struct {
	IP           string `json:"ip" yaml:"ip"`
	Netmask      string `json:"netmask,omitempty" yaml:"netmask,omitempty"`
	PrefixLength int    `json:"prefix-length,omitempty" yaml:"prefix_length,omitempty"`
}

// AddressBlock is the ietf-ip:ipv4 / ietf-ip:ipv6 container of an interface
type AddressBlock struct {
	Address []IPAddress `json:"address,omitempty" yaml:"address,omitempty"`
}

// Empty reports whether the block carries no address entries
func (b *AddressBlock) Empty() bool {
	return b == nil || len(b.Address) == 0
}

// Interface is an entry of the ietf-interfaces:interfaces list
type Interface struct {
	Name        string        `json:"name" yaml:"name"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Type        string        `json:"type,omitempty" yaml:"type,omitempty"`
	Enabled     *bool         `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	IPv4        *AddressBlock `json:"ietf-ip:ipv4,omitempty" yaml:"ipv4,omitempty"`
	IPv6        *AddressBlock `json:"ietf-ip:ipv6,omitempty" yaml:"ipv6,omitempty"`
}

// HasAddress reports whether the interface has an IPv4 or IPv6 address configured
func (i Interface) HasAddress() bool {
	return !i.IPv4.Empty() || !i.IPv6.Empty()
}

// PrimaryIPv4 returns the first IPv4 address entry, if any
func (i Interface) PrimaryIPv4() (IPAddress, bool) {
	if i.IPv4.Empty() {
		return IPAddress{}, false
	}
	return i.IPv4.Address[0], true
}

// interfacesDocument is the GET response of ietf-interfaces:interfaces
type interfacesDocument struct {
	Interfaces struct {
		Interface []Interface `json:"interface"`
	} `json:"ietf-interfaces:interfaces"`
}

// VLANID is a VLAN identifier. The device reports ids as JSON numbers but
// accepts them as strings in requests, so both forms decode.
type VLANID string

// UnmarshalJSON accepts both "100" and 100
func (id *VLANID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = VLANID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("vlan id: %w", err)
	}
	*id = VLANID(n.String())
	return nil
}

// Int returns the numeric value of the id
func (id VLANID) Int() (int, error) {
	return strconv.Atoi(string(id))
}

// VLAN is an entry of the Cisco-IOS-XE-vlan:vlan-list list.
// Name is empty when the device reports the VLAN without one.
type VLAN struct {
	ID   VLANID `json:"id" yaml:"id"`
	Name string `json:"name,omitempty" yaml:"name,omitempty"`
}

// HasName reports whether the device returned a name for the VLAN
func (v VLAN) HasName() bool {
	return v.Name != ""
}

// vlanListDocument is the GET response of the vlan-list container
type vlanListDocument struct {
	VLANs []VLAN `json:"Cisco-IOS-XE-vlan:vlan-list"`
}

// hostnameDocument is both the GET response and the PUT body of the hostname leaf
type hostnameDocument struct {
	Hostname *string `json:"Cisco-IOS-XE-native:hostname,omitempty"`
}

// HostnamePayload builds {"Cisco-IOS-XE-native:hostname": "<value>"}
func HostnamePayload(hostname string) any {
	return hostnameDocument{Hostname: &hostname}
}

// PrimaryAddress is the body of an interface primary address change
type PrimaryAddress struct {
	Address string `json:"address"`
	Mask    string `json:"mask"`
}

type primaryAddressDocument struct {
	Primary PrimaryAddress `json:"primary"`
}

// PrimaryAddressPayload builds {"primary": {"address": "<ip>", "mask": "<mask>"}}
func PrimaryAddressPayload(address, mask string) any {
	return primaryAddressDocument{Primary: PrimaryAddress{Address: address, Mask: mask}}
}

type descriptionDocument struct {
	Description string `json:"description"`
}

// DescriptionPayload builds {"description": "<text>"}
func DescriptionPayload(description string) any {
	return descriptionDocument{Description: description}
}

type vlanEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type vlanListPayload struct {
	Entry vlanEntry `json:"Cisco-IOS-XE-vlan:vlan-list"`
}

// VLANPayload builds {"Cisco-IOS-XE-vlan:vlan-list": {"id": "<n>", "name": "<text>"}}
func VLANPayload(id, name string) any {
	return vlanListPayload{Entry: vlanEntry{ID: id, Name: name}}
}

// InterfaceChange is the combined address + description change for one interface
type InterfaceChange struct {
	Name        string `validate:"required"`
	Address     string `validate:"omitempty,ipv4"`
	Mask        string `validate:"required_with=Address"`
	Description string `validate:"max=240"`
}

// InterfaceOutcome reports which parts of an InterfaceChange the device accepted.
// The two calls are independent: a partial outcome is never rolled back.
// A skipped part was empty in the change and no request was sent for it.
type InterfaceOutcome struct {
	Name               string
	AddressApplied     bool
	DescriptionApplied bool
	AddressSkipped     bool
	DescriptionSkipped bool
	AddressErr         error
	DescriptionErr     error
}

// AddressRejected reports whether the address was sent and not applied
func (o InterfaceOutcome) AddressRejected() bool {
	return !o.AddressSkipped && !o.AddressApplied
}

// DescriptionRejected reports whether the description was sent and not applied
func (o InterfaceOutcome) DescriptionRejected() bool {
	return !o.DescriptionSkipped && !o.DescriptionApplied
}

// Complete reports whether at least one part was sent and every sent part was applied
func (o InterfaceOutcome) Complete() bool {
	if o.AddressSkipped && o.DescriptionSkipped {
		return false
	}
	return !o.AddressRejected() && !o.DescriptionRejected()
}

// Partial reports whether one part was applied and the other was rejected
func (o InterfaceOutcome) Partial() bool {
	return (o.AddressApplied && o.DescriptionRejected()) || (o.DescriptionApplied && o.AddressRejected())
}
