package simulator

import (
	"encoding/json"
	"slices"
	"strconv"
	"sync"

	"github.com/netauto/iosxecfg/internal/restconf"
)

// Device is the in-memory configuration of an emulated switch.
// All methods are safe for concurrent use.
type Device struct {
	mu         sync.RWMutex
	hostname   string
	interfaces []restconf.Interface
	vlans      []restconf.VLAN
}

// NewDevice returns a device with the given hostname and the default
// interface and VLAN tables.
func NewDevice(hostname string) *Device {
	return &Device{
		hostname:   hostname,
		interfaces: DefaultInterfaces(),
		vlans:      []restconf.VLAN{{ID: "1", Name: "default"}},
	}
}

// DefaultInterfaces returns five interfaces, two of them addressed
func DefaultInterfaces() []restconf.Interface {
	enabled := true
	return []restconf.Interface{
		{
			Name:        "GigabitEthernet0/0",
			Description: "management",
			Type:        "iana-if-type:ethernetCsmacd",
			Enabled:     &enabled,
			IPv4: &restconf.AddressBlock{Address: []restconf.IPAddress{
				{IP: "10.0.0.1", Netmask: "255.255.255.0"},
			}},
		},
		{Name: "GigabitEthernet1/0/1", Type: "iana-if-type:ethernetCsmacd", Enabled: &enabled},
		{Name: "GigabitEthernet1/0/2", Type: "iana-if-type:ethernetCsmacd", Enabled: &enabled},
		{
			Name:        "Loopback0",
			Description: "router-id",
			Type:        "iana-if-type:softwareLoopback",
			Enabled:     &enabled,
			IPv4: &restconf.AddressBlock{Address: []restconf.IPAddress{
				{IP: "192.0.2.1", Netmask: "255.255.255.255"},
			}},
		},
		{Name: "Vlan1", Type: "iana-if-type:l3ipvlan", Enabled: &enabled},
	}
}

// Hostname returns the current hostname
func (d *Device) Hostname() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.hostname
}

// SetHostname replaces the hostname
func (d *Device) SetHostname(hostname string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.hostname = hostname
}

// Interfaces returns a copy of the interface table
func (d *Device) Interfaces() []restconf.Interface {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.interfaces)
}

// SetInterfaces replaces the interface table
func (d *Device) SetInterfaces(interfaces []restconf.Interface) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.interfaces = slices.Clone(interfaces)
}

// VLANs returns a copy of the VLAN table
func (d *Device) VLANs() []restconf.VLAN {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return slices.Clone(d.vlans)
}

// SetVLANs replaces the VLAN table
func (d *Device) SetVLANs(vlans []restconf.VLAN) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.vlans = slices.Clone(vlans)
}

// setPrimaryAddress replaces the IPv4 address list of an interface.
// It reports false when the interface does not exist.
func (d *Device) setPrimaryAddress(name, address, mask string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	i := d.indexOf(name)
	if i < 0 {
		return false
	}
	d.interfaces[i].IPv4 = &restconf.AddressBlock{Address: []restconf.IPAddress{{IP: address, Netmask: mask}}}
	return true
}

func (d *Device) setDescription(name, description string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	i := d.indexOf(name)
	if i < 0 {
		return false
	}
	d.interfaces[i].Description = description
	return true
}

func (d *Device) indexOf(name string) int {
	return slices.IndexFunc(d.interfaces, func(iface restconf.Interface) bool {
		return iface.Name == name
	})
}

// upsertVLAN creates the VLAN or renames an existing one, keeping the table sorted by id
func (d *Device) upsertVLAN(id int, name string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	key := restconf.VLANID(strconv.Itoa(id))
	for i := range d.vlans {
		if d.vlans[i].ID == key {
			d.vlans[i].Name = name
			return
		}
	}

	d.vlans = append(d.vlans, restconf.VLAN{ID: key, Name: name})
	slices.SortFunc(d.vlans, func(a, b restconf.VLAN) int {
		ai, _ := a.ID.Int()
		bi, _ := b.ID.Int()
		return ai - bi
	})
}

// vlanWire mirrors how IOS-XE reports vlan-list entries: numeric ids and
// no name member for unnamed VLANs.
type vlanWire struct {
	ID   json.Number `json:"id"`
	Name string      `json:"name,omitempty"`
}

func (d *Device) vlanDocument() ([]byte, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if len(d.vlans) == 0 {
		return nil, false
	}

	entries := make([]vlanWire, 0, len(d.vlans))
	for _, v := range d.vlans {
		entries = append(entries, vlanWire{ID: json.Number(v.ID), Name: v.Name})
	}

	data, _ := json.Marshal(map[string]any{restconf.VLANListMember: entries})
	return data, true
}

func (d *Device) interfacesDocument() []byte {
	d.mu.RLock()
	defer d.mu.RUnlock()

	data, _ := json.Marshal(map[string]any{
		restconf.InterfacesMember: map[string]any{"interface": d.interfaces},
	})
	return data
}

type interfaceStateWire struct {
	Name        string `json:"name"`
	Type        string `json:"type,omitempty"`
	AdminStatus string `json:"admin-status"`
	OperStatus  string `json:"oper-status"`
}

func (d *Device) interfacesStateDocument() []byte {
	d.mu.RLock()
	defer d.mu.RUnlock()

	states := make([]interfaceStateWire, 0, len(d.interfaces))
	for _, iface := range d.interfaces {
		status := "down"
		if iface.Enabled != nil && *iface.Enabled {
			status = "up"
		}
		states = append(states, interfaceStateWire{
			Name:        iface.Name,
			Type:        iface.Type,
			AdminStatus: status,
			OperStatus:  status,
		})
	}

	data, _ := json.Marshal(map[string]any{
		restconf.InterfacesStateContainer: map[string]any{"interface": states},
	})
	return data
}

func (d *Device) statisticsDocument() []byte {
	d.mu.RLock()
	defer d.mu.RUnlock()

	data, _ := json.Marshal(map[string]any{
		restconf.StatisticsContainer: map[string]any{
			"discontinuity-time": "2026-01-01T00:00:00+00:00",
			"in-octets":          0,
			"out-octets":         0,
		},
	})
	return data
}
