package restconf

import (
	"fmt"
	"strings"
)

// FormatVLAN renders one VLAN the way the operator menu prints it
func FormatVLAN(v VLAN) string {
	if v.HasName() {
		return fmt.Sprintf("vlan: %s with name : %s", v.ID, v.Name)
	}
	return fmt.Sprintf("vlan: %s", v.ID)
}

// FormatVLANs renders a VLAN list, one line per entry
func FormatVLANs(vlans []VLAN) string {
	if len(vlans) == 0 {
		return "No VLANs configured\n"
	}

	var b strings.Builder
	for _, v := range vlans {
		b.WriteString(FormatVLAN(v))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatInterface renders the description and primary IPv4 address of an interface
func FormatInterface(iface Interface) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("interface %s:\n", iface.Name))
	b.WriteString(fmt.Sprintf("     description: %s\n", iface.Description))
	if addr, ok := iface.PrimaryIPv4(); ok {
		b.WriteString(fmt.Sprintf("     IP address : %s\n", addr.IP))
		b.WriteString(fmt.Sprintf("     Netmask : %s\n", addr.Netmask))
	} else if !iface.IPv6.Empty() {
		addr := iface.IPv6.Address[0]
		b.WriteString(fmt.Sprintf("     IPv6 address : %s/%d\n", addr.IP, addr.PrefixLength))
	}

	return b.String()
}

// FormatInterfaces renders a list of interfaces separated by blank lines
func FormatInterfaces(interfaces []Interface) string {
	if len(interfaces) == 0 {
		return "No interfaces\n"
	}

	blocks := make([]string, 0, len(interfaces))
	for _, iface := range interfaces {
		blocks = append(blocks, FormatInterface(iface))
	}
	return strings.Join(blocks, "\n")
}

// FormatInterfaceNames renders the bullet list of interface names
func FormatInterfaceNames(names []string) string {
	var b strings.Builder
	for _, name := range names {
		b.WriteString(fmt.Sprintf("  * %-25s\n", name))
	}
	return b.String()
}

// FormatOutcome renders the result of ConfigureInterface
func FormatOutcome(o InterfaceOutcome) string {
	if o.Complete() && !o.AddressSkipped && !o.DescriptionSkipped {
		return fmt.Sprintf("interface %s configured", o.Name)
	}
	return fmt.Sprintf("interface %s: address %s, description %s", o.Name,
		PartState(o.AddressApplied, o.AddressSkipped), PartState(o.DescriptionApplied, o.DescriptionSkipped))
}

// PartState names the fate of one part of an interface change
func PartState(applied, skipped bool) string {
	switch {
	case skipped:
		return "skipped"
	case applied:
		return "applied"
	default:
		return "rejected"
	}
}
