package shell

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"slices"
	"strconv"
	"strings"

	"github.com/netauto/iosxecfg/internal/restconf"
	"github.com/netauto/iosxecfg/internal/ui"
)

// Choice is one entry of the shell menu
type Choice int

const (
	ShowHostname Choice = iota + 1
	ChangeHostname
	ListAddressedInterfaces
	ConfigureInterface
	ListVLANs
	ConfigureVLAN
	ProbeContainer
)

// Choices returns every menu entry in menu order
func Choices() []Choice {
	return []Choice{
		ShowHostname,
		ChangeHostname,
		ListAddressedInterfaces,
		ConfigureInterface,
		ListVLANs,
		ConfigureVLAN,
		ProbeContainer,
	}
}

// String returns the menu label
func (c Choice) String() string {
	if cmd, ok := Commands[c]; ok {
		return cmd.Title
	}
	return "Choice(" + strconv.Itoa(int(c)) + ")"
}

// ParseChoice converts the number typed at the menu prompt into a Choice
func ParseChoice(s string) (Choice, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, restconf.NewValidationError(fmt.Sprintf("%q is not a menu number", s))
	}
	c := Choice(n)
	if _, ok := Commands[c]; !ok {
		return 0, restconf.NewValidationError(fmt.Sprintf("no menu entry %d (choose 1-%d)", n, len(Commands)))
	}
	return c, nil
}

// Device is the subset of the RESTCONF client the menu drives.
// *restconf.Client satisfies it.
type Device interface {
	Hostname(ctx context.Context) (string, error)
	SetHostname(ctx context.Context, hostname string) (bool, error)
	AddressedInterfaces(ctx context.Context) ([]restconf.Interface, error)
	AvailableInterfaceNames(ctx context.Context) ([]string, error)
	ConfigureInterface(ctx context.Context, change restconf.InterfaceChange) (restconf.InterfaceOutcome, error)
	VLANs(ctx context.Context) ([]restconf.VLAN, error)
	ConfigureVLAN(ctx context.Context, id, name string) (bool, error)
	Probe(ctx context.Context, container string) (json.RawMessage, error)
}

// Field keys used in Input
const (
	FieldHostname    = "hostname"
	FieldInterface   = "interface"
	FieldDescription = "description"
	FieldAddress     = "address"
	FieldMask        = "mask"
	FieldVLANID      = "vlan_id"
	FieldVLANName    = "vlan_name"
	FieldContainer   = "container"
)

// Input holds the values entered for a command's fields, by field key
type Input map[string]string

// Field is one value prompted for before a command runs
type Field struct {
	Key         string
	Prompt      string
	Placeholder string
	Optional    bool
	Validate    func(string) error
}

// Check validates a single entered value. Allowed, when non-empty, restricts
// the value to a set the device reported.
func (f Field) Check(value string, allowed []string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		if f.Optional {
			return nil
		}
		return restconf.NewValidationError(f.Key + " is required")
	}
	if len(allowed) > 0 && !slices.Contains(allowed, value) {
		return restconf.NewValidationError(fmt.Sprintf("%s is not available on this switch", value))
	}
	if f.Validate != nil {
		return f.Validate(value)
	}
	return nil
}

// Preparation is what a command learns from the device before prompting
type Preparation struct {
	// Notice is shown above the first prompt
	Notice string

	// Allowed restricts the values of a field, by field key
	Allowed map[string][]string
}

// Command is one entry of the dispatch table
type Command struct {
	Choice Choice
	Title  string
	Fields []Field

	// Prepare is optional and runs before any field is prompted for
	Prepare func(ctx context.Context, dev Device) (Preparation, error)

	Run func(ctx context.Context, dev Device, in Input) Outcome
}

// Status classifies an Outcome
type Status int

const (
	StatusOK Status = iota
	StatusPartial
	StatusFailed
)

// Outcome is the structured result of running a command. The shell renders
// it; nothing in a command prints.
type Outcome struct {
	Choice  Choice
	Status  Status
	Title   string
	Details []ui.Detail
	Body    string // preformatted listing, shown below the result box
	Err     error

	// Interface is set by ConfigureInterface
	Interface *restconf.InterfaceOutcome
}

// Result converts the outcome into a result box
func (o Outcome) Result() *ui.Result {
	if o.Interface != nil {
		return ui.OutcomeResult(*o.Interface)
	}

	var r *ui.Result
	switch o.Status {
	case StatusFailed:
		r = ui.FailureFromError(o.Title, o.Err)
	case StatusPartial:
		r = ui.NewWarningResult(o.Title)
	default:
		r = ui.NewSuccessResult(o.Title)
	}
	r.Details = append(r.Details, o.Details...)
	return r
}

func failed(choice Choice, title string, err error) Outcome {
	return Outcome{Choice: choice, Status: StatusFailed, Title: title, Err: err}
}

// Dispatch runs the command for choice. Unknown choices produce a failed
// outcome rather than an error.
func Dispatch(ctx context.Context, dev Device, choice Choice, in Input) Outcome {
	cmd, ok := Commands[choice]
	if !ok {
		return failed(choice, "Unknown menu entry", restconf.NewValidationError(fmt.Sprintf("no menu entry %d", int(choice))))
	}
	for _, f := range cmd.Fields {
		if err := f.Check(in[f.Key], nil); err != nil {
			return failed(choice, cmd.Title, err)
		}
	}
	return cmd.Run(ctx, dev, in)
}

// Commands is the menu dispatch table
var Commands = map[Choice]Command{
	ShowHostname: {
		Choice: ShowHostname,
		Title:  "Show the hostname",
		Run:    runShowHostname,
	},
	ChangeHostname: {
		Choice: ChangeHostname,
		Title:  "Change the hostname",
		Fields: []Field{
			{Key: FieldHostname, Prompt: "New hostname", Placeholder: "core-sw1", Validate: restconf.ValidateHostname},
		},
		Run: runChangeHostname,
	},
	ListAddressedInterfaces: {
		Choice: ListAddressedInterfaces,
		Title:  "Show interfaces with an IP address",
		Run:    runListAddressedInterfaces,
	},
	ConfigureInterface: {
		Choice: ConfigureInterface,
		Title:  "Configure an IP address on an interface",
		Fields: []Field{
			{Key: FieldInterface, Prompt: "Interface", Placeholder: "GigabitEthernet1/0/1", Validate: validateInterfaceName},
			{Key: FieldDescription, Prompt: "Description", Placeholder: "uplink to dist-1", Optional: true},
			{Key: FieldAddress, Prompt: "IPv4 address", Placeholder: "10.1.1.1", Optional: true, Validate: validateIPv4},
			{Key: FieldMask, Prompt: "Subnet mask", Placeholder: "255.255.255.0", Optional: true, Validate: restconf.ValidateNetmask},
		},
		Prepare: prepareConfigureInterface,
		Run:     runConfigureInterface,
	},
	ListVLANs: {
		Choice: ListVLANs,
		Title:  "Show configured VLANs",
		Run:    runListVLANs,
	},
	ConfigureVLAN: {
		Choice: ConfigureVLAN,
		Title:  "Configure a VLAN",
		Fields: []Field{
			{Key: FieldVLANID, Prompt: "VLAN id", Placeholder: "100", Validate: restconf.ValidateVLANID},
			{Key: FieldVLANName, Prompt: "VLAN name", Placeholder: "engineering", Optional: true},
		},
		Run: runConfigureVLAN,
	},
	ProbeContainer: {
		Choice: ProbeContainer,
		Title:  "Show a YANG container",
		Fields: []Field{
			{Key: FieldContainer, Prompt: "Container", Placeholder: "Cisco-IOS-XE-native:native/hostname"},
		},
		Run: runProbeContainer,
	},
}

func validateInterfaceName(name string) error {
	_, _, err := restconf.SplitInterfaceName(name)
	return err
}

func validateIPv4(address string) error {
	if ip := net.ParseIP(address); ip == nil || ip.To4() == nil {
		return restconf.NewValidationError(fmt.Sprintf("%q is not an IPv4 address", address))
	}
	return nil
}

func runShowHostname(ctx context.Context, dev Device, _ Input) Outcome {
	hostname, err := dev.Hostname(ctx)
	if err != nil {
		return failed(ShowHostname, "Hostname not read", err)
	}
	return Outcome{
		Choice:  ShowHostname,
		Title:   "Current hostname",
		Details: []ui.Detail{{Key: "Hostname", Value: hostname}},
	}
}

func runChangeHostname(ctx context.Context, dev Device, in Input) Outcome {
	hostname := strings.TrimSpace(in[FieldHostname])
	ok, err := dev.SetHostname(ctx, hostname)
	if !ok {
		return failed(ChangeHostname, "Hostname not updated", err)
	}
	return Outcome{
		Choice:  ChangeHostname,
		Title:   "Hostname updated",
		Details: []ui.Detail{{Key: "Hostname", Value: hostname}},
	}
}

func runListAddressedInterfaces(ctx context.Context, dev Device, _ Input) Outcome {
	interfaces, err := dev.AddressedInterfaces(ctx)
	if err != nil {
		return failed(ListAddressedInterfaces, "Interfaces not read", err)
	}
	return Outcome{
		Choice:  ListAddressedInterfaces,
		Title:   "Interfaces with an IP address",
		Details: []ui.Detail{{Key: "Count", Value: strconv.Itoa(len(interfaces))}},
		Body:    restconf.FormatInterfaces(interfaces),
	}
}

func prepareConfigureInterface(ctx context.Context, dev Device) (Preparation, error) {
	names, err := dev.AvailableInterfaceNames(ctx)
	if err != nil {
		return Preparation{}, err
	}
	return Preparation{
		Notice:  "Interfaces on this switch:\n" + restconf.FormatInterfaceNames(names),
		Allowed: map[string][]string{FieldInterface: names},
	}, nil
}

func runConfigureInterface(ctx context.Context, dev Device, in Input) Outcome {
	change := restconf.InterfaceChange{
		Name:        strings.TrimSpace(in[FieldInterface]),
		Address:     strings.TrimSpace(in[FieldAddress]),
		Mask:        strings.TrimSpace(in[FieldMask]),
		Description: strings.TrimSpace(in[FieldDescription]),
	}

	if err := restconf.ValidateInterfaceChange(change); err != nil {
		return failed(ConfigureInterface, "Interface "+change.Name+" not configured", err)
	}

	outcome, err := dev.ConfigureInterface(ctx, change)
	if err != nil {
		return failed(ConfigureInterface, "Interface "+change.Name+" not configured", err)
	}

	status := StatusFailed
	switch {
	case outcome.Complete():
		status = StatusOK
	case outcome.Partial():
		status = StatusPartial
	}
	return Outcome{
		Choice:    ConfigureInterface,
		Status:    status,
		Title:     restconf.FormatOutcome(outcome),
		Err:       errors.Join(outcome.AddressErr, outcome.DescriptionErr),
		Interface: &outcome,
	}
}

func runListVLANs(ctx context.Context, dev Device, _ Input) Outcome {
	vlans, err := dev.VLANs(ctx)
	if err != nil {
		return failed(ListVLANs, "VLANs not read", err)
	}
	return Outcome{
		Choice:  ListVLANs,
		Title:   "Configured VLANs",
		Details: []ui.Detail{{Key: "Count", Value: strconv.Itoa(len(vlans))}},
		Body:    restconf.FormatVLANs(vlans),
	}
}

func runConfigureVLAN(ctx context.Context, dev Device, in Input) Outcome {
	id := strings.TrimSpace(in[FieldVLANID])
	name := strings.TrimSpace(in[FieldVLANName])

	ok, err := dev.ConfigureVLAN(ctx, id, name)
	if !ok {
		return failed(ConfigureVLAN, "VLAN "+id+" not configured", err)
	}

	details := []ui.Detail{{Key: "VLAN", Value: id}}
	if name != "" {
		details = append(details, ui.Detail{Key: "Name", Value: name})
	}
	return Outcome{Choice: ConfigureVLAN, Title: "VLAN configured", Details: details}
}

func runProbeContainer(ctx context.Context, dev Device, in Input) Outcome {
	container := strings.TrimSpace(in[FieldContainer])
	raw, err := dev.Probe(ctx, container)
	if err != nil {
		return failed(ProbeContainer, "Container not read", err)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		pretty.Reset()
		pretty.Write(raw)
	}
	return Outcome{
		Choice:  ProbeContainer,
		Title:   "Container " + container,
		Details: []ui.Detail{{Key: "Bytes", Value: strconv.Itoa(len(raw))}},
		Body:    pretty.String() + "\n",
	}
}
