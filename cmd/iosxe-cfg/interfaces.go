package main

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/netauto/iosxecfg/internal/restconf"
	"github.com/netauto/iosxecfg/internal/ui"
)

var (
	addressedOnly bool
	namesOnly     bool

	ifAddress     string
	ifMask        string
	ifDescription string
	assumeYes     bool
)

func init() {
	interfacesCmd.Flags().BoolVar(&addressedOnly, "addressed", false, "Only interfaces with an IP address")
	interfacesCmd.Flags().BoolVar(&namesOnly, "names", false, "Only list interface names")

	interfaceConfigureCmd.Flags().StringVar(&ifAddress, "address", "", "IPv4 address to set as primary")
	interfaceConfigureCmd.Flags().StringVar(&ifMask, "mask", "", "Dotted subnet mask for --address")
	interfaceConfigureCmd.Flags().StringVar(&ifDescription, "description", "", "Interface description")
	interfaceConfigureCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask before changing the address the session uses")

	interfacesCmd.AddCommand(interfacesStateCmd)
	interfacesCmd.AddCommand(interfacesStatsCmd)
	interfaceCmd.AddCommand(interfaceConfigureCmd)
	rootCmd.AddCommand(interfacesCmd)
	rootCmd.AddCommand(interfaceCmd)
}

var interfacesCmd = &cobra.Command{
	Use:   "interfaces",
	Short: "List interfaces",
	Example: `  # Interfaces with an IP address, as the menu shows them
  iosxe-cfg interfaces --addressed --device 10.0.0.1

  # Every interface as JSON
  iosxe-cfg interfaces --device 10.0.0.1 --format json`,
	Args: cobra.NoArgs,
	RunE: runInterfaces,
}

var interfacesStateCmd = &cobra.Command{
	Use:   "state",
	Short: "Show the ietf-interfaces:interfaces-state document",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRawRead(cmd, (*restconf.Client).InterfacesState)
	},
}

var interfacesStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the ietf-interfaces:statistics document",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRawRead(cmd, (*restconf.Client).InterfaceStatistics)
	},
}

var interfaceCmd = &cobra.Command{
	Use:   "interface",
	Short: "Change one interface",
}

var interfaceConfigureCmd = &cobra.Command{
	Use:   "configure <name>",
	Short: "Set the primary IPv4 address and/or description of an interface",
	Long: `Set the primary IPv4 address and the description of an interface.

The name must be one the switch reports (see 'iosxe-cfg interfaces --names').
The address and the description are separate requests: the address is sent
first and each part succeeds or fails on its own. A part left empty is
skipped and reported as such. Nothing is rolled back.`,
	Example: `  iosxe-cfg interface configure GigabitEthernet1/0/1 \
      --address 10.1.1.1 --mask 255.255.255.0 --description "uplink to dist-1" \
      --device 10.0.0.1`,
	Args: cobra.ExactArgs(1),
	RunE: runInterfaceConfigure,
}

func runInterfaces(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	if namesOnly {
		names, err := s.client.AvailableInterfaceNames(ctx)
		if err != nil {
			return fmt.Errorf("failed to read interfaces: %w", err)
		}
		s.touch("")
		return writeOutput(cmd.OutOrStdout(), s.format, names, restconf.FormatInterfaceNames(names))
	}

	var interfaces []restconf.Interface
	if addressedOnly {
		interfaces, err = s.client.AddressedInterfaces(ctx)
	} else {
		interfaces, err = s.client.Interfaces(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to read interfaces: %w", err)
	}
	s.touch("")

	return writeOutput(cmd.OutOrStdout(), s.format, interfaces, restconf.FormatInterfaces(interfaces))
}

type interfaceOutcomeView struct {
	Name             string `json:"name" yaml:"name"`
	Address          string `json:"address" yaml:"address"`
	Description      string `json:"description" yaml:"description"`
	AddressError     string `json:"address_error,omitempty" yaml:"address_error,omitempty"`
	DescriptionError string `json:"description_error,omitempty" yaml:"description_error,omitempty"`
}

func errorText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func runInterfaceConfigure(cmd *cobra.Command, args []string) error {
	change := restconf.InterfaceChange{
		Name:        args[0],
		Address:     ifAddress,
		Mask:        ifMask,
		Description: ifDescription,
	}
	if change.Address == "" && change.Description == "" {
		return fmt.Errorf("nothing to change: give --address/--mask and/or --description")
	}
	if err := restconf.ValidateInterfaceChange(change); err != nil {
		return err
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	ctx := cmd.Context()

	interfaces, err := s.client.Interfaces(ctx)
	if err != nil {
		return fmt.Errorf("failed to read interfaces: %w", err)
	}
	current, ok := findInterface(interfaces, change.Name)
	if !ok {
		names := make([]string, 0, len(interfaces))
		for _, iface := range interfaces {
			names = append(names, iface.Name)
		}
		return fmt.Errorf("%s is not an interface on this switch; available:\n%s",
			change.Name, strings.TrimRight(restconf.FormatInterfaceNames(names), "\n"))
	}

	if change.Address != "" && carriesSession(current, s.conn.Address) && !assumeYes {
		confirmed := ui.ConfirmChange(cmd.InOrStdin(), cmd.ErrOrStderr(),
			"Address of the management interface",
			[]string{
				change.Name + " holds the address this session connects to",
				"The switch may become unreachable at " + s.conn.Address,
			})
		if !confirmed {
			return fmt.Errorf("change to %s cancelled", change.Name)
		}
	}

	s.header("Configure interface", "iosxe-cfg interface configure "+change.Name)

	outcome, err := s.client.ConfigureInterface(ctx, change)
	if err != nil {
		return err
	}
	if outcome.AddressApplied || outcome.DescriptionApplied {
		s.touch("")
	}

	if s.detailed() {
		s.printer.PrintResult(ui.OutcomeResult(outcome))
	} else {
		view := interfaceOutcomeView{
			Name:             outcome.Name,
			Address:          restconf.PartState(outcome.AddressApplied, outcome.AddressSkipped),
			Description:      restconf.PartState(outcome.DescriptionApplied, outcome.DescriptionSkipped),
			AddressError:     errorText(outcome.AddressErr),
			DescriptionError: errorText(outcome.DescriptionErr),
		}
		if err := writeOutput(cmd.OutOrStdout(), s.format, view, ""); err != nil {
			return err
		}
	}

	if !outcome.Complete() {
		return errors.New(restconf.FormatOutcome(outcome))
	}
	return nil
}

func findInterface(interfaces []restconf.Interface, name string) (restconf.Interface, bool) {
	for _, iface := range interfaces {
		if iface.Name == name {
			return iface, true
		}
	}
	return restconf.Interface{}, false
}

// carriesSession reports whether iface holds the IP address in address
func carriesSession(iface restconf.Interface, address string) bool {
	host := address
	if u, err := url.Parse(address); err == nil && u.Host != "" {
		host = u.Hostname()
	} else if h, _, err := net.SplitHostPort(address); err == nil {
		host = h
	}
	host = strings.Trim(host, "[]")

	for _, block := range []*restconf.AddressBlock{iface.IPv4, iface.IPv6} {
		if block.Empty() {
			continue
		}
		for _, a := range block.Address {
			if a.IP == host {
				return true
			}
		}
	}
	return false
}
