package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/netauto/iosxecfg/internal/restconf"
	"github.com/netauto/iosxecfg/internal/ui"
)

var (
	vlanVerify  bool
	vlanRetries int
)

func init() {
	vlanConfigureCmd.Flags().BoolVar(&vlanVerify, "verify", false, "Read the VLAN list back until the entry matches")
	vlanConfigureCmd.Flags().IntVar(&vlanRetries, "retries", 3, "Number of verification read-backs")

	vlanCmd.AddCommand(vlanConfigureCmd)
	rootCmd.AddCommand(vlansCmd)
	rootCmd.AddCommand(vlanCmd)
}

var vlansCmd = &cobra.Command{
	Use:   "vlans",
	Short: "List configured VLANs",
	Args:  cobra.NoArgs,
	RunE:  runVLANs,
}

var vlanCmd = &cobra.Command{
	Use:   "vlan",
	Short: "Change one VLAN",
}

var vlanConfigureCmd = &cobra.Command{
	Use:   "configure <id> [name]",
	Short: "Create or rename a VLAN",
	Long: `Create a VLAN or change its name with a PATCH of the vlan-list.

The id range is enforced by the switch, not locally.`,
	Example: `  iosxe-cfg vlan configure 100 engineering --device 10.0.0.1 --verify`,
	Args:    cobra.RangeArgs(1, 2),
	RunE:    runVLANConfigure,
}

func runVLANs(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}

	vlans, err := s.client.VLANs(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to read VLANs: %w", err)
	}
	s.touch("")

	return writeOutput(cmd.OutOrStdout(), s.format, vlans, restconf.FormatVLANs(vlans))
}

func runVLANConfigure(cmd *cobra.Command, args []string) error {
	id := args[0]
	if err := restconf.ValidateVLANID(id); err != nil {
		return err
	}
	var name string
	if len(args) > 1 {
		name = args[1]
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	s.header("Configure VLAN", "iosxe-cfg vlan configure "+id)

	if vlanVerify {
		opts := restconf.DefaultVerificationOptions()
		opts.MaxRetries = vlanRetries
		result := s.client.ConfigureVLANAndVerify(cmd.Context(), id, name, opts)
		if err := reportVerification(s, "VLAN "+id, result); err != nil {
			return err
		}
		s.touch("")
		return nil
	}

	ok, err := s.client.ConfigureVLAN(cmd.Context(), id, name)
	if !ok {
		if s.detailed() {
			s.printer.PrintError("VLAN "+id+" not configured", err)
		}
		return fmt.Errorf("VLAN %s not configured: %w", id, err)
	}
	s.touch("")

	vlan := restconf.VLAN{ID: restconf.VLANID(id), Name: name}
	if s.detailed() {
		s.printer.PrintResult(ui.NewSuccessResult("VLAN configured").AddDetail("VLAN", restconf.FormatVLAN(vlan)))
		return nil
	}
	return writeOutput(cmd.OutOrStdout(), s.format, vlan, "")
}
