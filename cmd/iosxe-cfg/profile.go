package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/netauto/iosxecfg/internal/config"
	"github.com/netauto/iosxecfg/internal/discovery"
)

var (
	profileAPIRoot string

	scanTimeout  time.Duration
	restconfOnly bool
)

func init() {
	profileSaveCmd.Flags().StringVar(&profileAPIRoot, "api-root", "", "RESTCONF root when it is not /restconf")

	scanCmd.Flags().DurationVar(&scanTimeout, "scan-timeout", discovery.DefaultScanTimeout, "How long to listen for mDNS answers")
	scanCmd.Flags().BoolVar(&restconfOnly, "restconf-only", false, "Only show services advertising a RESTCONF path")

	profileCmd.AddCommand(profileSaveCmd)
	profileCmd.AddCommand(profileListCmd)
	profileCmd.AddCommand(profileRemoveCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(scanCmd)
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage saved switch profiles",
	Long: `Profiles store a switch address, username and RESTCONF root under a name.
Passwords are never stored.`,
}

var profileSaveCmd = &cobra.Command{
	Use:     "save <name>",
	Short:   "Save --device and --username under a name",
	Example: `  iosxe-cfg profile save core --device 10.0.0.1 --username netops`,
	Args:    cobra.ExactArgs(1),
	RunE:    runProfileSave,
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved profiles",
	Args:  cobra.NoArgs,
	RunE:  runProfileList,
}

var profileRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Delete a saved profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileRemove,
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Find HTTPS services on the local network with mDNS",
	Long: `Browse _https._tcp with mDNS and list the responders.

Switches only answer when mDNS service export is configured on them.
Use the address shown with --device, or save it with 'profile save'.`,
	Args: cobra.NoArgs,
	RunE: runScan,
}

func runProfileSave(cmd *cobra.Command, args []string) error {
	name := args[0]
	if deviceAddr == "" {
		return fmt.Errorf("--device is required")
	}

	reg, err := loadRegistry()
	if err != nil {
		return err
	}

	p := &config.Profile{
		Address:  deviceAddr,
		Username: username,
		APIRoot:  profileAPIRoot,
	}
	if old := reg.Profile(name); old != nil {
		p.LastHostname = old.LastHostname
		p.LastSeen = old.LastSeen
		if p.APIRoot == "" {
			p.APIRoot = old.APIRoot
		}
	}
	if err := reg.SetProfile(name, p); err != nil {
		return err
	}
	if err := saveRegistry(reg); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved profile %q (%s)\n", name, p.Address)
	return nil
}

type profileView struct {
	Name           string `json:"name" yaml:"name"`
	config.Profile `yaml:",inline"`
}

func runProfileList(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	format, err := resolveFormat(reg)
	if err != nil {
		return err
	}

	names := reg.ProfileNames()
	views := make([]profileView, 0, len(names))
	for _, name := range names {
		views = append(views, profileView{Name: name, Profile: *reg.Profile(name)})
	}

	var b strings.Builder
	if len(views) == 0 {
		b.WriteString("No profiles saved\n")
	} else {
		tw := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tADDRESS\tUSERNAME\tLAST HOSTNAME\tLAST SEEN")
		for _, v := range views {
			seen := "-"
			if !v.LastSeen.IsZero() {
				seen = v.LastSeen.Local().Format(time.DateTime)
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", v.Name, v.Address, orDash(v.Username), orDash(v.LastHostname), seen)
		}
		_ = tw.Flush()
	}

	return writeOutput(cmd.OutOrStdout(), format, views, b.String())
}

func runProfileRemove(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	if !reg.RemoveProfile(args[0]) {
		return fmt.Errorf("profile %q not found", args[0])
	}
	if err := saveRegistry(reg); err != nil {
		return fmt.Errorf("failed to save registry: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed profile %q\n", args[0])
	return nil
}

type scanView struct {
	Instance string            `json:"instance" yaml:"instance"`
	Hostname string            `json:"hostname" yaml:"hostname"`
	Address  string            `json:"address" yaml:"address"`
	APIRoot  string            `json:"api_root,omitempty" yaml:"api_root,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

func runScan(cmd *cobra.Command, args []string) error {
	reg, err := loadRegistry()
	if err != nil {
		return err
	}
	format, err := resolveFormat(reg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if format == config.FormatDetailed {
		fmt.Fprintf(out, "Scanning for %s services (timeout: %s)...\n\n", discovery.ServiceType, scanTimeout)
	}

	scanner := discovery.NewScanner()
	scanner.Timeout = scanTimeout
	scanner.RESTCONFOnly = restconfOnly

	devices, err := scanner.ScanForDevices(cmd.Context())
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	views := make([]scanView, 0, len(devices))
	var b strings.Builder
	if len(devices) == 0 {
		b.WriteString("No devices found.\n")
		b.WriteString("\nTroubleshooting:\n")
		b.WriteString("  - Export _https._tcp with mDNS service-policy on the switch\n")
		b.WriteString("  - Make sure this host is on the same segment as the switch\n")
		b.WriteString("  - Try a longer --scan-timeout\n")
	}
	for i, d := range devices {
		views = append(views, scanView{
			Instance: d.Instance,
			Hostname: d.Hostname,
			Address:  d.Address(),
			APIRoot:  d.APIRoot(),
			Metadata: d.Metadata,
		})
		fmt.Fprintf(&b, "%d. %s\n", i+1, d)
		if root := d.APIRoot(); root != "" {
			fmt.Fprintf(&b, "   RESTCONF root: %s\n", root)
		}
	}
	if len(devices) > 0 {
		b.WriteString("\nUse 'iosxe-cfg profile save <name> --device <address>' to keep one\n")
	}

	return writeOutput(out, format, views, b.String())
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
