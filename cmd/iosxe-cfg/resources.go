package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/netauto/iosxecfg/internal/restconf"
	"github.com/netauto/iosxecfg/internal/ui"
	"github.com/netauto/iosxecfg/internal/urls"
)

var saveRoot bool

func init() {
	discoverRootCmd.Flags().BoolVar(&saveRoot, "save", false, "Store the discovered root in the selected --profile")

	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(discoverRootCmd)
}

var probeCmd = &cobra.Command{
	Use:   "probe <container>",
	Short: "Print the raw document of any YANG container",
	Long: `Print the raw document of any YANG container under the datastore.

Container names are module-qualified, as in the models at
` + urls.IOSXEYangModels + `
and the ietf-interfaces (` + urls.IETFInterfaces + `) and
ietf-ip (` + urls.IETFIP + `) modules.`,
	Example: `  iosxe-cfg probe Cisco-IOS-XE-native:native/hostname --device 10.0.0.1
  iosxe-cfg probe ietf-interfaces:interfaces --device 10.0.0.1 --format yaml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		container := args[0]
		return runRawRead(cmd, func(c *restconf.Client, ctx context.Context) (json.RawMessage, error) {
			return c.Probe(ctx, container)
		})
	},
}

var discoverRootCmd = &cobra.Command{
	Use:   "discover-root",
	Short: "Find the RESTCONF root through /.well-known/host-meta",
	Long: `Ask the switch for its RESTCONF root (` + urls.RootDiscovery + `).

IOS-XE answers "/restconf". With --save and --profile the root is stored
in the profile and used for later calls.`,
	Args: cobra.NoArgs,
	RunE: runDiscoverRoot,
}

func runRawRead(cmd *cobra.Command, read func(*restconf.Client, context.Context) (json.RawMessage, error)) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}

	raw, err := read(s.client, cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}
	s.touch("")
	return writeRaw(cmd.OutOrStdout(), s.format, raw)
}

type rootView struct {
	APIRoot string `json:"api_root" yaml:"api_root"`
	Saved   bool   `json:"saved" yaml:"saved"`
}

func runDiscoverRoot(cmd *cobra.Command, args []string) error {
	if saveRoot && profileName == "" {
		return fmt.Errorf("--save needs --profile")
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}

	root, err := s.client.DiscoverRoot(cmd.Context())
	if err != nil {
		return fmt.Errorf("root discovery failed: %w", err)
	}

	view := rootView{APIRoot: root}
	if saveRoot {
		p := s.registry.Profile(s.profile)
		p.APIRoot = root
		if err := saveRegistry(s.registry); err != nil {
			return fmt.Errorf("failed to save profile: %w", err)
		}
		view.Saved = true
	}

	if s.detailed() {
		r := ui.NewSuccessResult("RESTCONF root found").AddDetail("Root", root)
		if view.Saved {
			r.AddDetail("Profile", s.profile)
		}
		s.printer.PrintResult(r)
		return nil
	}
	return writeOutput(cmd.OutOrStdout(), s.format, view, "")
}
