// Iosxe-cfg configures Cisco IOS-XE switches over RESTCONF.
//
// It reads and changes the hostname, interface addresses and descriptions,
// and VLANs of one switch per invocation. Every change is a single request;
// the switch must answer 204 No Content for it to count as applied.
//
// Usage:
//
//	iosxe-cfg [command] [flags]
//
// Running without a command opens the interactive menu.
// See 'iosxe-cfg --help' for available commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/netauto/iosxecfg/internal/logging"
	"github.com/netauto/iosxecfg/internal/shell"
	"github.com/netauto/iosxecfg/internal/urls"
	"github.com/netauto/iosxecfg/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logging.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "iosxe-cfg",
	Short: "RESTCONF configuration client for IOS-XE switches",
	Long: `Read and change the configuration of a Cisco IOS-XE switch over RESTCONF.

The switch needs "ip http secure-server" and "restconf" configured and a
privilege 15 user. Certificates are not verified.

If no command is specified, the interactive menu opens.

Enabling RESTCONF: ` + urls.EnableRESTCONF + `
Protocol: ` + urls.RESTCONF,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logging.Initialize(logLevel)
	},
	RunE: runShell,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintln(cmd.OutOrStdout(), version.String("iosxe-cfg"))
	},
}

func runShell(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}

	if err := shell.Run(cmd.Context(), s.client, s.target(), nil, cmd.OutOrStdout()); err != nil {
		return err
	}
	s.touch("")
	return nil
}
