package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/netauto/iosxecfg/internal/restconf"
	"github.com/netauto/iosxecfg/internal/ui"
)

var (
	hostnameVerify  bool
	hostnameRetries int
)

func init() {
	hostnameSetCmd.Flags().BoolVar(&hostnameVerify, "verify", false, "Read the hostname back until it matches")
	hostnameSetCmd.Flags().IntVar(&hostnameRetries, "retries", 3, "Number of verification read-backs")

	hostnameCmd.AddCommand(hostnameGetCmd)
	hostnameCmd.AddCommand(hostnameSetCmd)
	rootCmd.AddCommand(hostnameCmd)
}

var hostnameCmd = &cobra.Command{
	Use:   "hostname",
	Short: "Show or change the switch hostname",
	Example: `  # Show the hostname
  iosxe-cfg hostname --device 10.0.0.1

  # Change it and read it back
  iosxe-cfg hostname set core-sw1 --device 10.0.0.1 --verify`,
	Args: cobra.NoArgs,
	RunE: runHostnameGet,
}

var hostnameGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Show the switch hostname",
	Args:  cobra.NoArgs,
	RunE:  runHostnameGet,
}

var hostnameSetCmd = &cobra.Command{
	Use:   "set <hostname>",
	Short: "Change the switch hostname",
	Long: `Replace the hostname with a PUT to Cisco-IOS-XE-native:native/hostname.

The change counts as applied only when the switch answers 204 No Content.
With --verify the hostname is read back until it matches.`,
	Args: cobra.ExactArgs(1),
	RunE: runHostnameSet,
}

type hostnameView struct {
	Hostname string `json:"hostname" yaml:"hostname"`
}

func runHostnameGet(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}

	hostname, err := s.client.Hostname(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to read hostname: %w", err)
	}
	s.touch(hostname)

	return writeOutput(cmd.OutOrStdout(), s.format, hostnameView{Hostname: hostname},
		fmt.Sprintf("hostname: %s\n", hostname))
}

func runHostnameSet(cmd *cobra.Command, args []string) error {
	hostname := args[0]
	if err := restconf.ValidateHostname(hostname); err != nil {
		return err
	}

	s, err := openSession(cmd)
	if err != nil {
		return err
	}
	s.header("Set hostname", "iosxe-cfg hostname set "+hostname)

	if hostnameVerify {
		opts := restconf.DefaultVerificationOptions()
		opts.MaxRetries = hostnameRetries
		result := s.client.SetHostnameAndVerify(cmd.Context(), hostname, opts)
		if err := reportVerification(s, "Hostname "+hostname, result); err != nil {
			return err
		}
		s.touch(hostname)
		return nil
	}

	ok, err := s.client.SetHostname(cmd.Context(), hostname)
	if !ok {
		if s.detailed() {
			s.printer.PrintError("Hostname not updated", err)
		}
		return fmt.Errorf("hostname not updated: %w", err)
	}
	s.touch(hostname)

	if s.detailed() {
		s.printer.PrintResult(ui.NewSuccessResult("Hostname updated").AddDetail("Hostname", hostname))
		return nil
	}
	return writeOutput(cmd.OutOrStdout(), s.format, hostnameView{Hostname: hostname}, "")
}

type verificationView struct {
	Applied    bool     `json:"applied" yaml:"applied"`
	Verified   bool     `json:"verified" yaml:"verified"`
	Attempts   int      `json:"attempts" yaml:"attempts"`
	Mismatches []string `json:"mismatches,omitempty" yaml:"mismatches,omitempty"`
}

// reportVerification prints a verification result and returns an error
// unless the change was applied and read back.
func reportVerification(s *session, what string, result *restconf.VerificationResult) error {
	if !s.detailed() {
		view := verificationView{
			Applied:    result.Applied,
			Verified:   result.Success,
			Attempts:   result.Attempts,
			Mismatches: result.Mismatches,
		}
		if err := writeOutput(s.printer.Writer(), s.format, view, ""); err != nil {
			return err
		}
	} else if result.Success {
		s.printer.PrintResult(ui.NewSuccessResult(what+" applied and verified").
			AddDetail("Attempts", fmt.Sprint(result.Attempts)))
	} else {
		r := ui.FailureFromError(what+" not verified", result.Error)
		r.Troubleshooting = append(r.Troubleshooting, result.Mismatches...)
		s.printer.PrintResult(r)
	}

	if !result.Success {
		if result.Error == nil {
			return fmt.Errorf("%s not verified", what)
		}
		return result.Error
	}
	return nil
}
