// Iosxe-sim emulates the RESTCONF interface of a Cisco IOS-XE switch.
//
// It serves the hostname, interface and VLAN resources from memory over
// HTTPS so iosxe-cfg can be tried without lab hardware. A self-signed
// certificate is generated at startup unless one is provided.
//
// Usage:
//
//	iosxe-sim serve [flags]
//
// See 'iosxe-sim serve --help' for available options.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/netauto/iosxecfg/internal/simulator"
	"github.com/netauto/iosxecfg/internal/version"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "iosxe-sim",
	Short: "Emulated IOS-XE RESTCONF switch",
	Long: `An in-memory emulation of the RESTCONF datastore of a Cisco IOS-XE switch.

The emulator answers the same resources iosxe-cfg uses (hostname, interfaces,
VLANs) with the same status codes as a real device: 200 for reads and
204 No Content for accepted changes.`,
	Version: version.Version,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

var (
	certPath string
	keyPath  string
	host     string
	port     int
	hostname string
	username string
	password string
	apiRoot  string
	latency  time.Duration
	logLevel string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the emulated switch",
	Long: `Start the emulated switch and serve RESTCONF over HTTPS.

A self-signed certificate is generated in memory unless --cert and --key are
provided, mirroring the certificate a freshly configured switch presents.`,
	Example: `  # Start on the default port with admin/admin credentials
  iosxe-sim serve

  # Custom port, hostname and credentials
  iosxe-sim serve --port 8443 --hostname lab-sw1 --username netops --password s3cret

  # Simulate a slow device to exercise client timeouts
  iosxe-sim serve --latency 3s --log-level debug`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&certPath, "cert", "", "Path to TLS certificate file (optional, will auto-generate if not provided)")
	serveCmd.Flags().StringVar(&keyPath, "key", "", "Path to TLS private key file (optional, will auto-generate if not provided)")
	serveCmd.Flags().StringVar(&host, "host", "127.0.0.1", "Listen address")
	serveCmd.Flags().IntVar(&port, "port", 8443, "Listen port")
	serveCmd.Flags().StringVar(&hostname, "hostname", "Switch", "Initial device hostname")
	serveCmd.Flags().StringVar(&username, "username", simulator.DefaultUsername, "Accepted Basic Auth username")
	serveCmd.Flags().StringVar(&password, "password", simulator.DefaultPassword, "Accepted Basic Auth password")
	serveCmd.Flags().StringVar(&apiRoot, "api-root", "/restconf", "RESTCONF root announced in host-meta")
	serveCmd.Flags().DurationVar(&latency, "latency", 0, "Delay added to every datastore response")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if (certPath != "" && keyPath == "") || (certPath == "" && keyPath != "") {
		return fmt.Errorf("both --cert and --key must be provided together, or neither (will auto-generate)")
	}

	if certPath != "" {
		if _, err := os.Stat(certPath); os.IsNotExist(err) {
			return fmt.Errorf("certificate file not found: %s", certPath)
		}
		if _, err := os.Stat(keyPath); os.IsNotExist(err) {
			return fmt.Errorf("private key file not found: %s", keyPath)
		}
	}

	srv, err := simulator.New(&simulator.Config{
		Host:     host,
		Port:     port,
		CertPath: certPath,
		KeyPath:  keyPath,
		Hostname: hostname,
		Username: username,
		Password: password,
		APIRoot:  apiRoot,
		Latency:  latency,
		LogLevel: logLevel,
	})
	if err != nil {
		return fmt.Errorf("failed to create simulator: %w", err)
	}

	return srv.Start()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.String("iosxe-sim"))
	},
}
