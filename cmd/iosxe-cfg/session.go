package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/netauto/iosxecfg/internal/config"
	"github.com/netauto/iosxecfg/internal/logging"
	"github.com/netauto/iosxecfg/internal/restconf"
	"github.com/netauto/iosxecfg/internal/ui"
)

// PasswordEnvVar supplies the password when --password is not given
const PasswordEnvVar = "IOSXE_PASSWORD"

// Connection flags, persistent on root
var (
	deviceAddr     string
	username       string
	password       string
	profileName    string
	timeoutSeconds int
	outputFormat   string
	logLevel       string
	configPath     string
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&deviceAddr, "device", "", "Switch address (host, host:port or https URL)")
	flags.StringVarP(&username, "username", "u", "", "RESTCONF username (default from profile, then \"admin\")")
	flags.StringVarP(&password, "password", "p", "", "RESTCONF password (default $"+PasswordEnvVar+", then prompt)")
	flags.StringVar(&profileName, "profile", "", "Saved device profile to use")
	flags.IntVar(&timeoutSeconds, "timeout", 0, "Request timeout in seconds (default from preferences)")
	flags.StringVar(&outputFormat, "format", "", "Output format (detailed, json, yaml)")
	flags.StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); default $"+logging.LogLevelEnvVar)
	flags.StringVar(&configPath, "config", "", "Profile registry file (default in the user config dir)")
}

// session is one resolved connection plus the registry it came from
type session struct {
	client   *restconf.Client
	conn     restconf.Connection
	registry *config.Registry
	profile  string
	format   string
	printer  *ui.Printer
}

func loadRegistry() (*config.Registry, error) {
	if configPath != "" {
		return config.LoadFrom(configPath)
	}
	return config.LoadRegistry()
}

func saveRegistry(r *config.Registry) error {
	if configPath != "" {
		return r.SaveTo(configPath)
	}
	return r.Save()
}

// resolveFormat returns --format, or the preferred format when the flag is unset
func resolveFormat(reg *config.Registry) (string, error) {
	format := outputFormat
	if format == "" && reg.Preferences != nil {
		format = reg.Preferences.OutputFormat
	}
	if format == "" {
		format = config.FormatDetailed
	}
	switch format {
	case config.FormatDetailed, config.FormatJSON, config.FormatYAML:
		return format, nil
	default:
		return "", fmt.Errorf("unknown output format %q (use detailed, json or yaml)", format)
	}
}

// resolveConnection merges flags, the selected profile and preferences.
// Flags win over the profile, the profile over preferences.
func resolveConnection(reg *config.Registry) (restconf.Connection, error) {
	var conn restconf.Connection

	if profileName != "" {
		p := reg.Profile(profileName)
		if p == nil {
			return conn, fmt.Errorf("profile %q not found (see 'iosxe-cfg profile list')", profileName)
		}
		conn.Address = p.Address
		conn.Username = p.Username
		conn.APIRoot = p.APIRoot
	}

	if deviceAddr != "" {
		conn.Address = deviceAddr
	}
	if conn.Address == "" {
		return conn, errors.New("no switch selected: use --device or --profile")
	}

	if username != "" {
		conn.Username = username
	}
	if conn.Username == "" && reg.Preferences != nil {
		conn.Username = reg.Preferences.DefaultUsername
	}
	if conn.Username == "" {
		conn.Username = restconf.DefaultUsername
	}

	pw, err := resolvePassword(conn)
	if err != nil {
		return conn, err
	}
	conn.Password = pw

	return conn, restconf.ValidateConnection(conn)
}

// resolvePassword never stores the password; it comes from the flag, the
// environment or a no-echo prompt.
func resolvePassword(conn restconf.Connection) (string, error) {
	if password != "" {
		return password, nil
	}
	if pw := os.Getenv(PasswordEnvVar); pw != "" {
		return pw, nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("no password: use --password or $%s", PasswordEnvVar)
	}

	fmt.Fprintf(os.Stderr, "Password for %s@%s: ", conn.Username, conn.Address)
	raw, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimSpace(string(raw)), nil
}

func resolveTimeout(reg *config.Registry) time.Duration {
	if timeoutSeconds > 0 {
		return time.Duration(timeoutSeconds) * time.Second
	}
	return reg.Timeout()
}

// openSession builds the client for the selected switch
func openSession(cmd *cobra.Command) (*session, error) {
	reg, err := loadRegistry()
	if err != nil {
		return nil, err
	}

	format, err := resolveFormat(reg)
	if err != nil {
		return nil, err
	}

	conn, err := resolveConnection(reg)
	if err != nil {
		return nil, err
	}

	client, err := restconf.NewClient(conn, restconf.WithTimeout(resolveTimeout(reg)))
	if err != nil {
		return nil, err
	}

	logging.Debug("Session opened",
		zap.String("base_url", client.BaseURL()),
		zap.String("username", conn.Username),
		zap.String("profile", profileName))

	return &session{
		client:   client,
		conn:     conn,
		registry: reg,
		profile:  profileName,
		format:   format,
		printer:  ui.NewPrinter(cmd.OutOrStdout()),
	}, nil
}

// target names the switch in headers
func (s *session) target() string {
	if s.profile != "" {
		return s.profile + " (" + s.conn.Address + ")"
	}
	return s.conn.Address
}

func (s *session) detailed() bool {
	return s.format == config.FormatDetailed
}

func (s *session) header(title, command string) {
	if !s.detailed() {
		return
	}
	s.printer.PrintHeader(ui.NewHeader(title, command,
		ui.Detail{Key: "Switch", Value: s.target()},
		ui.Detail{Key: "User", Value: s.conn.Username},
	))
}

// touch stamps the profile after a successful exchange. Registry write
// failures are logged, not returned: the device operation already succeeded.
func (s *session) touch(hostname string) {
	if s.profile == "" {
		return
	}
	s.registry.RecordSeen(s.profile, hostname)
	if err := saveRegistry(s.registry); err != nil {
		logging.Warn("Failed to update profile", zap.String("profile", s.profile), zap.Error(err))
	}
}
