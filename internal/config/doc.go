// Package config manages the iosxe-cfg configuration file.
//
// The file is YAML and stores named switch profiles (address, username,
// RESTCONF root, last seen hostname) plus preferences such as the request
// timeout and default output format.
//
// # Configuration File Location
//
//   - Linux: $XDG_CONFIG_HOME/iosxe-cfg/config.yaml or $HOME/.config/iosxe-cfg/config.yaml
//   - macOS: $HOME/.config/iosxe-cfg/config.yaml
//   - Windows: %LOCALAPPDATA%\iosxe-cfg\config.yaml
//
// # Security
//
// Passwords are never written to the file. They come from the --password
// flag, the IOSXE_PASSWORD environment variable, or an interactive prompt.
//
// # Usage Example
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	err = registry.SetProfile("lab", &config.Profile{Address: "10.0.0.1", Username: "admin"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := registry.Save(); err != nil {
//	    log.Fatal(err)
//	}
//
// Writes go to a temporary file that is renamed over the original, and are
// serialized by a package mutex.
package config
