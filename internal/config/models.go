package config

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"
)

// CurrentVersion is the registry file format version
const CurrentVersion = 1

// Output formats accepted by Preferences.OutputFormat
const (
	FormatDetailed = "detailed"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
)

var validate = validator.New()

// Registry represents the entire user configuration file.
// It stores switch profiles and application preferences.
type Registry struct {
	Version     int                 `yaml:"version"`
	Profiles    map[string]*Profile `yaml:"profiles,omitempty"` // Keyed by profile name
	Preferences *Preferences        `yaml:"preferences,omitempty"`
}

// Profile records how to reach one switch.
// Passwords are never stored; they are supplied per invocation.
type Profile struct {
	Address      string    `json:"address" yaml:"address" validate:"required"`                                      // Host, host:port or https URL
	Username     string    `json:"username,omitempty" yaml:"username,omitempty"`                                    // Basic Auth username
	APIRoot      string    `json:"api_root,omitempty" yaml:"api_root,omitempty" validate:"omitempty,startswith=/"` // RESTCONF root, when not /restconf
	LastHostname string    `json:"last_hostname,omitempty" yaml:"last_hostname,omitempty"`                          // Hostname reported on the last successful read
	LastSeen     time.Time `json:"last_seen,omitempty" yaml:"last_seen,omitempty"`                                  // Time of the last successful call
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	TimeoutSeconds  int    `yaml:"timeout_seconds" validate:"min=1,max=300"`          // Per-request timeout
	OutputFormat    string `yaml:"output_format" validate:"oneof=detailed json yaml"` // Default --format
	DefaultUsername string `yaml:"default_username,omitempty"`                        // Used when a profile has no username
}

func defaultPreferences() *Preferences {
	return &Preferences{
		TimeoutSeconds:  10,
		OutputFormat:    FormatDetailed,
		DefaultUsername: "admin",
	}
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     CurrentVersion,
		Profiles:    make(map[string]*Profile),
		Preferences: defaultPreferences(),
	}
}

// Profile returns the named profile, or nil.
func (r *Registry) Profile(name string) *Profile {
	return r.Profiles[name]
}

// SetProfile validates and stores a profile under name.
func (r *Registry) SetProfile(name string, p *Profile) error {
	if name == "" {
		return fmt.Errorf("profile name is required")
	}
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid profile %q: %w", name, err)
	}
	if r.Profiles == nil {
		r.Profiles = make(map[string]*Profile)
	}
	r.Profiles[name] = p
	return nil
}

// RemoveProfile deletes the named profile and reports whether it existed.
func (r *Registry) RemoveProfile(name string) bool {
	if _, ok := r.Profiles[name]; !ok {
		return false
	}
	delete(r.Profiles, name)
	return true
}

// ProfileNames returns the profile names in sorted order.
func (r *Registry) ProfileNames() []string {
	return slices.Sorted(maps.Keys(r.Profiles))
}

// RecordSeen stamps a profile after a successful call.
func (r *Registry) RecordSeen(name, hostname string) {
	p := r.Profiles[name]
	if p == nil {
		return
	}
	p.LastSeen = time.Now()
	if hostname != "" {
		p.LastHostname = hostname
	}
}

// Timeout returns the preferred request timeout.
func (r *Registry) Timeout() time.Duration {
	if r.Preferences == nil || r.Preferences.TimeoutSeconds <= 0 {
		return time.Duration(defaultPreferences().TimeoutSeconds) * time.Second
	}
	return time.Duration(r.Preferences.TimeoutSeconds) * time.Second
}

// Validate checks every profile and the preferences.
func (r *Registry) Validate() error {
	for _, name := range r.ProfileNames() {
		if err := validate.Struct(r.Profiles[name]); err != nil {
			return fmt.Errorf("invalid profile %q: %w", name, err)
		}
	}
	if r.Preferences != nil {
		if err := validate.Struct(r.Preferences); err != nil {
			return fmt.Errorf("invalid preferences: %w", err)
		}
	}
	return nil
}
