package config

import (
	"fmt"
	"sort"
	"time"
)

// Transport kinds a profile may select.
const (
	TransportSerial = "serial"
	TransportTCP    = "tcp"
)

// Registry represents the entire user configuration file: saved connection
// profiles plus application preferences.
type Registry struct {
	Version     int                 `yaml:"version"`
	Profiles    map[string]*Profile `yaml:"profiles,omitempty"` // Keyed by profile name
	Preferences *Preferences        `yaml:"preferences,omitempty"`
}

// Profile is one saved way of reaching a fleet: a serial device or a TCP
// peer, plus the layout to apply.
type Profile struct {
	// Transport is "serial" or "tcp".
	Transport string `yaml:"transport"`

	// Device is the serial device path (serial profiles only).
	Device string `yaml:"device,omitempty"`

	// Baud overrides the serial baud rate; 0 selects the default.
	Baud int `yaml:"baud,omitempty"`

	// Host and Port locate the robot's WiFi module (tcp profiles only).
	Host string `yaml:"host,omitempty"`
	Port int    `yaml:"port,omitempty"`

	// Layout is the path of a YAML layout file; empty selects the stock
	// DuinoBot layout on tcp, auto-discovery on serial.
	Layout string `yaml:"layout,omitempty"`

	// LastUsed is when this profile last opened a session.
	LastUsed time.Time `yaml:"last_used,omitempty"`
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	// DefaultProfile names the profile used when none is given.
	DefaultProfile string `yaml:"default_profile,omitempty"`

	// ScanTimeout is the mDNS discovery timeout in seconds.
	ScanTimeout int `yaml:"scan_timeout"`
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:  1,
		Profiles: make(map[string]*Profile),
		Preferences: &Preferences{
			ScanTimeout: 10,
		},
	}
}

// Validate checks that the profile is internally consistent.
func (p *Profile) Validate() error {
	switch p.Transport {
	case TransportSerial:
		if p.Device == "" {
			return fmt.Errorf("serial profile requires a device path")
		}
	case TransportTCP:
		if p.Host == "" {
			return fmt.Errorf("tcp profile requires a host")
		}
		if p.Port <= 0 || p.Port > 65535 {
			return fmt.Errorf("tcp profile requires a port in 1..65535, got %d", p.Port)
		}
	default:
		return fmt.Errorf("unknown transport %q (want %q or %q)", p.Transport, TransportSerial, TransportTCP)
	}
	return nil
}

// GetProfile retrieves a profile by name.
// Returns nil if the profile doesn't exist in the registry.
func (r *Registry) GetProfile(name string) *Profile {
	return r.Profiles[name]
}

// SetProfile validates and stores a profile under the given name,
// replacing any existing one.
func (r *Registry) SetProfile(name string, p *Profile) error {
	if name == "" {
		return fmt.Errorf("profile name must not be empty")
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("invalid profile %q: %w", name, err)
	}
	if r.Profiles == nil {
		r.Profiles = make(map[string]*Profile)
	}
	r.Profiles[name] = p
	return nil
}

// DeleteProfile removes a profile by name. Removing an absent profile is
// not an error. The default-profile preference is cleared when it pointed
// at the removed entry.
func (r *Registry) DeleteProfile(name string) {
	delete(r.Profiles, name)
	if r.Preferences != nil && r.Preferences.DefaultProfile == name {
		r.Preferences.DefaultProfile = ""
	}
}

// ProfileNames returns the saved profile names in sorted order.
func (r *Registry) ProfileNames() []string {
	names := make([]string, 0, len(r.Profiles))
	for name := range r.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// TouchProfile updates the last-used timestamp for a profile.
func (r *Registry) TouchProfile(name string) {
	if p, ok := r.Profiles[name]; ok {
		p.LastUsed = time.Now()
	}
}

// DefaultProfile resolves the preferred profile: the named preference when
// set, otherwise the sole saved profile, otherwise nil.
func (r *Registry) DefaultProfile() (string, *Profile) {
	if r.Preferences != nil && r.Preferences.DefaultProfile != "" {
		if p := r.Profiles[r.Preferences.DefaultProfile]; p != nil {
			return r.Preferences.DefaultProfile, p
		}
	}
	if len(r.Profiles) == 1 {
		for name, p := range r.Profiles {
			return name, p
		}
	}
	return "", nil
}
