package config

import (
	"fmt"
	"sort"
	"time"
)

// Registry represents the entire user configuration file.
// It stores named router profiles and application preferences.
type Registry struct {
	Version     int                 `yaml:"version"`
	Profiles    map[string]*Profile `yaml:"profiles,omitempty"` // Keyed by profile name
	Preferences *Preferences        `yaml:"preferences,omitempty"`
}

// Profile represents the connection settings for one router.
// Note: Passwords are NEVER stored - they come from ARCHER_PASSWORD or a prompt.
type Profile struct {
	Endpoint string        `yaml:"endpoint"`            // Router base URL (e.g., "https://192.168.0.1")
	Polite   *bool         `yaml:"polite,omitempty"`    // Refuse to evict other users (default true)
	Insecure bool          `yaml:"insecure,omitempty"`  // Accept self-signed certificates
	Timeout  time.Duration `yaml:"timeout,omitempty"`   // HTTP request timeout
	Rate     float64       `yaml:"rate,omitempty"`      // Requests per second, 0 = unlimited
	Model    string        `yaml:"model,omitempty"`     // Model name reported by discovery
	LastSeen time.Time     `yaml:"last_seen,omitempty"` // Last successful connection time
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	DefaultProfile  string `yaml:"default_profile,omitempty"` // Profile used when --profile is not given
	DiscoverTimeout int    `yaml:"discover_timeout"`          // mDNS discovery timeout in seconds
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     RegistryVersion,
		Profiles:    make(map[string]*Profile),
		Preferences: defaultPreferences(),
	}
}

func defaultPreferences() *Preferences {
	return &Preferences{
		DiscoverTimeout: 5,
	}
}

// GetProfile retrieves a profile by name.
// Returns nil if the profile doesn't exist in the registry.
func (r *Registry) GetProfile(name string) *Profile {
	return r.Profiles[name]
}

// SetProfile adds or replaces a profile.
func (r *Registry) SetProfile(name string, profile *Profile) error {
	if name == "" {
		return fmt.Errorf("profile name must not be empty")
	}
	if profile == nil || profile.Endpoint == "" {
		return fmt.Errorf("profile %q needs an endpoint", name)
	}
	if r.Profiles == nil {
		r.Profiles = make(map[string]*Profile)
	}
	r.Profiles[name] = profile
	return nil
}

// RemoveProfile deletes a profile. If it was the default, the default is cleared.
// Returns false if the profile did not exist.
func (r *Registry) RemoveProfile(name string) bool {
	if _, exists := r.Profiles[name]; !exists {
		return false
	}
	delete(r.Profiles, name)
	if r.Preferences != nil && r.Preferences.DefaultProfile == name {
		r.Preferences.DefaultProfile = ""
	}
	return true
}

// SetDefaultProfile marks an existing profile as the default.
func (r *Registry) SetDefaultProfile(name string) error {
	if _, exists := r.Profiles[name]; !exists {
		return fmt.Errorf("profile %q does not exist", name)
	}
	if r.Preferences == nil {
		r.Preferences = defaultPreferences()
	}
	r.Preferences.DefaultProfile = name
	return nil
}

// ResolveProfile returns the named profile, or the default profile when name is empty.
// A missing default is not an error; an unknown explicit name is.
func (r *Registry) ResolveProfile(name string) (string, *Profile, error) {
	if name == "" {
		if r.Preferences == nil || r.Preferences.DefaultProfile == "" {
			return "", nil, nil
		}
		name = r.Preferences.DefaultProfile
	}

	profile := r.Profiles[name]
	if profile == nil {
		return "", nil, fmt.Errorf("profile %q does not exist", name)
	}
	return name, profile, nil
}

// ProfileNames returns the profile names in sorted order.
func (r *Registry) ProfileNames() []string {
	names := make([]string, 0, len(r.Profiles))
	for name := range r.Profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// UpdateProfileLastSeen records a successful connection for a profile.
func (r *Registry) UpdateProfileLastSeen(name string) {
	if profile := r.Profiles[name]; profile != nil {
		profile.LastSeen = time.Now()
	}
}

// Values returns the profile as settings keys, omitting unset fields so they
// do not override defaults.
func (p *Profile) Values() map[string]any {
	values := map[string]any{
		KeyEndpoint: p.Endpoint,
	}
	if p.Polite != nil {
		values[KeyPolite] = *p.Polite
	}
	if p.Insecure {
		values[KeyInsecure] = true
	}
	if p.Timeout > 0 {
		values[KeyTimeout] = p.Timeout.String()
	}
	if p.Rate > 0 {
		values[KeyRate] = p.Rate
	}
	return values
}
