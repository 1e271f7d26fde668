// Package config provides user configuration management for archerctl.
//
// Two layers live here. The registry is a YAML file of named router profiles
// (endpoint, politeness, TLS and pacing options) plus application preferences.
// The settings loader merges that profile with an optional settings file, ARCHER_*
// environment variables and command-line flags into one Settings value.
//
// # Configuration File Location
//
// The registry is stored in platform-appropriate locations:
//   - Linux: $XDG_CONFIG_HOME/archerctl/config.yaml or $HOME/.config/archerctl/config.yaml
//   - macOS: $HOME/.config/archerctl/config.yaml
//   - Windows: %LOCALAPPDATA%\archerctl\config.yaml
//
// # Security
//
// IMPORTANT: The registry NEVER stores router passwords. They come from
// ARCHER_PASSWORD or an interactive prompt.
//
// # Settings Precedence
//
// Later sources override earlier ones:
//
//	defaults < profile < settings file < environment < flags
//
// Usage:
//
//	registry, err := config.LoadRegistry()
//	if err != nil {
//	    return err
//	}
//	_, profile, err := registry.ResolveProfile(profileName)
//	if err != nil {
//	    return err
//	}
//	settings, err := config.NewLoader(config.WithProfile(profile)).Load(changedFlags)
//
// # Thread Safety
//
// The global registry uses sync.Once for safe initialization across goroutines.
// File writes are protected by a mutex and are atomic (temp file + rename).
package config
