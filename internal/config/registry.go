package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"gopkg.in/yaml.v3"
)

const (
	appName          = "archerctl"
	registryFileName = "config.yaml"

	// RegistryVersion is the only registry file version understood
	RegistryVersion = 1

	// ConfigDirEnvVar overrides the platform configuration directory
	ConfigDirEnvVar = "ARCHER_CONFIG_DIR"
)

var (
	// Process-wide registry, loaded once
	globalRegistry     *Registry
	globalRegistryOnce sync.Once
	globalRegistryErr  error

	// Serializes writes to the registry file
	fileMutex sync.Mutex
)

// GetConfigDir returns the directory holding the profile registry:
//   - $ARCHER_CONFIG_DIR when set
//   - Windows: %LOCALAPPDATA%\archerctl
//   - elsewhere: $XDG_CONFIG_HOME/archerctl, falling back to ~/.config/archerctl
//     (macOS ignores XDG_CONFIG_HOME)
func GetConfigDir() (string, error) {
	if dir := os.Getenv(ConfigDirEnvVar); dir != "" {
		return dir, nil
	}

	if runtime.GOOS == "windows" {
		if local := os.Getenv("LOCALAPPDATA"); local != "" {
			return filepath.Join(local, appName), nil
		}
		profile := os.Getenv("USERPROFILE")
		if profile == "" {
			return "", fmt.Errorf("cannot determine config directory: LOCALAPPDATA and USERPROFILE are unset")
		}
		return filepath.Join(profile, "AppData", "Local", appName), nil
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" && runtime.GOOS != "darwin" {
		return filepath.Join(xdg, appName), nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// GetConfigPath returns the full path to the registry file.
func GetConfigPath() (string, error) {
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, registryFileName), nil
}

// LoadRegistry loads the registry from GetConfigPath once per process.
// A missing file yields an empty registry.
func LoadRegistry() (*Registry, error) {
	globalRegistryOnce.Do(func() {
		path, err := GetConfigPath()
		if err != nil {
			globalRegistryErr = err
			return
		}
		globalRegistry, globalRegistryErr = LoadRegistryFrom(path)
	})
	return globalRegistry, globalRegistryErr
}

// LoadRegistryFrom loads a registry from an explicit path.
// A missing file yields an empty registry.
func LoadRegistryFrom(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return NewRegistry(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read registry %s: %w", path, err)
	}

	var registry Registry
	if err := yaml.Unmarshal(data, &registry); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	if registry.Version != RegistryVersion {
		return nil, fmt.Errorf("registry %s has version %d, expected %d", path, registry.Version, RegistryVersion)
	}

	if registry.Profiles == nil {
		registry.Profiles = make(map[string]*Profile)
	}
	if registry.Preferences == nil {
		registry.Preferences = defaultPreferences()
	}
	return &registry, nil
}

// Save writes the registry to GetConfigPath, creating the directory (0700).
func (r *Registry) Save() error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return r.SaveTo(path)
}

const registryHeader = `# archerctl router profiles
#
# Router passwords are never stored here. Set ARCHER_PASSWORD or enter the
# password when prompted.

`

// SaveTo atomically replaces path with the registry (mode 0600).
func (r *Registry) SaveTo(path string) error {
	fileMutex.Lock()
	defer fileMutex.Unlock()

	body, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal registry: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+registryFileName+".*")
	if err != nil {
		return fmt.Errorf("create temporary registry: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		return fmt.Errorf("chmod temporary registry: %w", err)
	}
	_, err = tmp.WriteString(registryHeader)
	if err == nil {
		_, err = tmp.Write(body)
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("write temporary registry: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace registry %s: %w", path, err)
	}
	return nil
}
