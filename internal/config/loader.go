package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultEnvPrefix is the environment variable prefix for settings.
const DefaultEnvPrefix = "ARCHER_"

// Settings keys, shared by the settings file, environment and flags.
// ARCHER_LOG_LEVEL maps to log_level.
const (
	KeyEndpoint = "endpoint"
	KeyPassword = "password"
	KeyPolite   = "polite"
	KeyInsecure = "insecure"
	KeyTimeout  = "timeout"
	KeyRate     = "rate"
	KeyLogLevel = "log_level"
)

// DefaultTimeout is the request timeout used when nothing else sets one.
const DefaultTimeout = 10 * time.Second

// Settings is the effective configuration for one invocation.
type Settings struct {
	Endpoint string        `koanf:"endpoint"`
	Password string        `koanf:"password"`
	Polite   bool          `koanf:"polite"`
	Insecure bool          `koanf:"insecure"`
	Timeout  time.Duration `koanf:"timeout"`
	Rate     float64       `koanf:"rate"`
	LogLevel string        `koanf:"log_level"`
}

// Defaults returns the lowest-priority settings layer.
func Defaults() map[string]any {
	return map[string]any{
		KeyPolite:  true,
		KeyTimeout: DefaultTimeout.String(),
		KeyRate:    0.0,
	}
}

// Validate checks that the settings can be used to reach a router.
func (s *Settings) Validate() error {
	if s.Endpoint == "" {
		return fmt.Errorf("no router endpoint: pass --endpoint, set ARCHER_ENDPOINT or select a profile")
	}
	u, err := url.Parse(s.Endpoint)
	if err != nil {
		return fmt.Errorf("invalid endpoint %q: %w", s.Endpoint, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid endpoint %q: must be http(s)://host", s.Endpoint)
	}
	if s.Timeout < 0 {
		return fmt.Errorf("timeout must not be negative (got %s)", s.Timeout)
	}
	if s.Rate < 0 {
		return fmt.Errorf("rate must not be negative (got %g)", s.Rate)
	}
	switch s.LogLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q (expected debug, info, warn or error)", s.LogLevel)
	}
	return nil
}

// Loader builds Settings from layered sources.
// Priority (later overrides earlier): defaults > profile > file > env > flags.
type Loader struct {
	k         *koanf.Koanf
	envPrefix string
	filePath  string
	profile   *Profile
}

// Option is a function that configures the Loader.
type Option func(*Loader)

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) {
		l.envPrefix = prefix
	}
}

// WithConfigFile sets the settings file path.
func WithConfigFile(path string) Option {
	return func(l *Loader) {
		l.filePath = path
	}
}

// WithProfile layers a registry profile over the defaults.
func WithProfile(profile *Profile) Option {
	return func(l *Loader) {
		l.profile = profile
	}
}

// NewLoader creates a new settings loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		k:         koanf.New("."),
		envPrefix: DefaultEnvPrefix,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load loads every layer and returns the merged settings. flags holds only the
// flags the user actually set, keyed by settings key.
func (l *Loader) Load(flags map[string]any) (*Settings, error) {
	if err := l.LoadMap(Defaults()); err != nil {
		return nil, err
	}

	if l.profile != nil {
		if err := l.LoadMap(l.profile.Values()); err != nil {
			return nil, fmt.Errorf("load profile: %w", err)
		}
	}

	if l.filePath != "" {
		if err := l.LoadFile(l.filePath); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := l.LoadEnv(); err != nil {
		return nil, err
	}

	if len(flags) > 0 {
		if err := l.LoadMap(flags); err != nil {
			return nil, fmt.Errorf("load flags: %w", err)
		}
	}

	var settings Settings
	if err := l.k.Unmarshal("", &settings); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	return &settings, nil
}

// LoadFile loads settings from a YAML file.
func (l *Loader) LoadFile(path string) error {
	if path == "" {
		return nil
	}

	if err := l.k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("load file %s: %w", path, err)
	}

	return nil
}

// LoadEnv loads settings from environment variables.
// Example: ARCHER_ENDPOINT=https://192.168.0.1 -> endpoint
func (l *Loader) LoadEnv() error {
	envTransformer := func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, l.envPrefix))
	}

	if err := l.k.Load(env.Provider(l.envPrefix, ".", envTransformer), nil); err != nil {
		return fmt.Errorf("load env: %w", err)
	}

	return nil
}

// LoadMap loads settings from a map (flags, profiles, defaults).
func (l *Loader) LoadMap(data map[string]any) error {
	if err := l.k.Load(mapProvider(data), nil); err != nil {
		return fmt.Errorf("load map: %w", err)
	}
	return nil
}

// All returns the merged settings as a map.
func (l *Loader) All() map[string]any {
	return l.k.All()
}
