package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/muurk/archerctl/internal/config"
	"github.com/muurk/archerctl/internal/logging"
	"github.com/muurk/archerctl/internal/router"
	"github.com/muurk/archerctl/internal/ui"
)

// Connection flags, persistent on root
var (
	profileName  string
	configFile   string
	endpointFlag string
	politeFlag   bool
	insecureFlag bool
	timeoutFlag  time.Duration
	rateFlag     float64
	logLevelFlag string
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&profileName, "profile", "", "Router profile to use (default: the default profile)")
	flags.StringVar(&configFile, "config", "", "YAML settings file layered over the profile")
	flags.StringVar(&endpointFlag, "endpoint", "", "Router base URL (e.g., https://192.168.0.1)")
	flags.BoolVar(&politeFlag, "polite", true, "Never log out another administrator session")
	flags.BoolVar(&insecureFlag, "insecure", false, "Accept the router's self-signed certificate")
	flags.DurationVar(&timeoutFlag, "timeout", config.DefaultTimeout, "HTTP request timeout")
	flags.Float64Var(&rateFlag, "rate", 0, "Maximum requests per second (0 = unlimited)")
	flags.StringVar(&logLevelFlag, "log-level", "", "Log level (debug, info, warn, error)")
}

// flagOverrides returns the settings the user set explicitly on the command line
func flagOverrides(changed func(name string) bool) map[string]any {
	overrides := make(map[string]any)
	if changed("endpoint") {
		overrides[config.KeyEndpoint] = endpointFlag
	}
	if changed("polite") {
		overrides[config.KeyPolite] = politeFlag
	}
	if changed("insecure") {
		overrides[config.KeyInsecure] = insecureFlag
	}
	if changed("timeout") {
		overrides[config.KeyTimeout] = timeoutFlag.String()
	}
	if changed("rate") {
		overrides[config.KeyRate] = rateFlag
	}
	if changed("log-level") {
		overrides[config.KeyLogLevel] = logLevelFlag
	}
	return overrides
}

// clientOptions converts settings into router client options
func clientOptions(s *config.Settings) router.Options {
	return router.Options{
		Polite:             s.Polite,
		Timeout:            s.Timeout,
		InsecureSkipVerify: s.Insecure,
		RequestsPerSecond:  s.Rate,
	}
}

// routerSession bundles a client with the profile it was opened from
type routerSession struct {
	client   *router.Client
	settings *config.Settings
	registry *config.Registry
	profile  string
}

// openRouter resolves settings and the password and creates a client.
// No request is sent until the first operation.
func openRouter(changed func(string) bool) (*routerSession, error) {
	registry, err := config.LoadRegistry()
	if err != nil {
		return nil, err
	}

	name, profile, err := registry.ResolveProfile(profileName)
	if err != nil {
		return nil, err
	}

	var opts []config.Option
	if profile != nil {
		opts = append(opts, config.WithProfile(profile))
	}
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}

	settings, err := config.NewLoader(opts...).Load(flagOverrides(changed))
	if err != nil {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	if settings.LogLevel != "" && logLevelFlag == "" {
		if err := logging.Initialize(settings.LogLevel); err != nil {
			return nil, err
		}
	}

	password := settings.Password
	if password == "" {
		password, err = promptPassword(settings.Endpoint)
		if err != nil {
			return nil, err
		}
	}

	client, err := router.NewClient(settings.Endpoint, password, clientOptions(settings))
	if err != nil {
		return nil, err
	}

	logging.Debug("Router client ready",
		zap.String("endpoint", settings.Endpoint),
		zap.String("profile", name),
		zap.Bool("polite", settings.Polite),
	)

	return &routerSession{
		client:   client,
		settings: settings,
		registry: registry,
		profile:  name,
	}, nil
}

func promptPassword(endpoint string) (string, error) {
	if !ui.IsInteractive() {
		return "", fmt.Errorf("no router password: set ARCHER_PASSWORD")
	}

	fmt.Fprintf(os.Stderr, "Password for %s: ", endpoint)
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	if len(secret) == 0 {
		return "", fmt.Errorf("empty password")
	}
	return string(secret), nil
}

// release logs out so the router's single admin slot is free for others.
// Failures are logged, not returned.
func (s *routerSession) release(ctx context.Context) {
	if err := s.client.Logout(ctx); err != nil {
		logging.Warn("Logout failed", zap.Error(err))
	}
}

// touch records a successful connection on the profile
func (s *routerSession) touch() {
	if s.profile == "" {
		return
	}
	s.registry.UpdateProfileLastSeen(s.profile)
	if err := s.registry.Save(); err != nil {
		logging.Warn("Failed to save profile", zap.String("profile", s.profile), zap.Error(err))
	}
}

// fail renders err as an error box on stderr
func (s *routerSession) fail(title string, err error) error {
	logging.Error(title,
		zap.String("profile", s.profile),
		zap.Stringer("kind", router.KindOf(err)),
		zap.Error(err),
	)
	printer := ui.NewPrinter(os.Stderr)
	printer.PrintError(title+": "+router.GetShortErrorMessage(err), err, router.GetTroubleshootingHint(err))
	return &reportedError{err: err}
}
