// Package version reports the archerctl build version.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"time"
)

// These variables can be set at build time via ldflags:
//
//	go build -ldflags="-X github.com/muurk/archerctl/internal/version.Version=v0.3.0 \
//	                   -X github.com/muurk/archerctl/internal/version.Commit=abc123"
//
// Unset values are filled from VCS build info, then fall back to "dev".
var (
	// Version is the semantic version of the application
	Version = ""
	// Commit is the git commit hash
	Commit = ""
	// BuildTime is the commit or build time, if known
	BuildTime = ""
)

func init() {
	if Version == "" || Commit == "" {
		populateFromBuildInfo(readSettings())
	}

	if Version == "" {
		Version = "dev"
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

func readSettings() map[string]string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return nil
	}
	settings := make(map[string]string, len(info.Settings))
	for _, s := range info.Settings {
		settings[s.Key] = s.Value
	}
	return settings
}

// populateFromBuildInfo fills unset values from vcs.* build settings
func populateFromBuildInfo(settings map[string]string) {
	if rev := settings["vcs.revision"]; Commit == "" && rev != "" {
		if len(rev) > 7 {
			rev = rev[:7]
		}
		if settings["vcs.modified"] == "true" {
			rev += "-dirty"
		}
		Commit = rev
	}

	if t, err := time.Parse(time.RFC3339, settings["vcs.time"]); err == nil {
		if BuildTime == "" {
			BuildTime = t.UTC().Format(time.RFC3339)
		}
		if Version == "" {
			Version = fmt.Sprintf("dev-%s", t.Format("20060102"))
		}
	}
}

// Full returns the full version string including commit
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

// Detailed returns a multi-line description for the version command
func Detailed() string {
	built := BuildTime
	if built == "" {
		built = "unknown"
	}
	return fmt.Sprintf("archerctl %s\n  commit:  %s\n  built:   %s\n  go:      %s %s/%s\n",
		Version, Commit, built, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
