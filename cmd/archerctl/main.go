// Archerctl manages a TP-Link Archer router through its web management API.
//
// It logs in the way the router's own login page does, keeps one session
// for the duration of a command, and reads status, lists connected hosts,
// reboots the router or releases the admin session.
//
// Usage:
//
//	archerctl [command] [flags]
//
// The router password is read from ARCHER_PASSWORD or prompted for.
// See 'archerctl --help' for available commands.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/muurk/archerctl/internal/logging"
	"github.com/muurk/archerctl/internal/version"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	logging.Sync()

	if err != nil {
		// Router failures have already been rendered as an error box
		var reported *reportedError
		if !errors.As(err, &reported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "archerctl",
	Short: "TP-Link Archer router control utility",
	Long: `A command-line client for the web management API of TP-Link Archer routers.

Reads router status and connected hosts, reboots the router, and releases
the single administrator session the firmware allows.

Connection settings come from (highest priority first): flags, ARCHER_*
environment variables, the --config settings file, the selected profile,
and built-in defaults. Passwords are never written to disk.`,
	Version:       version.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if logLevelFlag != "" {
			return logging.Initialize(logLevelFlag)
		}
		return logging.InitializeFromEnv()
	},
	Example: `  # Router status using the default profile
  archerctl status

  # One-off connection without a profile
  ARCHER_PASSWORD=secret archerctl status --endpoint https://192.168.0.1 --insecure

  # Take over a session held by someone else
  archerctl devices --polite=false`,
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprint(cmd.OutOrStdout(), version.Detailed())
	},
}

// reportedError marks an error whose details were already shown to the user
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }

func (e *reportedError) Unwrap() error { return e.err }
