package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/archerctl/internal/router"
	"github.com/muurk/archerctl/internal/ui"
)

// Output flags
var (
	statusFormat  string
	devicesFormat string
	rebootYes     bool
)

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(wanIPCmd)
	rootCmd.AddCommand(rebootCmd)
	rootCmd.AddCommand(logoutCmd)

	statusCmd.Flags().StringVar(&statusFormat, "format", "detailed", "Output format (detailed, compact, json)")
	devicesCmd.Flags().StringVar(&devicesFormat, "format", "table", "Output format (table, json)")
	rebootCmd.Flags().BoolVar(&rebootYes, "yes", false, "Skip the confirmation prompt")
}

// statusCmd displays the router status document
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show router status",
	Long: `Log in, read the router status page and log out again.

The status document covers WAN and LAN addressing, wireless networks,
CPU and memory usage, and the connected host lists.`,
	Example: `  archerctl status
  archerctl status --format compact
  archerctl status --format json | jq .wan_ipv4_ipaddr`,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	if err := checkFormat(statusFormat, "detailed", "compact", "json"); err != nil {
		return err
	}

	sess, err := openRouter(cmd.Flags().Changed)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	defer sess.release(ctx)

	status, err := sess.client.FetchStatus(ctx)
	if err != nil {
		return sess.fail("Status", err)
	}
	sess.touch()

	out := cmd.OutOrStdout()
	switch statusFormat {
	case "compact":
		fmt.Fprint(out, status.FormatCompact())
	case "json":
		return writeJSON(out, status)
	default:
		fmt.Fprint(out, status.FormatDetailed())
	}
	return nil
}

// devicesCmd lists connected hosts
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List hosts connected to the router",
	Long: `List wired hosts followed by wireless hosts, as reported by the router
status page.`,
	Example: `  archerctl devices
  archerctl devices --format json`,
	RunE: runDevices,
}

func runDevices(cmd *cobra.Command, args []string) error {
	if err := checkFormat(devicesFormat, "table", "json"); err != nil {
		return err
	}

	sess, err := openRouter(cmd.Flags().Changed)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	defer sess.release(ctx)

	devices, err := sess.client.FetchDevices(ctx)
	if err != nil {
		return sess.fail("Devices", err)
	}
	sess.touch()

	if devicesFormat == "json" {
		return writeJSON(cmd.OutOrStdout(), devices)
	}
	fmt.Fprint(cmd.OutOrStdout(), router.FormatDeviceTable(devices))
	return nil
}

// wanIPCmd prints the WAN IPv4 address
var wanIPCmd = &cobra.Command{
	Use:     "wan-ip",
	Short:   "Print the router's WAN IPv4 address",
	Example: `  echo "public address: $(archerctl wan-ip)"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openRouter(cmd.Flags().Changed)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		defer sess.release(ctx)

		ip, err := sess.client.FetchWanIPAddress(ctx)
		if err != nil {
			return sess.fail("WAN address", err)
		}
		sess.touch()

		fmt.Fprintln(cmd.OutOrStdout(), ip)
		return nil
	},
}

// rebootCmd restarts the router
var rebootCmd = &cobra.Command{
	Use:   "reboot",
	Short: "Reboot the router",
	Long: `Log in and ask the router to restart.

A warning is shown and "I AGREE" must be typed to proceed unless --yes is
given. The request is never retried.`,
	Example: `  archerctl reboot
  archerctl reboot --yes --profile office`,
	RunE: runReboot,
}

func runReboot(cmd *cobra.Command, args []string) error {
	sess, err := openRouter(cmd.Flags().Changed)
	if err != nil {
		return err
	}

	if !rebootYes {
		if !ui.IsInteractive() {
			return fmt.Errorf("refusing to reboot without --yes when stdin is not a terminal")
		}
		if !ui.RebootConfirmation(os.Stdin, cmd.OutOrStdout(), sess.client.Endpoint) {
			return nil
		}
	}

	return sess.runWrite(cmd, "Router Reboot", "Requesting reboot", "Reboot requested", sess.client.Reboot)
}

// logoutCmd releases the router's admin session
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log in and immediately log out, freeing the admin session",
	Long: `The router allows one administrator session at a time. This command
logs in and logs out again so the slot is free. With --polite=false it
evicts whoever currently holds the session.`,
	Example: `  archerctl logout --polite=false`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openRouter(cmd.Flags().Changed)
		if err != nil {
			return err
		}
		return sess.runWrite(cmd, "Router Logout", "Releasing session", "Session released", sess.client.Logout)
	},
}

// runWrite authenticates by reading status, then performs a write operation.
// Writes are no-ops without a session, hence the read first.
func (s *routerSession) runWrite(cmd *cobra.Command, title, stepName, doneName string, write func(context.Context) error) error {
	runner := ui.NewTaskRunner(ui.TaskConfig{
		Title:   title,
		Command: cmd.CommandPath(),
		Params:  s.params(),
		Steps:   []string{"Authenticating", stepName},
		Output:  cmd.OutOrStdout(),
		Hints:   router.GetTroubleshootingHint,
	})

	err := runner.Run(cmd.Context(), func(ctx context.Context, onStep ui.StepCallback) (map[string]string, error) {
		onStep(1, "", ui.StepRunning, "")
		status, err := s.client.FetchStatus(ctx)
		if err != nil {
			onStep(1, "", ui.StepFailed, router.GetShortErrorMessage(err))
			return nil, err
		}
		onStep(1, "", ui.StepComplete, status.Summary())

		onStep(2, "", ui.StepRunning, "")
		if err := write(ctx); err != nil {
			onStep(2, "", ui.StepFailed, router.GetShortErrorMessage(err))
			return nil, err
		}
		onStep(2, doneName, ui.StepComplete, "")

		return map[string]string{"Router": s.client.Endpoint}, nil
	})
	if err != nil {
		return &reportedError{err: err}
	}

	s.touch()
	return nil
}

// params returns the header parameters describing the connection
func (s *routerSession) params() map[string]string {
	params := map[string]string{
		"Router": s.settings.Endpoint,
		"Polite": fmt.Sprintf("%t", s.settings.Polite),
	}
	if s.profile != "" {
		params["Profile"] = s.profile
	}
	return params
}

func checkFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return fmt.Errorf("unknown format %q (expected one of %v)", format, allowed)
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
