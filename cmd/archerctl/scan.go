package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/archerctl/internal/config"
	"github.com/muurk/archerctl/internal/discovery"
	"github.com/muurk/archerctl/internal/ui"
)

var (
	scanTimeout int
	scanSave    string
)

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().IntVar(&scanTimeout, "timeout", 0, "Scan timeout in seconds (default from preferences, 5)")
	scanCmd.Flags().StringVar(&scanSave, "save", "", "Save the router found as a profile with this name")
}

// scanCmd discovers routers on the network
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan for TP-Link routers on the local network",
	Long: `Scan for TP-Link Archer routers using mDNS/DNS-SD discovery.

Many stock firmwares do not advertise over mDNS. If nothing is found, pass
the router address with --endpoint instead.`,
	Example: `  # Scan with the default timeout
  archerctl scan

  # Longer scan, then save the result as the "home" profile
  archerctl scan --timeout 15 --save home`,
	RunE: runScan,
}

func runScan(cmd *cobra.Command, args []string) error {
	registry, err := config.LoadRegistry()
	if err != nil {
		return err
	}

	timeout := scanTimeout
	if timeout <= 0 && registry.Preferences != nil {
		timeout = registry.Preferences.DiscoverTimeout
	}

	printer := ui.NewPrinter(cmd.OutOrStdout())
	printer.Println(fmt.Sprintf("Scanning for TP-Link routers (timeout: %ds)...", timeout))
	printer.Newline()

	routers, err := discovery.ScanForRouters(cmd.Context(), time.Duration(timeout)*time.Second)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if len(routers) == 0 {
		printer.PrintWarning("No routers found", map[string]string{
			"Hint":      "Many firmwares do not advertise over mDNS",
			"Try":       "archerctl status --endpoint http://192.168.0.1",
			"Multicast": "UDP 5353 must be reachable",
		})
		return nil
	}

	printer.Println(formatRouters(routers))

	if scanSave == "" {
		printer.Println("Use 'archerctl scan --save <name>' to store a router as a profile")
		return nil
	}
	if len(routers) > 1 {
		return fmt.Errorf("found %d routers; cannot choose which to save as %q", len(routers), scanSave)
	}

	found := routers[0]
	if err := registry.SetProfile(scanSave, &config.Profile{
		Endpoint: found.Endpoint(),
		Model:    found.Model,
		LastSeen: found.DiscoveredAt,
	}); err != nil {
		return err
	}
	if len(registry.Profiles) == 1 {
		_ = registry.SetDefaultProfile(scanSave)
	}
	if err := registry.Save(); err != nil {
		return err
	}

	printer.PrintSuccess("Profile saved", map[string]string{
		"Profile":  scanSave,
		"Endpoint": found.Endpoint(),
	})
	return nil
}

// formatRouters lists discovered routers, one block per router
func formatRouters(routers []*discovery.Router) string {
	out := fmt.Sprintf("Found %d router(s):\n", len(routers))
	for i, r := range routers {
		out += "\n" + strconv.Itoa(i+1) + ". " + r.String() + "\n"
		out += "   Endpoint: " + r.Endpoint() + "\n"
		if r.Instance != "" {
			out += "   Service:  " + r.Instance + "\n"
		}
	}
	return out
}
