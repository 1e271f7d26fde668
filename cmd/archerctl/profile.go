package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/muurk/archerctl/internal/config"
	"github.com/muurk/archerctl/internal/ui"
)

var profileMakeDefault bool

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileAddCmd, profileListCmd, profileRemoveCmd, profileDefaultCmd)

	profileAddCmd.Flags().BoolVar(&profileMakeDefault, "default", false, "Make this the default profile")
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage saved router profiles",
	Long: `Profiles store how to reach a router: endpoint, politeness, certificate
handling, timeout and request rate. Passwords are never stored.`,
}

var profileAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add or replace a profile from the connection flags",
	Example: `  archerctl profile add home --endpoint https://192.168.0.1 --insecure --default
  archerctl profile add office --endpoint http://10.0.0.1 --polite=false --rate 2`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := config.LoadRegistry()
		if err != nil {
			return err
		}

		profile := profileFromFlags(cmd.Flags().Changed)
		if err := registry.SetProfile(args[0], profile); err != nil {
			return fmt.Errorf("%w (pass --endpoint)", err)
		}
		if profileMakeDefault || len(registry.Profiles) == 1 {
			if err := registry.SetDefaultProfile(args[0]); err != nil {
				return err
			}
		}
		if err := registry.Save(); err != nil {
			return err
		}

		ui.NewPrinter(cmd.OutOrStdout()).PrintSuccess("Profile saved", map[string]string{
			"Profile":  args[0],
			"Endpoint": profile.Endpoint,
		})
		return nil
	},
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := config.LoadRegistry()
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), formatProfiles(registry))
		return nil
	},
}

var profileRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := config.LoadRegistry()
		if err != nil {
			return err
		}
		if !registry.RemoveProfile(args[0]) {
			return fmt.Errorf("profile %q does not exist", args[0])
		}
		if err := registry.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed profile %q\n", args[0])
		return nil
	},
}

var profileDefaultCmd = &cobra.Command{
	Use:   "default <name>",
	Short: "Set the default profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := config.LoadRegistry()
		if err != nil {
			return err
		}
		if err := registry.SetDefaultProfile(args[0]); err != nil {
			return err
		}
		if err := registry.Save(); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Default profile is now %q\n", args[0])
		return nil
	},
}

// profileFromFlags builds a profile from the connection flags the user set
func profileFromFlags(changed func(string) bool) *config.Profile {
	profile := &config.Profile{Endpoint: strings.TrimRight(endpointFlag, "/")}
	if changed("polite") {
		polite := politeFlag
		profile.Polite = &polite
	}
	if changed("insecure") {
		profile.Insecure = insecureFlag
	}
	if changed("timeout") {
		profile.Timeout = timeoutFlag
	}
	if changed("rate") {
		profile.Rate = rateFlag
	}
	return profile
}

// formatProfiles renders the registry as a table; the default is starred
func formatProfiles(registry *config.Registry) string {
	names := registry.ProfileNames()
	if len(names) == 0 {
		return "No profiles. Add one with 'archerctl profile add <name> --endpoint <url>'\n"
	}

	defaultName := ""
	if registry.Preferences != nil {
		defaultName = registry.Preferences.DefaultProfile
	}

	var b strings.Builder
	w := tabwriter.NewWriter(&b, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\tNAME\tENDPOINT\tPOLITE\tMODEL\tLAST SEEN")
	for _, name := range names {
		p := registry.GetProfile(name)

		marker := ""
		if name == defaultName {
			marker = "*"
		}
		polite := "yes"
		if p.Polite != nil && !*p.Polite {
			polite = "no"
		}
		lastSeen := "never"
		if !p.LastSeen.IsZero() {
			lastSeen = p.LastSeen.Local().Format(time.DateTime)
		}

		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", marker, name, p.Endpoint, polite, orDash(p.Model), lastSeen)
	}
	_ = w.Flush()
	return b.String()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
