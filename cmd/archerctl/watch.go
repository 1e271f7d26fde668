package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/muurk/archerctl/internal/tui"
)

var watchInterval time.Duration

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchInterval, "interval", tui.DefaultInterval, "Time between status refreshes")
}

// watchCmd shows a live status dashboard
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Live dashboard of router status and connected hosts",
	Long: `Keep one session open and re-read the router status on an interval.

Expired sessions are renewed automatically. The session is released on exit.`,
	Example: `  archerctl watch --interval 30s`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openRouter(cmd.Flags().Changed)
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		defer sess.release(ctx)

		model := tui.NewWatchModel(ctx, sess.client, sess.client.Endpoint, watchInterval)
		final, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
		if err != nil {
			return fmt.Errorf("dashboard error: %w", err)
		}

		if m, ok := final.(tui.WatchModel); ok && m.Status != nil {
			sess.touch()
		}
		return nil
	},
}
