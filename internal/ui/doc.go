// Package ui provides terminal UI components for the archerctl CLI.
//
// Components are rendered with Lipgloss and follow a "run once and exit"
// pattern. Nothing here is interactive except the reboot confirmation
// prompt.
//
//   - Header: command banner with the operation name and parameters
//   - Progress: progress bar and step list
//   - Result: success, warning and failure boxes with troubleshooting tips
//   - TaskRunner: header, then progress, then result for multi-step operations
//
// Example:
//
//	runner := ui.NewTaskRunner(ui.TaskConfig{
//	    Title:   "Router Reboot",
//	    Command: "archerctl reboot",
//	    Params:  map[string]string{"Router": endpoint},
//	    Steps:   []string{"Authenticating", "Requesting reboot"},
//	})
//	err := runner.Run(ctx, func(ctx context.Context, onStep ui.StepCallback) (map[string]string, error) {
//	    onStep(1, "", ui.StepRunning, "")
//	    ...
//	})
//
// Zap logging is silent unless ARCHER_LOG_LEVEL is set, so styled output is
// not interleaved with log lines by default.
package ui
