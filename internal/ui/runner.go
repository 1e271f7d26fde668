package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"
)

// TaskConfig describes a multi-step router operation
type TaskConfig struct {
	Title   string            // e.g., "Router Reboot"
	Command string            // e.g., "archerctl reboot"
	Params  map[string]string // Shown in the header
	Steps   []string          // Step names, in order
	Output  io.Writer         // Default: os.Stdout

	// Hints returns troubleshooting tips for a failure
	Hints func(error) []string
}

// TaskRunner drives the header, step list and result box for an operation
type TaskRunner struct {
	config   TaskConfig
	progress *Progress
	output   io.Writer
	width    int
}

// NewTaskRunner creates a runner for the given task
func NewTaskRunner(config TaskConfig) *TaskRunner {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	width := GetTerminalWidth()

	return &TaskRunner{
		config:   config,
		progress: NewProgress(config.Steps...).SetWidth(width),
		output:   config.Output,
		width:    width,
	}
}

// TaskOperation performs the work, reporting progress through onStep.
// The returned details are shown in the success box.
type TaskOperation func(ctx context.Context, onStep StepCallback) (map[string]string, error)

// Run prints the header, executes the operation and prints the result.
// The operation's error is returned unchanged.
func (r *TaskRunner) Run(ctx context.Context, operation TaskOperation) error {
	start := time.Now()

	header := NewHeader(r.config.Title, r.config.Command, r.config.Params).SetWidth(r.width)
	fmt.Fprintln(r.output, header.Render())
	fmt.Fprintln(r.output)

	details, err := operation(ctx, r.onStep)
	duration := time.Since(start).Round(time.Millisecond)

	fmt.Fprintln(r.output)
	if err != nil {
		var hints []string
		if r.config.Hints != nil {
			hints = r.config.Hints(err)
		}
		fmt.Fprintln(r.output, NewFailureResult(r.config.Title+" failed", err, hints).SetWidth(r.width).Render())
		return err
	}

	if details == nil {
		details = make(map[string]string)
	}
	details["Duration"] = duration.String()
	fmt.Fprintln(r.output, NewSuccessResult(r.config.Title+" complete", details).SetWidth(r.width).Render())
	return nil
}

// Progress returns the runner's step tracker
func (r *TaskRunner) Progress() *Progress {
	return r.progress
}

func (r *TaskRunner) onStep(number int, name string, status StepStatus, message string) {
	if number < 1 || number > r.progress.Total() {
		return
	}
	if name != "" {
		r.progress.Steps[number-1].Name = name
	}
	r.progress.UpdateStep(number, status, message)

	line := r.progress.renderStepLine(r.progress.Steps[number-1])
	if status.done() {
		fmt.Fprintln(r.output, line)
	} else if status == StepRunning {
		// Overwritten when the step finishes
		fmt.Fprint(r.output, line+"\r")
	}
}
