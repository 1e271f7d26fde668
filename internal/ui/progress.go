package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

type StepStatus int

const (
	StepPending StepStatus = iota
	StepRunning
	StepComplete
	StepFailed
	StepSkipped
)

type stepLook struct {
	marker string
	style  lipgloss.Style
}

func (s StepStatus) look() stepLook {
	switch s {
	case StepComplete:
		return stepLook{StepMarkerComplete, StepCompleteStyle}
	case StepRunning:
		return stepLook{StepMarkerRunning, StepRunningStyle}
	case StepFailed:
		return stepLook{FailureMarker, ErrorTitleStyle}
	case StepSkipped:
		return stepLook{StepMarkerSkipped, StepPendingStyle}
	}
	return stepLook{StepMarkerPending, StepPendingStyle}
}

// done reports whether the step has finished, successfully or not
func (s StepStatus) done() bool {
	return s == StepComplete || s == StepFailed || s == StepSkipped
}

// Step is one numbered line of a Progress. Message is shown in parentheses.
type Step struct {
	Number  int
	Name    string
	Status  StepStatus
	Message string
}

// Progress pairs a gradient bar with the numbered step list of a router
// operation. Current is the 1-based step last marked running.
type Progress struct {
	Steps   []Step
	Current int
	Percent float64
	bar     progress.Model
}

// nameColumn is the width steps are padded to before the marker
const nameColumn = 40

// NewProgress creates a progress display for the named steps
func NewProgress(names ...string) *Progress {
	steps := make([]Step, len(names))
	for i, name := range names {
		steps[i] = Step{Number: i + 1, Name: name}
	}

	p := &Progress{Steps: steps}
	p.SetWidth(GetTerminalWidth())
	return p
}

// SetWidth sizes the progress bar for the terminal width
func (p *Progress) SetWidth(width int) *Progress {
	p.bar = progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(min(max(width-20, 20), 50)),
	)
	return p
}

// Total returns the number of steps
func (p *Progress) Total() int {
	return len(p.Steps)
}

// UpdateStep updates a step's status and optional message.
// Out-of-range step numbers are ignored.
func (p *Progress) UpdateStep(number int, status StepStatus, message string) {
	if number < 1 || number > len(p.Steps) {
		return
	}
	p.Steps[number-1].Status = status
	p.Steps[number-1].Message = message

	if status == StepRunning {
		p.Current = number
		return
	}

	completed := 0
	for _, s := range p.Steps {
		if s.Status == StepComplete || s.Status == StepSkipped {
			completed++
		}
	}
	p.Percent = float64(completed) / float64(len(p.Steps))
}

// Render returns the bar followed by the step list
func (p *Progress) Render() string {
	lines := []string{p.renderBar(), ""}
	for _, step := range p.Steps {
		lines = append(lines, p.renderStepLine(step))
	}
	return strings.Join(lines, "\n")
}

func (p *Progress) renderBar() string {
	return lipgloss.NewStyle().
		PaddingLeft(2).
		Render(fmt.Sprintf("%s  %3.0f%%  [%d/%d]", p.bar.ViewAs(p.Percent), p.Percent*100, p.Current, p.Total()))
}

// renderStepLine renders "  [n/N] name   marker  (message)"
func (p *Progress) renderStepLine(step Step) string {
	look := step.Status.look()

	var b strings.Builder
	fmt.Fprintf(&b, "  [%d/%d] ", step.Number, p.Total())
	b.WriteString(look.style.Render(step.Name))
	b.WriteString(strings.Repeat(" ", max(nameColumn-lipgloss.Width(step.Name), 1)))
	b.WriteString(look.style.Render(look.marker))
	if step.Message != "" {
		b.WriteString("  ")
		b.WriteString(StepNoteStyle.Render("(" + step.Message + ")"))
	}
	return b.String()
}

// String implements fmt.Stringer
func (p *Progress) String() string {
	return p.Render()
}

// StepCallback reports progress for a step. An empty name keeps the current one.
type StepCallback func(number int, name string, status StepStatus, message string)
