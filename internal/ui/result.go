package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ResultType selects how a Result box is drawn
type ResultType int

const (
	ResultSuccess ResultType = iota
	ResultFailure
	ResultWarning
)

// Result is the closing box of a command: a titled outcome plus either
// key/value details or an error with troubleshooting hints.
type Result struct {
	Type            ResultType
	Title           string
	Details         map[string]string
	Error           error
	Troubleshooting []string
	Width           int
}

func NewSuccessResult(title string, details map[string]string) *Result {
	return &Result{Type: ResultSuccess, Title: title, Details: details, Width: GetTerminalWidth()}
}

func NewWarningResult(title string, details map[string]string) *Result {
	return &Result{Type: ResultWarning, Title: title, Details: details, Width: GetTerminalWidth()}
}

func NewFailureResult(title string, err error, troubleshooting []string) *Result {
	return &Result{
		Type:            ResultFailure,
		Title:           title,
		Error:           err,
		Troubleshooting: troubleshooting,
		Width:           GetTerminalWidth(),
	}
}

func (r *Result) SetWidth(width int) *Result {
	r.Width = width
	return r
}

func (r *Result) AddDetail(key, value string) *Result {
	if r.Details == nil {
		r.Details = map[string]string{}
	}
	r.Details[key] = value
	return r
}

// tone returns the title style, border color and banner for r.Type.
func (r *Result) tone() (lipgloss.Style, lipgloss.Color, string) {
	switch r.Type {
	case ResultFailure:
		return ErrorTitleStyle, ErrorColor, FailureMarker + "  FAILED"
	case ResultWarning:
		return WarningTitleStyle, WarningColor, WarningMarker + "  WARNING"
	default:
		return SuccessTitleStyle, SuccessColor, SuccessMarker + "  SUCCESS"
	}
}

func (r *Result) Render() string {
	title, color, banner := r.tone()
	body := []string{"", title.Render("   " + banner + "  ─  " + r.Title), ""}

	if r.Type == ResultFailure {
		if r.Error != nil {
			body = append(body, ErrorMessageStyle.Render("   Error: "+r.Error.Error()), "")
		}
		if len(r.Troubleshooting) > 0 {
			body = append(body, r.hints(), "")
		}
	} else {
		body = append(body, renderDetails(r.Details)...)
		body = append(body, "")
	}

	return boxStyle(color, r.Width).Render(strings.Join(body, "\n"))
}

// hints draws the troubleshooting tips in a rounded box nested inside the result.
func (r *Result) hints() string {
	tips := make([]string, 0, len(r.Troubleshooting)+2)
	tips = append(tips, TroubleshootingTitleStyle.Render("Troubleshooting:"), "")
	for _, tip := range r.Troubleshooting {
		tips = append(tips, TroubleshootingItemStyle.Render("  • "+tip))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(MutedColor).
		Width(max(r.Width-12, 40)).
		Padding(0, 1).
		MarginLeft(3).
		Render(strings.Join(tips, "\n"))
}

func (r *Result) String() string {
	return r.Render()
}
