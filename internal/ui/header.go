package ui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Header is the banner printed before a command runs: an upper-cased
// title, the command line, and the parameters it was invoked with.
type Header struct {
	Title   string
	Command string
	Params  map[string]string
	Width   int
}

func NewHeader(title, command string, params map[string]string) *Header {
	return &Header{Title: title, Command: command, Params: params, Width: GetTerminalWidth()}
}

func (h *Header) SetWidth(width int) *Header {
	h.Width = width
	return h
}

func (h *Header) Render() string {
	width := max(h.Width, MinTerminalWidth)

	sections := []string{
		HeaderTitleStyle.Render(strings.ToUpper(h.Title)),
		HeaderCommandStyle.Render(h.Command),
	}

	if len(h.Params) > 0 {
		names := make([]string, 0, len(h.Params))
		for name := range h.Params {
			names = append(names, name)
		}
		sort.Strings(names)

		sections = append(sections, RenderHorizontalDivider(width-6, "─"))
		for _, name := range names {
			sections = append(sections, HeaderParamKeyStyle.Render(name+":")+" "+HeaderParamValueStyle.Render(h.Params[name]))
		}
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Width(width - 2).
		Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (h *Header) String() string {
	return h.Render()
}
