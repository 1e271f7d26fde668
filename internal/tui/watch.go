package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/archerctl/internal/router"
	"github.com/muurk/archerctl/internal/ui"
)

// DefaultInterval is the default time between status refreshes
const DefaultInterval = 10 * time.Second

// StatusSource reads the router status document
type StatusSource interface {
	FetchStatus(ctx context.Context) (*router.Status, error)
}

// Messages for async operations
type statusMsg struct {
	status *router.Status
	err    error
	at     time.Time
}

type tickMsg struct {
	gen int
}

// watchKeyMap defines key bindings for the dashboard
type watchKeyMap struct {
	Refresh key.Binding
	Quit    key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k watchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k watchKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Refresh, k.Quit}}
}

// WatchModel is a live status dashboard for one router
type WatchModel struct {
	ctx      context.Context
	source   StatusSource
	endpoint string
	interval time.Duration

	Status    *router.Status
	Err       error
	Updated   time.Time
	Fetching  bool
	Stopped   bool // auto refresh disabled after a rejected password
	Refreshes int

	// gen invalidates ticks scheduled before the latest refresh
	gen int

	spinner spinner.Model
	help    help.Model
	keys    watchKeyMap
	Width   int
	Height  int
}

// NewWatchModel creates a dashboard reading from source every interval
func NewWatchModel(ctx context.Context, source StatusSource, endpoint string, interval time.Duration) WatchModel {
	if interval <= 0 {
		interval = DefaultInterval
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(ui.PrimaryColor)

	return WatchModel{
		ctx:      ctx,
		source:   source,
		endpoint: endpoint,
		interval: interval,
		Fetching: true,
		spinner:  s,
		help:     help.New(),
		keys: watchKeyMap{
			Refresh: key.NewBinding(
				key.WithKeys("r"),
				key.WithHelp("r", "refresh"),
			),
			Quit: key.NewBinding(
				key.WithKeys("q", "esc", "ctrl+c"),
				key.WithHelp("q", "quit"),
			),
		},
	}
}

// Init starts the first status read
func (m WatchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch())
}

// fetch reads the status in the background
func (m WatchModel) fetch() tea.Cmd {
	ctx, source := m.ctx, m.source
	return func() tea.Msg {
		status, err := source.FetchStatus(ctx)
		return statusMsg{status: status, err: err, at: time.Now()}
	}
}

func (m WatchModel) scheduleTick() tea.Cmd {
	gen := m.gen
	return tea.Tick(m.interval, func(time.Time) tea.Msg {
		return tickMsg{gen: gen}
	})
}

// Update handles key presses, refresh results and timer ticks
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Refresh):
			if m.Fetching {
				return m, nil
			}
			m.Fetching = true
			m.Stopped = false
			return m, m.fetch()
		}
		return m, nil

	case statusMsg:
		m.Fetching = false
		m.Refreshes++
		m.gen++
		if msg.err != nil {
			m.Err = msg.err
			if router.IsCredentialsRejected(msg.err) {
				m.Stopped = true
				return m, nil
			}
		} else {
			m.Status = msg.status
			m.Err = nil
			m.Updated = msg.at
		}
		return m, m.scheduleTick()

	case tickMsg:
		if msg.gen != m.gen || m.Fetching || m.Stopped {
			return m, nil
		}
		m.Fetching = true
		return m, m.fetch()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the dashboard
func (m WatchModel) View() string {
	var b strings.Builder

	title := ui.HeaderTitleStyle.Render("ARCHER ROUTER") + ui.HeaderCommandStyle.Render(m.endpoint)
	b.WriteString(title + "\n\n")

	switch {
	case m.Status == nil && m.Fetching:
		b.WriteString("  " + m.spinner.View() + " Logging in and reading status...\n")
	case m.Status != nil:
		b.WriteString(indent(m.Status.FormatCompact()))
		b.WriteString("\n")
		devices, err := m.Status.Devices()
		if err != nil {
			b.WriteString(indent(fmt.Sprintf("Hosts unreadable: %v\n", err)))
		} else {
			b.WriteString(indent(router.FormatDeviceTable(devices)))
		}
	}

	if m.Err != nil {
		b.WriteString("\n")
		b.WriteString(ui.ErrorMessageStyle.Render("  " + router.GetShortErrorMessage(m.Err)))
		b.WriteString("\n")
		for _, hint := range router.GetTroubleshootingHint(m.Err) {
			b.WriteString(ui.TroubleshootingItemStyle.Render("    • " + hint))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(ui.StepNoteStyle.Render("  " + m.footer()))
	b.WriteString("\n\n  ")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")

	return b.String()
}

func (m WatchModel) footer() string {
	var parts []string
	if !m.Updated.IsZero() {
		parts = append(parts, "updated "+m.Updated.Format("15:04:05"))
	}
	switch {
	case m.Fetching && m.Status != nil:
		parts = append(parts, m.spinner.View()+" refreshing")
	case m.Stopped:
		parts = append(parts, "auto refresh stopped, press r to retry")
	default:
		parts = append(parts, "refresh every "+m.interval.String())
	}
	return strings.Join(parts, " · ")
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = "  " + line
	}
	return strings.Join(lines, "\n") + "\n"
}
