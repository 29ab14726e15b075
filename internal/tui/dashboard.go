package tui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/robotgroup/duinobot/internal/board"
	"github.com/robotgroup/duinobot/internal/state"
)

// drainInterval paces the Iterate calls that pull frames off the link.
// Fast enough that the table feels live, slow enough to stay off the CPU.
const drainInterval = 100 * time.Millisecond

// tickMsg drives the periodic drain-and-refresh cycle
type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(drainInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// dashboardKeyMap defines key bindings for the dashboard
type dashboardKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Quit key.Binding
}

var dashboardKeys = dashboardKeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "esc", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// Model is the live fleet dashboard: it drains the board session on a
// timer and renders every robot heard from in a table.
type Model struct {
	board *board.Board
	table table.Model

	iterateErr error
	lastDrain  time.Time
}

// NewModel builds the dashboard over an already-open board session. The
// session stays owned by the caller; the dashboard only drains it.
func NewModel(b *board.Board) Model {
	columns := []table.Column{
		{Title: "Robot", Width: 6},
		{Title: "Live", Width: 5},
		{Title: "Obstacle", Width: 9},
		{Title: "Analog", Width: 7},
		{Title: "Digital", Width: 8},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(12),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.Bold(true).Foreground(PrimaryColor)
	s.Selected = s.Selected.Foreground(TextColor).Background(PrimaryColor)
	t.SetStyles(s)

	return Model{board: b, table: t}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, dashboardKeys.Quit) {
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 6)

	case tickMsg:
		// Drain the link, then rebuild the table from the registry. A
		// transport error is shown but polling continues: serial links
		// recover when the radio comes back.
		m.iterateErr = m.board.Iterate()
		m.lastDrain = time.Time(msg)
		m.table.SetRows(snapshotRows(m.board.Registry().Snapshot()))
		return m, tickCmd()
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View implements tea.Model
func (m Model) View() string {
	view := TitleStyle.Render("DuinoBot Fleet") + "\n"
	view += SubtitleStyle.Render(fmt.Sprintf("link: %s   robots: %d",
		m.board.Name(), len(m.board.Registry().LiveRobots()))) + "\n\n"

	view += TableStyle.Render(m.table.View()) + "\n"

	if m.iterateErr != nil {
		view += ErrStyle.Render("link error: "+m.iterateErr.Error()) + "\n"
	}

	view += HelpStyle.Render("↑/↓ scroll · q quit")
	return view
}

// snapshotRows converts registry snapshots into table rows.
func snapshotRows(snaps []state.RobotSnapshot) []table.Row {
	rows := make([]table.Row, 0, len(snaps))
	for _, s := range snaps {
		live := "-"
		if s.Live {
			live = LiveStyle.Render("●")
		}
		rows = append(rows, table.Row{
			strconv.Itoa(s.ID),
			live,
			formatReading(s.NearestObstacle),
			formatReading(s.AnalogValue),
			formatReading(s.DigitalValue),
		})
	}
	return rows
}

// formatReading renders a sensor value, with "-" for never-reported.
func formatReading(v int) string {
	if v == state.Unknown {
		return "-"
	}
	return strconv.Itoa(v)
}

// Run opens the dashboard full-screen and blocks until the user quits.
func Run(b *board.Board) error {
	p := tea.NewProgram(NewModel(b), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
