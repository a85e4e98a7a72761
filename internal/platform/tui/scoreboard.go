package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/tui-idle/internal/registry"
	"github.com/vovakirdan/tui-idle/internal/storage"
)

const (
	minWidthForSidebar = 90
	sidebarWidth       = 22
	maxRuns            = 100
)

// ScoreboardKeyMap defines the key bindings for the runs leaderboard.
type ScoreboardKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Next key.Binding
	Prev key.Binding
	Back key.Binding
	Quit key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Next, k.Prev, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Next, k.Prev},
		{k.Back, k.Quit},
	}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab/→", "next scenario"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab/←", "prev scenario"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel lists the best recorded runs of each scenario.
type ScoreboardModel struct {
	store     *storage.Store
	scenarios []registry.ScenarioInfo
	stats     map[string]*storage.ScenarioStats
	cursor    int
	runs      []storage.Run

	table table.Model
	help  help.Model
	keys  ScoreboardKeyMap

	width, height int
	quitting      bool
	goingBack     bool
}

// NewScoreboardModel creates a leaderboard sized for width×height.
func NewScoreboardModel(store *storage.Store, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		store:     store,
		scenarios: registry.List(),
		keys:      DefaultScoreboardKeyMap(),
		help:      help.New(),
		width:     width,
		height:    height,
	}
	if store != nil {
		if stats, err := store.AllScenarioStats(); err == nil {
			m.stats = stats
		}
	}
	m.table = m.createTable()
	m.load()
	return m
}

func (m ScoreboardModel) wide() bool { return m.width >= minWidthForSidebar }

func (m *ScoreboardModel) createTable() table.Model {
	when := 14
	avail := m.width - 4
	if m.wide() {
		avail -= sidebarWidth + 4
	}
	if extra := avail - 58; extra > 0 {
		when += min(extra, 8)
	}

	height := m.height - 10
	if height < 3 {
		height = 3
	}

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "Rank", Width: 5},
			{Title: "Earned", Width: 12},
			{Title: "Peak harm", Width: 10},
			{Title: "Clicks", Width: 8},
			{Title: "Ticks", Width: 9},
			{Title: "When", Width: when},
		}),
		table.WithFocused(true),
		table.WithHeight(height),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)
	return t
}

// load reads the runs of the selected scenario into the table.
func (m *ScoreboardModel) load() {
	m.runs = nil
	if m.store != nil && len(m.scenarios) > 0 {
		if runs, err := m.store.TopRuns(m.scenarios[m.cursor].ID, maxRuns); err == nil {
			m.runs = runs
		}
	}

	rows := make([]table.Row, len(m.runs))
	for i, r := range m.runs {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			FormatCurrency(r.Earned),
			FormatMass(r.PeakHarm),
			humanize.Comma(int64(r.Clicks)),
			humanize.Comma(int64(r.Ticks)),
			humanize.Time(r.CreatedAt),
		}
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
}

func (m *ScoreboardModel) move(delta int) {
	if len(m.scenarios) == 0 {
		return
	}
	m.cursor = (m.cursor + delta + len(m.scenarios)) % len(m.scenarios)
	m.load()
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Back):
			m.goingBack = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			m.move(1)
			return m, nil
		case key.Matches(msg, m.keys.Prev):
			m.move(-1)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.table = m.createTable()
		m.load()
		m.help.Width = msg.Width
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	if m.quitting || m.goingBack {
		return ""
	}

	title := "BEST RUNS"
	if len(m.scenarios) > 0 {
		title += " - " + strings.ToUpper(m.scenarios[m.cursor].Title)
	}

	var body string
	if m.wide() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar(), "  ", m.runsPanel())
	} else {
		body = m.switcher() + "\n\n" + m.runsPanel()
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(centerText(title, m.width)))
	b.WriteString("\n\n")
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// sidebar lists the scenarios with how often each was played.
func (m ScoreboardModel) sidebar() string {
	var b strings.Builder
	b.WriteString(labelStyle.Render("Scenarios"))
	b.WriteString("\n")
	for i, sc := range m.scenarios {
		line := "  " + truncate(sc.Title, sidebarWidth-10)
		if s, ok := m.stats[sc.ID]; ok {
			line += labelStyle.Render(fmt.Sprintf(" (%d)", s.RunsCount))
		}
		if i == m.cursor {
			line = titleStyle.Render("> " + strings.TrimPrefix(line, "  "))
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return panelStyle.Width(sidebarWidth).Render(strings.TrimRight(b.String(), "\n"))
}

// switcher is the one-line scenario picker of the narrow layout.
func (m ScoreboardModel) switcher() string {
	if len(m.scenarios) == 0 {
		return ""
	}
	label := fmt.Sprintf("< %s  %d/%d >", m.scenarios[m.cursor].Title, m.cursor+1, len(m.scenarios))
	return centerText(label, m.width)
}

// runsPanel is the summary line plus the table, or a hint when empty.
func (m ScoreboardModel) runsPanel() string {
	if len(m.runs) == 0 {
		empty := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return panelStyle.Render(empty.Render("No runs recorded yet.\nPlay a scenario to set a record!"))
	}

	summary := ""
	if len(m.scenarios) > 0 {
		if s, ok := m.stats[m.scenarios[m.cursor].ID]; ok {
			summary = labelStyle.Render(fmt.Sprintf("%d runs  best %s  avg %s  last played %s",
				s.RunsCount, FormatCurrency(s.BestEarned), FormatCurrency(s.AvgEarned),
				humanize.Time(s.LastPlayed))) + "\n"
		}
	}
	return panelStyle.Render(summary + m.table.View())
}

func truncate(s string, n int) string {
	if n < 2 || len(s) <= n {
		return s
	}
	return s[:n-1] + "."
}

// IsGoingBack returns true if user wants to go back to menu.
func (m ScoreboardModel) IsGoingBack() bool {
	return m.goingBack
}

// IsQuitting returns true if user wants to quit entirely.
func (m ScoreboardModel) IsQuitting() bool {
	return m.quitting
}

// RunScoreboard runs the leaderboard as its own program and reports
// whether the player went back rather than quit.
func RunScoreboard(store *storage.Store, width, height int) (goBack bool, err error) {
	p := tea.NewProgram(NewScoreboardModel(store, width, height), tea.WithAltScreen())

	finalModel, err := p.Run()
	if err != nil {
		return false, err
	}
	m, ok := finalModel.(ScoreboardModel)
	return ok && m.IsGoingBack(), nil
}
