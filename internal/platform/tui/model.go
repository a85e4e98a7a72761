package tui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/tui-idle/internal/core"
	"github.com/vovakirdan/tui-idle/internal/registry"
	"github.com/vovakirdan/tui-idle/internal/sim"
	"github.com/vovakirdan/tui-idle/internal/storage"
)

// minWidthForSideBySide is the terminal width from which the ledger and the
// upgrade table are drawn next to each other.
const minWidthForSideBySide = 120

// Model is the Bubble Tea model for one running game.
type Model struct {
	scenario registry.Scenario
	game     *sim.GameState
	store    *storage.Store
	logger   *log.Logger
	config   core.RuntimeConfig
	sub      *subscription
	ended    *sync.Once

	keys  GameKeyMap
	help  help.Model
	table table.Model
	snap  sim.Snapshot

	status     string
	standalone bool // esc quits instead of returning to a menu
	quitting   bool
	backToMenu bool
}

// NewModel creates a model over an already constructed game. The model
// owns the game's scheduler from Init until the player leaves.
func NewModel(sc registry.Scenario, game *sim.GameState, store *storage.Store, logger *log.Logger, cfg core.RuntimeConfig) Model {
	if logger == nil {
		logger = log.Default()
	}
	if cfg.Slot == "" {
		cfg.Slot = core.DefaultConfig().Slot
	}

	m := Model{
		scenario: sc,
		game:     game,
		store:    store,
		logger:   logger,
		config:   cfg,
		sub:      subscribe(game),
		ended:    &sync.Once{},
		keys:     DefaultGameKeyMap(),
		help:     help.New(),
	}
	m.table = m.createTable()
	m.refresh()
	return m
}

// createTable creates the upgrade table sized for the current screen.
func (m *Model) createTable() table.Model {
	width := m.tableWidth()
	effectWidth := width - 52
	if effectWidth < 12 {
		effectWidth = 12
	}
	columns := []table.Column{
		{Title: "#", Width: 2},
		{Title: "Upgrade", Width: 22},
		{Title: "Type", Width: 10},
		{Title: "Owned", Width: 6},
		{Title: "Price", Width: 10},
		{Title: "Effect", Width: effectWidth},
	}

	height := m.game.Catalog().Len() + 1
	if limit := m.config.ScreenH - 16; m.config.ScreenW < minWidthForSideBySide && limit > 3 && height > limit {
		height = limit
	}

	t := table.New(
		table.WithColumns(columns),
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

func (m *Model) tableWidth() int {
	w := m.config.ScreenW - 4
	if m.config.ScreenW >= minWidthForSideBySide {
		w -= 50
	}
	return w
}

// refresh takes a fresh snapshot and rebuilds the table rows.
func (m *Model) refresh() {
	m.snap = m.game.Snapshot()
	m.table.SetRows(upgradeRows(m.snap))
}

func upgradeRows(snap sim.Snapshot) []table.Row {
	rows := make([]table.Row, len(snap.Upgrades))
	for i, u := range snap.Upgrades {
		owned := fmt.Sprintf("%d", u.Count)
		if u.MaxLevel > 0 {
			owned = fmt.Sprintf("%d/%d", u.Count, u.MaxLevel)
		}
		price := FormatCurrency(u.Price)
		switch {
		case !u.Purchasable:
			price = "max"
		case u.Affordable:
			price = "• " + price
		}
		rows[i] = table.Row{
			fmt.Sprintf("%d", i+1),
			u.Name,
			u.Category,
			owned,
			price,
			DescribeEffects(u),
		}
	}
	return rows
}

// Init starts the scheduler and waits for the first change.
func (m Model) Init() tea.Cmd {
	if err := m.game.StartScheduler(m.game.Balance().TickPeriod()); err != nil {
		m.logger.Warn("scheduler not started", "error", err)
	}
	return m.sub.wait()
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case StateChangedMsg:
		m.refresh()
		return m, m.sub.wait()

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		cursor := m.table.Cursor()
		m.table = m.createTable()
		m.refresh()
		m.table.SetCursor(cursor)
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, index := m.keys.MapKey(msg)

	switch action {
	case core.ActionQuit:
		m.finish()
		m.quitting = true
		return m, tea.Quit

	case core.ActionBack:
		m.finish()
		if m.standalone {
			m.quitting = true
			return m, tea.Quit
		}
		m.backToMenu = true
		return m, tea.Quit // hosts embedding the model drop this

	case core.ActionClick:
		m.game.PerformPrimaryAction()

	case core.ActionUp:
		m.table.MoveUp(1)

	case core.ActionDown:
		m.table.MoveDown(1)

	case core.ActionBuy:
		m.buy(m.table.Cursor())

	case core.ActionQuickBuy:
		if index < m.game.Catalog().Len() {
			m.table.SetCursor(index)
			m.buy(index)
		}

	case core.ActionPause:
		m.togglePause()

	case core.ActionSave:
		m.save()

	case core.ActionHelp:
		m.help.ShowAll = !m.help.ShowAll
	}

	m.refresh()
	return m, nil
}

func (m *Model) buy(index int) {
	if index < 0 || index >= m.game.Catalog().Len() {
		return
	}
	d := m.game.Catalog().At(index)
	m.status = purchaseStatus(d, m.game.Purchase(d.ID))
}

// purchaseStatus describes a purchase outcome for the status line.
func purchaseStatus(d *sim.Definition, res sim.PurchaseResult) string {
	switch res.Reason {
	case sim.ReasonNone:
		return fmt.Sprintf("Bought %s for %s (now %d)", d.Name, FormatCurrency(res.Price), res.Count)
	case sim.ReasonInsufficientFunds:
		return fmt.Sprintf("Not enough currency for %s (%s)", d.Name, FormatCurrency(res.Price))
	case sim.ReasonMaxLevelReached:
		return fmt.Sprintf("%s is at its maximum level", d.Name)
	default:
		return fmt.Sprintf("Unknown upgrade %q", d.ID)
	}
}

func (m *Model) togglePause() {
	if m.game.SchedulerRunning() {
		m.game.StopScheduler()
		m.status = "Paused: passive income and the clock are frozen"
		return
	}
	if err := m.game.StartScheduler(m.game.Balance().TickPeriod()); err != nil {
		m.status = fmt.Sprintf("Cannot resume: %v", err)
		return
	}
	m.status = "Resumed"
}

func (m *Model) save() {
	if m.store == nil {
		m.status = "No database: saving is disabled"
		return
	}
	info, err := m.store.SaveGame(m.scenario.ID, m.config.Slot, m.game.Save())
	if err != nil {
		m.logger.Error("save failed", "scenario", m.scenario.ID, "slot", m.config.Slot, "error", err)
		m.status = "Save failed"
		return
	}
	m.logger.Debug("game saved", "scenario", m.scenario.ID, "slot", m.config.Slot, "id", info.ID)
	m.status = fmt.Sprintf("Saved to slot %q (%s)", info.Slot, humanize.Bytes(uint64(info.Size)))
}

// finish stops the game and records the run. Safe to call more than once.
func (m Model) finish() {
	m.ended.Do(func() {
		m.game.StopScheduler()
		m.sub.close()

		snap := m.game.Snapshot()
		if m.store == nil || (snap.Tick == 0 && snap.Clicks == 0) {
			return
		}
		id, err := m.store.RecordRun(storage.Run{
			Scenario: m.scenario.ID,
			Earned:   snap.Earned,
			PeakHarm: snap.PeakHarm,
			Ticks:    snap.Tick,
			Clicks:   snap.Clicks,
		})
		if err != nil {
			m.logger.Error("could not record run", "scenario", m.scenario.ID, "error", err)
			return
		}
		m.logger.Debug("run recorded", "id", id, "earned", snap.Earned)
	})
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	header := titleStyle.Render(strings.ToUpper(m.scenario.Title))
	if m.scenario.Description != "" {
		header += labelStyle.Render("  " + m.scenario.Description)
	}

	stats := renderStats(m.snap, 46)
	upgrades := panelStyle.Render(m.table.View())

	var body string
	if m.config.ScreenW >= minWidthForSideBySide {
		body = lipgloss.JoinHorizontal(lipgloss.Top, stats, " ", upgrades)
	} else {
		body = lipgloss.JoinVertical(lipgloss.Left, stats, upgrades)
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n\n")
	b.WriteString(body)
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(m.status))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// Snapshot returns the state the model last rendered.
func (m Model) Snapshot() sim.Snapshot {
	return m.snap
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Run starts a standalone Bubble Tea program for one game.
func Run(sc registry.Scenario, game *sim.GameState, store *storage.Store, logger *log.Logger, cfg core.RuntimeConfig) error {
	_, err := run(sc, game, store, logger, cfg, true)
	return err
}

// RunFromMenu plays one game and reports whether the player asked to go
// back to the menu rather than quit.
func RunFromMenu(sc registry.Scenario, game *sim.GameState, store *storage.Store, logger *log.Logger, cfg core.RuntimeConfig) (backToMenu bool, err error) {
	return run(sc, game, store, logger, cfg, false)
}

func run(sc registry.Scenario, game *sim.GameState, store *storage.Store, logger *log.Logger, cfg core.RuntimeConfig, standalone bool) (bool, error) {
	model := NewModel(sc, game, store, logger, cfg)
	model.standalone = standalone

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	finalModel, err := p.Run()
	// Covers programs ended by a signal rather than a key.
	model.finish()
	if err != nil {
		return false, err
	}

	m, ok := finalModel.(Model)
	return ok && m.BackToMenu(), nil
}
