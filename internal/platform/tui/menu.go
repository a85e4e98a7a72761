package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-idle/internal/config"
	"github.com/vovakirdan/tui-idle/internal/core"
	"github.com/vovakirdan/tui-idle/internal/registry"
	"github.com/vovakirdan/tui-idle/internal/storage"
)

// MenuItem represents a selectable scenario in the menu.
type MenuItem struct {
	ScenarioID  string
	Title       string
	Description string
	Best        float64 // best earned total, 0 when never played
	HasSave     bool
}

// MenuModel is the Bubble Tea model for the scenario picker.
type MenuModel struct {
	items          []MenuItem
	cursor         int
	preset         int // index into config.Presets
	width          int
	height         int
	config         core.RuntimeConfig
	quitting       bool
	selected       *MenuItem // Set when user selects a scenario
	openScoreboard bool      // True if user pressed Tab for scoreboard
}

// NewMenuModel creates a new menu model. The store may be nil.
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig) MenuModel {
	scenarios := registry.List()
	items := make([]MenuItem, 0, len(scenarios))

	var saved map[string]bool
	if store != nil {
		saved = make(map[string]bool)
		if saves, err := store.ListSaves(""); err == nil {
			for _, s := range saves {
				if s.Slot == cfg.Slot {
					saved[s.Scenario] = true
				}
			}
		}
	}

	for _, s := range scenarios {
		item := MenuItem{
			ScenarioID:  s.ID,
			Title:       s.Title,
			Description: s.Description,
			HasSave:     saved[s.ID],
		}
		if store != nil {
			if best, err := store.BestRun(s.ID); err == nil && best != nil {
				item.Best = best.Earned
			}
		}
		items = append(items, item)
	}

	return MenuModel{
		items:  items,
		preset: presetIndex(config.DifficultyNormal),
		width:  cfg.ScreenW,
		height: cfg.ScreenH,
		config: cfg,
	}
}

func presetIndex(p config.DifficultyPreset) int {
	for i, candidate := range config.Presets {
		if candidate == p {
			return i
		}
	}
	return 0
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		return m, nil
	}

	return m, nil
}

// handleKey processes keyboard input for menu navigation.
func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch MapKeyToMenuAction(msg) {
	case MenuActionQuit, MenuActionBack:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionLeft:
		m.preset = (m.preset + len(config.Presets) - 1) % len(config.Presets)

	case MenuActionRight:
		m.preset = (m.preset + 1) % len(config.Presets)

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
			return m, tea.Quit // Exit menu to start game
		}

	case MenuActionScoreboard:
		m.openScoreboard = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText(titleStyle.Render("  I D L E  "), m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select a scenario", m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		line := cursor + item.Title
		if item.Best > 0 {
			line += fmt.Sprintf("  (best %s)", FormatCurrency(item.Best))
		}
		if item.HasSave {
			line += "  [saved]"
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	if len(m.items) > 0 && m.items[m.cursor].Description != "" {
		b.WriteString("\n")
		b.WriteString(centerText(labelStyle.Render(m.items[m.cursor].Description), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(fmt.Sprintf("Difficulty: < %s >", m.Preset()), m.width))
	b.WriteString("\n\n")

	controls := "Up/Down: Navigate  |  Left/Right: Difficulty  |  Enter: Play  |  Tab: Runs  |  Q: Quit"
	b.WriteString(centerText(helpStyle.Render(controls), m.width))
	b.WriteString("\n")

	return b.String()
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// Preset returns the highlighted difficulty.
func (m MenuModel) Preset() config.DifficultyPreset {
	return config.Presets[m.preset]
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsScoreboard returns true if user requested scoreboard.
func (m MenuModel) WantsScoreboard() bool {
	return m.openScoreboard
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	padding := (width - w) / 2
	return strings.Repeat(" ", padding) + text
}

// MenuResult holds the result of running the menu.
type MenuResult struct {
	ScenarioID      string
	Preset          config.DifficultyPreset
	Resume          bool
	Config          core.RuntimeConfig
	WantsScoreboard bool
	Quit            bool
}

// Result converts the final menu state into a MenuResult.
func (m MenuModel) Result() MenuResult {
	result := MenuResult{
		Config: m.Config(),
		Preset: m.Preset(),
	}

	switch {
	case m.WantsScoreboard():
		result.WantsScoreboard = true
	case m.IsQuitting():
		result.Quit = true
	case m.Selected() != nil:
		result.ScenarioID = m.Selected().ScenarioID
		result.Resume = m.Selected().HasSave
	default:
		result.Quit = true
	}
	return result
}

// RunMenu runs the menu and returns the selection result.
func RunMenu(store *storage.Store, cfg core.RuntimeConfig) (MenuResult, error) {
	model := NewMenuModel(store, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return MenuResult{Config: cfg}, err
	}

	m, ok := finalModel.(MenuModel)
	if !ok {
		return MenuResult{Config: cfg, Quit: true}, nil
	}
	return m.Result(), nil
}
