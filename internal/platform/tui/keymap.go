package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-idle/internal/core"
)

// GameKeyMap defines key bindings for the game screen.
type GameKeyMap struct {
	Click    key.Binding
	Up       key.Binding
	Down     key.Binding
	Buy      key.Binding
	QuickBuy key.Binding
	Pause    key.Binding
	Save     key.Binding
	Help     key.Binding
	Back     key.Binding
	Quit     key.Binding
}

// ShortHelp returns bindings for the short help view.
func (k GameKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Click, k.Buy, k.Pause, k.Help, k.Quit}
}

// FullHelp returns bindings for the full help view.
func (k GameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Click, k.Up, k.Down, k.Buy, k.QuickBuy},
		{k.Pause, k.Save, k.Help, k.Back, k.Quit},
	}
}

// DefaultGameKeyMap returns the default key bindings.
func DefaultGameKeyMap() GameKeyMap {
	return GameKeyMap{
		Click: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "compute"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "prev upgrade"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "next upgrade"),
		),
		Buy: key.NewBinding(
			key.WithKeys("enter", "b"),
			key.WithHelp("enter/b", "buy"),
		),
		QuickBuy: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "quick buy"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "menu"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// MapKey translates a key message to a game action. For ActionQuickBuy the
// second result is the zero-based catalog position.
func (k GameKeyMap) MapKey(msg tea.KeyMsg) (core.Action, int) {
	switch {
	case key.Matches(msg, k.Quit):
		return core.ActionQuit, 0
	case key.Matches(msg, k.Back):
		return core.ActionBack, 0
	case key.Matches(msg, k.Click):
		return core.ActionClick, 0
	case key.Matches(msg, k.Up):
		return core.ActionUp, 0
	case key.Matches(msg, k.Down):
		return core.ActionDown, 0
	case key.Matches(msg, k.Buy):
		return core.ActionBuy, 0
	case key.Matches(msg, k.QuickBuy):
		return core.ActionQuickBuy, int(msg.String()[0] - '1')
	case key.Matches(msg, k.Pause):
		return core.ActionPause, 0
	case key.Matches(msg, k.Save):
		return core.ActionSave, 0
	case key.Matches(msg, k.Help):
		return core.ActionHelp, 0
	}
	return core.ActionNone, 0
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionLeft
	MenuActionRight
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
	MenuActionScoreboard
)

// MapKeyToMenuAction translates a key to a menu action.
func MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "a", "left", "h":
		return MenuActionLeft
	case "d", "right", "l":
		return MenuActionRight
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	case "tab":
		return MenuActionScoreboard
	}

	return MenuActionNone
}
