package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-idle/internal/core"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestGameKeyMap(t *testing.T) {
	keys := DefaultGameKeyMap()

	tests := []struct {
		name   string
		msg    tea.KeyMsg
		action core.Action
		index  int
	}{
		{"space clicks", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, core.ActionClick, 0},
		{"enter buys", tea.KeyMsg{Type: tea.KeyEnter}, core.ActionBuy, 0},
		{"b buys", runeKey("b"), core.ActionBuy, 0},
		{"up", tea.KeyMsg{Type: tea.KeyUp}, core.ActionUp, 0},
		{"k", runeKey("k"), core.ActionUp, 0},
		{"down", tea.KeyMsg{Type: tea.KeyDown}, core.ActionDown, 0},
		{"j", runeKey("j"), core.ActionDown, 0},
		{"1 is first", runeKey("1"), core.ActionQuickBuy, 0},
		{"9 is ninth", runeKey("9"), core.ActionQuickBuy, 8},
		{"pause", runeKey("p"), core.ActionPause, 0},
		{"save", tea.KeyMsg{Type: tea.KeyCtrlS}, core.ActionSave, 0},
		{"help", runeKey("?"), core.ActionHelp, 0},
		{"esc", tea.KeyMsg{Type: tea.KeyEsc}, core.ActionBack, 0},
		{"q", runeKey("q"), core.ActionQuit, 0},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, core.ActionQuit, 0},
		{"unbound", runeKey("z"), core.ActionNone, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			action, index := keys.MapKey(tt.msg)
			if action != tt.action || index != tt.index {
				t.Errorf("MapKey(%q) = %v, %d; want %v, %d", tt.msg.String(), action, index, tt.action, tt.index)
			}
		})
	}
}

func TestMapKeyToMenuAction(t *testing.T) {
	tests := []struct {
		msg  tea.KeyMsg
		want MenuAction
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, MenuActionUp},
		{runeKey("k"), MenuActionUp},
		{tea.KeyMsg{Type: tea.KeyDown}, MenuActionDown},
		{runeKey("j"), MenuActionDown},
		{tea.KeyMsg{Type: tea.KeyLeft}, MenuActionLeft},
		{runeKey("l"), MenuActionRight},
		{tea.KeyMsg{Type: tea.KeyEnter}, MenuActionSelect},
		{tea.KeyMsg{Type: tea.KeyTab}, MenuActionScoreboard},
		{tea.KeyMsg{Type: tea.KeyEsc}, MenuActionBack},
		{runeKey("q"), MenuActionQuit},
		{runeKey("x"), MenuActionNone},
	}

	for _, tt := range tests {
		if got := MapKeyToMenuAction(tt.msg); got != tt.want {
			t.Errorf("MapKeyToMenuAction(%q) = %v, want %v", tt.msg.String(), got, tt.want)
		}
	}
}
