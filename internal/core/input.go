package core

// Action represents a semantic game action, abstracted from physical key presses.
// This allows the platform to work with high-level intents rather than raw input.
type Action int

const (
	ActionNone     Action = iota
	ActionClick           // Space - primary action
	ActionUp              // K, Up arrow - previous upgrade
	ActionDown            // J, Down arrow - next upgrade
	ActionBuy             // B, Enter - buy the selected upgrade
	ActionQuickBuy        // 1-9 - buy the upgrade at that position
	ActionPause           // P - stop or start the scheduler
	ActionSave            // Ctrl+S - write the save slot
	ActionHelp            // ? - toggle full help
	ActionBack            // Esc - leave the game (back to menu)
	ActionQuit            // Q, Ctrl+C - exit game/session
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionClick:
		return "Click"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionBuy:
		return "Buy"
	case ActionQuickBuy:
		return "QuickBuy"
	case ActionPause:
		return "Pause"
	case ActionSave:
		return "Save"
	case ActionHelp:
		return "Help"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}
