// Package tui provides the Bubble Tea integration for the idle simulation.
// It handles the terminal UI loop, input mapping, and session orchestration.
package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-idle/internal/sim"
)

// StateChangedMsg is sent after the game state changed, whether by the
// scheduler or by a command.
type StateChangedMsg struct{}

// subscription funnels state changes into the Bubble Tea loop. The
// listener never blocks: changes that arrive while one is already pending
// collapse into it.
type subscription struct {
	ch          chan struct{}
	done        chan struct{}
	unsubscribe func()
	once        sync.Once
}

func subscribe(g *sim.GameState) *subscription {
	s := &subscription{
		ch:   make(chan struct{}, 1),
		done: make(chan struct{}),
	}
	s.unsubscribe = g.OnStateChanged(func() {
		select {
		case s.ch <- struct{}{}:
		default:
		}
	})
	return s
}

// wait returns a command that blocks until the next change or close.
func (s *subscription) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-s.ch:
			return StateChangedMsg{}
		case <-s.done:
			return nil
		}
	}
}

func (s *subscription) close() {
	s.once.Do(func() {
		s.unsubscribe()
		close(s.done)
	})
}
