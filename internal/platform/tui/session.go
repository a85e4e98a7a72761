package tui

import (
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-idle/internal/config"
	"github.com/vovakirdan/tui-idle/internal/core"
	"github.com/vovakirdan/tui-idle/internal/registry"
	"github.com/vovakirdan/tui-idle/internal/sim"
	"github.com/vovakirdan/tui-idle/internal/storage"
)

// GameOptions selects what NewGame builds.
type GameOptions struct {
	ScenarioID string
	ConfigPath string // optional scenario file overriding the lookup
	Preset     config.DifficultyPreset
	Resume     bool // restore the save in the runtime config's slot
}

// NewGame resolves a scenario, applies the runtime overrides and, when
// asked, restores the slot's save. A missing save starts a fresh game.
func NewGame(store *storage.Store, opts GameOptions, cfg core.RuntimeConfig, logger *log.Logger) (registry.Scenario, *sim.GameState, error) {
	if logger == nil {
		logger = log.Default()
	}

	sc, err := config.Resolve(opts.ScenarioID, opts.ConfigPath, opts.Preset)
	if err != nil {
		return registry.Scenario{}, nil, err
	}
	sc.Balance = cfg.Apply(sc.Balance)

	game, err := sc.NewGame(sim.WithLogger(logger.WithPrefix(sc.ID)))
	if err != nil {
		return registry.Scenario{}, nil, fmt.Errorf("cannot start %s: %w", sc.ID, err)
	}

	if !opts.Resume || store == nil {
		return sc, game, nil
	}

	save, err := store.LoadGame(sc.ID, cfg.Slot)
	switch {
	case errors.Is(err, storage.ErrNoSave):
		logger.Info("no save to resume, starting fresh", "scenario", sc.ID, "slot", cfg.Slot)
	case err != nil:
		return registry.Scenario{}, nil, err
	default:
		if err := game.Restore(save); err != nil {
			return registry.Scenario{}, nil, fmt.Errorf("cannot resume %s/%s: %w", sc.ID, cfg.Slot, err)
		}
		logger.Info("resumed", "scenario", sc.ID, "slot", cfg.Slot, "tick", save.Tick)
	}
	return sc, game, nil
}

// gameHolder tracks the game a session is playing so that it can be
// finished when the connection drops without a key press.
type gameHolder struct {
	mu    sync.Mutex
	model *Model
}

func (h *gameHolder) set(m *Model) {
	h.mu.Lock()
	h.model = m
	h.mu.Unlock()
}

func (h *gameHolder) finish() {
	h.mu.Lock()
	m := h.model
	h.model = nil
	h.mu.Unlock()
	if m != nil {
		m.finish()
	}
}
