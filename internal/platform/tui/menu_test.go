package tui

import (
	"io"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-idle/internal/config"
	"github.com/vovakirdan/tui-idle/internal/core"
	"github.com/vovakirdan/tui-idle/internal/storage"
)

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "idle.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func menuPress(t *testing.T, m MenuModel, msg tea.KeyMsg) MenuModel {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(MenuModel)
}

func TestMenuListsScenarios(t *testing.T) {
	m := NewMenuModel(nil, core.DefaultConfig())

	ids := make([]string, len(m.items))
	for i, item := range m.items {
		ids[i] = item.ScenarioID
	}
	joined := strings.Join(ids, ",")
	if !strings.Contains(joined, "datacenter") || !strings.Contains(joined, "planet") {
		t.Errorf("menu items = %v", ids)
	}
	if m.Preset() != config.DifficultyNormal {
		t.Errorf("default preset = %v", m.Preset())
	}
}

func TestMenuSelection(t *testing.T) {
	m := NewMenuModel(nil, core.DefaultConfig())

	m = menuPress(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = menuPress(t, m, tea.KeyMsg{Type: tea.KeyRight})
	m = menuPress(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	res := m.Result()
	if res.ScenarioID != m.items[1].ScenarioID || res.Quit || res.WantsScoreboard {
		t.Errorf("result = %+v", res)
	}
	if res.Preset != config.DifficultyHard {
		t.Errorf("preset = %v, want hard", res.Preset)
	}
}

func TestMenuPresetWraps(t *testing.T) {
	m := NewMenuModel(nil, core.DefaultConfig())
	m = menuPress(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m = menuPress(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.Preset() != config.DifficultyHard {
		t.Errorf("preset = %v, want hard after wrapping", m.Preset())
	}
}

func TestMenuQuitAndScoreboard(t *testing.T) {
	m := menuPress(t, NewMenuModel(nil, core.DefaultConfig()), runeKey("q"))
	if res := m.Result(); !res.Quit {
		t.Errorf("q: result = %+v", res)
	}

	m = menuPress(t, NewMenuModel(nil, core.DefaultConfig()), tea.KeyMsg{Type: tea.KeyTab})
	if res := m.Result(); !res.WantsScoreboard || res.Quit {
		t.Errorf("tab: result = %+v", res)
	}
}

func TestMenuShowsBestRunAndSave(t *testing.T) {
	store := openStore(t)
	if _, err := store.RecordRun(storage.Run{Scenario: "datacenter", Earned: 4321}); err != nil {
		t.Fatalf("RecordRun() failed: %v", err)
	}
	sc, game, err := NewGame(nil, GameOptions{ScenarioID: "datacenter"}, core.DefaultConfig(), log.New(io.Discard))
	if err != nil {
		t.Fatalf("NewGame() failed: %v", err)
	}
	if _, err := store.SaveGame(sc.ID, "main", game.Save()); err != nil {
		t.Fatalf("SaveGame() failed: %v", err)
	}

	m := NewMenuModel(store, core.DefaultConfig())
	view := m.View()
	if !strings.Contains(view, "best 4,321") || !strings.Contains(view, "[saved]") {
		t.Errorf("view does not show best run and save:\n%s", view)
	}

	for m.items[m.cursor].ScenarioID != "datacenter" {
		m = menuPress(t, m, tea.KeyMsg{Type: tea.KeyDown})
	}
	m = menuPress(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if res := m.Result(); !res.Resume {
		t.Errorf("selecting a saved scenario should resume: %+v", res)
	}
}

func TestNewGameResume(t *testing.T) {
	store := openStore(t)
	cfg := core.DefaultConfig()
	logger := log.New(io.Discard)

	// Nothing saved yet: a fresh game.
	_, game, err := NewGame(store, GameOptions{ScenarioID: "datacenter", Resume: true}, cfg, logger)
	if err != nil {
		t.Fatalf("NewGame() failed: %v", err)
	}
	game.PerformPrimaryAction()
	game.Step(7)
	if _, err := store.SaveGame("datacenter", cfg.Slot, game.Save()); err != nil {
		t.Fatalf("SaveGame() failed: %v", err)
	}

	_, resumed, err := NewGame(store, GameOptions{ScenarioID: "datacenter", Resume: true}, cfg, logger)
	if err != nil {
		t.Fatalf("NewGame() failed: %v", err)
	}
	snap := resumed.Snapshot()
	if snap.Tick != 7 || snap.Clicks != 1 {
		t.Errorf("resumed tick %d clicks %d, want 7 and 1", snap.Tick, snap.Clicks)
	}

	if _, _, err := NewGame(store, GameOptions{ScenarioID: "nope"}, cfg, logger); err == nil {
		t.Error("unknown scenario should fail")
	}
}

func TestNewGameAppliesRuntimeOverrides(t *testing.T) {
	cfg := core.DefaultConfig()
	cfg.TicksPerSecond = 20
	cfg.MinutesPerTick = 3

	_, game, err := NewGame(nil, GameOptions{ScenarioID: "datacenter"}, cfg, nil)
	if err != nil {
		t.Fatalf("NewGame() failed: %v", err)
	}
	b := game.Balance()
	if b.TicksPerSecond != 20 || b.MinutesPerTick != 3 {
		t.Errorf("balance = %d tps, %d min/tick", b.TicksPerSecond, b.MinutesPerTick)
	}
}

func TestScoreboard(t *testing.T) {
	store := openStore(t)
	for _, earned := range []float64{10, 30, 20} {
		if _, err := store.RecordRun(storage.Run{Scenario: "datacenter", Earned: earned, Ticks: 5}); err != nil {
			t.Fatalf("RecordRun() failed: %v", err)
		}
	}

	m := NewScoreboardModel(store, 100, 30)
	for m.scenarios[m.cursor].ID != "datacenter" {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
		m = next.(ScoreboardModel)
	}
	rows := m.table.Rows()
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[0][1] != "30.0" {
		t.Errorf("top earned = %q, want 30.0", rows[0][1])
	}
	if view := m.View(); !strings.Contains(view, "3 runs") || !strings.Contains(view, "best 30.0") {
		t.Errorf("view has no summary:\n%s", view)
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if !next.(ScoreboardModel).IsGoingBack() {
		t.Error("esc should go back")
	}
}

func TestSessionMenuToGameAndBack(t *testing.T) {
	s := NewSessionModel(nil, core.DefaultConfig(), "alice", log.New(io.Discard))

	next, _ := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	s = next.(SessionModel)
	if s.gameModel == nil {
		t.Fatal("enter should start a game")
	}
	game := s.gameModel.game
	t.Cleanup(game.StopScheduler)
	if !game.SchedulerRunning() {
		t.Error("the game clock should be running")
	}

	next, _ = s.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	s = next.(SessionModel)
	if game.Snapshot().Clicks != 1 {
		t.Error("keys should reach the game")
	}

	next, cmd := s.Update(tea.KeyMsg{Type: tea.KeyEsc})
	s = next.(SessionModel)
	if s.gameModel != nil || s.quitting {
		t.Error("esc should return to the menu")
	}
	if cmd != nil {
		t.Error("returning to the menu must not quit the program")
	}
	if game.SchedulerRunning() {
		t.Error("the finished game should be stopped")
	}
}

func TestSessionScoreboard(t *testing.T) {
	s := NewSessionModel(nil, core.DefaultConfig(), "bob", nil)

	next, _ := s.Update(tea.KeyMsg{Type: tea.KeyTab})
	s = next.(SessionModel)
	if s.scoreboard == nil {
		t.Fatal("tab should open the scoreboard")
	}
	next, _ = s.Update(tea.KeyMsg{Type: tea.KeyEsc})
	s = next.(SessionModel)
	if s.scoreboard != nil || s.quitting {
		t.Error("esc should return to the menu")
	}
}

func TestSessionDroppedConnectionFinishesGame(t *testing.T) {
	s := NewSessionModel(nil, core.DefaultConfig(), "carol", nil)
	next, _ := s.Update(tea.KeyMsg{Type: tea.KeyEnter})
	s = next.(SessionModel)
	game := s.gameModel.game

	s.holder.finish()
	if game.SchedulerRunning() {
		t.Error("finishing the holder should stop the game")
	}
}

func TestSSHServerShutdownFinishesGames(t *testing.T) {
	s := &SSHServer{logger: log.New(io.Discard), active: make(map[*gameHolder]struct{})}

	session := NewSessionModel(nil, core.DefaultConfig(), "dave", nil)
	s.track(session.holder)
	next, _ := session.Update(tea.KeyMsg{Type: tea.KeyEnter})
	session = next.(SessionModel)
	game := session.gameModel.game

	if n := s.finishAll(); n != 1 {
		t.Errorf("finishAll() = %d, want 1", n)
	}
	if game.SchedulerRunning() {
		t.Error("shutdown should stop running games")
	}

	s.untrack(session.holder)
	if n := s.finishAll(); n != 0 {
		t.Errorf("finishAll() after untrack = %d, want 0", n)
	}
}
