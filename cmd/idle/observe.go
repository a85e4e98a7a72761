package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-idle/internal/config"
	"github.com/vovakirdan/tui-idle/internal/platform/tui"
	"github.com/vovakirdan/tui-idle/internal/storage"
	"github.com/vovakirdan/tui-idle/internal/transport/observer"
)

var (
	flagHTTPAddr string
	flagAutoSave bool
	flagPaused   bool
)

var observeCmd = &cobra.Command{
	Use:   "observe <scenario>",
	Short: "Serve a running game over HTTP and websockets",
	Long: `Run a scenario with its clock ticking and expose it to any number of
clients:

  GET /state  current snapshot as JSON
  GET /ws     websocket; a STATE message after every change. Clients may
              send {"type":"CLICK"} or {"type":"BUY","id":"<upgrade>"} and
              get a RESULT message back.

On shutdown the run is recorded and, with --autosave, the game is saved
to the slot.

Examples:
  idle observe datacenter
  idle observe planet --http 127.0.0.1:8080 --difficulty hard
  idle observe datacenter --load --autosave`,
	Args: cobra.ExactArgs(1),
	RunE: runObserve,
}

func init() {
	observeCmd.Flags().StringVar(&flagHTTPAddr, "http", "127.0.0.1:8787", "HTTP listen address")
	observeCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom scenario YAML")
	observeCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	observeCmd.Flags().StringVar(&flagSlot, "slot", "main", "Save slot for --load and --autosave")
	observeCmd.Flags().BoolVar(&flagLoad, "load", false, "Resume from the save slot")
	observeCmd.Flags().BoolVar(&flagAutoSave, "autosave", false, "Save to the slot on shutdown")
	observeCmd.Flags().BoolVar(&flagPaused, "paused", false, "Do not start the clock; only clients move the game")
}

func runObserve(cmd *cobra.Command, args []string) error {
	logger := newLogger(os.Stderr, "observe")

	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open database", "error", err)
		store = nil
	} else {
		defer store.Close()
	}

	cfg := runtimeConfig(0, 0)
	cfg.Slot = flagSlot
	sc, game, err := tui.NewGame(store, tui.GameOptions{
		ScenarioID: args[0],
		ConfigPath: flagConfig,
		Preset:     preset,
		Resume:     flagLoad,
	}, cfg, logger)
	if err != nil {
		return err
	}

	if !flagPaused {
		if err := game.StartScheduler(game.Balance().TickPeriod()); err != nil {
			return err
		}
	}
	defer game.StopScheduler()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := observer.NewServer(game, sc.ID, logger)
	serveErr := srv.ListenAndServe(ctx, flagHTTPAddr)

	game.StopScheduler()
	if store != nil {
		snap := game.Snapshot()
		if flagAutoSave {
			if info, err := store.SaveGame(sc.ID, cfg.Slot, game.Save()); err != nil {
				logger.Error("autosave failed", "error", err)
			} else {
				logger.Info("saved", "slot", info.Slot, "tick", info.Tick)
			}
		}
		if snap.Tick > 0 || snap.Clicks > 0 {
			if _, err := store.RecordRun(storage.Run{
				Scenario: sc.ID,
				Earned:   snap.Earned,
				PeakHarm: snap.PeakHarm,
				Ticks:    snap.Tick,
				Clicks:   snap.Clicks,
			}); err != nil {
				logger.Error("could not record run", "error", err)
			}
		}
	}
	return serveErr
}
