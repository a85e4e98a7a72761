package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-idle/internal/config"
	"github.com/vovakirdan/tui-idle/internal/platform/tui"
	"github.com/vovakirdan/tui-idle/internal/script"
	"github.com/vovakirdan/tui-idle/internal/storage"
)

var (
	flagScript  string
	flagSave    bool
	flagRecord  bool
	flagJSONOut bool
)

var simulateCmd = &cobra.Command{
	Use:   "simulate <scenario>",
	Short: "Run a command script without a terminal UI",
	Long: `Run a scenario headlessly. Commands are read from --script or stdin,
one per line:

  click [n]        perform the primary action n times
  buy <id> [n]     attempt n purchases of an upgrade
  tick [n]         advance n ticks
  wait <duration>  advance the ticks that fit in a duration (at most 24h)
  state            log a summary of the current state

There is no wall clock: the same script on the same scenario always ends
in the same state.

Examples:
  idle simulate datacenter --script ./opening.txt
  printf 'click 50\nbuy algo-opt\nwait 10m\nstate\n' | idle simulate datacenter
  idle simulate planet --script ./run.txt --json > final.json
  idle simulate datacenter --load --script ./more.txt --save`,
	Args: cobra.ExactArgs(1),
	RunE: runSimulate,
}

func init() {
	simulateCmd.Flags().StringVar(&flagScript, "script", "", "Script file (default: stdin)")
	simulateCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom scenario YAML")
	simulateCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	simulateCmd.Flags().StringVar(&flagSlot, "slot", "main", "Save slot for --load and --save")
	simulateCmd.Flags().BoolVar(&flagLoad, "load", false, "Start from the save slot")
	simulateCmd.Flags().BoolVar(&flagSave, "save", false, "Write the final state to the save slot")
	simulateCmd.Flags().BoolVar(&flagRecord, "record", false, "Record the run in the leaderboard")
	simulateCmd.Flags().BoolVar(&flagJSONOut, "json", false, "Print the final snapshot as JSON on stdout")
}

func runSimulate(cmd *cobra.Command, args []string) error {
	logger := newLogger(os.Stderr, "simulate")

	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		return err
	}

	var in io.Reader = os.Stdin
	if flagScript != "" {
		f, err := os.Open(flagScript)
		if err != nil {
			return fmt.Errorf("cannot open script: %w", err)
		}
		defer f.Close()
		in = f
	}
	steps, err := script.Parse(in)
	if err != nil {
		return err
	}

	var store *storage.Store
	if flagLoad || flagSave || flagRecord {
		store, err = storage.Open(flagDBPath)
		if err != nil {
			return err
		}
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

	rep := script.Run(game, steps, logger)
	snap := game.Snapshot()
	logger.Info("done",
		"scenario", sc.ID,
		"clicks", humanize.Comma(int64(rep.Clicks)),
		"ticks", humanize.Comma(int64(rep.Ticks)),
		"purchases", rep.Purchases,
		"rejected", rep.Rejected,
	)
	script.LogState(logger, snap)

	if flagSave {
		info, err := store.SaveGame(sc.ID, cfg.Slot, game.Save())
		if err != nil {
			return err
		}
		logger.Info("saved", "slot", info.Slot, "size", humanize.Bytes(uint64(info.Size)))
	}
	if flagRecord {
		id, err := store.RecordRun(storage.Run{
			Scenario: sc.ID,
			Earned:   snap.Earned,
			PeakHarm: snap.PeakHarm,
			Ticks:    snap.Tick,
			Clicks:   snap.Clicks,
		})
		if err != nil {
			return err
		}
		logger.Info("run recorded", "id", id)
	}

	if flagJSONOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	}
	return nil
}
