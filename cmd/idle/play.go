package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-idle/internal/config"
	"github.com/vovakirdan/tui-idle/internal/platform/tui"
	"github.com/vovakirdan/tui-idle/internal/registry"
	"github.com/vovakirdan/tui-idle/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagSlot       string
	flagLoad       bool
)

var playCmd = &cobra.Command{
	Use:   "play <scenario>",
	Short: "Play a scenario",
	Long: `Start playing the specified scenario.

Controls:
  Space        - Compute (earn currency)
  Up/Down/j/k  - Select upgrade
  Enter/B      - Buy selected upgrade
  1-9          - Buy upgrade by position
  P            - Pause/resume the clock
  Ctrl+S       - Save to slot
  ?            - More help
  Q/Ctrl+C     - Quit (the run is recorded)

Difficulty options:
  easy   - Cheaper upgrades, stronger clicks, less harm
  normal - Scenario as written
  hard   - Pricier upgrades, more harm

Examples:
  idle play datacenter
  idle play planet --difficulty easy
  idle play datacenter --load --slot evening
  idle play datacenter --config ./my-datacenter.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom scenario YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	playCmd.Flags().StringVar(&flagSlot, "slot", "main", "Save slot for ctrl+s and --load")
	playCmd.Flags().BoolVar(&flagLoad, "load", false, "Resume from the save slot")
}

func runPlay(cmd *cobra.Command, args []string) {
	scenarioID := args[0]

	// Check if scenario exists
	if flagConfig == "" && !registry.Exists(scenarioID) {
		fmt.Fprintf(os.Stderr, "Error: unknown scenario %q\n", scenarioID)
		fmt.Fprintln(os.Stderr, "Run 'idle list' to see available scenarios.")
		os.Exit(1)
	}

	preset, err := config.ParsePreset(flagDifficulty)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Get terminal size
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	cfg := runtimeConfig(width, height)
	cfg.Slot = flagSlot

	// Open storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	logger, closeLog := tuiLogger()
	defer closeLog()

	sc, game, err := tui.NewGame(store, tui.GameOptions{
		ScenarioID: scenarioID,
		ConfigPath: flagConfig,
		Preset:     preset,
		Resume:     flagLoad,
	}, cfg, logger)
	if err != nil {
		if store != nil {
			store.Close()
		}
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	// Run the game
	runErr := tui.Run(sc, game, store, logger, cfg)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
