package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-idle/internal/platform/tui"
	"github.com/vovakirdan/tui-idle/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start with a scenario picker menu",
	Long: `Start in interactive menu mode.

Use arrow keys or j/k to navigate, left/right to change difficulty and
Enter to play. A scenario with a save in the main slot is resumed.
Esc in a game returns to the menu.

Controls:
  Up/Down/j/k     - Navigate menu
  Left/Right/h/l  - Difficulty
  Enter/Space     - Play
  Tab             - Best runs
  Q               - Quit

Examples:
  idle menu
  idle menu --tps 20
  idle menu --db ./idle.db`,
	Run: runMenu,
}

func runMenu(_ *cobra.Command, _ []string) {
	// Open storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open database: %v\n", err)
		store = nil
	}

	// Get terminal size
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	cfg := runtimeConfig(width, height)
	logger, closeLog := tuiLogger()
	defer closeLog()

	// Menu loop
	for {
		menuResult, err := tui.RunMenu(store, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		// Update config with any size changes
		cfg = menuResult.Config

		if menuResult.Quit {
			break
		}

		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue // Back to menu
			}
			break // User quit from scoreboard
		}

		if menuResult.ScenarioID == "" {
			break
		}

		sc, game, err := tui.NewGame(store, tui.GameOptions{
			ScenarioID: menuResult.ScenarioID,
			Preset:     menuResult.Preset,
			Resume:     menuResult.Resume,
		}, cfg, logger)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			continue
		}

		backToMenu, err := tui.RunFromMenu(sc, game, store, logger, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
			continue
		}
		if !backToMenu {
			break
		}
	}

	// Cleanup
	if store != nil {
		store.Close()
	}
}
