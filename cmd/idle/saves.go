package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-idle/internal/storage"
)

var flagDeleteSlot string

var savesCmd = &cobra.Command{
	Use:   "saves [scenario]",
	Short: "List save slots",
	Long: `List saved games, optionally for one scenario only.

Examples:
  idle saves
  idle saves datacenter
  idle saves datacenter --delete evening`,
	Args: cobra.MaximumNArgs(1),
	Run:  runSaves,
}

func init() {
	savesCmd.Flags().StringVar(&flagDeleteSlot, "delete", "", "Delete this slot of the given scenario")
}

func runSaves(cmd *cobra.Command, args []string) {
	scenarioID := ""
	if len(args) == 1 {
		scenarioID = args[0]
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagDeleteSlot != "" {
		if scenarioID == "" {
			fmt.Fprintln(os.Stderr, "Error: --delete needs a scenario")
			os.Exit(1)
		}
		if err := store.DeleteSave(scenarioID, flagDeleteSlot); err != nil {
			fmt.Fprintf(os.Stderr, "Error deleting save: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Deleted %s/%s\n", scenarioID, flagDeleteSlot)
		return
	}

	saves, err := store.ListSaves(scenarioID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error listing saves: %v\n", err)
		os.Exit(1)
	}

	if len(saves) == 0 {
		fmt.Println("No saves yet. Press ctrl+s in a game to save.")
		return
	}

	fmt.Printf("  %-14s  %-14s  %10s  %8s  %s\n", "Scenario", "Slot", "Tick", "Size", "Saved")
	fmt.Printf("  %-14s  %-14s  %10s  %8s  %s\n", "--------", "----", "----", "----", "-----")
	for _, s := range saves {
		fmt.Printf("  %-14s  %-14s  %10s  %8s  %s\n",
			s.Scenario, s.Slot, humanize.Comma(int64(s.Tick)),
			humanize.Bytes(uint64(s.Size)), humanize.Time(s.CreatedAt))
	}
	fmt.Println()
	fmt.Println("Resume with 'idle play <scenario> --load --slot <slot>'.")
}
