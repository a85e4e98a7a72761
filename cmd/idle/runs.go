package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-idle/internal/registry"
	"github.com/vovakirdan/tui-idle/internal/storage"
)

var flagRunsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs [scenario]",
	Short: "Show the best recorded runs",
	Long: `Display the best runs for a scenario, ranked by currency earned with
ties going to the run with the lower peak harm. Without a scenario, a
summary per scenario is shown.

Examples:
  idle runs
  idle runs datacenter
  idle runs planet --limit 25`,
	Args: cobra.MaximumNArgs(1),
	Run:  runRuns,
}

func init() {
	runsCmd.Flags().IntVar(&flagRunsLimit, "limit", 10, "Number of runs to show")
}

func runRuns(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if len(args) == 0 {
		printStats(store)
		return
	}

	scenarioID := args[0]
	title := scenarioID
	if sc, err := registry.Create(scenarioID); err == nil {
		title = sc.Title
	}

	runs, err := store.TopRuns(scenarioID, flagRunsLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Best runs - %s\n", title)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'idle play %s' to set the first record!\n", scenarioID)
		return
	}

	fmt.Printf("  %-4s  %14s  %10s  %10s  %s\n", "Rank", "Earned", "Peak harm", "Ticks", "Date")
	fmt.Printf("  %-4s  %14s  %10s  %10s  %s\n", "----", "------", "---------", "-----", "----")
	for i, r := range runs {
		fmt.Printf("  %-4d  %14s  %10s  %10s  %s\n", i+1,
			humanize.CommafWithDigits(r.Earned, 1),
			humanize.CommafWithDigits(r.PeakHarm, 2),
			humanize.Comma(int64(r.Ticks)),
			r.CreatedAt.Format("2006-01-02 15:04"))
	}
}

func printStats(store *storage.Store) {
	stats, err := store.AllScenarioStats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving stats: %v\n", err)
		os.Exit(1)
	}
	if len(stats) == 0 {
		fmt.Println("No runs recorded yet.")
		return
	}

	ids := make([]string, 0, len(stats))
	for id := range stats {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	fmt.Printf("  %-14s  %6s  %14s  %14s\n", "Scenario", "Runs", "Best", "Average")
	fmt.Printf("  %-14s  %6s  %14s  %14s\n", "--------", "----", "----", "-------")
	for _, id := range ids {
		s := stats[id]
		fmt.Printf("  %-14s  %6d  %14s  %14s\n", id, s.RunsCount,
			humanize.CommafWithDigits(s.BestEarned, 1),
			humanize.CommafWithDigits(s.AvgEarned, 1))
	}
}
