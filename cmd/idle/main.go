// idle is a terminal idle-clicker: grow a compute business one click and
// one upgrade at a time while keeping its environmental harm in check.
//
// Usage:
//
//	idle list                 - List available scenarios
//	idle play <scenario>      - Play a scenario
//	idle menu                 - Start menu to pick scenarios interactively
//	idle simulate <scenario>  - Run a command script headlessly
//	idle serve                - Start SSH server for remote play
//	idle observe <scenario>   - Serve a running game over HTTP and websockets
//	idle saves [scenario]     - List save slots
//	idle runs [scenario]      - Show the best recorded runs
//
// Global flags:
//
//	--tps <n>               - Override ticks per simulated second
//	--minutes-per-tick <n>  - Override simulated minutes per tick
//	--db <path>             - Set database path (default: ~/.idle/idle.db)
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	// Import scenarios to register them
	_ "github.com/vovakirdan/tui-idle/internal/config"
	"github.com/vovakirdan/tui-idle/internal/core"
)

var (
	// Global flags
	flagTPS            int
	flagMinutesPerTick int
	flagDBPath         string
	flagLogFile        string
	flagVerbose        bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "idle",
	Short: "Idle - grow a compute empire without wrecking the planet",
	Long: `Idle is a terminal idle-clicker. Click to earn, buy upgrades that earn
for you, and watch the harm meter: every server you add has a footprint.

Available commands:
  list      - Show all available scenarios
  play      - Play a specific scenario directly
  menu      - Interactive scenario picker menu
  simulate  - Run a command script without a terminal UI
  serve     - Start SSH server for remote play
  observe   - Serve a game over HTTP and websockets
  saves     - List save slots
  runs      - View the best recorded runs

Examples:
  idle list
  idle play datacenter
  idle play planet --difficulty hard
  idle menu
  idle simulate datacenter --script ./opening.txt
  idle serve --ssh :2222
  idle runs datacenter`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagTPS, "tps", 0, "Ticks per simulated second (0 = scenario default)")
	rootCmd.PersistentFlags().IntVar(&flagMinutesPerTick, "minutes-per-tick", 0, "Simulated minutes per tick (0 = scenario default)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.idle/idle.db", "Path to saves and runs database")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file while a terminal UI is running")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log debug messages")

	// Add subcommands
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(observeCmd)
	rootCmd.AddCommand(savesCmd)
	rootCmd.AddCommand(runsCmd)
}

// runtimeConfig builds the runtime overrides from the global flags.
func runtimeConfig(width, height int) core.RuntimeConfig {
	cfg := core.DefaultConfig()
	cfg.ScreenW = width
	cfg.ScreenH = height
	cfg.TicksPerSecond = flagTPS
	cfg.MinutesPerTick = flagMinutesPerTick
	return cfg
}

// newLogger returns a logger writing to w.
func newLogger(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if flagVerbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// tuiLogger returns a logger that stays off the terminal while the UI owns
// it. The returned func closes the log file, if any.
func tuiLogger() (*log.Logger, func()) {
	if flagLogFile == "" {
		return newLogger(io.Discard, "idle"), func() {}
	}
	f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open log file: %v\n", err)
		return newLogger(io.Discard, "idle"), func() {}
	}
	return newLogger(f, "idle"), func() { f.Close() }
}
