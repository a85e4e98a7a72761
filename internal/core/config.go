package core

import "github.com/vovakirdan/tui-idle/internal/sim"

// RuntimeConfig contains configuration passed to a game session at start.
// Zero values leave the scenario's own numbers in place.
type RuntimeConfig struct {
	ScreenW        int    // Screen width in characters
	ScreenH        int    // Screen height in characters
	TicksPerSecond int    // Simulation ticks per simulated second
	MinutesPerTick int    // Simulated clock minutes per tick
	Slot           string // Save slot used by ctrl+s and --load
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW: 80,
		ScreenH: 24,
		Slot:    "main",
	}
}

// Apply returns b with the runtime overrides applied.
func (c RuntimeConfig) Apply(b sim.Balance) sim.Balance {
	if c.TicksPerSecond > 0 {
		b.TicksPerSecond = c.TicksPerSecond
	}
	if c.MinutesPerTick > 0 {
		b.MinutesPerTick = c.MinutesPerTick
	}
	return b
}
