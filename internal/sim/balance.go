package sim

import (
	"fmt"
	"time"
)

// ChannelRates are per-second draws on the power, water and request channels.
type ChannelRates struct {
	Power    float64 `json:"power"`
	Water    float64 `json:"water"`
	Requests float64 `json:"requests"`
}

// Balance holds the tunable numbers of a scenario.
type Balance struct {
	ClickPower       float64 // currency per primary action before upgrades
	HarmPerClick     float64
	RequestsPerClick float64
	TicksPerSecond   int // ticks per simulated second
	MinutesPerTick   int // simulated clock minutes per tick

	// BaseRates is the in-game draw, scaled by the channel multipliers.
	BaseRates ChannelRates
	// WorldRates drives the illustrative real-world counter. Upgrades never
	// touch it.
	WorldRates ChannelRates

	Tiers Tiers
}

// DefaultBalance returns the canonical numbers: one currency and 0.1 harm
// per click, ten ticks per second, one simulated minute per tick.
func DefaultBalance() Balance {
	return Balance{
		ClickPower:       1,
		HarmPerClick:     0.1,
		RequestsPerClick: 1,
		TicksPerSecond:   10,
		MinutesPerTick:   1,
		BaseRates: ChannelRates{
			Power:    0.3,
			Water:    0.5,
			Requests: 1,
		},
		WorldRates: ChannelRates{
			Power:    120,
			Water:    500,
			Requests: 10000,
		},
		Tiers: DefaultTiers(),
	}
}

// Validate checks the balance for values the engine cannot run with.
func (b Balance) Validate() error {
	if b.TicksPerSecond <= 0 {
		return fmt.Errorf("sim: balance: ticks per second must be positive")
	}
	if b.MinutesPerTick < 0 {
		return fmt.Errorf("sim: balance: minutes per tick must not be negative")
	}
	if b.ClickPower < 0 || b.HarmPerClick < 0 || b.RequestsPerClick < 0 {
		return fmt.Errorf("sim: balance: click values must not be negative")
	}
	return b.Tiers.Validate()
}

// TickPeriod is the wall-clock period that makes one simulated second last
// one real second.
func (b Balance) TickPeriod() time.Duration {
	if b.TicksPerSecond <= 0 {
		return time.Second
	}
	return time.Second / time.Duration(b.TicksPerSecond)
}

// WorldCounters is the illustrative real-world track.
type WorldCounters struct {
	Power    float64 `json:"power"`
	Water    float64 `json:"water"`
	Requests float64 `json:"requests"`
}

func (w *WorldCounters) advance(r ChannelRates, tps float64) {
	w.Power += r.Power / tps
	w.Water += r.Water / tps
	w.Requests += r.Requests / tps
}
