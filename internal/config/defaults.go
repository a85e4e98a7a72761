package config

import (
	"embed"
	"path"
	"sort"
	"strings"

	"github.com/vovakirdan/tui-idle/internal/sim"
)

//go:embed defaults/*.yaml
var defaultScenarios embed.FS

//go:embed scenario.schema.json
var scenarioSchema string

// EmbeddedScenarios returns the IDs of the built-in scenarios, sorted.
func EmbeddedScenarios() []string {
	entries, err := defaultScenarios.ReadDir("defaults")
	if err != nil {
		return nil
	}
	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if name := e.Name(); strings.HasSuffix(name, ".yaml") {
			ids = append(ids, strings.TrimSuffix(name, ".yaml"))
		}
	}
	sort.Strings(ids)
	return ids
}

func embeddedScenario(id string) ([]byte, error) {
	return defaultScenarios.ReadFile(path.Join("defaults", id+".yaml"))
}

// DefaultBalanceConfig returns the balance used for keys a scenario omits.
func DefaultBalanceConfig() BalanceConfig {
	b := sim.DefaultBalance()
	return BalanceConfig{
		ClickPower:       b.ClickPower,
		HarmPerClick:     b.HarmPerClick,
		RequestsPerClick: b.RequestsPerClick,
		TicksPerSecond:   b.TicksPerSecond,
		MinutesPerTick:   b.MinutesPerTick,
		BaseRates:        RatesConfig(b.BaseRates),
		WorldRates:       RatesConfig(b.WorldRates),
	}
}

// DefaultTiersConfig returns the four canonical harm bands.
func DefaultTiersConfig() TiersConfig {
	t := sim.DefaultTiers()
	return TiersConfig{
		Max:        t.Max,
		Thresholds: t.Thresholds,
		Labels:     t.Labels,
	}
}
