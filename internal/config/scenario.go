package config

import (
	"fmt"

	"github.com/vovakirdan/tui-idle/internal/registry"
	"github.com/vovakirdan/tui-idle/internal/sim"
)

func init() {
	for _, id := range EmbeddedScenarios() {
		id := id
		registry.Register(id, func() (registry.Scenario, error) {
			return Resolve(id, "", DifficultyNormal)
		})
	}
}

// Resolve loads a scenario, applies the preset and builds the engine
// inputs from it.
func Resolve(id, customPath string, preset DifficultyPreset) (registry.Scenario, error) {
	cfg, err := LoadScenario(id, customPath)
	if err != nil {
		return registry.Scenario{}, err
	}
	ApplyPreset(&cfg, preset)
	return cfg.Build()
}

// Build converts the configuration into a catalog and balance.
func (c ScenarioConfig) Build() (registry.Scenario, error) {
	defs := make([]*sim.Definition, 0, len(c.Upgrades))
	for _, u := range c.Upgrades {
		d, err := u.definition()
		if err != nil {
			return registry.Scenario{}, fmt.Errorf("config: scenario %q: %w", c.ID, err)
		}
		defs = append(defs, d)
	}
	catalog, err := sim.NewCatalog(defs...)
	if err != nil {
		return registry.Scenario{}, fmt.Errorf("config: scenario %q: %w", c.ID, err)
	}

	balance := c.balance()
	if err := balance.Validate(); err != nil {
		return registry.Scenario{}, fmt.Errorf("config: scenario %q: %w", c.ID, err)
	}

	title := c.Title
	if title == "" {
		title = c.ID
	}
	return registry.Scenario{
		ID:          c.ID,
		Title:       title,
		Description: c.Description,
		Catalog:     catalog,
		Balance:     balance,
	}, nil
}

func (c ScenarioConfig) balance() sim.Balance {
	b := c.Balance
	return sim.Balance{
		ClickPower:       b.ClickPower,
		HarmPerClick:     b.HarmPerClick,
		RequestsPerClick: b.RequestsPerClick,
		TicksPerSecond:   b.TicksPerSecond,
		MinutesPerTick:   b.MinutesPerTick,
		BaseRates:        sim.ChannelRates(b.BaseRates),
		WorldRates:       sim.ChannelRates(b.WorldRates),
		Tiers: sim.Tiers{
			Max:        c.Tiers.Max,
			Thresholds: append([]float64(nil), c.Tiers.Thresholds...),
			Labels:     append([]string(nil), c.Tiers.Labels...),
		},
	}
}

func (u UpgradeConfig) definition() (*sim.Definition, error) {
	cat, err := sim.ParseCategory(u.Category)
	if err != nil {
		return nil, err
	}
	kind := sim.KindPassive
	if u.Kind != "" {
		if kind, err = sim.ParseEffectKind(u.Kind); err != nil {
			return nil, err
		}
	}

	effects := make(map[sim.Channel]float64, len(u.Effects))
	for ch, v := range u.Effects {
		effects[sim.Channel(ch)] = v
	}

	name := u.Name
	if name == "" {
		name = u.ID
	}
	return sim.NewDefinition(u.ID, name, u.Description, u.BasePrice, u.Growth, u.MaxLevel, cat, kind, effects)
}
