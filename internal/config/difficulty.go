package config

import (
	"fmt"
	"math"
)

// Scaling is the adjustment a preset applies on top of a scenario.
type Scaling struct {
	PriceScale float64 // multiplies every base price
	ClickScale float64 // multiplies click power
	HarmScale  float64 // multiplies harm per click and every positive harm rate
}

// ScalingForPreset returns the adjustment for a difficulty preset.
func ScalingForPreset(preset DifficultyPreset) Scaling {
	switch preset {
	case DifficultyEasy:
		return Scaling{PriceScale: 0.75, ClickScale: 2, HarmScale: 0.5}
	case DifficultyHard:
		return Scaling{PriceScale: 1.5, ClickScale: 1, HarmScale: 1.5}
	default:
		return Scaling{PriceScale: 1, ClickScale: 1, HarmScale: 1}
	}
}

// ParsePreset validates a preset name. The empty string means normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	if s == "" {
		return DifficultyNormal, nil
	}
	for _, p := range Presets {
		if string(p) == s {
			return p, nil
		}
	}
	return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal or hard)", s)
}

// ApplyPreset modifies the scenario based on a difficulty preset.
// Mitigation effects are left alone so every preset stays winnable.
func ApplyPreset(cfg *ScenarioConfig, preset DifficultyPreset) {
	s := ScalingForPreset(preset)
	if s == ScalingForPreset(DifficultyNormal) {
		return
	}

	cfg.Balance.ClickPower *= s.ClickScale
	cfg.Balance.HarmPerClick *= s.HarmScale

	for i := range cfg.Upgrades {
		u := &cfg.Upgrades[i]
		u.BasePrice = math.Max(1, math.Round(u.BasePrice*s.PriceScale))
		if u.Category != "production" {
			continue
		}
		scaled := make(map[string]float64, len(u.Effects))
		for ch, v := range u.Effects {
			if ch == "harm_rate" && v > 0 {
				v *= s.HarmScale
			}
			scaled[ch] = v
		}
		u.Effects = scaled
	}
}
