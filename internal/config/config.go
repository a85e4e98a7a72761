// Package config provides YAML-based scenario loading and difficulty
// presets for the idle simulation. A scenario bundles an upgrade catalog
// with the balance numbers the engine runs on.
package config

// ScenarioConfig is the on-disk form of a scenario.
type ScenarioConfig struct {
	ID          string          `yaml:"id"`
	Title       string          `yaml:"title"`
	Description string          `yaml:"description"`
	Balance     BalanceConfig   `yaml:"balance"`
	Tiers       TiersConfig     `yaml:"tiers"`
	Upgrades    []UpgradeConfig `yaml:"upgrades"`
}

// BalanceConfig defines click values, tick timing and channel draws.
type BalanceConfig struct {
	ClickPower       float64     `yaml:"click_power"`
	HarmPerClick     float64     `yaml:"harm_per_click"`
	RequestsPerClick float64     `yaml:"requests_per_click"`
	TicksPerSecond   int         `yaml:"ticks_per_second"`
	MinutesPerTick   int         `yaml:"minutes_per_tick"`
	BaseRates        RatesConfig `yaml:"base_rates"`  // in-game draw, scaled by efficiency upgrades
	WorldRates       RatesConfig `yaml:"world_rates"` // illustrative counter, never scaled
}

// RatesConfig holds per-second power, water and request amounts.
type RatesConfig struct {
	Power    float64 `yaml:"power"`
	Water    float64 `yaml:"water"`
	Requests float64 `yaml:"requests"`
}

// TiersConfig defines the harm bands.
type TiersConfig struct {
	Max        float64   `yaml:"max"`
	Thresholds []float64 `yaml:"thresholds"` // percent of max, ascending
	Labels     []string  `yaml:"labels"`
}

// UpgradeConfig is one catalog entry.
type UpgradeConfig struct {
	ID          string             `yaml:"id"`
	Name        string             `yaml:"name"`
	Description string             `yaml:"description"`
	Category    string             `yaml:"category"` // "production", "mitigation" or "efficiency"
	Kind        string             `yaml:"kind"`     // "passive" or "instant"
	BasePrice   float64            `yaml:"base_price"`
	Growth      float64            `yaml:"growth"`    // 0 = default growth factor
	MaxLevel    int                `yaml:"max_level"` // 0 = unbounded
	Effects     map[string]float64 `yaml:"effects"`
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// Presets lists the accepted preset names.
var Presets = []DifficultyPreset{DifficultyEasy, DifficultyNormal, DifficultyHard}
