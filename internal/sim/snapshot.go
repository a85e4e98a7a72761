package sim

// UpgradeView is the read-only view of one catalog entry.
type UpgradeView struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Category    string              `json:"category"`
	Kind        string              `json:"kind"`
	Effects     map[Channel]float64 `json:"effects"`
	Count       int                 `json:"count"`
	MaxLevel    int                 `json:"max_level,omitempty"`
	Price       float64             `json:"price"`
	Purchasable bool                `json:"purchasable"`
	Affordable  bool                `json:"affordable"`
}

// RatesView is the serialisable form of Rates.
type RatesView struct {
	CurrencyPerSecond float64             `json:"currency_per_second"`
	HarmPerSecond     float64             `json:"harm_per_second"`
	ClickBonus        float64             `json:"click_bonus"`
	Multipliers       map[Channel]float64 `json:"multipliers"`
}

// Snapshot is a deep copy of the game state for presentation.
type Snapshot struct {
	Tick   uint64 `json:"tick"`
	Clicks uint64 `json:"clicks"`

	Currency float64  `json:"currency"`
	Harm     float64  `json:"harm"`
	Power    float64  `json:"power"`
	Water    float64  `json:"water"`
	Requests float64  `json:"requests"`
	Clock    SimClock `json:"clock"`

	Earned      float64 `json:"earned"`
	PeakHarm    float64 `json:"peak_harm"`
	ClickValue  float64 `json:"click_value"`
	HarmPercent float64 `json:"harm_percent"`
	Tier        Tier    `json:"tier"`
	TierCount   int     `json:"tier_count"`

	Rates    RatesView     `json:"rates"`
	World    WorldCounters `json:"world"`
	Upgrades []UpgradeView `json:"upgrades"`

	SchedulerRunning bool `json:"scheduler_running"`
}

// Upgrade finds an upgrade view by id.
func (s Snapshot) Upgrade(id string) (UpgradeView, bool) {
	for _, u := range s.Upgrades {
		if u.ID == id {
			return u, true
		}
	}
	return UpgradeView{}, false
}

// SaveVersion is the current Save format.
const SaveVersion = 1

// Save is the persisted form of a game. Rates are not stored: Restore
// recomposes them from Counts.
type Save struct {
	Version  int            `json:"version"`
	Tick     uint64         `json:"tick"`
	Clicks   uint64         `json:"clicks"`
	Currency float64        `json:"currency"`
	Harm     float64        `json:"harm"`
	Power    float64        `json:"power"`
	Water    float64        `json:"water"`
	Requests float64        `json:"requests"`
	Earned   float64        `json:"earned"`
	PeakHarm float64        `json:"peak_harm"`
	Clock    SimClock       `json:"clock"`
	World    WorldCounters  `json:"world"`
	Counts   map[string]int `json:"counts"`
}
