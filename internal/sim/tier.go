package sim

import "fmt"

// Tier is a harm band, 0 being the healthiest.
type Tier struct {
	Index int    `json:"index"`
	Label string `json:"label"`
}

// Tiers classifies harm against ascending percentage thresholds of Max.
// len(Labels) must be len(Thresholds)+1.
type Tiers struct {
	Max        float64
	Thresholds []float64 // percent, ascending
	Labels     []string
}

// DefaultTiers returns the canonical four bands: ≤25%, ≤50%, ≤75%, >75%.
func DefaultTiers() Tiers {
	return Tiers{
		Max:        1000,
		Thresholds: []float64{25, 50, 75},
		Labels:     []string{"Balanced", "Under strain", "Critical", "Catastrophic"},
	}
}

// Validate checks that the tiers are usable.
func (t Tiers) Validate() error {
	if !(t.Max > 0) {
		return fmt.Errorf("sim: tiers: max must be positive")
	}
	if len(t.Labels) != len(t.Thresholds)+1 {
		return fmt.Errorf("sim: tiers: need %d labels, got %d", len(t.Thresholds)+1, len(t.Labels))
	}
	for i := 1; i < len(t.Thresholds); i++ {
		if t.Thresholds[i] <= t.Thresholds[i-1] {
			return fmt.Errorf("sim: tiers: thresholds must be ascending")
		}
	}
	return nil
}

// Classify maps a harm level onto its tier.
func (t Tiers) Classify(harm float64) Tier {
	pct := t.Percent(harm)
	for i, th := range t.Thresholds {
		if pct <= th {
			return Tier{Index: i, Label: t.Labels[i]}
		}
	}
	last := len(t.Thresholds)
	return Tier{Index: last, Label: t.Labels[last]}
}

// Percent returns harm as a percentage of Max, not capped at 100.
func (t Tiers) Percent(harm float64) float64 {
	if t.Max <= 0 {
		return 0
	}
	return harm / t.Max * 100
}
