package sim

import "math"

// Rates is everything derived from the owned counts. It is recomputed from
// scratch after every purchase and never persisted.
type Rates struct {
	CurrencyPerSecond float64
	HarmPerSecond     float64 // may be negative: net mitigation
	ClickBonus        float64
	Multipliers       map[Channel]float64
}

// Multiplier returns the compound multiplier of ch, 1 when nothing targets it.
func (r Rates) Multiplier(ch Channel) float64 {
	if v, ok := r.Multipliers[ch]; ok {
		return v
	}
	return 1
}

// Equal reports whether two rate sets are identical.
func (r Rates) Equal(o Rates) bool {
	if r.CurrencyPerSecond != o.CurrencyPerSecond ||
		r.HarmPerSecond != o.HarmPerSecond ||
		r.ClickBonus != o.ClickBonus ||
		len(r.Multipliers) != len(o.Multipliers) {
		return false
	}
	for ch, v := range r.Multipliers {
		if w, ok := o.Multipliers[ch]; !ok || w != v {
			return false
		}
	}
	return true
}

func (r Rates) clone() Rates {
	out := r
	out.Multipliers = make(map[Channel]float64, len(r.Multipliers))
	for ch, v := range r.Multipliers {
		out.Multipliers[ch] = v
	}
	return out
}

// Compose derives the rates from the catalog and the owned counts.
//
// Passive rate effects are summed: Σ magnitude × count. Efficiency effects
// are multiplied: Π (1 + magnitude × count), each factor floored at zero.
// Instant effects take no part.
func Compose(c *Catalog, counts map[string]int) Rates {
	r := Rates{Multipliers: make(map[Channel]float64, len(MultiplierChannels))}
	for _, ch := range MultiplierChannels {
		r.Multipliers[ch] = 1
	}

	for _, d := range c.defs {
		n := counts[d.ID]
		if n <= 0 {
			continue
		}
		count := float64(n)

		switch e := d.Effect.(type) {
		case PassiveRate:
			r.CurrencyPerSecond += e.CurrencyRate * count
			r.HarmPerSecond += e.HarmRate * count
			r.ClickBonus += e.ClickPower * count
		case PassiveMultiplier:
			for _, ch := range sortedChannels(e.Factors) {
				r.Multipliers[ch] *= math.Max(0, 1+e.Factors[ch]*count)
			}
		case InstantDelta:
			// applied once at purchase time
		}
	}
	return r
}
