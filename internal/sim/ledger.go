package sim

import (
	"fmt"
	"math"
)

// SimClock is the simulated day/hour/minute. Day starts at 1.
type SimClock struct {
	Day    int `json:"day"`
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// NewSimClock returns the clock at day 1, 00:00.
func NewSimClock() SimClock {
	return SimClock{Day: 1}
}

// Advance moves the clock forward by whole minutes, rolling minutes into
// hours and hours into days.
func (c *SimClock) Advance(minutes int) {
	if minutes <= 0 {
		return
	}
	total := c.Minute + minutes
	c.Minute = total % 60
	hours := c.Hour + total/60
	c.Hour = hours % 24
	c.Day += hours / 24
}

// String formats the clock as "Day N HH:MM".
func (c SimClock) String() string {
	return fmt.Sprintf("Day %d %02d:%02d", c.Day, c.Hour, c.Minute)
}

// Ledger holds the mutable accumulators. Currency and harm are clamped at
// zero; power, water and requests only ever grow.
type Ledger struct {
	currency float64
	harm     float64
	power    float64
	water    float64
	requests float64
	clock    SimClock

	earned   float64 // lifetime currency credited
	peakHarm float64
}

// NewLedger returns a zeroed ledger with the clock at day 1.
func NewLedger() Ledger {
	return Ledger{clock: NewSimClock()}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// AddCurrency applies currency = max(0, currency + delta).
func (l *Ledger) AddCurrency(delta float64) {
	if !finite(delta) {
		return
	}
	if delta > 0 {
		l.earned += delta
	}
	l.currency = math.Max(0, l.currency+delta)
}

// AddHarm applies harm = max(0, harm + delta).
func (l *Ledger) AddHarm(delta float64) {
	if !finite(delta) {
		return
	}
	l.harm = math.Max(0, l.harm+delta)
	if l.harm > l.peakHarm {
		l.peakHarm = l.harm
	}
}

// AddPower adds a non-negative delta to the power counter.
func (l *Ledger) AddPower(delta float64) { addMonotonic(&l.power, delta) }

// AddWater adds a non-negative delta to the water counter.
func (l *Ledger) AddWater(delta float64) { addMonotonic(&l.water, delta) }

// AddRequests adds a non-negative delta to the request counter.
func (l *Ledger) AddRequests(delta float64) { addMonotonic(&l.requests, delta) }

func addMonotonic(v *float64, delta float64) {
	if !finite(delta) || delta < 0 {
		return
	}
	*v += delta
}

// SpendCurrency debits exactly amount. It returns false and leaves the
// ledger untouched when the balance is too small.
func (l *Ledger) SpendCurrency(amount float64) bool {
	if !finite(amount) || amount < 0 || l.currency < amount {
		return false
	}
	l.currency -= amount
	return true
}

// AdvanceClock moves the simulated clock forward.
func (l *Ledger) AdvanceClock(minutes int) { l.clock.Advance(minutes) }

func (l *Ledger) Currency() float64 { return l.currency }
func (l *Ledger) Harm() float64     { return l.harm }
func (l *Ledger) Power() float64    { return l.power }
func (l *Ledger) Water() float64    { return l.water }
func (l *Ledger) Requests() float64 { return l.requests }
func (l *Ledger) Clock() SimClock   { return l.clock }
func (l *Ledger) Earned() float64   { return l.earned }
func (l *Ledger) PeakHarm() float64 { return l.peakHarm }
