package sim

import "errors"

// Reason explains why a purchase was rejected.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonNotFound
	ReasonMaxLevelReached
	ReasonInsufficientFunds
)

// String returns a short name for the reason.
func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "ok"
	case ReasonNotFound:
		return "not_found"
	case ReasonMaxLevelReached:
		return "max_level_reached"
	case ReasonInsufficientFunds:
		return "insufficient_funds"
	default:
		return "unknown"
	}
}

// Purchase rejection errors, for callers that prefer errors.Is.
var (
	ErrNotFound          = errors.New("sim: upgrade not found")
	ErrMaxLevelReached   = errors.New("sim: upgrade at max level")
	ErrInsufficientFunds = errors.New("sim: insufficient funds")
)

// Err maps the reason onto its sentinel error, nil for ReasonNone.
func (r Reason) Err() error {
	switch r {
	case ReasonNotFound:
		return ErrNotFound
	case ReasonMaxLevelReached:
		return ErrMaxLevelReached
	case ReasonInsufficientFunds:
		return ErrInsufficientFunds
	}
	return nil
}

// PurchaseResult is the outcome of a purchase. Rejections are ordinary
// results, not errors.
type PurchaseResult struct {
	OK     bool
	Reason Reason
	ID     string
	Price  float64 // price paid, or the price that could not be paid
	Count  int     // owned count after the attempt
}

// Owned is the per-definition ownership record.
type Owned struct {
	Count int
	Price float64 // always PriceOf(def, Count)
}

// Economy owns the counts and the derived rates.
type Economy struct {
	catalog *Catalog
	owned   map[string]*Owned
	rates   Rates
}

// NewEconomy starts every catalog entry at count zero.
func NewEconomy(c *Catalog) *Economy {
	e := &Economy{
		catalog: c,
		owned:   make(map[string]*Owned, c.Len()),
	}
	for _, d := range c.defs {
		e.owned[d.ID] = &Owned{Price: PriceOf(d, 0)}
	}
	e.recompute()
	return e
}

// Purchase runs the purchase transaction against l. Either every step
// happens or nothing changes.
func (e *Economy) Purchase(l *Ledger, id string) PurchaseResult {
	def, ok := e.catalog.Lookup(id)
	own := e.owned[id]
	if !ok || own == nil {
		return PurchaseResult{Reason: ReasonNotFound, ID: id}
	}
	if !def.Purchasable(own.Count) {
		return PurchaseResult{Reason: ReasonMaxLevelReached, ID: id, Price: own.Price, Count: own.Count}
	}

	price := PriceOf(def, own.Count)
	if !l.SpendCurrency(price) {
		return PurchaseResult{Reason: ReasonInsufficientFunds, ID: id, Price: price, Count: own.Count}
	}

	own.Count++
	own.Price = PriceOf(def, own.Count)

	if d, ok := def.Effect.(InstantDelta); ok {
		l.AddCurrency(d.Currency)
		l.AddHarm(d.Harm)
	}

	e.recompute()
	return PurchaseResult{OK: true, ID: id, Price: price, Count: own.Count}
}

// CanAfford reports whether id is purchasable right now.
func (e *Economy) CanAfford(l *Ledger, id string) bool {
	def, ok := e.catalog.Lookup(id)
	if !ok {
		return false
	}
	own := e.owned[id]
	return def.Purchasable(own.Count) && l.Currency() >= own.Price
}

// Rates returns the current derived rates.
func (e *Economy) Rates() Rates { return e.rates }

// Count returns how many units of id are owned.
func (e *Economy) Count(id string) int {
	if o, ok := e.owned[id]; ok {
		return o.Count
	}
	return 0
}

// Counts returns a copy of all owned counts.
func (e *Economy) Counts() map[string]int {
	out := make(map[string]int, len(e.owned))
	for id, o := range e.owned {
		out[id] = o.Count
	}
	return out
}

// setCounts replaces the owned counts, ignoring unknown ids, and rebuilds
// prices and rates. Counts are clamped to [0, maxLevel].
func (e *Economy) setCounts(counts map[string]int) {
	for _, d := range e.catalog.defs {
		n := counts[d.ID]
		if n < 0 {
			n = 0
		}
		if d.MaxLevel > 0 && n > d.MaxLevel {
			n = d.MaxLevel
		}
		e.owned[d.ID] = &Owned{Count: n, Price: PriceOf(d, n)}
	}
	e.recompute()
}

func (e *Economy) recompute() {
	e.rates = Compose(e.catalog, e.Counts())
}
