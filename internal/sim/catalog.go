// Package sim implements the idle simulation engine: the upgrade catalog,
// the resource ledger, effect composition, the upgrade economy and the
// fixed-period tick scheduler. Everything here is pure logic with no
// knowledge of terminals, sockets or databases.
package sim

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

// Category decides how an upgrade's effects combine with the others.
type Category int

const (
	CategoryProduction Category = iota
	CategoryMitigation
	CategoryEfficiency
)

// String returns the config name of the category.
func (c Category) String() string {
	switch c {
	case CategoryProduction:
		return "production"
	case CategoryMitigation:
		return "mitigation"
	case CategoryEfficiency:
		return "efficiency"
	default:
		return "unknown"
	}
}

// ParseCategory converts a config name into a Category.
func ParseCategory(s string) (Category, error) {
	switch s {
	case "production":
		return CategoryProduction, nil
	case "mitigation":
		return CategoryMitigation, nil
	case "efficiency":
		return CategoryEfficiency, nil
	}
	return 0, fmt.Errorf("sim: unknown category %q", s)
}

// EffectKind tells whether an upgrade acts every tick or once at purchase.
type EffectKind int

const (
	KindPassive EffectKind = iota
	KindInstant
)

// String returns the config name of the effect kind.
func (k EffectKind) String() string {
	if k == KindInstant {
		return "instant"
	}
	return "passive"
}

// ParseEffectKind converts a config name into an EffectKind.
func ParseEffectKind(s string) (EffectKind, error) {
	switch s {
	case "passive":
		return KindPassive, nil
	case "instant":
		return KindInstant, nil
	}
	return 0, fmt.Errorf("sim: unknown effect kind %q", s)
}

// Channel names a resource or rate dimension targeted by an effect.
type Channel string

const (
	ChannelCurrency     Channel = "currency"      // instant currency delta
	ChannelHarm         Channel = "harm"          // instant harm delta
	ChannelCurrencyRate Channel = "currency_rate" // currency per second
	ChannelHarmRate     Channel = "harm_rate"     // harm per second
	ChannelClickPower   Channel = "click_power"   // added to every primary action
	ChannelPower        Channel = "power"
	ChannelWater        Channel = "water"
	ChannelRequests     Channel = "requests"
)

// MultiplierChannels lists the channels an efficiency upgrade may target.
var MultiplierChannels = []Channel{ChannelPower, ChannelWater, ChannelRequests}

func isMultiplierChannel(ch Channel) bool {
	for _, c := range MultiplierChannels {
		if c == ch {
			return true
		}
	}
	return false
}

// Effect is the closed set of upgrade effect shapes. Exactly one of
// PassiveRate, PassiveMultiplier and InstantDelta implements it.
type Effect interface {
	Category() Category
	Kind() EffectKind
	channels() map[Channel]float64
	sealed()
}

// PassiveRate adds to the per-second rates for every owned unit.
type PassiveRate struct {
	Cat          Category // CategoryProduction or CategoryMitigation
	CurrencyRate float64
	HarmRate     float64
	ClickPower   float64
}

func (e PassiveRate) Category() Category { return e.Cat }
func (PassiveRate) Kind() EffectKind     { return KindPassive }
func (PassiveRate) sealed()              {}

func (e PassiveRate) channels() map[Channel]float64 {
	m := make(map[Channel]float64, 3)
	if e.CurrencyRate != 0 {
		m[ChannelCurrencyRate] = e.CurrencyRate
	}
	if e.HarmRate != 0 {
		m[ChannelHarmRate] = e.HarmRate
	}
	if e.ClickPower != 0 {
		m[ChannelClickPower] = e.ClickPower
	}
	return m
}

// PassiveMultiplier compounds channel multipliers: each owned unit
// contributes a factor of (1 + magnitude × count).
type PassiveMultiplier struct {
	Factors map[Channel]float64
}

func (PassiveMultiplier) Category() Category { return CategoryEfficiency }
func (PassiveMultiplier) Kind() EffectKind   { return KindPassive }
func (PassiveMultiplier) sealed()            {}

func (e PassiveMultiplier) channels() map[Channel]float64 {
	m := make(map[Channel]float64, len(e.Factors))
	for ch, v := range e.Factors {
		m[ch] = v
	}
	return m
}

// InstantDelta is applied to the ledger once, when the upgrade is bought.
type InstantDelta struct {
	Cat      Category
	Currency float64
	Harm     float64
}

func (e InstantDelta) Category() Category { return e.Cat }
func (InstantDelta) Kind() EffectKind     { return KindInstant }
func (InstantDelta) sealed()              {}

func (e InstantDelta) channels() map[Channel]float64 {
	m := make(map[Channel]float64, 2)
	if e.Currency != 0 {
		m[ChannelCurrency] = e.Currency
	}
	if e.Harm != 0 {
		m[ChannelHarm] = e.Harm
	}
	return m
}

// DefaultGrowthFactor is the canonical per-unit price growth.
const DefaultGrowthFactor = 1.15

// Definition is an immutable purchasable upgrade.
type Definition struct {
	ID           string
	Name         string
	Description  string
	BasePrice    float64
	GrowthFactor float64
	MaxLevel     int // 0 means unbounded
	Effect       Effect
}

// Catalog definition errors.
var (
	ErrInvalidDefinition = errors.New("sim: invalid upgrade definition")
	ErrDuplicateUpgrade  = errors.New("sim: duplicate upgrade id")
)

// NewDefinition builds a Definition from the loose category/kind/effects
// form used by config files and validates that the combination makes sense.
func NewDefinition(id, name, desc string, basePrice, growth float64, maxLevel int,
	cat Category, kind EffectKind, effects map[Channel]float64) (*Definition, error) {
	if id == "" {
		return nil, fmt.Errorf("%w: empty id", ErrInvalidDefinition)
	}
	// Prices are floored, so anything below 1 would start out free.
	if !(basePrice >= 1) || math.IsInf(basePrice, 0) {
		return nil, fmt.Errorf("%w: %s: base price must be at least 1", ErrInvalidDefinition, id)
	}
	if growth == 0 {
		growth = DefaultGrowthFactor
	}
	if !(growth >= 1) || math.IsInf(growth, 0) {
		return nil, fmt.Errorf("%w: %s: growth factor must be >= 1", ErrInvalidDefinition, id)
	}
	if maxLevel < 0 {
		return nil, fmt.Errorf("%w: %s: negative max level", ErrInvalidDefinition, id)
	}
	for ch, v := range effects {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("%w: %s: non-finite effect on %s", ErrInvalidDefinition, id, ch)
		}
	}

	effect, err := buildEffect(cat, kind, effects)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidDefinition, id, err)
	}

	return &Definition{
		ID:           id,
		Name:         name,
		Description:  desc,
		BasePrice:    basePrice,
		GrowthFactor: growth,
		MaxLevel:     maxLevel,
		Effect:       effect,
	}, nil
}

func buildEffect(cat Category, kind EffectKind, effects map[Channel]float64) (Effect, error) {
	if kind == KindInstant {
		if cat == CategoryEfficiency {
			return nil, errors.New("efficiency upgrades cannot be instant")
		}
		d := InstantDelta{Cat: cat}
		for ch, v := range effects {
			switch ch {
			case ChannelCurrency:
				d.Currency = v
			case ChannelHarm:
				d.Harm = v
			default:
				return nil, fmt.Errorf("channel %s not allowed on instant effects", ch)
			}
		}
		if cat == CategoryMitigation && d.Harm > 0 {
			return nil, errors.New("mitigation cannot raise harm")
		}
		return d, nil
	}

	switch cat {
	case CategoryProduction, CategoryMitigation:
		r := PassiveRate{Cat: cat}
		for ch, v := range effects {
			switch ch {
			case ChannelCurrencyRate:
				r.CurrencyRate = v
			case ChannelHarmRate:
				r.HarmRate = v
			case ChannelClickPower:
				r.ClickPower = v
			default:
				return nil, fmt.Errorf("channel %s not allowed on %s effects", ch, cat)
			}
		}
		if cat == CategoryMitigation && r.HarmRate > 0 {
			return nil, errors.New("mitigation cannot raise harm")
		}
		return r, nil
	case CategoryEfficiency:
		m := PassiveMultiplier{Factors: make(map[Channel]float64, len(effects))}
		for ch, v := range effects {
			if !isMultiplierChannel(ch) {
				return nil, fmt.Errorf("channel %s not allowed on efficiency effects", ch)
			}
			m.Factors[ch] = v
		}
		return m, nil
	}
	return nil, fmt.Errorf("unknown category %d", cat)
}

// Category returns the category of the upgrade's effect.
func (d *Definition) Category() Category { return d.Effect.Category() }

// Kind returns whether the upgrade is passive or instant.
func (d *Definition) Kind() EffectKind { return d.Effect.Kind() }

// Effects returns the channel → magnitude view of the effect.
func (d *Definition) Effects() map[Channel]float64 { return d.Effect.channels() }

// Purchasable reports whether one more unit may be bought at count.
func (d *Definition) Purchasable(count int) bool {
	return d.MaxLevel == 0 || count < d.MaxLevel
}

// PriceOf returns floor(basePrice × growthFactor^count).
func PriceOf(d *Definition, count int) float64 {
	return math.Floor(d.BasePrice * math.Pow(d.GrowthFactor, float64(count)))
}

// Catalog is the immutable, ordered set of upgrade definitions.
type Catalog struct {
	defs  []*Definition
	index map[string]int
}

// NewCatalog builds a catalog, preserving definition order.
func NewCatalog(defs ...*Definition) (*Catalog, error) {
	c := &Catalog{
		defs:  make([]*Definition, 0, len(defs)),
		index: make(map[string]int, len(defs)),
	}
	for _, d := range defs {
		if d == nil || d.Effect == nil {
			return nil, fmt.Errorf("%w: nil definition", ErrInvalidDefinition)
		}
		if _, dup := c.index[d.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateUpgrade, d.ID)
		}
		c.index[d.ID] = len(c.defs)
		c.defs = append(c.defs, d)
	}
	return c, nil
}

// Len returns the number of definitions.
func (c *Catalog) Len() int { return len(c.defs) }

// Lookup finds a definition by id.
func (c *Catalog) Lookup(id string) (*Definition, bool) {
	i, ok := c.index[id]
	if !ok {
		return nil, false
	}
	return c.defs[i], true
}

// At returns the i-th definition in catalog order.
func (c *Catalog) At(i int) *Definition { return c.defs[i] }

// IDs returns the ids in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.defs))
	for i, d := range c.defs {
		ids[i] = d.ID
	}
	return ids
}

// ByCategory returns the definitions of one category, in catalog order.
func (c *Catalog) ByCategory(cat Category) []*Definition {
	var out []*Definition
	for _, d := range c.defs {
		if d.Category() == cat {
			out = append(out, d)
		}
	}
	return out
}

// sortedChannels returns the keys of m in a stable order.
func sortedChannels(m map[Channel]float64) []Channel {
	keys := make([]Channel, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
