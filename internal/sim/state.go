package sim

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// GameState owns one isolated game: catalog, ledger, economy and
// scheduler. Every mutation goes through Apply and runs to completion
// before the next one starts.
type GameState struct {
	mu      sync.Mutex
	catalog *Catalog
	balance Balance
	ledger  Ledger
	economy *Economy
	world   WorldCounters
	tick    uint64
	clicks  uint64

	sched  *Scheduler
	logger *log.Logger

	lmu          sync.Mutex
	listeners    map[int]func()
	nextListener int
}

// Option configures a GameState.
type Option func(*GameState)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *log.Logger) Option {
	return func(g *GameState) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithClock sets the wall clock the scheduler measures elapsed time with.
func WithClock(c Clock) Option {
	return func(g *GameState) {
		g.sched = NewScheduler(c, g.dispatchTicks)
	}
}

// New creates a game with zero counts and a zeroed ledger.
func New(c *Catalog, b Balance, opts ...Option) (*GameState, error) {
	if c == nil {
		return nil, fmt.Errorf("sim: nil catalog")
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}

	g := &GameState{
		catalog:   c,
		balance:   b,
		ledger:    NewLedger(),
		economy:   NewEconomy(c),
		logger:    log.New(io.Discard),
		listeners: make(map[int]func()),
	}
	g.sched = NewScheduler(RealClock{}, g.dispatchTicks)
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Catalog returns the immutable catalog.
func (g *GameState) Catalog() *Catalog { return g.catalog }

// Balance returns the balance the game was created with.
func (g *GameState) Balance() Balance { return g.balance }

// Apply executes one command atomically and notifies listeners if the
// state changed.
func (g *GameState) Apply(cmd Command) Outcome {
	g.mu.Lock()
	out := g.applyLocked(cmd)
	g.mu.Unlock()

	if out.Changed {
		g.notify()
	}
	return out
}

func (g *GameState) applyLocked(cmd Command) Outcome {
	switch c := cmd.(type) {
	case PrimaryAction:
		g.primaryActionLocked()
		return Outcome{Changed: true}

	case Buy:
		res := g.economy.Purchase(&g.ledger, c.ID)
		switch {
		case res.OK:
			g.logger.Debug("upgrade purchased", "id", res.ID, "price", res.Price, "count", res.Count)
		case res.Reason == ReasonNotFound:
			g.logger.Warn("purchase of unknown upgrade", "id", c.ID)
		}
		return Outcome{Changed: res.OK, Purchase: res}

	case Tick:
		for i := 0; i < c.Count; i++ {
			g.stepLocked()
		}
		return Outcome{Changed: c.Count > 0, Ticks: c.Count}
	}

	g.logger.Error("unknown command", "command", fmt.Sprintf("%T", cmd))
	return Outcome{}
}

func (g *GameState) primaryActionLocked() {
	r := g.economy.Rates()
	g.ledger.AddCurrency(g.balance.ClickPower + r.ClickBonus)
	g.ledger.AddHarm(g.balance.HarmPerClick)
	g.ledger.AddRequests(g.balance.RequestsPerClick * r.Multiplier(ChannelRequests))
	g.clicks++
}

// stepLocked is one tick: 1/TicksPerSecond of a simulated second.
func (g *GameState) stepLocked() {
	tps := float64(g.balance.TicksPerSecond)
	r := g.economy.Rates()

	g.ledger.AddCurrency(r.CurrencyPerSecond / tps)
	g.ledger.AddHarm(r.HarmPerSecond / tps)
	g.ledger.AdvanceClock(g.balance.MinutesPerTick)

	base := g.balance.BaseRates
	g.ledger.AddPower(base.Power * r.Multiplier(ChannelPower) / tps)
	g.ledger.AddWater(base.Water * r.Multiplier(ChannelWater) / tps)
	g.ledger.AddRequests(base.Requests * r.Multiplier(ChannelRequests) / tps)

	g.world.advance(g.balance.WorldRates, tps)
	g.tick++
}

// PerformPrimaryAction applies one click.
func (g *GameState) PerformPrimaryAction() {
	g.Apply(PrimaryAction{})
}

// Purchase buys one unit of the upgrade with the given id.
func (g *GameState) Purchase(id string) PurchaseResult {
	return g.Apply(Buy{ID: id}).Purchase
}

// Step advances the world by n ticks, independent of the scheduler.
func (g *GameState) Step(n int) {
	if n <= 0 {
		return
	}
	g.Apply(Tick{Count: n})
}

func (g *GameState) dispatchTicks(n int) {
	g.Apply(Tick{Count: n})
}

// StartScheduler starts automatic ticking every period.
func (g *GameState) StartScheduler(period time.Duration) error {
	if err := g.sched.Start(period); err != nil {
		return err
	}
	g.logger.Debug("scheduler started", "period", period)
	g.notify()
	return nil
}

// StopScheduler freezes passive accrual and the clock. Commands keep
// working. It must not be called from a state listener.
func (g *GameState) StopScheduler() {
	if !g.sched.Running() {
		return
	}
	g.sched.Stop()
	g.logger.Debug("scheduler stopped")
	g.notify()
}

// SchedulerRunning reports whether automatic ticking is active.
func (g *GameState) SchedulerRunning() bool { return g.sched.Running() }

// OnStateChanged registers fn to be called after every change. Listeners
// run outside the state lock and may call Snapshot; they should not block.
// The returned function unregisters fn.
func (g *GameState) OnStateChanged(fn func()) (unsubscribe func()) {
	g.lmu.Lock()
	id := g.nextListener
	g.nextListener++
	g.listeners[id] = fn
	g.lmu.Unlock()

	return func() {
		g.lmu.Lock()
		delete(g.listeners, id)
		g.lmu.Unlock()
	}
}

func (g *GameState) notify() {
	g.lmu.Lock()
	fns := make([]func(), 0, len(g.listeners))
	for _, fn := range g.listeners {
		fns = append(fns, fn)
	}
	g.lmu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Snapshot returns a deep copy of the state.
func (g *GameState) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	r := g.economy.Rates().clone()
	harm := g.ledger.Harm()
	snap := Snapshot{
		Tick:        g.tick,
		Clicks:      g.clicks,
		Currency:    g.ledger.Currency(),
		Harm:        harm,
		Power:       g.ledger.Power(),
		Water:       g.ledger.Water(),
		Requests:    g.ledger.Requests(),
		Clock:       g.ledger.Clock(),
		Earned:      g.ledger.Earned(),
		PeakHarm:    g.ledger.PeakHarm(),
		ClickValue:  g.balance.ClickPower + r.ClickBonus,
		HarmPercent: g.balance.Tiers.Percent(harm),
		Tier:        g.balance.Tiers.Classify(harm),
		TierCount:   len(g.balance.Tiers.Labels),
		Rates: RatesView{
			CurrencyPerSecond: r.CurrencyPerSecond,
			HarmPerSecond:     r.HarmPerSecond,
			ClickBonus:        r.ClickBonus,
			Multipliers:       r.Multipliers,
		},
		World:            g.world,
		Upgrades:         make([]UpgradeView, 0, g.catalog.Len()),
		SchedulerRunning: g.sched.Running(),
	}

	for _, d := range g.catalog.defs {
		own := g.economy.owned[d.ID]
		snap.Upgrades = append(snap.Upgrades, UpgradeView{
			ID:          d.ID,
			Name:        d.Name,
			Description: d.Description,
			Category:    d.Category().String(),
			Kind:        d.Kind().String(),
			Effects:     d.Effects(),
			Count:       own.Count,
			MaxLevel:    d.MaxLevel,
			Price:       own.Price,
			Purchasable: d.Purchasable(own.Count),
			Affordable:  d.Purchasable(own.Count) && g.ledger.Currency() >= own.Price,
		})
	}
	return snap
}

// Rates returns a copy of the current derived rates.
func (g *GameState) Rates() Rates {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.economy.Rates().clone()
}

// Save captures everything needed to rebuild the game.
func (g *GameState) Save() Save {
	g.mu.Lock()
	defer g.mu.Unlock()

	return Save{
		Version:  SaveVersion,
		Tick:     g.tick,
		Clicks:   g.clicks,
		Currency: g.ledger.currency,
		Harm:     g.ledger.harm,
		Power:    g.ledger.power,
		Water:    g.ledger.water,
		Requests: g.ledger.requests,
		Earned:   g.ledger.earned,
		PeakHarm: g.ledger.peakHarm,
		Clock:    g.ledger.clock,
		World:    g.world,
		Counts:   g.economy.Counts(),
	}
}

// Restore replaces the state with s and recomposes the rates from the
// restored counts. Counts for ids missing from the catalog are dropped.
func (g *GameState) Restore(s Save) error {
	if s.Version != SaveVersion {
		return fmt.Errorf("sim: unsupported save version %d", s.Version)
	}
	for _, v := range []float64{s.Currency, s.Harm, s.Power, s.Water, s.Requests, s.Earned, s.PeakHarm} {
		if !finite(v) || v < 0 {
			return fmt.Errorf("sim: save holds invalid amount %v", v)
		}
	}
	clock := s.Clock
	if clock.Day < 1 || clock.Hour < 0 || clock.Hour >= 24 || clock.Minute < 0 || clock.Minute >= 60 {
		return fmt.Errorf("sim: save holds invalid clock %s", clock)
	}

	g.mu.Lock()
	for id := range s.Counts {
		if _, ok := g.catalog.Lookup(id); !ok {
			g.logger.Warn("dropping unknown upgrade from save", "id", id)
		}
	}
	g.ledger = Ledger{
		currency: s.Currency,
		harm:     s.Harm,
		power:    s.Power,
		water:    s.Water,
		requests: s.Requests,
		clock:    clock,
		earned:   s.Earned,
		peakHarm: s.PeakHarm,
	}
	g.world = s.World
	g.tick = s.Tick
	g.clicks = s.Clicks
	g.economy.setCounts(s.Counts)
	g.mu.Unlock()

	g.notify()
	return nil
}
