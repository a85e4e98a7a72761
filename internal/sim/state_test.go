package sim

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"testing"
)

func newTestGame(t *testing.T, opts ...Option) *GameState {
	t.Helper()
	g, err := New(economyCatalog(t), DefaultBalance(), opts...)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return g
}

func TestEndToEndScenario(t *testing.T) {
	g := newTestGame(t)

	snap := g.Snapshot()
	if snap.Currency != 0 || snap.Harm != 0 {
		t.Fatalf("initial state: currency %v harm %v", snap.Currency, snap.Harm)
	}

	g.PerformPrimaryAction()
	snap = g.Snapshot()
	if snap.Currency != 1 {
		t.Errorf("currency after click = %v, want 1", snap.Currency)
	}
	if snap.Harm != 0.1 {
		t.Errorf("harm after click = %v, want 0.1", snap.Harm)
	}

	before := g.Save()
	res := g.Purchase("u1")
	if res.OK || res.Reason != ReasonInsufficientFunds {
		t.Fatalf("Purchase(u1) = %+v, want InsufficientFunds", res)
	}
	after := g.Save()
	if after.Currency != before.Currency || after.Counts["u1"] != 0 {
		t.Errorf("failed purchase changed state: %+v -> %+v", before, after)
	}

	g.mu.Lock()
	g.ledger.AddCurrency(49)
	g.mu.Unlock()

	res = g.Purchase("u1")
	if !res.OK {
		t.Fatalf("Purchase(u1) = %+v, want ok", res)
	}
	snap = g.Snapshot()
	if snap.Currency != 0 {
		t.Errorf("currency = %v, want 0", snap.Currency)
	}
	u1, _ := snap.Upgrade("u1")
	if u1.Count != 1 {
		t.Errorf("u1.count = %d, want 1", u1.Count)
	}
	if u1.Price != 57 {
		t.Errorf("u1.currentPrice = %v, want 57", u1.Price)
	}
}

func TestTickAccrual(t *testing.T) {
	c := mustCatalog(t,
		mustDef(t, "gen", 1, 0, CategoryProduction, KindPassive, map[Channel]float64{ChannelCurrencyRate: 5}),
	)
	g, err := New(c, DefaultBalance())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	g.mu.Lock()
	g.ledger.AddCurrency(1)
	g.mu.Unlock()
	if res := g.Purchase("gen"); !res.OK {
		t.Fatalf("Purchase(gen) = %+v", res)
	}

	before := g.Snapshot()
	g.Step(10)
	after := g.Snapshot()

	if !almostEqual(after.Currency-before.Currency, 5) {
		t.Errorf("currency gained over 10 ticks = %v, want 5", after.Currency-before.Currency)
	}
	if after.Tick != 10 {
		t.Errorf("tick = %d, want 10", after.Tick)
	}
	if after.Clock != (SimClock{Day: 1, Minute: 10}) {
		t.Errorf("clock = %s, want Day 1 00:10", after.Clock)
	}
}

func TestTickHarmAndChannels(t *testing.T) {
	c := mustCatalog(t,
		mustDef(t, "gpu", 1, 0, CategoryProduction, KindPassive,
			map[Channel]float64{ChannelCurrencyRate: 2, ChannelHarmRate: 1}),
		mustDef(t, "cool", 1, 0, CategoryEfficiency, KindPassive,
			map[Channel]float64{ChannelPower: -0.5}),
		mustDef(t, "windmill", 1, 0, CategoryMitigation, KindPassive,
			map[Channel]float64{ChannelHarmRate: -3}),
	)
	b := DefaultBalance()
	b.BaseRates = ChannelRates{Power: 10, Water: 4, Requests: 2}
	g, err := New(c, b)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	g.mu.Lock()
	g.ledger.AddCurrency(2)
	g.mu.Unlock()
	g.Purchase("gpu")
	g.Purchase("cool")

	g.Step(10)
	snap := g.Snapshot()
	if !almostEqual(snap.Harm, 1) {
		t.Errorf("harm = %v, want 1", snap.Harm)
	}
	if !almostEqual(snap.Power, 5) {
		t.Errorf("power = %v, want 10 × 0.5 = 5", snap.Power)
	}
	if !almostEqual(snap.Water, 4) {
		t.Errorf("water = %v, want 4", snap.Water)
	}

	// Net negative harm rate drains harm but never below zero.
	g.mu.Lock()
	g.ledger.AddCurrency(10)
	g.mu.Unlock()
	if res := g.Purchase("windmill"); !res.OK {
		t.Fatalf("Purchase(windmill) = %+v", res)
	}
	g.Step(50)
	if h := g.Snapshot().Harm; h != 0 {
		t.Errorf("harm = %v, want clamp to 0", h)
	}
	if snap2 := g.Snapshot(); snap2.Power < snap.Power {
		t.Error("power counter decreased")
	}
}

func TestClickPowerUpgrade(t *testing.T) {
	c := mustCatalog(t,
		mustDef(t, "server", 1, 0, CategoryProduction, KindPassive, map[Channel]float64{ChannelClickPower: 2}),
	)
	g, err := New(c, DefaultBalance())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	g.PerformPrimaryAction()
	g.Purchase("server")
	g.PerformPrimaryAction()

	snap := g.Snapshot()
	if snap.Currency != 3 {
		t.Errorf("currency = %v, want 0 + 3", snap.Currency)
	}
	if snap.ClickValue != 3 {
		t.Errorf("click value = %v, want 3", snap.ClickValue)
	}
	if snap.Clicks != 2 {
		t.Errorf("clicks = %d, want 2", snap.Clicks)
	}
}

func TestNonNegativityUnderRandomCommands(t *testing.T) {
	g := newTestGame(t)
	rng := rand.New(rand.NewSource(42))
	ids := append(g.Catalog().IDs(), "missing")

	for i := 0; i < 5000; i++ {
		switch rng.Intn(3) {
		case 0:
			g.PerformPrimaryAction()
		case 1:
			g.Purchase(ids[rng.Intn(len(ids))])
		case 2:
			g.Step(rng.Intn(20))
		}
		snap := g.Snapshot()
		if snap.Currency < 0 || snap.Harm < 0 {
			t.Fatalf("step %d: negative ledger: currency %v harm %v", i, snap.Currency, snap.Harm)
		}
	}
}

func TestFailedPurchaseLeavesStateUntouched(t *testing.T) {
	g := newTestGame(t)
	var notified atomic.Int32
	g.OnStateChanged(func() { notified.Add(1) })

	before := g.Save()
	rates := g.Rates()

	for _, id := range []string{"u1", "missing"} {
		if res := g.Purchase(id); res.OK {
			t.Fatalf("Purchase(%s) unexpectedly succeeded", id)
		}
	}

	after := g.Save()
	if after.Currency != before.Currency || after.Harm != before.Harm {
		t.Error("ledger changed by failed purchase")
	}
	if !g.Rates().Equal(rates) {
		t.Error("rates changed by failed purchase")
	}
	if notified.Load() != 0 {
		t.Errorf("listeners notified %d times for rejected purchases", notified.Load())
	}
}

func TestOnStateChanged(t *testing.T) {
	g := newTestGame(t)
	var calls atomic.Int32
	unsubscribe := g.OnStateChanged(func() {
		calls.Add(1)
		_ = g.Snapshot() // listeners may read state
	})

	g.PerformPrimaryAction()
	g.Step(3)
	g.Step(0)
	if got := calls.Load(); got != 2 {
		t.Errorf("listener calls = %d, want 2", got)
	}

	unsubscribe()
	g.PerformPrimaryAction()
	if got := calls.Load(); got != 2 {
		t.Errorf("listener called after unsubscribe: %d", got)
	}
}

func TestSaveRestoreRecomposesRates(t *testing.T) {
	g := newTestGame(t)
	g.mu.Lock()
	g.ledger.AddCurrency(10_000)
	g.mu.Unlock()
	for _, id := range []string{"u1", "u1", "cooling", "recycle", "capped"} {
		if res := g.Purchase(id); !res.OK {
			t.Fatalf("Purchase(%s) = %+v", id, res)
		}
	}
	g.Step(25)
	saved := g.Save()

	restored := newTestGame(t)
	if err := restored.Restore(saved); err != nil {
		t.Fatalf("Restore() failed: %v", err)
	}

	if !restored.Rates().Equal(g.Rates()) {
		t.Errorf("restored rates %+v, want %+v", restored.Rates(), g.Rates())
	}
	a, b := g.Snapshot(), restored.Snapshot()
	if a.Currency != b.Currency || a.Harm != b.Harm || a.Clock != b.Clock || a.Tick != b.Tick {
		t.Errorf("restored snapshot differs: %+v vs %+v", a, b)
	}
	u1, _ := b.Upgrade("u1")
	if u1.Count != 2 || u1.Price != 66 {
		t.Errorf("restored u1 = %+v, want count 2 price 66", u1)
	}
}

func TestRestoreRejectsInvalid(t *testing.T) {
	g := newTestGame(t)
	good := g.Save()

	bad := good
	bad.Version = 99
	if err := g.Restore(bad); err == nil {
		t.Error("unsupported version should fail")
	}

	bad = good
	bad.Currency = -1
	if err := g.Restore(bad); err == nil {
		t.Error("negative currency should fail")
	}

	bad = good
	bad.Clock = SimClock{Day: 0}
	if err := g.Restore(bad); err == nil {
		t.Error("day 0 should fail")
	}
}

func TestRestoreClampsCounts(t *testing.T) {
	g := newTestGame(t)
	s := g.Save()
	s.Counts = map[string]int{"capped": 7, "u1": -3, "gone": 4}
	if err := g.Restore(s); err != nil {
		t.Fatalf("Restore() failed: %v", err)
	}
	snap := g.Snapshot()
	if u, _ := snap.Upgrade("capped"); u.Count != 1 || u.Purchasable {
		t.Errorf("capped = %+v, want count clamped to max level 1", u)
	}
	if u, _ := snap.Upgrade("u1"); u.Count != 0 {
		t.Errorf("u1 count = %d, want 0", u.Count)
	}
}

func TestConcurrentCommands(t *testing.T) {
	g := newTestGame(t)

	var wg sync.WaitGroup
	const workers = 20
	const iterations = 100

	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				g.PerformPrimaryAction()
				g.Step(1)
				_ = g.Snapshot()
			}
		}()
	}
	wg.Wait()

	snap := g.Snapshot()
	if snap.Clicks != workers*iterations {
		t.Errorf("clicks = %d, want %d", snap.Clicks, workers*iterations)
	}
	if snap.Tick != workers*iterations {
		t.Errorf("ticks = %d, want %d", snap.Tick, workers*iterations)
	}
}

func TestNewRejectsInvalidBalance(t *testing.T) {
	b := DefaultBalance()
	b.TicksPerSecond = 0
	if _, err := New(economyCatalog(t), b); err == nil {
		t.Error("zero ticks per second should fail")
	}
	if _, err := New(nil, DefaultBalance()); err == nil {
		t.Error("nil catalog should fail")
	}
}
