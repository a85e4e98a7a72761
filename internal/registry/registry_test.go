package registry

import (
	"errors"
	"testing"

	"github.com/vovakirdan/tui-idle/internal/sim"
)

func testScenario(t *testing.T, id string) Scenario {
	t.Helper()
	d, err := sim.NewDefinition("u1", "U1", "", 50, 0, 0, sim.CategoryProduction, sim.KindPassive,
		map[sim.Channel]float64{sim.ChannelCurrencyRate: 1})
	if err != nil {
		t.Fatalf("NewDefinition() failed: %v", err)
	}
	c, err := sim.NewCatalog(d)
	if err != nil {
		t.Fatalf("NewCatalog() failed: %v", err)
	}
	return Scenario{ID: id, Title: "Test " + id, Catalog: c, Balance: sim.DefaultBalance()}
}

func TestRegisterAndCreate(t *testing.T) {
	s := testScenario(t, "reg-test")
	Register("reg-test", func() (Scenario, error) { return s, nil })

	if !Exists("reg-test") {
		t.Fatal("Exists() = false after Register")
	}
	got, err := Create("reg-test")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if got.Title != "Test reg-test" {
		t.Errorf("Title = %q", got.Title)
	}

	g, err := got.NewGame()
	if err != nil {
		t.Fatalf("NewGame() failed: %v", err)
	}
	if g.Catalog().Len() != 1 {
		t.Errorf("catalog length = %d, want 1", g.Catalog().Len())
	}

	found := false
	for _, info := range List() {
		if info.ID == "reg-test" {
			found = true
			if info.Title != "Test reg-test" {
				t.Errorf("List() title = %q", info.Title)
			}
		}
	}
	if !found {
		t.Error("List() is missing the registered scenario")
	}
}

func TestRegisterBrokenFactory(t *testing.T) {
	Register("reg-broken", func() (Scenario, error) { return Scenario{}, errors.New("boom") })

	for _, info := range List() {
		if info.ID == "reg-broken" && info.Title != "reg-broken" {
			t.Errorf("title = %q, want id fallback", info.Title)
		}
	}
	if _, err := Create("reg-broken"); err == nil {
		t.Error("Create() should surface the factory error")
	}
}

func TestRegisterDuplicatePanics(t *testing.T) {
	f := func() (Scenario, error) { return testScenario(t, "reg-dup"), nil }
	Register("reg-dup", f)

	defer func() {
		if recover() == nil {
			t.Error("duplicate Register should panic")
		}
	}()
	Register("reg-dup", f)
}

func TestCreateUnknown(t *testing.T) {
	if _, err := Create("nope"); err == nil {
		t.Error("Create(nope) should fail")
	}
	if Exists("nope") {
		t.Error("Exists(nope) = true")
	}
}
