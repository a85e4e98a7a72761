package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/tui-idle/internal/registry"
	"github.com/vovakirdan/tui-idle/internal/sim"
)

func TestEmbeddedScenariosBuild(t *testing.T) {
	ids := EmbeddedScenarios()
	if len(ids) < 2 {
		t.Fatalf("EmbeddedScenarios() = %v, want datacenter and planet", ids)
	}

	for _, id := range ids {
		t.Run(id, func(t *testing.T) {
			s, err := Resolve(id, "", DifficultyNormal)
			if err != nil {
				t.Fatalf("Resolve(%s) failed: %v", id, err)
			}
			if s.ID != id {
				t.Errorf("ID = %q, want %q", s.ID, id)
			}
			if s.Catalog.Len() == 0 {
				t.Error("empty catalog")
			}
			if _, err := s.NewGame(); err != nil {
				t.Errorf("NewGame() failed: %v", err)
			}
		})
	}
}

func TestDatacenterCatalog(t *testing.T) {
	s, err := Resolve("datacenter", "", DifficultyNormal)
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}

	tests := []struct {
		id    string
		price float64
		cat   sim.Category
		kind  sim.EffectKind
	}{
		{"algo-opt", 50, sim.CategoryProduction, sim.KindPassive},
		{"data-center", 2000, sim.CategoryProduction, sim.KindPassive},
		{"plant-tree", 40, sim.CategoryMitigation, sim.KindPassive},
		{"thermal-recycling", 200, sim.CategoryMitigation, sim.KindInstant},
		{"liquid-cooling", 300, sim.CategoryEfficiency, sim.KindPassive},
	}
	for _, tt := range tests {
		d, ok := s.Catalog.Lookup(tt.id)
		if !ok {
			t.Errorf("missing upgrade %s", tt.id)
			continue
		}
		if d.BasePrice != tt.price || d.Category() != tt.cat || d.Kind() != tt.kind {
			t.Errorf("%s = %v %s %s, want %v %s %s", tt.id, d.BasePrice, d.Category(), d.Kind(), tt.price, tt.cat, tt.kind)
		}
		if d.GrowthFactor != sim.DefaultGrowthFactor {
			t.Errorf("%s growth = %v", tt.id, d.GrowthFactor)
		}
	}

	if s.Balance.Tiers.Max != 1000 || len(s.Balance.Tiers.Labels) != 4 {
		t.Errorf("tiers = %+v", s.Balance.Tiers)
	}
}

func TestPlanetOverridesDefaults(t *testing.T) {
	s, err := Resolve("planet", "", DifficultyNormal)
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if s.Balance.MinutesPerTick != 5 {
		t.Errorf("MinutesPerTick = %d, want 5", s.Balance.MinutesPerTick)
	}
	if s.Balance.HarmPerClick != 0.1 {
		t.Errorf("HarmPerClick = %v, want 0.1", s.Balance.HarmPerClick)
	}
	// world_rates omitted: defaults apply.
	if s.Balance.WorldRates != sim.DefaultBalance().WorldRates {
		t.Errorf("WorldRates = %+v, want defaults", s.Balance.WorldRates)
	}
	if got := s.Balance.Tiers.Classify(80).Label; got != "Destroyed" {
		t.Errorf("Classify(80) = %q", got)
	}
	d, _ := s.Catalog.Lookup("quantum-server")
	if d.GrowthFactor != 2 || d.MaxLevel != 5 {
		t.Errorf("quantum-server = %+v", d)
	}
}

func TestParseRejectsSchemaViolations(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"missing id", "upgrades: []"},
		{"unknown top-level key", "id: x\nupgrades: []\nextra: 1"},
		{"bad category", "id: x\nupgrades:\n  - {id: a, category: magic, base_price: 1}"},
		{"zero price", "id: x\nupgrades:\n  - {id: a, category: production, base_price: 0}"},
		{"fractional price", "id: x\nupgrades:\n  - {id: a, category: production, base_price: 0.5}"},
		{"unknown channel", "id: x\nupgrades:\n  - {id: a, category: production, base_price: 1, effects: {mana: 1}}"},
		{"shrinking growth", "id: x\nupgrades:\n  - {id: a, category: production, base_price: 1, growth: 0.5}"},
		{"zero tps", "id: x\nbalance: {ticks_per_second: 0}\nupgrades: []"},
		{"not yaml", "id: [unclosed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Error("Parse() should fail")
			}
		})
	}
}

func TestBuildRejectsSemanticErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"polluting mitigation", "id: x\nupgrades:\n  - {id: a, category: mitigation, base_price: 1, effects: {harm_rate: 1}}"},
		{"duplicate id", "id: x\nupgrades:\n  - {id: a, category: production, base_price: 1}\n  - {id: a, category: production, base_price: 2}"},
		{"instant efficiency", "id: x\nupgrades:\n  - {id: a, category: efficiency, kind: instant, base_price: 1}"},
		{"label count", "id: x\ntiers: {thresholds: [50], labels: [a, b, c]}\nupgrades: []"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(tt.yaml))
			if err != nil {
				t.Fatalf("Parse() failed: %v", err)
			}
			if _, err := cfg.Build(); err == nil {
				t.Error("Build() should fail")
			}
		})
	}
}

func TestLoadScenarioCustomPath(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "custom.yaml")
	doc := "id: custom\ntitle: Custom\nupgrades:\n  - {id: a, category: production, base_price: 5, effects: {currency_rate: 1}}\n"
	if err := os.WriteFile(p, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	s, err := Resolve("ignored", p, DifficultyNormal)
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	if s.ID != "custom" || s.Title != "Custom" || s.Catalog.Len() != 1 {
		t.Errorf("scenario = %+v", s)
	}
	if s.Balance.TicksPerSecond != 10 {
		t.Errorf("TicksPerSecond = %d, want default 10", s.Balance.TicksPerSecond)
	}

	if _, err := LoadScenario("x", filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("missing custom path should fail")
	}
}

func TestLoadScenarioLocalOverride(t *testing.T) {
	dir := t.TempDir()
	chdirForTest(t, dir)
	t.Setenv("HOME", dir)

	if err := os.MkdirAll("scenarios", 0o755); err != nil {
		t.Fatal(err)
	}
	doc := "id: datacenter\ntitle: Local\nupgrades: []\n"
	if err := os.WriteFile(filepath.Join("scenarios", "datacenter.yaml"), []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadScenario("datacenter", "")
	if err != nil {
		t.Fatalf("LoadScenario() failed: %v", err)
	}
	if cfg.Title != "Local" {
		t.Errorf("Title = %q, want local override", cfg.Title)
	}

	// A broken override falls back to the embedded default.
	if err := os.WriteFile(filepath.Join("scenarios", "planet.yaml"), []byte("upgrades: nope"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = LoadScenario("planet", "")
	if err != nil {
		t.Fatalf("LoadScenario() failed: %v", err)
	}
	if cfg.Title != "Planet" {
		t.Errorf("Title = %q, want embedded default", cfg.Title)
	}
}

func TestLoadScenarioUnknown(t *testing.T) {
	chdirForTest(t, t.TempDir())
	_, err := LoadScenario("no-such-scenario", "")
	if !errors.Is(err, ErrUnknownScenario) {
		t.Errorf("err = %v, want ErrUnknownScenario", err)
	}
}

func TestApplyPreset(t *testing.T) {
	base, err := LoadScenario("datacenter", "")
	if err != nil {
		t.Fatalf("LoadScenario() failed: %v", err)
	}

	easy := base
	easy.Upgrades = append([]UpgradeConfig(nil), base.Upgrades...)
	ApplyPreset(&easy, DifficultyEasy)
	if easy.Balance.ClickPower != 2*base.Balance.ClickPower {
		t.Errorf("easy click power = %v", easy.Balance.ClickPower)
	}
	if easy.Upgrades[0].BasePrice >= base.Upgrades[0].BasePrice {
		t.Errorf("easy price %v not below %v", easy.Upgrades[0].BasePrice, base.Upgrades[0].BasePrice)
	}

	hard := base
	hard.Upgrades = append([]UpgradeConfig(nil), base.Upgrades...)
	ApplyPreset(&hard, DifficultyHard)
	if hard.Upgrades[0].Effects["harm_rate"] <= base.Upgrades[0].Effects["harm_rate"] {
		t.Error("hard preset should raise production harm")
	}
	for i, u := range hard.Upgrades {
		if u.Category == "mitigation" && u.Effects["harm_rate"] != base.Upgrades[i].Effects["harm_rate"] {
			t.Errorf("%s: mitigation changed by preset", u.ID)
		}
	}

	normal := base
	ApplyPreset(&normal, DifficultyNormal)
	if normal.Upgrades[0].BasePrice != base.Upgrades[0].BasePrice {
		t.Error("normal preset changed prices")
	}
}

func TestParsePreset(t *testing.T) {
	for _, p := range Presets {
		got, err := ParsePreset(string(p))
		if err != nil || got != p {
			t.Errorf("ParsePreset(%q) = %q, %v", p, got, err)
		}
	}
	if got, _ := ParsePreset(""); got != DifficultyNormal {
		t.Errorf("empty preset = %q, want normal", got)
	}
	if _, err := ParsePreset("nightmare"); err == nil {
		t.Error("unknown preset should fail")
	}
}

func TestScenariosRegistered(t *testing.T) {
	for _, id := range EmbeddedScenarios() {
		if !registry.Exists(id) {
			t.Errorf("scenario %s not registered", id)
		}
	}
}

// chdirForTest mirrors testing.T.Chdir (Go 1.24+) for older toolchains:
// it changes the working directory and restores it when the test ends.
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
