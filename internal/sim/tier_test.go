package sim

import "testing"

func TestClassifyDefault(t *testing.T) {
	tiers := DefaultTiers()

	tests := []struct {
		harm  float64
		index int
		label string
	}{
		{0, 0, "Balanced"},
		{250, 0, "Balanced"},
		{250.5, 1, "Under strain"},
		{500, 1, "Under strain"},
		{750, 2, "Critical"},
		{751, 3, "Catastrophic"},
		{5000, 3, "Catastrophic"},
	}

	for _, tt := range tests {
		got := tiers.Classify(tt.harm)
		if got.Index != tt.index || got.Label != tt.label {
			t.Errorf("Classify(%v) = %+v, want %d %q", tt.harm, got, tt.index, tt.label)
		}
	}
}

func TestClassifyCustom(t *testing.T) {
	tiers := Tiers{
		Max:        100,
		Thresholds: []float64{30, 70},
		Labels:     []string{"healthy", "polluted", "destroyed"},
	}
	if err := tiers.Validate(); err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}

	cases := map[float64]string{
		10: "healthy",
		30: "healthy",
		31: "polluted",
		70: "polluted",
		99: "destroyed",
	}
	for harm, want := range cases {
		if got := tiers.Classify(harm).Label; got != want {
			t.Errorf("Classify(%v) = %q, want %q", harm, got, want)
		}
	}
}

func TestPercent(t *testing.T) {
	tiers := DefaultTiers()
	if got := tiers.Percent(100); got != 10 {
		t.Errorf("Percent(100) = %v, want 10", got)
	}
	if got := tiers.Percent(2000); got != 200 {
		t.Errorf("Percent(2000) = %v, want uncapped 200", got)
	}
}

func TestTiersValidate(t *testing.T) {
	tests := []struct {
		name  string
		tiers Tiers
	}{
		{"zero max", Tiers{Max: 0, Thresholds: []float64{50}, Labels: []string{"a", "b"}}},
		{"label count", Tiers{Max: 10, Thresholds: []float64{50}, Labels: []string{"a"}}},
		{"descending", Tiers{Max: 10, Thresholds: []float64{50, 20}, Labels: []string{"a", "b", "c"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.tiers.Validate(); err == nil {
				t.Error("Validate() should fail")
			}
		})
	}
	if err := DefaultTiers().Validate(); err != nil {
		t.Errorf("default tiers invalid: %v", err)
	}
}
