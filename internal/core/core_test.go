package core

import (
	"testing"

	"github.com/vovakirdan/tui-idle/internal/sim"
)

func TestTierColor(t *testing.T) {
	tests := []struct {
		index, count int
		want         Color
	}{
		{0, 4, ColorBrightGreen},
		{1, 4, ColorYellow},
		{2, 4, ColorOrange},
		{3, 4, ColorBrightRed},
		{0, 3, ColorBrightGreen},
		{1, 3, ColorYellow},
		{2, 3, ColorBrightRed},
		{0, 1, ColorBrightGreen},
		{9, 4, ColorBrightRed},
	}

	for _, tt := range tests {
		if got := TierColor(tt.index, tt.count); got != tt.want {
			t.Errorf("TierColor(%d, %d) = %d, want %d", tt.index, tt.count, got, tt.want)
		}
	}
}

func TestRuntimeConfigApply(t *testing.T) {
	b := sim.DefaultBalance()

	got := DefaultConfig().Apply(b)
	if got.TicksPerSecond != b.TicksPerSecond || got.MinutesPerTick != b.MinutesPerTick {
		t.Errorf("zero overrides changed the balance: %+v", got)
	}

	cfg := RuntimeConfig{TicksPerSecond: 20, MinutesPerTick: 15}
	got = cfg.Apply(b)
	if got.TicksPerSecond != 20 || got.MinutesPerTick != 15 {
		t.Errorf("Apply() = %d tps %d min, want 20 and 15", got.TicksPerSecond, got.MinutesPerTick)
	}
}

func TestActionString(t *testing.T) {
	if ActionClick.String() != "Click" || ActionQuickBuy.String() != "QuickBuy" {
		t.Error("unexpected action names")
	}
	if Action(99).String() != "Unknown" {
		t.Error("out of range action should be Unknown")
	}
}
