package tui

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/tui-idle/internal/core"
	"github.com/vovakirdan/tui-idle/internal/sim"
)

// colorStyles maps core.Color to lipgloss styles.
var colorStyles = map[core.Color]lipgloss.Style{
	core.ColorDefault:       lipgloss.NewStyle(),
	core.ColorRed:           lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	core.ColorGreen:         lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	core.ColorYellow:        lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	core.ColorBlue:          lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	core.ColorMagenta:       lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
	core.ColorCyan:          lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	core.ColorWhite:         lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	core.ColorBrightRed:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	core.ColorBrightGreen:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	core.ColorBrightYellow:  lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	core.ColorBrightBlue:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
	core.ColorBrightMagenta: lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
	core.ColorBrightCyan:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	core.ColorBrightWhite:   lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
	core.ColorOrange:        lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	core.ColorGray:          lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
}

func styleFor(c core.Color) lipgloss.Style {
	if s, ok := colorStyles[c]; ok {
		return s
	}
	return colorStyles[core.ColorDefault]
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// FormatCurrency renders a currency amount with thousands separators.
func FormatCurrency(v float64) string {
	if v < 1000 {
		return fmt.Sprintf("%.1f", v)
	}
	return humanize.CommafWithDigits(math.Floor(v), 0)
}

// FormatMass renders harm, counted in kilograms of CO2, as g, kg or t.
func FormatMass(kg float64) string {
	if kg >= 1000 {
		return humanize.CommafWithDigits(kg/1000, 1) + " t"
	}
	return humanize.SIWithDigits(kg*1000, 1, "g")
}

// FormatEnergy renders kilowatt-hours.
func FormatEnergy(kwh float64) string {
	return humanize.SIWithDigits(kwh*1000, 1, "Wh")
}

// FormatWater renders litres.
func FormatWater(litres float64) string {
	return humanize.SIWithDigits(litres, 1, "L")
}

// FormatCount renders a whole count with thousands separators.
func FormatCount(v float64) string {
	return humanize.Comma(int64(v))
}

// HarmBar draws a width-cell gauge filled to pct percent.
func HarmBar(pct float64, width int, c core.Color) string {
	if width <= 0 {
		return ""
	}
	filled := int(math.Round(math.Min(math.Max(pct, 0), 100) / 100 * float64(width)))
	return styleFor(c).Render(strings.Repeat("█", filled)) +
		labelStyle.Render(strings.Repeat("░", width-filled))
}

// DescribeEffects summarises an upgrade's effects in one line.
func DescribeEffects(u sim.UpgradeView) string {
	channels := make([]string, 0, len(u.Effects))
	for ch := range u.Effects {
		channels = append(channels, string(ch))
	}
	sort.Strings(channels)

	parts := make([]string, 0, len(channels))
	for _, name := range channels {
		ch := sim.Channel(name)
		v := u.Effects[ch]
		switch ch {
		case sim.ChannelCurrencyRate:
			parts = append(parts, fmt.Sprintf("%+g/s", v))
		case sim.ChannelHarmRate:
			parts = append(parts, fmt.Sprintf("%+g harm/s", v))
		case sim.ChannelClickPower:
			parts = append(parts, fmt.Sprintf("%+g/click", v))
		case sim.ChannelCurrency:
			parts = append(parts, fmt.Sprintf("%+g once", v))
		case sim.ChannelHarm:
			parts = append(parts, fmt.Sprintf("%+g harm once", v))
		default:
			parts = append(parts, fmt.Sprintf("%s ×%g", name, 1+v))
		}
	}
	return strings.Join(parts, "  ")
}

// renderStats draws the ledger panel.
func renderStats(snap sim.Snapshot, width int) string {
	tierColor := core.TierColor(snap.Tier.Index, snap.TierCount)
	barWidth := width - 24
	if barWidth > 40 {
		barWidth = 40
	}
	if barWidth < 10 {
		barWidth = 10
	}

	running := "running"
	if !snap.SchedulerRunning {
		running = "paused"
	}

	lines := []string{
		titleStyle.Render(FormatCurrency(snap.Currency)) +
			labelStyle.Render(fmt.Sprintf("  %s/s  %s/click", FormatCurrency(snap.Rates.CurrencyPerSecond), FormatCurrency(snap.ClickValue))),
		fmt.Sprintf("%s %s  %s",
			labelStyle.Render("Harm"),
			FormatMass(snap.Harm),
			labelStyle.Render(fmt.Sprintf("%+.2f/s", snap.Rates.HarmPerSecond))),
		HarmBar(snap.HarmPercent, barWidth, tierColor) + " " +
			styleFor(tierColor).Render(snap.Tier.Label),
		"",
		fmt.Sprintf("%s %s   %s %s   %s %s",
			labelStyle.Render("Power"), FormatEnergy(snap.Power),
			labelStyle.Render("Water"), FormatWater(snap.Water),
			labelStyle.Render("Requests"), FormatCount(snap.Requests)),
		labelStyle.Render(fmt.Sprintf("Worldwide: %s  %s  %s requests",
			FormatEnergy(snap.World.Power), FormatWater(snap.World.Water), FormatCount(snap.World.Requests))),
		"",
		labelStyle.Render(fmt.Sprintf("%s  ·  tick %d  ·  %s", snap.Clock, snap.Tick, running)),
	}
	return panelStyle.Render(strings.Join(lines, "\n"))
}
