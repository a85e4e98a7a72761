package core

// Color represents a foreground color for a piece of UI.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for UI elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
)

// tierRamp runs from healthy to ruined.
var tierRamp = []Color{ColorBrightGreen, ColorYellow, ColorOrange, ColorBrightRed}

// TierColor maps harm tier index out of count tiers onto the ramp, so the
// healthiest tier is always green and the worst always red.
func TierColor(index, count int) Color {
	if count <= 1 || index <= 0 {
		return tierRamp[0]
	}
	if index >= count-1 {
		return tierRamp[len(tierRamp)-1]
	}
	pos := index * (len(tierRamp) - 1) / (count - 1)
	return tierRamp[pos]
}
