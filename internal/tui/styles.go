package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

var (
	colorBar       = lipgloss.Color("#0d0b09")
	colorBarText   = lipgloss.Color("#f9f9aa")
	colorMuted     = lipgloss.Color("240")
	colorButton    = lipgloss.Color("#efc760")
	colorButtonTxt = lipgloss.Color("#171411")
	colorErrorBg   = lipgloss.Color("#ffcccc")
	colorErrorFg   = lipgloss.Color("#990000")

	// Reveal text colors, picked by background lightness.
	textDark  = colorful.Color{R: 0x17 / 255.0, G: 0x14 / 255.0, B: 0x11 / 255.0}
	textLight = colorful.Color{R: 0xf9 / 255.0, G: 0xf9 / 255.0, B: 0xaa / 255.0}

	barStyle = lipgloss.NewStyle().
			Background(colorBar).
			Foreground(colorBarText)

	buttonStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorButtonTxt).
			Background(colorButton)

	activeButtonStyle = buttonStyle.
				Underline(true)

	langStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Background(colorBar)

	langCheckedStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(colorBar).
				Background(colorBarText)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			Background(colorBar)

	statusStyle = lipgloss.NewStyle().
			Foreground(colorButton).
			Background(colorBar)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorErrorFg).
			Background(colorErrorBg).
			Padding(0, 1)
)

// buttonStyleFor colors a corner button with its configured background.
func buttonStyleFor(background string, active bool) lipgloss.Style {
	s := buttonStyle
	if active {
		s = activeButtonStyle
	}
	if c, err := colorful.Hex(background); err == nil {
		s = s.Background(lipgloss.Color(c.Hex())).Foreground(lipgloss.Color(textOn(c).Hex()))
	}
	return s
}

// textOn returns the readable text color for background bg.
func textOn(bg colorful.Color) colorful.Color {
	l, _, _ := bg.Lab()
	if l > 0.6 {
		return textDark
	}
	return textLight
}

// fade blends from bg toward c by opacity.
func fade(bg, c colorful.Color, opacity float64) colorful.Color {
	return bg.BlendLab(c, opacity).Clamped()
}

func colorOf(c colorful.Color) lipgloss.Color {
	return lipgloss.Color(c.Hex())
}
