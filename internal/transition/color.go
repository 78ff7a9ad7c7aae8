package transition

import (
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultPrimary is used when the triggering button has no usable background.
const DefaultPrimary = "#efc760"

// Darken is the fixed lightness reduction for the background circle.
const Darken = 0.2

// Colors is the two-tone pair of a reveal.
type Colors struct {
	Primary    colorful.Color
	Background colorful.Color
}

// DeriveColors takes the trigger's effective background. Empty values,
// "transparent", unparsable values and fully transparent #rrggbb00 all fall
// back to DefaultPrimary.
func DeriveColors(background string) Colors {
	primary, ok := parseOpaque(background)
	if !ok {
		primary, _ = colorful.Hex(DefaultPrimary)
	}
	h, s, l := primary.Hsl()
	return Colors{
		Primary:    primary,
		Background: colorful.Hsl(h, s, l*(1-Darken)).Clamped(),
	}
}

func parseOpaque(v string) (colorful.Color, bool) {
	v = strings.TrimSpace(strings.ToLower(v))
	if v == "" || v == "transparent" {
		return colorful.Color{}, false
	}
	if len(v) == 9 && strings.HasPrefix(v, "#") {
		if v[7:] == "00" {
			return colorful.Color{}, false
		}
		v = v[:7]
	}
	c, err := colorful.Hex(v)
	if err != nil {
		return colorful.Color{}, false
	}
	return c, true
}
