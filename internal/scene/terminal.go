package scene

import (
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// halfBlock paints the top pixel with the foreground and the bottom pixel with
// the background, so one terminal cell carries two roughly square pixels.
const halfBlock = "▀"

// Anti-aliased edges produce many one-off pairs.
const maxCachedStyles = 8192

type cellColors struct {
	top, bottom string
}

// Encoder turns raster frames into lipgloss-styled terminal rows. Styles are
// cached per color pair across frames.
type Encoder struct {
	styles map[cellColors]lipgloss.Style
}

func NewEncoder() *Encoder {
	return &Encoder{styles: make(map[cellColors]lipgloss.Style)}
}

// Encode returns one line per pair of pixel rows. Runs of cells sharing a
// color pair are styled once.
func (e *Encoder) Encode(img image.Image) []string {
	b := img.Bounds()
	lines := make([]string, 0, (b.Dy()+1)/2)
	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		var line strings.Builder
		var run cellColors
		runLen := 0
		flush := func() {
			if runLen == 0 {
				return
			}
			line.WriteString(e.style(run).Render(strings.Repeat(halfBlock, runLen)))
			runLen = 0
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			top := hex(img.At(x, y))
			bottom := top
			if y+1 < b.Max.Y {
				bottom = hex(img.At(x, y+1))
			}
			cc := cellColors{top: top, bottom: bottom}
			if runLen > 0 && cc != run {
				flush()
			}
			run = cc
			runLen++
		}
		flush()
		lines = append(lines, line.String())
	}
	return lines
}

func (e *Encoder) style(cc cellColors) lipgloss.Style {
	if s, ok := e.styles[cc]; ok {
		return s
	}
	if len(e.styles) >= maxCachedStyles {
		clear(e.styles)
	}
	s := lipgloss.NewStyle().
		Foreground(lipgloss.Color(cc.top)).
		Background(lipgloss.Color(cc.bottom))
	e.styles[cc] = s
	return s
}

func hex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}
