package repos

import (
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
)

// DescriptionLines caps how many lines a card description may take.
const DescriptionLines = 3

// Labels are the localized placeholders used when formatting cards.
type Labels struct {
	NoDescription string
}

var DefaultLabels = Labels{NoDescription: "No description available"}

// Format lays a card out as lines no wider than width cells: the name, up to
// DescriptionLines of wrapped description, then the primary language and
// star count on one line.
func Format(c Card, width int, l Labels) []string {
	if width < 8 {
		width = 8
	}
	lines := []string{runewidth.Truncate(c.Name, width, "…")}

	desc := c.Description
	if strings.TrimSpace(desc) == "" {
		desc = l.NoDescription
	}
	lines = append(lines, wrap(desc, width, DescriptionLines)...)

	stars := "★ " + strconv.Itoa(c.Stars)
	primary := runewidth.Truncate(c.Primary, width-runewidth.StringWidth(stars)-1, "…")
	gap := width - runewidth.StringWidth(primary) - runewidth.StringWidth(stars)
	lines = append(lines, primary+strings.Repeat(" ", max(gap, 1))+stars)
	return lines
}

// wrap breaks s into at most maxLines lines of width cells. Overflow is
// marked with an ellipsis on the last line.
func wrap(s string, width, maxLines int) []string {
	var lines []string
	var cur strings.Builder
	curW := 0

	flush := func() {
		lines = append(lines, cur.String())
		cur.Reset()
		curW = 0
	}

	words := strings.Fields(s)
	for i, w := range words {
		ww := runewidth.StringWidth(w)
		if ww > width {
			w = runewidth.Truncate(w, width, "…")
			ww = runewidth.StringWidth(w)
		}
		need := ww
		if curW > 0 {
			need++
		}
		if curW+need > width {
			flush()
			if len(lines) == maxLines {
				last := lines[maxLines-1]
				lines[maxLines-1] = runewidth.Truncate(last+" "+strings.Join(words[i:], " "), width, "…")
				return lines
			}
			need = ww
		}
		if curW > 0 {
			cur.WriteByte(' ')
		}
		cur.WriteString(w)
		curW += need
	}
	if curW > 0 {
		flush()
	}
	return lines
}
