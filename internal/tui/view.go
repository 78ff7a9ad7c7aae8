package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/sahilm/fuzzy"

	"github.com/lasmate/folio/internal/repos"
	"github.com/lasmate/folio/internal/transition"
)

const maxCardWidth = 48

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	rows := m.sceneRows()
	lines := make([]string, 0, m.height)
	lines = append(lines, m.renderBar(0))

	opacity := m.trans.PanelOpacity(m.lastFrame)
	if st, ok := m.trans.Active(); ok && opacity > 0 {
		lines = append(lines, m.renderPanel(st, opacity, rows)...)
	} else {
		lines = append(lines, m.sceneLines(rows)...)
	}

	if m.height > 1 {
		lines = append(lines, m.renderBar(m.height-1))
	}
	return strings.Join(lines, "\n")
}

func (m Model) sceneLines(rows int) []string {
	out := make([]string, rows)
	blank := barStyle.Render(strings.Repeat(" ", m.width))
	for i := range out {
		if i < len(m.lines) {
			out[i] = m.lines[i]
		} else {
			out[i] = blank
		}
	}
	return out
}

// hitboxes lays out the clickable spans: corner buttons, then either the
// close control or the language selector centered in the top bar.
func (m Model) hitboxes() []hitbox {
	var out []hitbox
	for _, p := range m.opts.Panels {
		label := " " + m.i18n.T(p.Label) + " "
		w := lipgloss.Width(label)
		hb := hitbox{kind: hitPanel, id: p.ID, label: label, w: w}
		if p.Corner.right() {
			hb.x = max(0, m.width-w)
		}
		if p.Corner.bottom() {
			hb.y = m.height - 1
		}
		out = append(out, hb)
	}

	if m.trans.CloseControlVisible() {
		label := " ✕ " + m.i18n.T("ui.close") + " "
		w := lipgloss.Width(label)
		out = append(out, hitbox{kind: hitClose, id: "close", label: label, x: max(0, (m.width-w)/2), w: w})
		return out
	}

	opts := m.i18n.Selector()
	total := 0
	labels := make([]string, len(opts))
	for i, o := range opts {
		labels[i] = " " + strings.ToUpper(o.Code) + " "
		total += lipgloss.Width(labels[i])
	}
	x := max(0, (m.width-total)/2)
	for i, o := range opts {
		w := lipgloss.Width(labels[i])
		out = append(out, hitbox{kind: hitLang, id: o.Code, label: labels[i], x: x, w: w})
		x += w
	}
	return out
}

// renderBar draws row y: its hitboxes left to right with bar-colored gaps.
// The bottom bar centers help or the status line in its free space.
func (m Model) renderBar(y int) string {
	var boxes []hitbox
	for _, hb := range m.hitboxes() {
		if hb.y == y {
			boxes = append(boxes, hb)
		}
	}
	slices.SortFunc(boxes, func(a, b hitbox) int { return a.x - b.x })

	active := ""
	if st, ok := m.trans.Active(); ok {
		active = st.Panel
	}
	checked := m.i18n.Language()

	var b strings.Builder
	cursor := 0
	gap := func(to int) {
		if to > cursor {
			b.WriteString(barStyle.Render(strings.Repeat(" ", to-cursor)))
			cursor = to
		}
	}

	if y == m.height-1 && y != 0 {
		left, right := 0, m.width
		for _, hb := range boxes {
			if hb.x == 0 {
				left = hb.w
			} else {
				right = min(right, hb.x)
			}
		}
		boxes = append(boxes, m.bottomText(left, right))
		slices.SortFunc(boxes, func(a, b hitbox) int { return a.x - b.x })
	}

	for _, hb := range boxes {
		if hb.x < cursor || hb.w == 0 {
			continue
		}
		gap(hb.x)
		var s string
		switch hb.kind {
		case hitPanel:
			spec, _ := m.panel(hb.id)
			s = buttonStyleFor(spec.Background, hb.id == active).Render(hb.label)
		case hitLang:
			if hb.id == checked {
				s = langCheckedStyle.Render(hb.label)
			} else {
				s = langStyle.Render(hb.label)
			}
		case hitClose:
			s = buttonStyle.Render(hb.label)
		default:
			s = hb.label
		}
		b.WriteString(s)
		cursor += hb.w
	}
	gap(m.width)
	return ansi.Truncate(b.String(), m.width, "")
}

// bottomText is the help or status text centered in [left, right).
func (m Model) bottomText(left, right int) hitbox {
	space := right - left - 2
	if space <= 0 {
		return hitbox{kind: -1}
	}

	var text string
	var style lipgloss.Style
	switch {
	case m.status != "":
		text, style = m.status, statusStyle
	default:
		bindings := m.keys.ShortHelp()
		if st, ok := m.trans.Active(); ok && st.Panel == workPanel {
			bindings = m.keys.workHelp(m.snapshot.Status == repos.StatusFailed)
		}
		m.help.Width = space
		text, style = ansi.Strip(m.help.ShortHelpView(bindings)), helpStyle
	}
	text = ansi.Truncate(text, space, "…")
	w := lipgloss.Width(text)
	return hitbox{kind: -1, label: style.Render(text), x: left + (right-left-w)/2, w: w}
}

// renderPanel draws the active panel over the revealed background, fading
// its text in with opacity.
func (m Model) renderPanel(st transition.State, opacity float64, rows int) []string {
	bg := st.Colors.Primary
	fg := textOn(bg)
	base := lipgloss.NewStyle().
		Background(colorOf(bg)).
		Foreground(colorOf(fade(bg, fg, opacity)))

	content := []string{"", "  " + m.renderHeading(st, fg, opacity), ""}
	for _, l := range strings.Split(m.viewport.View(), "\n") {
		content = append(content, "  "+l)
	}

	out := make([]string, rows)
	for i := range out {
		line := ""
		if i < len(content) {
			line = ansi.Truncate(content[i], m.width, "")
		}
		pad := m.width - lipgloss.Width(line)
		out[i] = base.Render(line + strings.Repeat(" ", max(pad, 0)))
	}
	return out
}

// renderHeading draws the panel heading one breathing character at a time.
func (m Model) renderHeading(st transition.State, fg colorful.Color, opacity float64) string {
	bg := st.Colors.Primary
	accent := st.Colors.Background
	c, ok := m.i18n.Content(st.Panel + ".heading")
	if !ok || len(c.Chars) == 0 {
		return lipgloss.NewStyle().Bold(true).
			Foreground(colorOf(fade(bg, fg, opacity))).
			Background(colorOf(bg)).
			Render(m.i18n.T(st.Panel + ".heading"))
	}

	t := m.lastFrame.Sub(m.start)
	var b strings.Builder
	for _, ch := range c.Chars {
		col := fg.BlendLab(accent, 0.6*ch.Intensity(t))
		b.WriteString(lipgloss.NewStyle().Bold(true).
			Foreground(colorOf(fade(bg, col, opacity))).
			Background(colorOf(bg)).
			Render(ch.Char))
	}
	return b.String()
}

// syncPanel rebuilds the viewport content for the active panel.
func (m *Model) syncPanel() {
	st, ok := m.trans.Active()
	if !ok {
		return
	}
	m.viewport.SetContent(m.panelBody(st.Panel))
}

func (m Model) panelBody(id string) string {
	w := max(10, m.viewport.Width)
	para := lipgloss.NewStyle().Width(w)
	t := m.i18n.T

	var parts []string
	switch id {
	case "about":
		parts = append(parts,
			lipgloss.NewStyle().Bold(true).Render(t("about.subheading")),
			para.Render(t("about.para1")),
			para.Render(t("about.para2")),
			para.Render(t("about.para3")),
			para.Render(t("about.para4")),
			para.Render(t("about.para5")),
			para.Render(t("about.para6")),
		)
		var hobbies []string
		for i := 1; i <= 5; i++ {
			hobbies = append(hobbies, "• "+t(fmt.Sprintf("about.hobby%d", i)))
		}
		parts = append(parts, strings.Join(hobbies, "\n"))

	case "news":
		parts = append(parts,
			lipgloss.NewStyle().Bold(true).Render(t("news.subheading")),
			para.Render(t("news.description")),
		)

	case contactPanel:
		c := m.opts.Contact
		bold := lipgloss.NewStyle().Bold(true)
		parts = append(parts,
			bold.Render(t("contact.email"))+"\n"+
				detail(t("contact.academic"), c.AcademicEmail)+"\n"+
				detail(t("contact.personal"), c.PersonalEmail),
			bold.Render(t("contact.social"))+"\n"+
				detail("GitHub:", "github.com/"+m.opts.User),
			bold.Render(t("contact.location"))+"\n"+
				detail(t("contact.city"), c.City)+"\n"+
				detail(t("contact.suburb"), c.Suburb),
		)

	case workPanel:
		parts = append(parts, lipgloss.NewStyle().Bold(true).Render(t("work.projects")))
		parts = append(parts, m.workBody(min(w, maxCardWidth))...)

	default:
		parts = append(parts, para.Render(t(id+".description")))
	}
	return strings.Join(parts, "\n\n")
}

// detail is one indented "label value" line; empty values show as "-".
func detail(label, value string) string {
	if strings.TrimSpace(value) == "" {
		value = "-"
	}
	return "  " + label + " " + value
}

func (m Model) workBody(width int) []string {
	var parts []string
	if m.filtering || m.filter.Value() != "" {
		parts = append(parts, m.filter.View())
	}

	switch m.snapshot.Status {
	case repos.StatusFailed:
		msg := m.snapshot.Error
		parts = append(parts, errorStyle.Render(msg+"\n"+"r: "+m.i18n.T("repos.retry")))
		return parts
	case repos.StatusLoading:
		if len(m.snapshot.Cards) == 0 {
			return append(parts, m.spinner.View()+" "+m.i18n.T("repos.loading"))
		}
	}

	cards := m.filteredCards()
	if len(cards) == 0 {
		return append(parts, m.i18n.T("repos.empty"))
	}
	labels := repos.Labels{NoDescription: m.i18n.T("repos.no_description")}
	for i, c := range cards {
		marker := "  "
		if i == m.selected {
			marker = "› "
		}
		lines := repos.Format(c, width-2, labels)
		for j := range lines {
			if j == 0 {
				lines[j] = marker + lipgloss.NewStyle().Bold(true).Render(lines[j])
			} else {
				lines[j] = "  " + lines[j]
			}
		}
		parts = append(parts, strings.Join(lines, "\n"))
	}
	if m.snapshot.Status == repos.StatusLoading {
		parts = append(parts, m.spinner.View())
	}
	return parts
}

// cardSource adapts cards for fuzzy matching on name and description.
type cardSource []repos.Card

func (s cardSource) String(i int) string { return s[i].Name + " " + s[i].Description }
func (s cardSource) Len() int            { return len(s) }

// filteredCards applies the fuzzy filter, best matches first.
func (m Model) filteredCards() []repos.Card {
	cards := m.snapshot.Cards
	q := strings.TrimSpace(m.filter.Value())
	if q == "" {
		return cards
	}
	matches := fuzzy.FindFrom(q, cardSource(cards))
	out := make([]repos.Card, 0, len(matches))
	for _, mt := range matches {
		out = append(out, cards[mt.Index])
	}
	return out
}
