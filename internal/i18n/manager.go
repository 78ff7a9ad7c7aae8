package i18n

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
)

// LanguageKey is the store key holding the chosen language code.
const LanguageKey = "language"

// FallbackLanguage is used when neither the saved nor the configured
// language has a table.
const FallbackLanguage = "en"

const nbsp = "\u00a0"

// Persister stores the language choice between runs.
type Persister interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Renderer turns markdown into styled terminal text.
type Renderer interface {
	Render(markdown string) (string, error)
}

// NewMarkdownRenderer returns a glamour renderer for html-role elements.
func NewMarkdownRenderer(style string, width int) (*glamour.TermRenderer, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("create markdown renderer: %w", err)
	}
	return r, nil
}

// AnimatedChar is one character of a breathing heading.
type AnimatedChar struct {
	Char     string
	Duration time.Duration
	// Delay is in (-Duration, 0] so characters start mid-cycle.
	Delay time.Duration
}

// Intensity is the breathing level in [0, 1] at t since the heading was
// rendered.
func (c AnimatedChar) Intensity(t time.Duration) float64 {
	if c.Duration <= 0 {
		return 1
	}
	phase := math.Mod(float64(t-c.Delay), float64(c.Duration)) / float64(c.Duration)
	if phase < 0 {
		phase++
	}
	return 0.5 - 0.5*math.Cos(2*math.Pi*phase)
}

// Content is the rendered state of one element.
type Content struct {
	Element
	Text  string
	Chars []AnimatedChar
}

// Option is one entry of the language selector.
type Option struct {
	Code    string
	Label   string
	Checked bool
}

type ManagerOption func(*Manager)

// WithRand sets the source used for heading timings.
func WithRand(r *rand.Rand) ManagerOption {
	return func(m *Manager) { m.rng = r }
}

// Manager applies the current language to every registered element. It is
// not safe for concurrent use; the TUI calls it from its update loop.
type Manager struct {
	catalog     Catalog
	registry    *Registry
	persister   Persister
	renderer    Renderer
	defaultLang string
	logger      *slog.Logger
	rng         *rand.Rand

	lang     string
	content  map[string]Content
	revision int
}

// NewManager restores the saved language, falling back to defaultLang, and
// renders every element once.
func NewManager(cat Catalog, reg *Registry, p Persister, r Renderer, defaultLang string, logger *slog.Logger, opts ...ManagerOption) (*Manager, error) {
	m := &Manager{
		catalog:     cat,
		registry:    reg,
		persister:   p,
		renderer:    r,
		defaultLang: defaultLang,
		logger:      logger.With("component", "i18n"),
		content:     make(map[string]Content),
	}
	for _, o := range opts {
		o(m)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed))
	}

	lang := m.startLanguage()
	if err := m.SetLanguage(lang); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) startLanguage() string {
	saved, ok, err := m.persister.Get(LanguageKey)
	if err != nil {
		m.logger.Warn("read saved language", "error", err)
	}
	if ok && m.catalog.Has(saved) {
		return saved
	}
	if ok {
		m.logger.Warn("saved language has no table", "language", saved)
	}
	if m.catalog.Has(m.defaultLang) {
		return m.defaultLang
	}
	return FallbackLanguage
}

func (m *Manager) Language() string { return m.lang }

// Revision increments every time content is re-rendered.
func (m *Manager) Revision() int { return m.revision }

// SetLanguage switches to code, saves it and re-renders every element.
func (m *Manager) SetLanguage(code string) error {
	if !m.catalog.Has(code) {
		return fmt.Errorf("set language %q: %w", code, ErrUnknownLanguage)
	}
	if err := m.persister.Set(LanguageKey, code); err != nil {
		return fmt.Errorf("save language: %w", err)
	}
	m.lang = code
	m.logger.Debug("language set", "language", code)
	m.UpdatePageContent()
	return nil
}

// NextLanguage cycles to the following language in sorted order.
func (m *Manager) NextLanguage() error {
	langs := m.catalog.Languages()
	for i, l := range langs {
		if l == m.lang {
			return m.SetLanguage(langs[(i+1)%len(langs)])
		}
	}
	return m.SetLanguage(langs[0])
}

// ReplaceCatalog swaps in a reloaded catalog and re-renders. If the current
// language disappeared the configured default takes over.
func (m *Manager) ReplaceCatalog(cat Catalog) error {
	m.catalog = cat
	if !cat.Has(m.lang) {
		m.logger.Warn("language removed on reload", "language", m.lang)
		next := m.defaultLang
		if !cat.Has(next) {
			next = FallbackLanguage
		}
		return m.SetLanguage(next)
	}
	m.UpdatePageContent()
	return nil
}

// UpdatePageContent re-renders every registered element for the current
// language.
func (m *Manager) UpdatePageContent() {
	for _, e := range m.registry.Elements() {
		text := m.catalog.Lookup(m.lang, e.Key)
		c := Content{Element: e, Text: text}
		switch e.Role {
		case RoleHTML:
			c.Text = m.renderMarkdown(e, text)
		case RoleHeading:
			c.Chars = m.animate(text)
		}
		m.content[e.ID] = c
	}
	m.revision++
}

func (m *Manager) renderMarkdown(e Element, text string) string {
	if m.renderer == nil {
		return text
	}
	out, err := m.renderer.Render(text)
	if err != nil {
		m.logger.Warn("render markdown", "element", e.ID, "error", err)
		return text
	}
	return strings.Trim(out, "\n")
}

func (m *Manager) animate(text string) []AnimatedChar {
	chars := make([]AnimatedChar, 0, len(text))
	for _, r := range text {
		ch := string(r)
		if r == ' ' {
			ch = nbsp
		}
		d := 2*time.Second + time.Duration(m.rng.Float64()*float64(2*time.Second))
		chars = append(chars, AnimatedChar{
			Char:     ch,
			Duration: d,
			Delay:    -time.Duration(m.rng.Float64() * float64(d)),
		})
	}
	return chars
}

// Content returns the rendered state of element id.
func (m *Manager) Content(id string) (Content, bool) {
	c, ok := m.content[id]
	return c, ok
}

// T returns the rendered text of a registered element, or a direct lookup
// for any other key.
func (m *Manager) T(key string) string {
	if c, ok := m.content[key]; ok {
		return c.Text
	}
	return m.catalog.Lookup(m.lang, key)
}

// Selector lists every language with the current one checked.
func (m *Manager) Selector() []Option {
	langs := m.catalog.Languages()
	out := make([]Option, 0, len(langs))
	for _, l := range langs {
		out = append(out, Option{
			Code:    l,
			Label:   m.catalog.Lookup(l, "lang.name"),
			Checked: l == m.lang,
		})
	}
	return out
}
