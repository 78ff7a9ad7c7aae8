package i18n

import (
	"errors"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/lasmate/folio/internal/logging"
	"github.com/lasmate/folio/internal/store"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type memPersister map[string]string

func (p memPersister) Get(key string) (string, bool, error) {
	v, ok := p[key]
	return v, ok, nil
}

func (p memPersister) Set(key, value string) error {
	p[key] = value
	return nil
}

// flakyPersister stores like memPersister until failSet is set.
type flakyPersister struct {
	memPersister
	failSet error
}

func (p *flakyPersister) Set(key, value string) error {
	if p.failSet != nil {
		return p.failSet
	}
	return p.memPersister.Set(key, value)
}

type upperRenderer struct{ err error }

func (r upperRenderer) Render(in string) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	return "\n" + strings.ToUpper(in) + "\n", nil
}

func mustCatalog(t *testing.T) Catalog {
	t.Helper()
	c, err := LoadEmbedded()
	require.NoError(t, err)
	return c
}

func newManager(t *testing.T, p Persister, r Renderer) *Manager {
	t.Helper()
	reg, err := NewRegistry(DefaultElements()...)
	require.NoError(t, err)
	m, err := NewManager(mustCatalog(t), reg, p, r, "en", logging.Discard(), WithRand(rand.New(rand.NewPCG(1, 2))))
	require.NoError(t, err)
	return m
}

func headingText(c Content) string {
	var b strings.Builder
	for _, ch := range c.Chars {
		b.WriteString(ch.Char)
	}
	return b.String()
}

func TestLookup(t *testing.T) {
	c := mustCatalog(t)

	assert.Equal(t, "About", c.Lookup("en", "about.heading"))
	assert.Equal(t, "À Propos", c.Lookup("fr", "about.heading"))
	assert.Equal(t, "about.missing", c.Lookup("en", "about.missing"))
	assert.Equal(t, "nope.deeper.still", c.Lookup("en", "nope.deeper.still"))
	assert.Equal(t, "about.heading", c.Lookup("xx", "about.heading"))
	// a table is not a string
	assert.Equal(t, "about", c.Lookup("en", "about"))
	// walking past a string
	assert.Equal(t, "about.heading.x", c.Lookup("en", "about.heading.x"))

	c["en"]["blank"] = ""
	assert.Equal(t, "blank", c.Lookup("en", "blank"))
}

func TestEmbeddedTablesShareKeys(t *testing.T) {
	c := mustCatalog(t)
	assert.Equal(t, []string{"en", "fr"}, c.Languages())
	for _, e := range DefaultElements() {
		for _, l := range c.Languages() {
			assert.NotEqual(t, e.Key, c.Lookup(l, e.Key), "%s missing in %s", e.Key, l)
		}
	}
}

func TestLoad_MergesOverrideDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.yaml"), []byte("about:\n  heading: Howdy\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "de.yaml"), []byte("lang:\n  name: Deutsch\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	c, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "Howdy", c.Lookup("en", "about.heading"))
	assert.Equal(t, "Hiya, The name's Lya", c.Lookup("en", "about.subheading"))
	assert.Equal(t, []string{"de", "en", "fr"}, c.Languages())
}

func TestLoad_MissingOrEmptyDir(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Equal(t, []string{"en", "fr"}, c.Languages())

	c, err = Load("")
	require.NoError(t, err)
	assert.True(t, c.Has("fr"))
}

func TestLoad_BadYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "en.yaml"), []byte("about: [unclosed"), 0o644))
	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "en.yaml")
}

func TestRegistry(t *testing.T) {
	_, err := NewRegistry(Element{ID: "a", Key: "k"}, Element{ID: "a", Key: "k2"})
	require.Error(t, err)
	_, err = NewRegistry(Element{ID: "a"})
	require.Error(t, err)

	r, err := NewRegistry(DefaultElements()...)
	require.NoError(t, err)
	e, ok := r.Element("about.heading")
	require.True(t, ok)
	assert.Equal(t, RoleHeading, e.Role)
	assert.Equal(t, "heading", e.Role.String())
	_, ok = r.Element("missing")
	assert.False(t, ok)
}

func TestManager_SwitchPersistsAcrossReload(t *testing.T) {
	s, err := store.Open("sqlite", store.Memory)
	require.NoError(t, err)
	defer s.Close()

	m := newManager(t, s, nil)
	assert.Equal(t, "en", m.Language())
	c, _ := m.Content("about.heading")
	assert.Equal(t, "About", c.Text)
	assert.Equal(t, "About", headingText(c))

	require.NoError(t, m.SetLanguage("fr"))
	c, _ = m.Content("about.heading")
	assert.Equal(t, "À Propos", c.Text)
	assert.Equal(t, "À\u00a0Propos", headingText(c))
	assert.Equal(t, "Mon Travail", m.T("nav.work"))

	v, ok, err := s.Get(LanguageKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "fr", v)

	reloaded := newManager(t, s, nil)
	assert.Equal(t, "fr", reloaded.Language())
	c, _ = reloaded.Content("about.heading")
	assert.Equal(t, "À Propos", c.Text)
}

func TestManager_UnknownLanguage(t *testing.T) {
	p := memPersister{}
	m := newManager(t, p, nil)
	rev := m.Revision()

	err := m.SetLanguage("de")
	require.ErrorIs(t, err, ErrUnknownLanguage)
	assert.Equal(t, "en", m.Language())
	assert.Equal(t, "en", p[LanguageKey])
	assert.Equal(t, rev, m.Revision())
}

func TestManager_SaveFailureKeepsLanguage(t *testing.T) {
	p := &flakyPersister{memPersister: memPersister{}}
	m := newManager(t, p, nil)
	rev := m.Revision()

	p.failSet = errors.New("disk full")
	err := m.SetLanguage("fr")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")

	assert.Equal(t, "en", m.Language())
	assert.Equal(t, "en", p.memPersister[LanguageKey])
	assert.Equal(t, rev, m.Revision())
	c, _ := m.Content("about.heading")
	assert.Equal(t, "About", c.Text)
	for _, o := range m.Selector() {
		assert.Equal(t, o.Code == "en", o.Checked, o.Code)
	}

	p.failSet = nil
	require.NoError(t, m.SetLanguage("fr"))
	assert.Equal(t, "fr", m.Language())
}

func TestManager_SavedLanguageWithoutTable(t *testing.T) {
	m := newManager(t, memPersister{LanguageKey: "de"}, nil)
	assert.Equal(t, "en", m.Language())
}

func TestManager_Roles(t *testing.T) {
	m := newManager(t, memPersister{}, upperRenderer{})

	c, ok := m.Content("about.para3")
	require.True(t, ok)
	assert.Equal(t, RoleHTML, c.Role)
	assert.True(t, strings.HasPrefix(c.Text, "TO SEE"))
	assert.False(t, strings.HasPrefix(c.Text, "\n"))

	c, _ = m.Content("repos.filter")
	assert.Equal(t, RoleInput, c.Role)
	assert.Equal(t, "Filter repositories", c.Text)

	c, _ = m.Content("about.para1")
	assert.Empty(t, c.Chars)

	failing := newManager(t, memPersister{}, upperRenderer{err: errors.New("boom")})
	c, _ = failing.Content("about.para3")
	assert.Contains(t, c.Text, "**My Work**")
}

func TestManager_MarkdownRenderer(t *testing.T) {
	r, err := NewMarkdownRenderer("notty", 80)
	require.NoError(t, err)
	m := newManager(t, memPersister{}, r)
	assert.Contains(t, m.T("about.para3"), "My Work")
}

func TestManager_HeadingTimings(t *testing.T) {
	m := newManager(t, memPersister{}, nil)
	for _, id := range []string{"about.heading", "news.heading", "work.heading", "contact.heading"} {
		c, ok := m.Content(id)
		require.True(t, ok)
		require.NotEmpty(t, c.Chars)
		for _, ch := range c.Chars {
			assert.GreaterOrEqual(t, ch.Duration, 2*time.Second)
			assert.Less(t, ch.Duration, 4*time.Second)
			assert.LessOrEqual(t, ch.Delay, time.Duration(0))
			assert.Greater(t, ch.Delay, -ch.Duration)
		}
	}

	before, _ := m.Content("about.heading")
	m.UpdatePageContent()
	after, _ := m.Content("about.heading")
	assert.NotEqual(t, before.Chars, after.Chars)
}

func TestAnimatedChar_Intensity(t *testing.T) {
	ch := AnimatedChar{Char: "A", Duration: 2 * time.Second, Delay: -500 * time.Millisecond}
	assert.InDelta(t, 0.0, ch.Intensity(-500*time.Millisecond), 1e-9)
	assert.InDelta(t, 1.0, ch.Intensity(500*time.Millisecond), 1e-9)
	assert.InDelta(t, 0.5, ch.Intensity(0), 1e-9)
	for d := time.Duration(0); d < 10*time.Second; d += 130 * time.Millisecond {
		v := ch.Intensity(d)
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 1.0)
	}
	assert.Equal(t, 1.0, AnimatedChar{}.Intensity(time.Second))
}

func TestManager_SelectorAndCycle(t *testing.T) {
	m := newManager(t, memPersister{}, nil)
	assert.Equal(t, []Option{
		{Code: "en", Label: "English", Checked: true},
		{Code: "fr", Label: "Français", Checked: false},
	}, m.Selector())

	require.NoError(t, m.NextLanguage())
	assert.Equal(t, "fr", m.Language())
	assert.True(t, m.Selector()[1].Checked)
	require.NoError(t, m.NextLanguage())
	assert.Equal(t, "en", m.Language())
}

func TestManager_ReplaceCatalog(t *testing.T) {
	m := newManager(t, memPersister{}, nil)
	require.NoError(t, m.SetLanguage("fr"))

	cat := mustCatalog(t)
	cat["fr"]["about"].(map[string]any)["heading"] = "Qui suis-je"
	require.NoError(t, m.ReplaceCatalog(cat))
	assert.Equal(t, "Qui suis-je", m.T("about.heading"))

	onlyEn := mustCatalog(t)
	delete(onlyEn, "fr")
	require.NoError(t, m.ReplaceCatalog(onlyEn))
	assert.Equal(t, "en", m.Language())
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "en.yaml")
	require.NoError(t, os.WriteFile(path, []byte("about:\n  heading: One\n"), 0o644))

	got := make(chan Catalog, 4)
	w, err := NewWatcher(dir, 20*time.Millisecond, func(c Catalog, err error) {
		if err == nil {
			got <- c
		}
	}, logging.Discard())
	require.NoError(t, err)
	require.NoError(t, w.Start(t.Context()))
	defer w.Stop()

	require.NoError(t, os.WriteFile(path, []byte("about:\n  heading: Two\n"), 0o644))

	select {
	case c := <-got:
		assert.Equal(t, "Two", c.Lookup("en", "about.heading"))
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after write")
	}
}

func TestWatcher_MissingDir(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "absent"), 0, func(Catalog, error) {}, logging.Discard())
	require.NoError(t, err)
	require.Error(t, w.Start(t.Context()))
	w.Stop()
}
