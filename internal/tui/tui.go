package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lasmate/folio/internal/animation"
	"github.com/lasmate/folio/internal/i18n"
	"github.com/lasmate/folio/internal/repos"
	"github.com/lasmate/folio/internal/scene"
	"github.com/lasmate/folio/internal/transition"
)

const (
	supersample  = 2
	wheelDelta   = 100
	statusLinger = 2 * time.Second
	workPanel    = "work"
	contactPanel = "contact"
)

type Options struct {
	Animation       animation.Config
	Outline         bool
	Vignette        bool
	FPS             int
	RefreshInterval time.Duration
	Panels          []PanelSpec
	// User is the GitHub account shown on the contact panel.
	User    string
	Contact Contact

	// Now and Clipboard default to time.Now and the system clipboard.
	Now       func() time.Time
	Clipboard func(string) error
}

// Contact holds the details listed on the contact panel.
type Contact struct {
	AcademicEmail string
	PersonalEmail string
	City          string
	Suburb        string
}

type Model struct {
	opts     Options
	provider SnapshotProvider
	snapshot repos.Snapshot
	i18n     *i18n.Manager
	logger   *slog.Logger

	scene   *scene.Scene
	raster  *scene.Raster
	encoder *scene.Encoder
	anim    *animation.Controller
	input   animation.Input
	trans   *transition.Controller

	width, height int
	lines         []string
	lastFrame     time.Time
	start         time.Time

	panelKeys map[string]string
	keys      keyMap
	help      help.Model
	viewport  viewport.Model
	spinner   spinner.Model
	filter    textinput.Model
	filtering bool
	selected  int
	status    string
}

func NewModel(provider SnapshotProvider, tr *i18n.Manager, opts Options, logger *slog.Logger) Model {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Clipboard == nil {
		opts.Clipboard = clipboard.WriteAll
	}
	if opts.FPS <= 0 {
		opts.FPS = 30
	}
	if opts.RefreshInterval <= 0 {
		opts.RefreshInterval = 500 * time.Millisecond
	}
	logger = logger.With("component", "tui")

	sc := scene.Build(scene.DefaultPalette(), scene.Options{Outline: opts.Outline, Vignette: opts.Vignette})
	raster := scene.NewRaster(1, 1, supersample)

	panelKeys := make(map[string]string, len(opts.Panels))
	var openKeys []string
	for _, p := range opts.Panels {
		if p.ID == "" {
			continue
		}
		k := strings.ToLower(p.ID[:1])
		if _, taken := panelKeys[k]; taken {
			continue
		}
		panelKeys[k] = p.ID
		openKeys = append(openKeys, k)
	}

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	ti := textinput.New()
	ti.Prompt = "/ "
	ti.CharLimit = 64

	m := Model{
		opts:      opts,
		provider:  provider,
		snapshot:  provider.GetSnapshot(),
		i18n:      tr,
		logger:    logger,
		scene:     sc,
		raster:    raster,
		encoder:   scene.NewEncoder(),
		anim:      animation.NewController(opts.Animation, sc, raster, logger),
		trans:     transition.New(transition.DefaultTimings(), logger),
		start:     opts.Now(),
		panelKeys: panelKeys,
		keys:      newKeyMap(strings.Join(openKeys, "/")),
		help:      help.New(),
		viewport:  viewport.New(0, 0),
		spinner:   sp,
		filter:    ti,
		selected:  0,
	}
	m.input = m.anim
	m.localize()
	return m
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		frameCmd(m.opts.FPS),
		tickCmd(m.opts.RefreshInterval),
		m.spinner.Tick,
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case frameMsg:
		m.frame(time.Time(msg))
		return m, frameCmd(m.opts.FPS)

	case tickMsg:
		m.snapshot = m.provider.GetSnapshot()
		m.syncPanel()
		return m, tickCmd(m.opts.RefreshInterval)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case clearStatusMsg:
		m.status = ""
		return m, nil

	case LocalesReloadedMsg:
		if msg.Err != nil {
			m.logger.Warn("locale reload failed", "err", msg.Err)
			return m, nil
		}
		if err := m.i18n.ReplaceCatalog(msg.Catalog); err != nil {
			m.logger.Error("apply reloaded locales", "err", err)
		}
		m.localize()
		m.syncPanel()
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h
	rows := m.sceneRows()
	m.raster.Resize(w, rows*2)
	m.trans.SetViewport(transition.Viewport{W: float64(w), H: float64(rows * 2)})
	m.help.Width = w
	m.viewport.Width = max(1, w-4)
	m.viewport.Height = max(1, rows-4)
	m.filter.Width = max(8, min(40, w-12))
	m.syncPanel()
}

// sceneRows is the height of the area between the top and bottom bars.
func (m Model) sceneRows() int {
	return max(1, m.height-2)
}

// frame advances the reveal and the scene to now and re-encodes the image.
func (m *Model) frame(now time.Time) {
	m.lastFrame = now
	m.trans.Tick(now)
	m.scene.SetOverlays(m.trans.Overlays(now))
	if err := m.anim.Frame(now); err != nil {
		m.logger.Error("render frame", "err", err)
		return
	}
	if m.width > 0 {
		m.lines = m.encoder.Encode(m.raster.Image())
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.filtering {
		switch msg.Type {
		case tea.KeyEsc:
			m.filtering = false
			m.filter.Blur()
			m.filter.SetValue("")
			m.selected = 0
			m.syncPanel()
			return m, nil
		case tea.KeyEnter:
			m.filtering = false
			m.filter.Blur()
			m.syncPanel()
			return m, nil
		}
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.selected = 0
		m.syncPanel()
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Close):
		m.closePanel()
		return m, nil
	case key.Matches(msg, m.keys.Lang):
		if err := m.i18n.NextLanguage(); err != nil {
			m.logger.Error("switch language", "err", err)
		}
		m.localize()
		m.syncPanel()
		return m, nil
	}

	if st, ok := m.trans.Active(); ok {
		if st.Panel == workPanel {
			return m.handleWorkKey(msg)
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if id, ok := m.panelKeys[msg.String()]; ok {
		m.openPanel(id)
	}
	return m, nil
}

func (m Model) handleWorkKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cards := m.filteredCards()
	switch {
	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}
	case key.Matches(msg, m.keys.Down):
		if m.selected < len(cards)-1 {
			m.selected++
		}
	case key.Matches(msg, m.keys.Filter):
		m.filtering = true
		cmd := m.filter.Focus()
		m.syncPanel()
		return m, cmd
	case key.Matches(msg, m.keys.Copy):
		if m.selected < len(cards) {
			url := cards[m.selected].URL
			if err := m.opts.Clipboard(url); err != nil {
				m.logger.Warn("copy url", "err", err)
				m.status = err.Error()
			} else {
				m.status = fmt.Sprintf("%s: %s", m.i18n.T("repos.copied"), url)
			}
			return m, clearStatusCmd()
		}
	case key.Matches(msg, m.keys.Retry):
		if m.snapshot.Status == repos.StatusFailed {
			m.provider.Retry()
			m.snapshot.Status = repos.StatusLoading
			m.snapshot.Error = ""
		}
	default:
		return m, nil
	}
	m.syncPanel()
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Action == tea.MouseActionMotion:
		m.pointerMoved(msg.X, msg.Y)

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonWheelUp:
		m.input.Wheel(-wheelDelta)

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonWheelDown:
		m.input.Wheel(wheelDelta)

	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		m.pointerMoved(msg.X, msg.Y)
		m.input.Click(m.opts.Now())
		hb, ok := m.hit(msg.X, msg.Y)
		if !ok {
			return m, nil
		}
		switch hb.kind {
		case hitPanel:
			m.openPanel(hb.id)
		case hitClose:
			m.closePanel()
		case hitLang:
			if err := m.i18n.SetLanguage(hb.id); err != nil {
				m.logger.Error("switch language", "err", err)
			}
			m.localize()
			m.syncPanel()
		}
	}
	return m, nil
}

// pointerMoved updates the look-at target and the hover flag. Hover is on
// over a corner button or either star.
func (m *Model) pointerMoved(x, y int) {
	rows := m.sceneRows()
	row := y - 1
	px, py := animation.Normalize(x, row, m.width, rows)
	m.input.SetPointer(px, py)

	hover := false
	if hb, ok := m.hit(x, y); ok && hb.kind == hitPanel {
		hover = true
	} else if row >= 0 && row < rows && m.width > 0 {
		name := scene.Pick(m.scene, float64(x)+0.5, float64(row*2)+1, m.width, rows*2)
		hover = name == scene.MeshStar || name == scene.MeshStarInner
	}
	m.input.SetHover(hover)
}

func (m Model) hit(x, y int) (hitbox, bool) {
	for _, hb := range m.hitboxes() {
		if hb.contains(x, y) {
			return hb, true
		}
	}
	return hitbox{}, false
}

func (m *Model) openPanel(id string) {
	spec, ok := m.panel(id)
	if !ok {
		return
	}
	origin := m.buttonOrigin(spec)
	st, err := m.trans.Open(m.opts.Now(), origin, id, spec.Background)
	if err != nil {
		m.logger.Debug("open panel", "panel", id, "err", err)
		return
	}
	m.logger.Info("panel opened", "panel", id, "transition", st.ID)
	m.selected = 0
	m.filter.SetValue("")
	m.viewport.GotoTop()
	m.syncPanel()
}

func (m *Model) closePanel() {
	if err := m.trans.Close(m.opts.Now()); err != nil {
		m.logger.Debug("close panel", "err", err)
		return
	}
	m.filtering = false
	m.filter.Blur()
}

func (m Model) panel(id string) (PanelSpec, bool) {
	for _, p := range m.opts.Panels {
		if p.ID == id {
			return p, true
		}
	}
	return PanelSpec{}, false
}

// buttonOrigin is the reveal origin for a corner button in raster pixels:
// the button's center column on the scene edge next to its bar.
func (m Model) buttonOrigin(p PanelSpec) r2.Vec {
	for _, hb := range m.hitboxes() {
		if hb.kind == hitPanel && hb.id == p.ID {
			y := 0.0
			if p.Corner.bottom() {
				y = float64(m.sceneRows() * 2)
			}
			return r2.Vec{X: float64(hb.x) + float64(hb.w)/2, Y: y}
		}
	}
	return r2.Vec{}
}

// localize refreshes everything that caches translated text.
func (m *Model) localize() {
	m.keys.localize(m.i18n.T)
	m.filter.Placeholder = m.i18n.T("repos.filter")
}

func frameCmd(fps int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(fps), func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func tickCmd(interval time.Duration) tea.Cmd {
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func clearStatusCmd() tea.Cmd {
	return tea.Tick(statusLinger, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}
