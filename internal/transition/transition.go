// Package transition implements the circular page reveal used to open and
// close content panels.
//
// Each panel moves through closed → opening → open → closing → closed. At
// most one panel is outside closed at any time: an Open while another
// transition is active is rejected with ErrBusy, and a Close that arrives
// while the panel is still opening is held until it is fully open.
package transition

import (
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lasmate/folio/internal/easing"
	"github.com/lasmate/folio/internal/scene"
)

var (
	ErrBusy    = errors.New("transition: another panel is transitioning or open")
	ErrNotOpen = errors.New("transition: no open panel to close")
)

type Phase int

const (
	Closed Phase = iota
	Opening
	Open
	Closing
)

func (p Phase) String() string {
	switch p {
	case Opening:
		return "opening"
	case Open:
		return "open"
	case Closing:
		return "closing"
	default:
		return "closed"
	}
}

type Viewport struct {
	W, H float64
}

// CoveringRadius is the distance from (x, y) to the farthest viewport corner,
// so a circle of that radius at the origin covers the whole viewport.
func CoveringRadius(x, y float64, vp Viewport) float64 {
	dx := math.Max(x, vp.W-x)
	dy := math.Max(y, vp.H-y)
	return math.Hypot(dx, dy)
}

// Timings of the open timeline. Closing plays the same timeline backwards.
type Timings struct {
	Cover           time.Duration
	ForegroundDelay time.Duration
	PanelDelay      time.Duration
	PanelFade       time.Duration
}

func DefaultTimings() Timings {
	return Timings{
		Cover:           500 * time.Millisecond,
		ForegroundDelay: 100 * time.Millisecond,
		PanelDelay:      600 * time.Millisecond,
		PanelFade:       300 * time.Millisecond,
	}
}

// Total is the length of the open (and close) timeline.
func (t Timings) Total() time.Duration {
	return max(t.ForegroundDelay+t.Cover, t.PanelDelay+t.PanelFade)
}

// State describes one transition from trigger until its closing animation
// completes.
type State struct {
	ID     string
	Panel  string
	Origin r2.Vec
	Radius float64
	Colors Colors
	Phase  Phase

	openedAt     time.Time
	closingAt    time.Time
	pendingClose bool
}

type Controller struct {
	timings  Timings
	viewport Viewport
	logger   *slog.Logger

	phases map[string]Phase
	active *State
}

func New(t Timings, logger *slog.Logger) *Controller {
	return &Controller{
		timings: t,
		logger:  logger.With("component", "transition"),
		phases:  make(map[string]Phase),
	}
}

func (c *Controller) SetViewport(vp Viewport) { c.viewport = vp }

func (c *Controller) Viewport() Viewport { return c.viewport }

// Open starts revealing panel from origin. background is the trigger's
// effective background color.
func (c *Controller) Open(now time.Time, origin r2.Vec, panel, background string) (State, error) {
	if c.active != nil {
		c.logger.Debug("open rejected", "panel", panel, "active", c.active.Panel, "phase", c.active.Phase)
		return State{}, ErrBusy
	}
	st := &State{
		ID:       uuid.NewString(),
		Panel:    panel,
		Origin:   origin,
		Radius:   CoveringRadius(origin.X, origin.Y, c.viewport),
		Colors:   DeriveColors(background),
		Phase:    Opening,
		openedAt: now,
	}
	c.active = st
	c.phases[panel] = Opening
	c.logger.Debug("panel opening", "panel", panel, "id", st.ID, "radius", st.Radius)
	return *st, nil
}

// Close reverses the active transition. A close during opening is deferred
// until the panel is open.
func (c *Controller) Close(now time.Time) error {
	if c.active == nil || c.active.Phase == Closing {
		return ErrNotOpen
	}
	if c.active.Phase == Opening {
		c.active.pendingClose = true
		c.logger.Debug("close queued", "panel", c.active.Panel)
		return nil
	}
	c.beginClose(now)
	return nil
}

func (c *Controller) beginClose(now time.Time) {
	c.active.Phase = Closing
	c.active.closingAt = now
	c.active.pendingClose = false
	c.phases[c.active.Panel] = Closing
	c.logger.Debug("panel closing", "panel", c.active.Panel, "id", c.active.ID)
}

// Tick advances phase changes that depend on time.
func (c *Controller) Tick(now time.Time) {
	st := c.active
	if st == nil {
		return
	}
	total := c.timings.Total()
	switch st.Phase {
	case Opening:
		if now.Sub(st.openedAt) >= total {
			st.Phase = Open
			c.phases[st.Panel] = Open
			c.logger.Debug("panel open", "panel", st.Panel)
			if st.pendingClose {
				c.beginClose(now)
			}
		}
	case Closing:
		if now.Sub(st.closingAt) >= total {
			c.phases[st.Panel] = Closed
			c.active = nil
			c.logger.Debug("panel closed", "panel", st.Panel, "id", st.ID)
		}
	}
}

// position maps now onto the open timeline.
func (c *Controller) position(now time.Time) time.Duration {
	st := c.active
	total := c.timings.Total()
	var pos time.Duration
	switch st.Phase {
	case Opening, Open:
		pos = now.Sub(st.openedAt)
	case Closing:
		pos = total - now.Sub(st.closingAt)
	}
	return min(max(pos, 0), total)
}

// Overlays returns the background and foreground reveal circles at now,
// background first. Circles that have not grown yet are omitted.
func (c *Controller) Overlays(now time.Time) []scene.Overlay {
	if c.active == nil {
		return nil
	}
	st := c.active
	pos := c.position(now)
	_, bg := easing.Progress(pos, c.timings.Cover)
	_, fg := easing.Progress(pos-c.timings.ForegroundDelay, c.timings.Cover)

	var out []scene.Overlay
	if bg > 0 {
		out = append(out, scene.Overlay{Center: st.Origin, Radius: st.Radius * bg, Color: st.Colors.Background})
	}
	if fg > 0 {
		out = append(out, scene.Overlay{Center: st.Origin, Radius: st.Radius * fg, Color: st.Colors.Primary})
	}
	return out
}

// PanelOpacity is the target panel's opacity in [0, 1].
func (c *Controller) PanelOpacity(now time.Time) float64 {
	if c.active == nil {
		return 0
	}
	p, _ := easing.Progress(c.position(now)-c.timings.PanelDelay, c.timings.PanelFade)
	return p
}

// Active returns the current transition, if any.
func (c *Controller) Active() (State, bool) {
	if c.active == nil {
		return State{}, false
	}
	return *c.active, true
}

func (c *Controller) Phase(panel string) Phase {
	return c.phases[panel]
}

// CloseControlVisible reports whether the close control should be shown.
func (c *Controller) CloseControlVisible() bool {
	return c.active != nil && (c.active.Phase == Opening || c.active.Phase == Open)
}
