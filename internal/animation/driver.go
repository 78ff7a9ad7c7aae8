// Package animation drives the landing scene: a disk reveal, then a star
// reveal, then a steady state that keeps reacting to pointer input.
package animation

import (
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/lasmate/folio/internal/easing"
	"github.com/lasmate/folio/internal/scene"
	"github.com/lasmate/folio/internal/shape"
)

// Variant selects where steady-state rotation comes from. The two sources
// are never combined.
type Variant int

const (
	VariantHover Variant = iota
	VariantWheel
)

func ParseVariant(s string) Variant {
	if s == "wheel" {
		return VariantWheel
	}
	return VariantHover
}

func (v Variant) String() string {
	if v == VariantWheel {
		return "wheel"
	}
	return "hover"
}

const (
	RevealRotation = 3 * math.Pi / 4
	WheelFactor    = 0.002
	HoverStep      = 0.02 // rad per frame

	PulseWindow = 200 * time.Millisecond
	PulseBoost  = 0.8

	InnerPulseMid   = 0.095
	InnerPulseAmp   = 0.035
	InnerPulseSpeed = 2.0 // rad per second of wall-clock time

	TiltMax   = 0.3
	ShiftMax  = 1.2
	Smoothing = 0.05
)

type Config struct {
	CircleDuration time.Duration
	StarDuration   time.Duration
	Variant        Variant
}

type phase int

const (
	phaseDisks phase = iota
	phaseStar
	phaseSteady
)

// Controller owns the animation state and the scene it animates.
type Controller struct {
	cfg      Config
	state    AnimationState
	scene    *scene.Scene
	renderer scene.Renderer
	targets  scene.Targets
	logger   *slog.Logger

	phase     phase
	outerGeom [2]float64
	innerGeom [2]float64
	rebuilds  int
}

func NewController(cfg Config, sc *scene.Scene, r scene.Renderer, logger *slog.Logger) *Controller {
	c := &Controller{
		cfg:      cfg,
		scene:    sc,
		renderer: r,
		targets:  sc.Camera.Targets(),
		logger:   logger.With("component", "animation", "variant", cfg.Variant.String()),
	}
	c.outerGeom = [2]float64{scene.StarOuterRadius, scene.StarInnerRadius}
	c.innerGeom = [2]float64{scene.InnerStarOuter, scene.InnerStarInnerBase}
	return c
}

func (c *Controller) Scene() *scene.Scene { return c.scene }

// State returns a copy of the current animation state.
func (c *Controller) State() AnimationState { return c.state }

// rebuildCount counts how many times star geometry was regenerated.
func (c *Controller) rebuildCount() int { return c.rebuilds }

func (c *Controller) SetPointer(x, y float64) {
	c.state.Pointer.X = clampUnit(x)
	c.state.Pointer.Y = clampUnit(y)
}

func (c *Controller) Click(at time.Time) {
	c.state.Pointer.LastClick = at
	c.state.Pointer.clicked = true
}

func (c *Controller) Wheel(deltaY float64) {
	if c.cfg.Variant != VariantWheel {
		return
	}
	r := deltaY * WheelFactor
	c.state.DiskRotation += r
	c.state.FreeRotation += r
}

func (c *Controller) SetHover(hover bool) {
	if c.cfg.Variant != VariantHover {
		return
	}
	c.state.Hover = hover
}

// Frame advances every time-based and input-driven parameter to now and
// submits the scene for rendering once.
func (c *Controller) Frame(now time.Time) error {
	elapsed := c.state.Clock.tick(now)
	t := c.targets

	_, diskEase := easing.Progress(elapsed, c.cfg.CircleDuration)
	outer := easing.Lerp(t.Start, t.Outer, diskEase)
	c.setDisk(scene.MeshOuter, outer)
	c.setDisk(scene.MeshMid, easing.Lerp(t.Start, t.Mid, diskEase))
	c.setDisk(scene.MeshInner, easing.Lerp(t.Start, t.Inner, diskEase))
	c.setDisk(scene.MeshOutline, outer*scene.OutlineFactor)

	if c.cfg.Variant == VariantHover && c.state.Hover {
		c.state.FreeRotation += HoverStep
	}

	starScale := 0.0
	rotation := c.state.FreeRotation
	outerRadius := scene.StarOuterRadius
	innerRadius := scene.InnerStarInnerBase

	if elapsed > c.cfg.CircleDuration {
		starProgress, starEase := easing.Progress(elapsed-c.cfg.CircleDuration, c.cfg.StarDuration)
		starScale = t.Star * starEase
		rotation = RevealRotation*starEase + c.state.FreeRotation
		c.advancePhase(starProgress)

		outerRadius *= c.pulseMultiplier(now)
		innerRadius = InnerPulseMid + InnerPulseAmp*math.Sin(wallSeconds(now)*InnerPulseSpeed)
		c.updateLookAt()
	}

	c.state.OuterStar = StarParameters{
		Points: scene.StarPoints, Outer: outerRadius, Inner: scene.StarInnerRadius,
		Rotation: rotation, Scale: starScale,
	}
	c.state.InnerStar = StarParameters{
		Points: scene.StarPoints, Outer: scene.InnerStarOuter, Inner: innerRadius,
		Rotation: rotation, Scale: starScale,
	}
	c.applyStar(scene.MeshStar, c.state.OuterStar, &c.outerGeom)
	c.applyStar(scene.MeshStarInner, c.state.InnerStar, &c.innerGeom)

	g := &c.scene.Group
	g.RotationX = c.state.LookAt.RotX
	g.RotationY = c.state.LookAt.RotY
	g.Position.X = c.state.LookAt.PosX
	g.Position.Y = c.state.LookAt.PosY

	c.state.Frames++
	if err := c.renderer.Render(c.scene); err != nil {
		return fmt.Errorf("render frame %d: %w", c.state.Frames, err)
	}
	return nil
}

func (c *Controller) advancePhase(starProgress float64) {
	switch {
	case c.phase == phaseDisks:
		c.phase = phaseStar
		c.logger.Debug("star reveal started", "elapsed", c.state.Clock.Elapsed)
		if starProgress >= 1 {
			c.phase = phaseSteady
		}
	case c.phase == phaseStar && starProgress >= 1:
		c.phase = phaseSteady
		c.logger.Debug("reveal complete", "elapsed", c.state.Clock.Elapsed)
	}
}

// pulseMultiplier spikes to 1+PulseBoost at the click and eases back to 1
// over PulseWindow.
func (c *Controller) pulseMultiplier(now time.Time) float64 {
	p := c.state.Pointer
	if !p.clicked {
		return 1
	}
	dt := now.Sub(p.LastClick)
	if dt < 0 || dt >= PulseWindow {
		return 1
	}
	return 1 + PulseBoost*(1-easing.EaseOutCubic(float64(dt)/float64(PulseWindow)))
}

func (c *Controller) updateLookAt() {
	p := c.state.Pointer
	la := &c.state.LookAt
	la.RotX += (-p.Y*TiltMax - la.RotX) * Smoothing
	la.RotY += (p.X*TiltMax - la.RotY) * Smoothing
	la.PosX += (p.X*ShiftMax - la.PosX) * Smoothing
	la.PosY += (p.Y*ShiftMax - la.PosY) * Smoothing
}

func (c *Controller) setDisk(name string, s float64) {
	if m := c.scene.Mesh(name); m != nil {
		m.Scale = s
		m.Rotation = c.state.DiskRotation
	}
}

// applyStar regenerates the star outline when its radii changed since the
// last frame; scale and rotation are applied at projection time.
func (c *Controller) applyStar(name string, sp StarParameters, last *[2]float64) {
	m := c.scene.Mesh(name)
	if m == nil {
		return
	}
	m.Scale = sp.Scale
	m.Rotation = sp.Rotation
	key := [2]float64{sp.Outer, sp.Inner}
	if key != *last || m.Geometry.Len() == 0 {
		m.Geometry = shape.Star(sp.Points, sp.Outer, sp.Inner)
		*last = key
		c.rebuilds++
	}
}

func wallSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
