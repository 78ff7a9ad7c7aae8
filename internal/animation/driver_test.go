package animation

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lasmate/folio/internal/logging"
	"github.com/lasmate/folio/internal/scene"
)

type countingRenderer struct {
	renders int
	err     error
}

func (r *countingRenderer) Render(*scene.Scene) error {
	r.renders++
	return r.err
}

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

const (
	dc = 1500 * time.Millisecond
	ds = 500 * time.Millisecond
)

func newController(t *testing.T, v Variant) (*Controller, *countingRenderer) {
	t.Helper()
	r := &countingRenderer{}
	sc := scene.Build(scene.DefaultPalette(), scene.Options{Outline: true})
	c := NewController(Config{CircleDuration: dc, StarDuration: ds, Variant: v}, sc, r, logging.Discard())
	return c, r
}

// revealed runs the full reveal so that continuous effects are active.
func revealed(t *testing.T, v Variant) *Controller {
	t.Helper()
	c, _ := newController(t, v)
	require.NoError(t, c.Frame(t0))
	require.NoError(t, c.Frame(t0.Add(dc+ds)))
	return c
}

func TestFrame_ClockStartsOnFirstFrame(t *testing.T) {
	c, r := newController(t, VariantHover)
	assert.False(t, c.State().Clock.Started())

	require.NoError(t, c.Frame(t0.Add(time.Hour)))
	st := c.State()
	assert.True(t, st.Clock.Started())
	assert.Equal(t, time.Duration(0), st.Clock.Elapsed)

	require.NoError(t, c.Frame(t0.Add(time.Hour+time.Second)))
	assert.Equal(t, time.Second, c.State().Clock.Elapsed)
	assert.Equal(t, 2, r.renders)
	assert.Equal(t, 2, c.State().Frames)
}

func TestFrame_DiskReveal(t *testing.T) {
	c, _ := newController(t, VariantHover)
	sc := c.Scene()
	tg := sc.Camera.Targets()

	require.NoError(t, c.Frame(t0))
	assert.Equal(t, tg.Start, sc.Mesh(scene.MeshOuter).Scale)
	assert.InDelta(t, tg.Start*scene.OutlineFactor, sc.Mesh(scene.MeshOutline).Scale, 1e-12)

	require.NoError(t, c.Frame(t0.Add(dc/2)))
	assert.InDelta(t, tg.Start+(tg.Mid-tg.Start)*0.875, sc.Mesh(scene.MeshMid).Scale, 1e-9)

	require.NoError(t, c.Frame(t0.Add(dc)))
	assert.InDelta(t, tg.Outer, sc.Mesh(scene.MeshOuter).Scale, 1e-12)
	assert.InDelta(t, tg.Mid, sc.Mesh(scene.MeshMid).Scale, 1e-12)
	assert.InDelta(t, tg.Inner, sc.Mesh(scene.MeshInner).Scale, 1e-12)
	assert.InDelta(t, tg.Outer*scene.OutlineFactor, sc.Mesh(scene.MeshOutline).Scale, 1e-12)

	// the star phase has not started at exactly Dc
	assert.Equal(t, 0.0, c.State().OuterStar.Scale)
}

func TestFrame_StarScaleMonotonic(t *testing.T) {
	c, _ := newController(t, VariantHover)
	target := c.Scene().Camera.Targets().Star

	prev := -1.0
	for e := time.Duration(0); e <= dc+ds+100*time.Millisecond; e += 10 * time.Millisecond {
		require.NoError(t, c.Frame(t0.Add(e)))
		s := c.State().OuterStar.Scale
		if e <= dc {
			assert.Equal(t, 0.0, s, "elapsed %s", e)
		}
		assert.GreaterOrEqual(t, s, prev, "elapsed %s", e)
		prev = s
	}
	assert.InDelta(t, target, prev, 1e-12)
	assert.InDelta(t, target, c.Scene().Mesh(scene.MeshStar).Scale, 1e-12)
	assert.InDelta(t, RevealRotation, c.State().OuterStar.Rotation, 1e-12)
}

func TestWheel_OnlyInWheelVariant(t *testing.T) {
	c := revealed(t, VariantWheel)
	c.Wheel(100)
	require.NoError(t, c.Frame(t0.Add(dc+ds+time.Second)))
	st := c.State()
	assert.InDelta(t, 0.2, st.FreeRotation, 1e-12)
	assert.InDelta(t, 0.2, st.DiskRotation, 1e-12)
	assert.InDelta(t, RevealRotation+0.2, st.OuterStar.Rotation, 1e-12)

	h := revealed(t, VariantHover)
	h.Wheel(100)
	require.NoError(t, h.Frame(t0.Add(dc+ds+time.Second)))
	assert.Equal(t, 0.0, h.State().FreeRotation)
}

func TestWheel_BeforeRevealOffsetsRotation(t *testing.T) {
	c, _ := newController(t, VariantWheel)
	c.Wheel(-50)
	require.NoError(t, c.Frame(t0))
	assert.InDelta(t, -0.1, c.State().OuterStar.Rotation, 1e-12)
}

func TestHover_AccumulatesPerFrame(t *testing.T) {
	c := revealed(t, VariantHover)
	c.SetHover(true)
	base := c.State().FreeRotation
	for i := 1; i <= 10; i++ {
		require.NoError(t, c.Frame(t0.Add(dc+ds+time.Duration(i)*time.Millisecond)))
	}
	assert.InDelta(t, base+10*HoverStep, c.State().FreeRotation, 1e-12)

	c.SetHover(false)
	require.NoError(t, c.Frame(t0.Add(dc+ds+time.Second)))
	assert.InDelta(t, base+10*HoverStep, c.State().FreeRotation, 1e-12)

	w := revealed(t, VariantWheel)
	w.SetHover(true)
	require.NoError(t, w.Frame(t0.Add(dc+ds+time.Second)))
	assert.False(t, w.State().Hover)
	assert.Equal(t, 0.0, w.State().FreeRotation)
}

func TestClick_Pulse(t *testing.T) {
	c := revealed(t, VariantHover)
	click := t0.Add(dc + ds + time.Second)
	c.Click(click)

	require.NoError(t, c.Frame(click))
	assert.InDelta(t, 1+PulseBoost, c.State().OuterStar.Outer, 1e-12)

	require.NoError(t, c.Frame(click.Add(PulseWindow/2)))
	assert.InDelta(t, 1+PulseBoost*0.125, c.State().OuterStar.Outer, 1e-12)

	require.NoError(t, c.Frame(click.Add(PulseWindow)))
	assert.Equal(t, scene.StarOuterRadius, c.State().OuterStar.Outer)
}

func TestClick_IgnoredBeforeStarPhase(t *testing.T) {
	c, _ := newController(t, VariantHover)
	c.Click(t0)
	require.NoError(t, c.Frame(t0))
	assert.Equal(t, scene.StarOuterRadius, c.State().OuterStar.Outer)
}

func TestClick_RegeneratesGeometryEveryFrame(t *testing.T) {
	c := revealed(t, VariantHover)
	click := t0.Add(dc + ds + time.Second)
	c.Click(click)

	require.NoError(t, c.Frame(click))
	before := c.rebuildCount()
	for i := 1; i <= 5; i++ {
		require.NoError(t, c.Frame(click.Add(time.Duration(i)*20*time.Millisecond)))
	}
	// outer star rebuilt on each of the 5 pulse frames, inner star too
	assert.GreaterOrEqual(t, c.rebuildCount()-before, 5)
	assert.Equal(t, 8, c.Scene().Mesh(scene.MeshStar).Geometry.Len())
}

func TestInnerRadius_StaysInBand(t *testing.T) {
	c := revealed(t, VariantHover)
	for i := 0; i < 200; i++ {
		require.NoError(t, c.Frame(t0.Add(dc+ds+time.Duration(i)*37*time.Millisecond)))
		r := c.State().InnerStar.Inner
		assert.GreaterOrEqual(t, r, 0.06-1e-12)
		assert.LessOrEqual(t, r, 0.13+1e-12)
	}
}

func TestLookAt_Smoothing(t *testing.T) {
	c := revealed(t, VariantHover)
	before := c.State().LookAt
	assert.Equal(t, LookAt{}, before)

	c.SetPointer(1, -1)
	require.NoError(t, c.Frame(t0.Add(dc+ds+time.Millisecond)))
	la := c.State().LookAt
	assert.InDelta(t, TiltMax*Smoothing, la.RotY, 1e-12)
	assert.InDelta(t, TiltMax*Smoothing, la.RotX, 1e-12)
	assert.InDelta(t, ShiftMax*Smoothing, la.PosX, 1e-12)
	assert.InDelta(t, -ShiftMax*Smoothing, la.PosY, 1e-12)

	prev := la.RotY
	for i := 2; i < 200; i++ {
		require.NoError(t, c.Frame(t0.Add(dc+ds+time.Duration(i)*time.Millisecond)))
		cur := c.State().LookAt.RotY
		assert.Greater(t, cur, prev)
		assert.Less(t, cur, TiltMax)
		prev = cur
	}
	assert.InDelta(t, TiltMax, prev, 0.01)
	assert.Equal(t, c.State().LookAt.RotY, c.Scene().Group.RotationY)
	assert.Equal(t, c.State().LookAt.PosX, c.Scene().Group.Position.X)
}

func TestSetPointer_Clamps(t *testing.T) {
	c, _ := newController(t, VariantHover)
	c.SetPointer(3, -7)
	assert.Equal(t, 1.0, c.State().Pointer.X)
	assert.Equal(t, -1.0, c.State().Pointer.Y)
}

func TestFrame_RenderError(t *testing.T) {
	c, r := newController(t, VariantHover)
	r.err = errors.New("surface lost")
	err := c.Frame(t0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "surface lost")
}

func TestNormalize(t *testing.T) {
	x, y := Normalize(0, 0, 10, 10)
	assert.InDelta(t, -0.9, x, 1e-12)
	assert.InDelta(t, 0.9, y, 1e-12)

	x, y = Normalize(9, 9, 10, 10)
	assert.InDelta(t, 0.9, x, 1e-12)
	assert.InDelta(t, -0.9, y, 1e-12)

	x, y = Normalize(5, 5, 0, 0)
	assert.Equal(t, 0.0, x)
	assert.Equal(t, 0.0, y)
}

func TestParseVariant(t *testing.T) {
	assert.Equal(t, VariantWheel, ParseVariant("wheel"))
	assert.Equal(t, VariantHover, ParseVariant("hover"))
	assert.Equal(t, VariantHover, ParseVariant(""))
	assert.Equal(t, "wheel", VariantWheel.String())
	assert.False(t, math.IsNaN(RevealRotation))
}
