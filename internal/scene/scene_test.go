package scene

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"math"
	"strings"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"
)

func TestCamera_VisibleHeight(t *testing.T) {
	cam := Camera{Z: 5, FOV: 75}
	assert.InDelta(t, 2*math.Tan(37.5*math.Pi/180)*5, cam.VisibleHeight(), 1e-12)

	tg := cam.Targets()
	assert.InDelta(t, cam.VisibleHeight()*0.6, tg.Start, 1e-12)
	assert.Greater(t, tg.Outer, tg.Mid)
	assert.Greater(t, tg.Mid, tg.Inner)
}

func TestBuild(t *testing.T) {
	s := Build(DefaultPalette(), Options{Outline: true, Vignette: true})
	require.Len(t, s.Group.Meshes, 6)

	start := s.Camera.Targets().Start
	for _, name := range []string{MeshOuter, MeshMid, MeshInner} {
		m := s.Mesh(name)
		require.NotNil(t, m, name)
		assert.Equal(t, start, m.Scale, name)
		assert.Equal(t, KindDisk, m.Kind)
	}
	assert.InDelta(t, start*OutlineFactor, s.Mesh(MeshOutline).Scale, 1e-12)
	assert.True(t, s.Mesh(MeshOutline).Visible)

	star := s.Mesh(MeshStar)
	assert.Equal(t, 0.0, star.Scale)
	assert.Equal(t, 8, star.Geometry.Len())
	assert.Nil(t, s.Mesh("missing"))

	noOutline := Build(DefaultPalette(), Options{})
	assert.False(t, noOutline.Mesh(MeshOutline).Visible)
}

func TestBuild_ZOrderIncreases(t *testing.T) {
	s := Build(DefaultPalette(), Options{Outline: true})
	for i := 1; i < len(s.Group.Meshes); i++ {
		assert.Greater(t, s.Group.Meshes[i].Z, s.Group.Meshes[i-1].Z)
	}
}

func TestProject_SkipsCollapsedMeshes(t *testing.T) {
	s := Build(DefaultPalette(), Options{})
	list := Project(s, 200, 100)
	names := make([]string, 0, len(list))
	for _, p := range list {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{MeshOuter, MeshMid, MeshInner}, names)
	assert.Nil(t, Project(s, 0, 100))
}

func TestProject_CenteredAndSymmetric(t *testing.T) {
	s := Build(DefaultPalette(), Options{})
	s.Mesh(MeshOuter).Scale = 1
	list := Project(s, 200, 100)
	outer := list[0]

	var sum r2.Vec
	for _, p := range outer.Points {
		sum = r2.Add(sum, p)
	}
	centroid := r2.Scale(1/float64(len(outer.Points)), sum)
	assert.InDelta(t, 100, centroid.X, 1e-6)
	assert.InDelta(t, 50, centroid.Y, 1e-6)

	// radius 1 at depth 5 maps to focal/5 of the half height
	focal := 1 / math.Tan(37.5*math.Pi/180)
	top := outer.Points[len(outer.Points)/4]
	assert.InDelta(t, 50-focal/5*50, top.Y, 1e-6)
}

func TestProject_GroupShiftMovesEverything(t *testing.T) {
	s := Build(DefaultPalette(), Options{})
	base := Project(s, 200, 100)
	s.Group.Position = r2.Vec{X: 1}
	moved := Project(s, 200, 100)
	assert.Greater(t, moved[0].Points[0].X, base[0].Points[0].X)
}

func TestProject_VignetteAndOverlaysLast(t *testing.T) {
	s := Build(DefaultPalette(), Options{Vignette: true})
	s.SetOverlays([]Overlay{
		{Center: r2.Vec{X: 10, Y: 10}, Radius: 5, Color: colorful.Color{R: 1}},
		{Center: r2.Vec{X: 10, Y: 10}, Radius: 0},
	})
	list := Project(s, 200, 100)
	require.GreaterOrEqual(t, len(list), 2)
	vig := list[len(list)-2]
	assert.Equal(t, LayerVignette, vig.Layer)
	require.Len(t, vig.Holes, 1)
	assert.Equal(t, LayerOverlay, list[len(list)-1].Layer)
}

func TestPick(t *testing.T) {
	s := Build(DefaultPalette(), Options{})
	assert.Equal(t, MeshInner, Pick(s, 100, 50, 200, 100))
	assert.Equal(t, "", Pick(s, 0, 0, 200, 100))

	s.Mesh(MeshStarInner).Scale = s.Camera.Targets().Star
	assert.Equal(t, MeshStarInner, Pick(s, 100, 50, 200, 100))
}

func TestRaster_Render(t *testing.T) {
	s := Build(DefaultPalette(), Options{})
	r := NewRaster(20, 10, 2)
	require.NoError(t, r.Render(s))
	assert.Equal(t, 1, r.frameCount())

	w, h := r.Size()
	assert.Equal(t, 20, w)
	assert.Equal(t, 10, h)
	assert.Equal(t, "#f9f9aa", hex(r.Image().At(10, 5)))
	assert.Equal(t, "#0d0b09", hex(r.Image().At(0, 0)))
}

func TestRaster_OverlaysUseOutputPixels(t *testing.T) {
	s := Build(DefaultPalette(), Options{})
	s.SetOverlays([]Overlay{{Center: r2.Vec{X: 0, Y: 0}, Radius: 8, Color: colorful.Color{R: 1}}})
	r := NewRaster(20, 10, 2)
	require.NoError(t, r.Render(s))

	assert.Equal(t, "#ff0000", hex(r.Image().At(2, 2)))
	assert.NotEqual(t, "#ff0000", hex(r.Image().At(12, 8)))
}

func TestRaster_VignetteDarkensCorners(t *testing.T) {
	s := Build(DefaultPalette(), Options{Vignette: true})
	r := NewRaster(20, 10, 1)
	require.NoError(t, r.Render(s))
	assert.NotEqual(t, "#0d0b09", hex(r.Image().At(0, 0)))
}

func TestRaster_ResizeClamps(t *testing.T) {
	r := NewRaster(0, -3, 0)
	w, h := r.Size()
	assert.Equal(t, 1, w)
	assert.Equal(t, 1, h)
}

func TestEncoder_HalfBlocks(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 3))
	for x := 0; x < 4; x++ {
		img.Set(x, 0, color.RGBA{R: 255, A: 255})
		img.Set(x, 1, color.RGBA{B: 255, A: 255})
	}
	img.Set(3, 0, color.RGBA{G: 255, A: 255})

	lines := NewEncoder().Encode(img)
	require.Len(t, lines, 2)
	for _, l := range lines {
		assert.Equal(t, 4, strings.Count(l, halfBlock))
	}
}

func TestSVG_Render(t *testing.T) {
	s := Build(DefaultPalette(), Options{Vignette: true, Outline: true})
	var buf bytes.Buffer
	require.NoError(t, NewSVG(&buf, 320, 180).Render(s))

	out := buf.String()
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "fill-rule:evenodd")
	assert.Contains(t, out, "#efc760")
	assert.Contains(t, out, "</svg>")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestSVG_WriteError(t *testing.T) {
	err := NewSVG(failingWriter{}, 10, 10).Render(Build(DefaultPalette(), Options{}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
