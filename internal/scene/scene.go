// Package scene holds the landing scene graph and the renderers that turn it
// into pixels, SVG or terminal cells.
//
// The graph is fixed: concentric disks and two nested 4-point stars grouped
// under one transformable node, a screen-space vignette, and any number of
// screen-space overlay circles used by page transitions. Meshes keep their
// geometry at unit scale; Scale and Rotation are applied at projection time.
package scene

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/lasmate/folio/internal/shape"
)

// Mesh names.
const (
	MeshOutline   = "outline"
	MeshOuter     = "outer"
	MeshMid       = "mid"
	MeshInner     = "inner"
	MeshStar      = "star"
	MeshStarInner = "star-inner"
)

// Star geometry at rest.
const (
	StarPoints         = 4
	StarOuterRadius    = 1.0
	StarInnerRadius    = 0.15
	InnerStarOuter     = 0.55
	InnerStarInnerBase = 0.095
)

// OutlineFactor is how much larger the outline disk is than the outer disk.
const OutlineFactor = 1.02

type Kind int

const (
	KindDisk Kind = iota
	KindStar
)

type Mesh struct {
	Name     string
	Kind     Kind
	Geometry shape.Path
	Color    colorful.Color
	Z        float64
	Scale    float64
	Rotation float64
	Visible  bool
}

// Group is the single transformable node every mesh hangs off.
type Group struct {
	Meshes    []*Mesh
	RotationX float64
	RotationY float64
	Position  r2.Vec
}

type Camera struct {
	Z   float64
	FOV float64 // vertical, degrees
}

// VisibleHeight is the world-space height visible at z=0.
func (c Camera) VisibleHeight() float64 {
	return 2 * math.Tan(c.FOV*math.Pi/360) * c.Z
}

// Vignette darkens everything outside an elliptical hole. RX and RY are
// fractions of the viewport half-extent.
type Vignette struct {
	Enabled bool
	Color   colorful.Color
	Alpha   float64
	RX, RY  float64
}

// Overlay is a screen-space disk in pixel coordinates.
type Overlay struct {
	Center r2.Vec
	Radius float64
	Color  colorful.Color
}

type Scene struct {
	Camera     Camera
	Background colorful.Color
	Group      Group
	Vignette   Vignette
	Overlays   []Overlay
}

type Palette struct {
	Background colorful.Color
	Outline    colorful.Color
	Outer      colorful.Color
	Mid        colorful.Color
	Inner      colorful.Color
	Star       colorful.Color
	StarInner  colorful.Color
	Vignette   colorful.Color
}

func DefaultPalette() Palette {
	return Palette{
		Background: mustHex("#0d0b09"),
		Outline:    mustHex("#f9f9aa"),
		Outer:      mustHex("#4c351d"),
		Mid:        mustHex("#efc760"),
		Inner:      mustHex("#f9f9aa"),
		Star:       mustHex("#171411"),
		StarInner:  mustHex("#efc760"),
		Vignette:   mustHex("#000000"),
	}
}

type Options struct {
	Outline  bool
	Vignette bool
}

// Targets are the world-space scale factors for the reveal animation. Disk
// geometry has radius 1, so a scale of s gives a diameter of 2s.
type Targets struct {
	Start float64
	Outer float64
	Mid   float64
	Inner float64
	Star  float64
}

func (c Camera) Targets() Targets {
	h := c.VisibleHeight()
	return Targets{
		Start: h * 1.2 / 2,
		Outer: h * 0.7 / 2,
		Mid:   h * 0.45 / 2,
		Inner: h * 0.20 / 2,
		Star:  h * 0.30 / 2,
	}
}

// Build constructs the scene with the disks at their oversized start scale
// and the stars collapsed.
func Build(p Palette, opts Options) *Scene {
	cam := Camera{Z: 5, FOV: 75}
	t := cam.Targets()
	disk := shape.Circle(1)

	var meshes []*Mesh
	meshes = append(meshes, &Mesh{
		Name: MeshOutline, Kind: KindDisk, Geometry: disk, Color: p.Outline,
		Z: -0.01, Scale: t.Start * OutlineFactor, Visible: opts.Outline,
	})
	meshes = append(meshes,
		&Mesh{Name: MeshOuter, Kind: KindDisk, Geometry: disk, Color: p.Outer, Z: 0, Scale: t.Start, Visible: true},
		&Mesh{Name: MeshMid, Kind: KindDisk, Geometry: disk, Color: p.Mid, Z: 0.01, Scale: t.Start, Visible: true},
		&Mesh{Name: MeshInner, Kind: KindDisk, Geometry: disk, Color: p.Inner, Z: 0.02, Scale: t.Start, Visible: true},
		&Mesh{
			Name: MeshStar, Kind: KindStar, Color: p.Star, Z: 0.03, Visible: true,
			Geometry: shape.Star(StarPoints, StarOuterRadius, StarInnerRadius),
		},
		&Mesh{
			Name: MeshStarInner, Kind: KindStar, Color: p.StarInner, Z: 0.04, Visible: true,
			Geometry: shape.Star(StarPoints, InnerStarOuter, InnerStarInnerBase),
		},
	)

	return &Scene{
		Camera:     cam,
		Background: p.Background,
		Group:      Group{Meshes: meshes},
		Vignette: Vignette{
			Enabled: opts.Vignette,
			Color:   p.Vignette,
			Alpha:   0.55,
			RX:      0.95,
			RY:      0.9,
		},
	}
}

// Mesh returns the named mesh, or nil.
func (s *Scene) Mesh(name string) *Mesh {
	for _, m := range s.Group.Meshes {
		if m.Name == name {
			return m
		}
	}
	return nil
}

// SetOverlays replaces the overlay circles drawn above everything else.
func (s *Scene) SetOverlays(o []Overlay) {
	s.Overlays = append(s.Overlays[:0], o...)
}

// Renderer is the rendering capability the animation driver submits frames to.
type Renderer interface {
	Render(s *Scene) error
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}
