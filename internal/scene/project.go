package scene

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/lasmate/folio/internal/shape"
)

// Layer orders the draw list: meshes, then the vignette, then overlays.
type Layer int

const (
	LayerMesh Layer = iota
	LayerVignette
	LayerOverlay
)

// Polygon is one filled shape in pixel space. Holes are cut with the
// even-odd rule.
type Polygon struct {
	Name   string
	Layer  Layer
	Points []r2.Vec
	Holes  [][]r2.Vec
	Fill   colorful.Color
	Alpha  float64
}

const nearPlane = 0.1

var (
	axisX = r3.Vec{X: 1}
	axisY = r3.Vec{Y: 1}
)

// Project flattens the scene into a back-to-front draw list for a w×h pixel
// viewport with square pixels.
func Project(s *Scene, w, h int) []Polygon {
	if w <= 0 || h <= 0 {
		return nil
	}
	fw, fh := float64(w), float64(h)
	aspect := fw / fh
	focal := 1 / math.Tan(s.Camera.FOV*math.Pi/360)

	rotX := r3.NewRotation(s.Group.RotationX, axisX)
	rotY := r3.NewRotation(s.Group.RotationY, axisY)
	offset := r3.Vec{X: s.Group.Position.X, Y: s.Group.Position.Y}

	var out []Polygon
	for _, m := range s.Group.Meshes {
		if !m.Visible || m.Scale == 0 || m.Geometry.Len() == 0 {
			continue
		}
		local := m.Geometry.Transform(m.Scale, m.Rotation)
		pts := make([]r2.Vec, len(local.Points))
		for i, v := range local.Points {
			p := r3.Vec{X: v.X, Y: v.Y, Z: m.Z}
			p = r3.Add(rotY.Rotate(rotX.Rotate(p)), offset)

			depth := s.Camera.Z - p.Z
			if depth < nearPlane {
				depth = nearPlane
			}
			ndcX := p.X * focal / (aspect * depth)
			ndcY := p.Y * focal / depth
			pts[i] = r2.Vec{
				X: (ndcX + 1) / 2 * fw,
				Y: (1 - ndcY) / 2 * fh,
			}
		}
		out = append(out, Polygon{Name: m.Name, Layer: LayerMesh, Points: pts, Fill: m.Color, Alpha: 1})
	}

	if s.Vignette.Enabled {
		rect := []r2.Vec{{X: 0, Y: 0}, {X: fw, Y: 0}, {X: fw, Y: fh}, {X: 0, Y: fh}}
		hole := shape.Ellipse(s.Vignette.RX*fw/2, s.Vignette.RY*fh/2, shape.EllipseResolution)
		center := r2.Vec{X: fw / 2, Y: fh / 2}
		holePts := make([]r2.Vec, hole.Len())
		for i, v := range hole.Points {
			holePts[i] = r2.Add(v, center)
		}
		out = append(out, Polygon{
			Name:   "vignette",
			Layer:  LayerVignette,
			Points: rect,
			Holes:  [][]r2.Vec{holePts},
			Fill:   s.Vignette.Color,
			Alpha:  s.Vignette.Alpha,
		})
	}

	for _, o := range s.Overlays {
		if o.Radius <= 0 {
			continue
		}
		circle := shape.Circle(o.Radius)
		pts := make([]r2.Vec, circle.Len())
		for i, v := range circle.Points {
			pts[i] = r2.Add(v, o.Center)
		}
		out = append(out, Polygon{Name: "overlay", Layer: LayerOverlay, Points: pts, Fill: o.Color, Alpha: 1})
	}

	return out
}

// Pick hit-tests pixel (x, y) of a w×h viewport against the meshes and
// returns the name of the top-most one, or "" when nothing is hit.
func Pick(s *Scene, x, y float64, w, h int) string {
	list := Project(s, w, h)
	pt := r2.Vec{X: x, Y: y}
	for i := len(list) - 1; i >= 0; i-- {
		p := list[i]
		if p.Layer != LayerMesh {
			continue
		}
		if (shape.Path{Points: p.Points}).Contains(pt) {
			return p.Name
		}
	}
	return ""
}
