// Package shape generates closed polygon outlines for the landing scene.
package shape

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// EllipseResolution is the number of samples used for disks and vignette holes.
const EllipseResolution = 96

// Path is a closed polygon. The closing segment from the last vertex back to
// the first is implicit.
type Path struct {
	Points []r2.Vec
}

// Segment is one edge of a Path.
type Segment struct {
	From, To r2.Vec
}

// Star returns a polygon with 2n vertices alternating between the outer and
// inner radius, vertex i at angle 2πi/(2n). Zero or negative radii are kept
// as given.
func Star(n int, outer, inner float64) Path {
	if n <= 0 {
		return Path{}
	}
	count := 2 * n
	pts := make([]r2.Vec, count)
	for i := range pts {
		radius := outer
		if i%2 == 1 {
			radius = inner
		}
		angle := float64(i) / float64(count) * 2 * math.Pi
		pts[i] = r2.Vec{X: math.Cos(angle) * radius, Y: math.Sin(angle) * radius}
	}
	return Path{Points: pts}
}

// Ellipse samples an ellipse as a star whose two radii are equal, stretched
// per axis. resolution is the number of vertices; odd values are rounded up.
func Ellipse(rx, ry float64, resolution int) Path {
	if resolution < 2 {
		resolution = 2
	}
	p := Star((resolution+1)/2, 1, 1)
	for i, v := range p.Points {
		p.Points[i] = r2.Vec{X: v.X * rx, Y: v.Y * ry}
	}
	return p
}

// Circle is Ellipse with equal radii at the default resolution.
func Circle(r float64) Path {
	return Ellipse(r, r, EllipseResolution)
}

func (p Path) Len() int { return len(p.Points) }

// Segments lists every edge, ending with the one that closes the path.
func (p Path) Segments() []Segment {
	n := len(p.Points)
	if n == 0 {
		return nil
	}
	segs := make([]Segment, n)
	for i := range p.Points {
		segs[i] = Segment{From: p.Points[i], To: p.Points[(i+1)%n]}
	}
	return segs
}

// Transform scales then rotates every vertex about the origin.
func (p Path) Transform(scale, rotation float64) Path {
	out := make([]r2.Vec, len(p.Points))
	for i, v := range p.Points {
		out[i] = r2.Rotate(r2.Scale(scale, v), rotation, r2.Vec{})
	}
	return Path{Points: out}
}

// Contains reports whether pt lies inside the polygon (even-odd rule).
func (p Path) Contains(pt r2.Vec) bool {
	inside := false
	for _, s := range p.Segments() {
		a, b := s.From, s.To
		if (a.Y > pt.Y) != (b.Y > pt.Y) {
			x := a.X + (pt.Y-a.Y)/(b.Y-a.Y)*(b.X-a.X)
			if pt.X < x {
				inside = !inside
			}
		}
	}
	return inside
}
