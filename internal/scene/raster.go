package scene

import (
	"image"
	"image/color"

	"git.sr.ht/~sbinet/gg"
	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/draw"
	"gonum.org/v1/gonum/spatial/r2"
)

// Raster renders the scene into an RGBA image. Frames are drawn at
// Supersample times the target size and scaled down for smooth edges.
type Raster struct {
	width       int
	height      int
	supersample int
	img         *image.RGBA
	frames      int
}

func NewRaster(width, height, supersample int) *Raster {
	if supersample < 1 {
		supersample = 1
	}
	r := &Raster{supersample: supersample}
	r.Resize(width, height)
	return r
}

// Resize changes the output size. Sizes below 1 are raised to 1.
func (r *Raster) Resize(width, height int) {
	r.width = max(1, width)
	r.height = max(1, height)
	r.img = image.NewRGBA(image.Rect(0, 0, r.width, r.height))
}

func (r *Raster) Size() (int, int) { return r.width, r.height }

// Image returns the last rendered frame. It is reused across frames.
func (r *Raster) Image() *image.RGBA { return r.img }

// frameCount counts completed Render calls.
func (r *Raster) frameCount() int { return r.frames }

func (r *Raster) Render(s *Scene) error {
	w, h := r.width*r.supersample, r.height*r.supersample
	dc := gg.NewContext(w, h)
	dc.SetColor(nrgba(s.Background, 1))
	dc.Clear()

	for _, p := range Project(s, w, h) {
		if len(p.Points) == 0 {
			continue
		}
		if p.Layer == LayerOverlay && r.supersample > 1 {
			p = scaled(p, float64(r.supersample))
		}
		tracePath(dc, p)
		if len(p.Holes) > 0 {
			dc.SetFillRule(gg.FillRuleEvenOdd)
		} else {
			dc.SetFillRule(gg.FillRuleWinding)
		}
		dc.SetColor(nrgba(p.Fill, p.Alpha))
		dc.Fill()
	}

	src := dc.Image()
	if r.supersample == 1 {
		draw.Copy(r.img, image.Point{}, src, src.Bounds(), draw.Src, nil)
	} else {
		draw.ApproxBiLinear.Scale(r.img, r.img.Bounds(), src, src.Bounds(), draw.Src, nil)
	}
	r.frames++
	return nil
}

// scaled maps an overlay from output pixels into supersampled pixels.
func scaled(p Polygon, k float64) Polygon {
	pts := make([]r2.Vec, len(p.Points))
	for i, v := range p.Points {
		pts[i] = r2.Scale(k, v)
	}
	p.Points = pts
	return p
}

func tracePath(dc *gg.Context, p Polygon) {
	dc.NewSubPath()
	for i, v := range p.Points {
		if i == 0 {
			dc.MoveTo(v.X, v.Y)
		} else {
			dc.LineTo(v.X, v.Y)
		}
	}
	dc.ClosePath()
	for _, hole := range p.Holes {
		dc.NewSubPath()
		for i, v := range hole {
			if i == 0 {
				dc.MoveTo(v.X, v.Y)
			} else {
				dc.LineTo(v.X, v.Y)
			}
		}
		dc.ClosePath()
	}
}

// nrgba rounds to the nearest 8-bit channel value; truncating would turn
// #f9 into #f8.
func nrgba(c colorful.Color, alpha float64) color.NRGBA {
	c = c.Clamped()
	return color.NRGBA{
		R: uint8(c.R*255 + 0.5),
		G: uint8(c.G*255 + 0.5),
		B: uint8(c.B*255 + 0.5),
		A: uint8(min(max(alpha, 0), 1)*255 + 0.5),
	}
}
