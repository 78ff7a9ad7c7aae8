package scene

import (
	"fmt"
	"io"
	"strings"

	svg "github.com/ajstarks/svgo"
	"gonum.org/v1/gonum/spatial/r2"
)

// SVG writes each rendered frame as a standalone SVG document.
type SVG struct {
	w      io.Writer
	width  int
	height int
}

func NewSVG(w io.Writer, width, height int) *SVG {
	return &SVG{w: w, width: width, height: height}
}

func (s *SVG) Render(sc *Scene) error {
	ew := &errWriter{w: s.w}
	canvas := svg.New(ew)
	canvas.Start(s.width, s.height)
	canvas.Rect(0, 0, s.width, s.height, "fill:"+sc.Background.Hex())

	for _, p := range Project(sc, s.width, s.height) {
		if len(p.Points) == 0 {
			continue
		}
		var d strings.Builder
		writeSubpath(&d, p.Points)
		for _, hole := range p.Holes {
			writeSubpath(&d, hole)
		}
		style := "fill:" + p.Fill.Hex()
		if p.Alpha < 1 {
			style += fmt.Sprintf(";fill-opacity:%.3f", p.Alpha)
		}
		if len(p.Holes) > 0 {
			style += ";fill-rule:evenodd"
		}
		canvas.Path(d.String(), style)
	}

	canvas.End()
	if ew.err != nil {
		return fmt.Errorf("write svg: %w", ew.err)
	}
	return nil
}

func writeSubpath(b *strings.Builder, pts []r2.Vec) {
	for i, v := range pts {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(b, "%s%.2f %.2f ", cmd, v.X, v.Y)
	}
	b.WriteString("Z ")
}

type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return len(p), nil
	}
	if _, err := e.w.Write(p); err != nil {
		e.err = err
	}
	return len(p), nil
}
