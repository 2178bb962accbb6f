package sink

import (
	"bytes"
	"image/color"
	"math"

	"github.com/fogleman/gg"

	"github.com/agenticinfraops/infraviz/pkg/canvas"
	"github.com/agenticinfraops/infraviz/pkg/errors"
	"github.com/agenticinfraops/infraviz/pkg/palette"
)

// RenderPNG rasterises the figure at dpi dots per inch.
// A 14x7 inch figure at 300 dpi yields a 4200x2100 image.
func RenderPNG(fig *canvas.Figure, dpi float64) ([]byte, error) {
	if err := errors.ValidateDPI(dpi); err != nil {
		return nil, err
	}

	r := &pngRenderer{dpi: dpi}
	fig.Draw(r)
	if r.err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, r.err, "rasterise figure")
	}

	var buf bytes.Buffer
	if err := r.dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "encode png")
	}
	return buf.Bytes(), nil
}

type pngRenderer struct {
	dc     *gg.Context
	dpi    float64
	height float64
	err    error
}

// px converts data units to pixels; pt converts points to pixels.
func (r *pngRenderer) px(v float64) float64 { return v * r.dpi }
func (r *pngRenderer) pt(v float64) float64 { return v * r.dpi / canvas.PointsPerUnit }

func (r *pngRenderer) xy(p canvas.Point) (float64, float64) {
	return r.px(p.X), r.px(r.height - p.Y)
}

func (r *pngRenderer) color(s string, alpha float64) (color.Color, bool) {
	if palette.IsNone(s) {
		return nil, false
	}
	c, err := palette.Parse(s)
	if err != nil {
		if r.err == nil {
			r.err = err
		}
		return nil, false
	}
	return palette.WithAlpha(c, canvas.Opacity(alpha)), true
}

func (r *pngRenderer) Begin(width, height float64, background string) {
	r.height = height
	r.dc = gg.NewContext(int(math.Ceil(r.px(width))), int(math.Ceil(r.px(height))))
	if c, ok := r.color(background, 0); ok {
		r.dc.SetColor(c)
		r.dc.Clear()
	}
}

func (r *pngRenderer) End() {}

// fillStroke paints the current path with an optional fill and outline.
func (r *pngRenderer) fillStroke(fill string, s canvas.Stroke, alpha float64) {
	if c, ok := r.color(fill, alpha); ok {
		r.dc.SetColor(c)
		if s.Visible() {
			r.dc.FillPreserve()
		} else {
			r.dc.Fill()
		}
	}
	if s.Visible() {
		r.applyStroke(s, alpha)
		r.dc.Stroke()
	}
	r.dc.ClearPath()
}

func (r *pngRenderer) applyStroke(s canvas.Stroke, alpha float64) {
	if c, ok := r.color(s.Color, alpha); ok {
		r.dc.SetColor(c)
	}
	w := r.pt(s.Width)
	r.dc.SetLineWidth(w)
	if s.Dashed {
		r.dc.SetDash(w*3.7, w*1.6)
	} else {
		r.dc.SetDash()
	}
}

func (r *pngRenderer) Rect(rc canvas.Rect) {
	x, y, w, h := rc.Bounds()
	left, top := r.xy(canvas.Pt(x, y+h))
	if rc.Radius > 0 {
		r.dc.DrawRoundedRectangle(left, top, r.px(w), r.px(h), r.px(rc.Radius))
	} else {
		r.dc.DrawRectangle(left, top, r.px(w), r.px(h))
	}
	r.fillStroke(rc.Fill, rc.Stroke, rc.Alpha)
}

func (r *pngRenderer) Circle(c canvas.Circle) {
	x, y := r.xy(c.Center)
	r.dc.DrawCircle(x, y, r.px(c.R))
	r.fillStroke(c.Fill, c.Stroke, c.Alpha)
}

func (r *pngRenderer) path(pts []canvas.Point, closed bool) {
	r.dc.NewSubPath()
	for i, p := range pts {
		x, y := r.xy(p)
		if i == 0 {
			r.dc.MoveTo(x, y)
		} else {
			r.dc.LineTo(x, y)
		}
	}
	if closed {
		r.dc.ClosePath()
	}
}

func (r *pngRenderer) Line(l canvas.Line) {
	if len(l.Points) < 2 || !l.Stroke.Visible() {
		return
	}
	r.path(l.Points, false)
	r.applyStroke(l.Stroke, l.Alpha)
	r.dc.Stroke()
}

func (r *pngRenderer) Polygon(p canvas.Polygon) {
	if len(p.Points) < 3 {
		return
	}
	r.path(p.Points, true)
	if c, ok := r.color(p.Fill, p.FillAlpha); ok {
		r.dc.SetColor(c)
		r.dc.FillPreserve()
	}
	if p.Stroke.Visible() {
		r.applyStroke(p.Stroke, 0)
		r.dc.Stroke()
	}
	r.dc.ClearPath()
}

func (r *pngRenderer) Arrow(a canvas.Arrow) {
	s := canvas.Stroke{Color: a.Color, Width: a.Width}
	r.dc.SetLineCap(gg.LineCapRound)
	r.dc.SetLineJoin(gg.LineJoinRound)
	r.path([]canvas.Point{a.From, a.To}, false)
	r.applyStroke(s, 0)
	r.dc.Stroke()

	left, right := a.Head()
	r.path([]canvas.Point{left, a.To, right}, false)
	r.applyStroke(s, 0)
	r.dc.Stroke()
	r.dc.SetLineCap(gg.LineCapButt)
}

func (r *pngRenderer) Text(t canvas.Text) {
	if !t.Box.IsZero() {
		r.Rect(t.BadgeRect())
	}

	face, err := canvas.Face(t.Font, r.dpi)
	if err != nil {
		if r.err == nil {
			r.err = err
		}
		return
	}
	defer face.Close()
	r.dc.SetFontFace(face)

	c, ok := r.color(t.Color, t.Alpha)
	if !ok {
		return
	}
	r.dc.SetColor(c)

	ax := 0.5
	switch t.Align {
	case canvas.AlignLeft:
		ax = 0
	case canvas.AlignRight:
		ax = 1
	}

	lines := t.Lines()
	for i, cy := range t.LineCenters() {
		x, y := r.xy(canvas.Pt(t.At.X, cy))
		r.dc.DrawStringAnchored(canvas.Renderable(t.Font, lines[i]), x, y, ax, 0.5)
	}
}
