package sink

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/agenticinfraops/infraviz/pkg/canvas"
	"github.com/agenticinfraops/infraviz/pkg/palette"
)

const (
	fontFamilySans = `'Segoe UI', 'Go', Arial, sans-serif`
	fontFamilyMono = `'Cascadia Mono', 'Go Mono', Consolas, monospace`
)

// RenderSVG renders the figure as a standalone SVG document.
func RenderSVG(fig *canvas.Figure) []byte {
	r := &svgRenderer{}
	fig.Draw(r)
	return r.buf.Bytes()
}

type svgRenderer struct {
	buf    bytes.Buffer
	height float64 // figure height in data units
}

func (r *svgRenderer) x(v float64) float64 { return v * canvas.PointsPerUnit }
func (r *svgRenderer) y(v float64) float64 { return (r.height - v) * canvas.PointsPerUnit }
func (r *svgRenderer) d(v float64) float64 { return v * canvas.PointsPerUnit }

func (r *svgRenderer) Begin(width, height float64, background string) {
	r.height = height
	w, h := width*canvas.PointsPerUnit, height*canvas.PointsPerUnit
	fmt.Fprintf(&r.buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		w, h, w, h)
	if !palette.IsNone(background) {
		fmt.Fprintf(&r.buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="%s"/>`+"\n", w, h, background)
	}
}

func (r *svgRenderer) End() {
	r.buf.WriteString("</svg>\n")
}

func (r *svgRenderer) Rect(rc canvas.Rect) {
	x, y, w, h := rc.Bounds()
	fmt.Fprintf(&r.buf, `  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f"`,
		r.x(x), r.y(y+h), r.d(w), r.d(h))
	if rc.Radius > 0 {
		fmt.Fprintf(&r.buf, ` rx="%.2f" ry="%.2f"`, r.d(rc.Radius), r.d(rc.Radius))
	}
	r.paint(rc.Fill, rc.Stroke, rc.Alpha)
	r.buf.WriteString("/>\n")
}

func (r *svgRenderer) Circle(c canvas.Circle) {
	fmt.Fprintf(&r.buf, `  <circle cx="%.2f" cy="%.2f" r="%.2f"`, r.x(c.Center.X), r.y(c.Center.Y), r.d(c.R))
	r.paint(c.Fill, c.Stroke, c.Alpha)
	r.buf.WriteString("/>\n")
}

func (r *svgRenderer) Line(l canvas.Line) {
	fmt.Fprintf(&r.buf, `  <polyline points="%s" fill="none"`, r.points(l.Points))
	r.stroke(l.Stroke)
	if op := canvas.Opacity(l.Alpha); op < 1 {
		fmt.Fprintf(&r.buf, ` opacity="%.2f"`, op)
	}
	r.buf.WriteString("/>\n")
}

func (r *svgRenderer) Polygon(p canvas.Polygon) {
	fmt.Fprintf(&r.buf, `  <polygon points="%s"`, r.points(p.Points))
	if palette.IsNone(p.Fill) {
		r.buf.WriteString(` fill="none"`)
	} else {
		fmt.Fprintf(&r.buf, ` fill="%s"`, p.Fill)
		if op := canvas.Opacity(p.FillAlpha); op < 1 {
			fmt.Fprintf(&r.buf, ` fill-opacity="%.2f"`, op)
		}
	}
	r.stroke(p.Stroke)
	r.buf.WriteString("/>\n")
}

func (r *svgRenderer) Arrow(a canvas.Arrow) {
	left, right := a.Head()
	fmt.Fprintf(&r.buf, `  <g stroke="%s" stroke-width="%.2f" stroke-linecap="round" fill="none">`+"\n", a.Color, a.Width)
	fmt.Fprintf(&r.buf, `    <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f"/>`+"\n",
		r.x(a.From.X), r.y(a.From.Y), r.x(a.To.X), r.y(a.To.Y))
	fmt.Fprintf(&r.buf, `    <polyline points="%s" stroke-linejoin="round"/>`+"\n",
		r.points([]canvas.Point{left, a.To, right}))
	r.buf.WriteString("  </g>\n")
}

func (r *svgRenderer) Text(t canvas.Text) {
	if !t.Box.IsZero() {
		r.Rect(t.BadgeRect())
	}

	anchor := "middle"
	switch t.Align {
	case canvas.AlignLeft:
		anchor = "start"
	case canvas.AlignRight:
		anchor = "end"
	}
	family := fontFamilySans
	if t.Font.Mono {
		family = fontFamilyMono
	}

	var attrs strings.Builder
	fmt.Fprintf(&attrs, `text-anchor="%s" dominant-baseline="central" font-family="%s" font-size="%.1f" fill="%s"`,
		anchor, family, t.Font.Size, t.Color)
	if t.Font.Bold {
		attrs.WriteString(` font-weight="bold"`)
	}
	if t.Font.Italic {
		attrs.WriteString(` font-style="italic"`)
	}
	if op := canvas.Opacity(t.Alpha); op < 1 {
		fmt.Fprintf(&attrs, ` opacity="%.2f"`, op)
	}

	lines := t.Lines()
	for i, cy := range t.LineCenters() {
		fmt.Fprintf(&r.buf, `  <text x="%.2f" y="%.2f" %s>%s</text>`+"\n",
			r.x(t.At.X), r.y(cy), attrs.String(), escapeXML(lines[i]))
	}
}

func (r *svgRenderer) paint(fill string, s canvas.Stroke, alpha float64) {
	if palette.IsNone(fill) {
		r.buf.WriteString(` fill="none"`)
	} else {
		fmt.Fprintf(&r.buf, ` fill="%s"`, fill)
	}
	r.stroke(s)
	if op := canvas.Opacity(alpha); op < 1 {
		fmt.Fprintf(&r.buf, ` opacity="%.2f"`, op)
	}
}

func (r *svgRenderer) stroke(s canvas.Stroke) {
	if !s.Visible() {
		return
	}
	fmt.Fprintf(&r.buf, ` stroke="%s" stroke-width="%.2f"`, s.Color, s.Width)
	if s.Dashed {
		fmt.Fprintf(&r.buf, ` stroke-dasharray="%.1f,%.1f"`, s.Width*3.7, s.Width*1.6)
	}
}

func (r *svgRenderer) points(pts []canvas.Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = fmt.Sprintf("%.2f,%.2f", r.x(p.X), r.y(p.Y))
	}
	return strings.Join(parts, " ")
}

func escapeXML(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
