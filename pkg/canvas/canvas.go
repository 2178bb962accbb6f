package canvas

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"
)

// PointsPerUnit is the number of points in one data unit (one inch).
const PointsPerUnit = 72.0

// Point is a position in data units.
type Point struct{ X, Y float64 }

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p translated by (dx, dy).
func (p Point) Add(dx, dy float64) Point { return Point{p.X + dx, p.Y + dy} }

// Stroke describes an outline. A zero Width means no outline.
type Stroke struct {
	Color  string
	Width  float64 // points
	Dashed bool
}

// Visible reports whether the stroke paints anything.
func (s Stroke) Visible() bool { return s.Width > 0 && s.Color != "" && s.Color != "none" }

// Figure is a drawing surface with fixed data limits.
type Figure struct {
	Width      float64
	Height     float64
	Background string
	Shapes     []Shape
}

// New creates an empty figure of w x h inches.
func New(w, h float64, background string) *Figure {
	return &Figure{Width: w, Height: h, Background: background}
}

// Add appends shapes in painting order.
func (f *Figure) Add(shapes ...Shape) {
	f.Shapes = append(f.Shapes, shapes...)
}

// Draw replays the figure onto r.
func (f *Figure) Draw(r Renderer) {
	r.Begin(f.Width, f.Height, f.Background)
	for _, s := range f.Shapes {
		s.drawOn(r)
	}
	r.End()
}

// Fingerprint returns a stable SHA-256 digest of the figure contents.
// Two figures with equal fingerprints render to identical output.
func (f *Figure) Fingerprint() string {
	h := sha256.New()
	fmt.Fprintf(h, "%g|%g|%s\n", f.Width, f.Height, f.Background)
	for _, s := range f.Shapes {
		fmt.Fprintf(h, "%T%+v\n", s, s)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Renderer is implemented by output backends.
type Renderer interface {
	Begin(width, height float64, background string)
	Rect(Rect)
	Circle(Circle)
	Line(Line)
	Polygon(Polygon)
	Arrow(Arrow)
	Text(Text)
	End()
}

// Shape is one of the drawable primitives of this package.
type Shape interface {
	drawOn(Renderer)
}

// Opacity converts a shape alpha to [0, 1]; zero means fully opaque.
func Opacity(alpha float64) float64 {
	if alpha <= 0 {
		return 1
	}
	return math.Min(alpha, 1)
}

// Rect is an axis-aligned rectangle anchored at its lower-left corner.
// Pad grows the box outward on every side and Radius rounds its corners,
// mirroring a "round,pad=..,rounding_size=.." fancy box.
type Rect struct {
	X, Y, W, H float64
	Pad        float64
	Radius     float64
	Fill       string
	Stroke     Stroke
	Alpha      float64
}

// Bounds returns the padded box as lower-left corner plus size.
func (r Rect) Bounds() (x, y, w, h float64) {
	return r.X - r.Pad, r.Y - r.Pad, r.W + 2*r.Pad, r.H + 2*r.Pad
}

func (r Rect) drawOn(dst Renderer) { dst.Rect(r) }

// Circle is a filled and/or stroked circle.
type Circle struct {
	Center Point
	R      float64
	Fill   string
	Stroke Stroke
	Alpha  float64
}

func (c Circle) drawOn(dst Renderer) { dst.Circle(c) }

// Line is an open polyline.
type Line struct {
	Points []Point
	Stroke Stroke
	Alpha  float64
}

func (l Line) drawOn(dst Renderer) { dst.Line(l) }

// Polygon is a closed polyline. FillAlpha applies to the fill only.
type Polygon struct {
	Points    []Point
	Fill      string
	FillAlpha float64
	Stroke    Stroke
}

func (p Polygon) drawOn(dst Renderer) { dst.Polygon(p) }

// Arrow is a straight connector with an open head at To.
type Arrow struct {
	From, To Point
	Color    string
	Width    float64 // points
	HeadSize float64 // points
}

// Head returns the two barb end points of the arrow head in data units.
func (a Arrow) Head() (Point, Point) {
	dx, dy := a.To.X-a.From.X, a.To.Y-a.From.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return a.To, a.To
	}
	size := a.HeadSize / PointsPerUnit
	if size == 0 {
		size = 10 / PointsPerUnit
	}
	ux, uy := dx/length, dy/length
	const spread = math.Pi / 6
	cos, sin := math.Cos(spread), math.Sin(spread)
	left := Point{
		a.To.X - size*(ux*cos-uy*sin),
		a.To.Y - size*(uy*cos+ux*sin),
	}
	right := Point{
		a.To.X - size*(ux*cos+uy*sin),
		a.To.Y - size*(uy*cos-ux*sin),
	}
	return left, right
}

func (a Arrow) drawOn(dst Renderer) { dst.Arrow(a) }
