package canvas

import (
	"strings"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
)

// LineSpacing is the distance between baselines as a multiple of font size.
const LineSpacing = 1.2

// Align is the horizontal anchor of a text block.
type Align int

const (
	AlignCenter Align = iota
	AlignLeft
	AlignRight
)

// Font selects a face of the Go font family.
type Font struct {
	Size   float64 // points
	Bold   bool
	Italic bool
	Mono   bool
}

// Badge draws a rounded box behind a text block.
// Pad is a multiple of the font size, as in a "round,pad=.." bbox.
type Badge struct {
	Fill   string
	Stroke Stroke
	Pad    float64
}

// IsZero reports whether no badge is requested.
func (b Badge) IsZero() bool { return b.Fill == "" && !b.Stroke.Visible() }

// Text is a possibly multi-line label anchored at At. Lines are separated
// by '\n' and the block is vertically centered on At.Y.
type Text struct {
	At      Point
	Content string
	Font    Font
	Color   string
	Align   Align
	Alpha   float64
	Box     Badge
}

// Lines splits the content on newlines.
func (t Text) Lines() []string { return strings.Split(t.Content, "\n") }

// LineCenters returns the vertical center of every line in data units,
// top line first.
func (t Text) LineCenters() []float64 {
	lines := t.Lines()
	lh := t.Font.Size * LineSpacing / PointsPerUnit
	top := t.At.Y + float64(len(lines)-1)*lh/2
	ys := make([]float64, len(lines))
	for i := range lines {
		ys[i] = top - float64(i)*lh
	}
	return ys
}

// BadgeRect returns the rectangle drawn behind the text when Box is set.
func (t Text) BadgeRect() Rect {
	w, h := Measure(t.Content, t.Font)
	w /= PointsPerUnit
	h /= PointsPerUnit
	pad := t.Box.Pad * t.Font.Size / PointsPerUnit

	var x float64
	switch t.Align {
	case AlignLeft:
		x = t.At.X
	case AlignRight:
		x = t.At.X - w
	default:
		x = t.At.X - w/2
	}
	return Rect{
		X: x, Y: t.At.Y - h/2, W: w, H: h,
		Pad:    pad,
		Radius: pad,
		Fill:   t.Box.Fill,
		Stroke: t.Box.Stroke,
	}
}

func (t Text) drawOn(dst Renderer) { dst.Text(t) }

var (
	fontsOnce sync.Once
	fontsErr  error
	fonts     map[fontKey]*truetype.Font
)

type fontKey struct{ bold, italic, mono bool }

func loadFonts() {
	src := map[fontKey][]byte{
		{false, false, false}: goregular.TTF,
		{true, false, false}:  gobold.TTF,
		{false, true, false}:  goitalic.TTF,
		{true, true, false}:   gobolditalic.TTF,
		{false, false, true}:  gomono.TTF,
		{true, false, true}:   gomonobold.TTF,
		{false, true, true}:   gomono.TTF,
		{true, true, true}:    gomonobold.TTF,
	}
	fonts = make(map[fontKey]*truetype.Font, len(src))
	for k, ttf := range src {
		f, err := truetype.Parse(ttf)
		if err != nil {
			fontsErr = err
			return
		}
		fonts[k] = f
	}
}

// Face returns a new font face for f at the given resolution.
// Faces keep a glyph cache and must not be shared between goroutines.
func Face(f Font, dpi float64) (font.Face, error) {
	fontsOnce.Do(loadFonts)
	if fontsErr != nil {
		return nil, fontsErr
	}
	size := f.Size
	if size <= 0 {
		size = 10
	}
	return truetype.NewFace(fonts[fontKey{f.Bold, f.Italic, f.Mono}], &truetype.Options{
		Size:    size,
		DPI:     dpi,
		Hinting: font.HintingNone,
	}), nil
}

// Measure returns the width and height of a text block in points.
// Width is that of the widest line; height is lines x size x LineSpacing.
func Measure(s string, f Font) (w, h float64) {
	face, err := Face(f, PointsPerUnit)
	if err != nil {
		return 0, 0
	}
	defer face.Close()

	lines := strings.Split(s, "\n")
	for _, line := range lines {
		adv := font.MeasureString(face, line)
		w = max(w, float64(adv)/64)
	}
	return w, float64(len(lines)) * f.Size * LineSpacing
}

// Renderable drops runes the font has no glyph for, such as emoji icons,
// and trims the leftover surrounding spaces.
func Renderable(f Font, s string) string {
	fontsOnce.Do(loadFonts)
	if fontsErr != nil {
		return s
	}
	ttf := fonts[fontKey{f.Bold, f.Italic, f.Mono}]

	var b strings.Builder
	for _, r := range s {
		if r == ' ' || r == '\n' || ttf.Index(r) != 0 {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}
