package infographic

import "github.com/agenticinfraops/infraviz/pkg/canvas"

type textOpt func(*canvas.Text)

func bold(t *canvas.Text)   { t.Font.Bold = true }
func italic(t *canvas.Text) { t.Font.Italic = true }
func mono(t *canvas.Text)   { t.Font.Mono = true }
func left(t *canvas.Text)   { t.Align = canvas.AlignLeft }
func right(t *canvas.Text)  { t.Align = canvas.AlignRight }

func alpha(a float64) textOpt {
	return func(t *canvas.Text) { t.Alpha = a }
}

func badge(fill, stroke string, width float64) textOpt {
	return func(t *canvas.Text) {
		t.Box = canvas.Badge{Fill: fill, Stroke: canvas.Stroke{Color: stroke, Width: width}, Pad: 0.2}
	}
}

// text returns a label centered on (x, y).
func text(x, y float64, s string, size float64, color string, opts ...textOpt) canvas.Text {
	t := canvas.Text{
		At:      canvas.Pt(x, y),
		Content: s,
		Font:    canvas.Font{Size: size},
		Color:   color,
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// dashed is the light-azure connector used between boxes.
func dashed(color string, pts ...canvas.Point) canvas.Line {
	return canvas.Line{
		Points: pts,
		Stroke: canvas.Stroke{Color: color, Width: 1.5, Dashed: true},
		Alpha:  0.7,
	}
}

// footer is the short link printed at the bottom of every figure.
const footer = "aka.ms/agenticinfraops"
