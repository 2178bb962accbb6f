// Package canvas provides a fixed-coordinate vector drawing model.
//
// # Overview
//
// Infographics are laid out on a [Figure] whose data units are inches: a
// 14x7 figure spans x in [0, 14] and y in [0, 7], with y growing upward the
// way plot axes do. Shapes are appended in painting order and replayed onto a
// [Renderer] by [Figure.Draw]; the [sink] subpackage provides SVG, PNG and PDF
// renderers.
//
//	fig := canvas.New(14, 7, palette.White)
//	fig.Add(
//	    canvas.Rect{X: 0.7, Y: 4.6, W: 2.6, H: 1.3, Radius: 0.15, Fill: palette.Light},
//	    canvas.Text{At: canvas.Pt(2, 5.4), Content: "$19", Font: canvas.Font{Size: 22, Bold: true}},
//	)
//	svg := sink.RenderSVG(fig)
//
// # Units
//
// Positions and sizes of shapes are in data units (inches). Line widths,
// font sizes and arrow heads are in points (1/72 inch), so they keep their
// visual weight at every output resolution.
//
// # Text Metrics
//
// [Measure] computes text extents from the embedded Go font family, which
// both renderers use. Badge boxes around text therefore have the same size in
// SVG and PNG output.
//
// [sink]: github.com/agenticinfraops/infraviz/pkg/canvas/sink
package canvas
