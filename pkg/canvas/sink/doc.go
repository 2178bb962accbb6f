// Package sink renders a [canvas.Figure] to output formats.
//
//   - SVG: hand-written vector output, 72 user units per inch
//   - PNG: raster output through fogleman/gg at a chosen DPI
//   - PDF: print output converted from SVG (requires rsvg-convert)
//
// Basic usage:
//
//	svg := sink.RenderSVG(fig)
//	png, err := sink.RenderPNG(fig, 300)
//	pdf, err := sink.RenderPDF(ctx, fig)
//
// SVG text keeps every rune, including emoji icons, and relies on the
// viewer's font fallback. PNG text is drawn with the embedded Go fonts and
// drops runes they have no glyph for.
package sink
