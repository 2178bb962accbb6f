package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"sync"

	"github.com/goccy/go-graphviz"

	"github.com/agenticinfraops/infraviz/pkg/errors"
	"github.com/agenticinfraops/infraviz/pkg/render"
)

// RenderSVG lays out g with Graphviz and returns SVG in points.
// Any dpi attribute on g is ignored so the SVG stays resolution independent.
func RenderSVG(ctx context.Context, g *Graph) ([]byte, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	svg, err := renderDOT(ctx, g.With(Attrs{"dpi": "72"}).String(), graphviz.SVG)
	if err != nil {
		return nil, err
	}
	return normalizeViewBox(svg), nil
}

// RenderPNG lays out g with Graphviz and rasterizes it at dpi.
func RenderPNG(ctx context.Context, g *Graph, dpi float64) ([]byte, error) {
	if err := errors.ValidateDPI(dpi); err != nil {
		return nil, err
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	src := g.With(Attrs{"dpi": strconv.FormatFloat(dpi, 'f', -1, 64)}).String()
	return renderDOT(ctx, src, graphviz.PNG)
}

// RenderPDF renders g as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, g *Graph) ([]byte, error) {
	svg, err := RenderSVG(ctx, g)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// graphvizMu serializes Graphviz calls. The package-level parser and every
// renderer share one WASM module whose memory is not safe for concurrent use.
var graphvizMu sync.Mutex

func renderDOT(ctx context.Context, src string, format graphviz.Format) ([]byte, error) {
	graphvizMu.Lock()
	defer graphvizMu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(src))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidGraph, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, format, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "render %s", format)
	}
	return buf.Bytes(), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element with a zero-origin viewBox and
// matching width/height, dropping the pt units Graphviz writes.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(tag))
}
